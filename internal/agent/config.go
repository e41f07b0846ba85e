package agent

// Config holds the belief-update tuning shared by all agents. The
// numbers are model parameters, not calibrated constants, so they live
// in configuration.
type Config struct {
	// ImpactScale converts a bias-weighted news magnitude into a
	// sentiment delta.
	ImpactScale float64
	// ConfidenceGain is how strongly a signal that agrees with the
	// current sentiment pushes confidence toward 1.
	ConfidenceGain float64
	// ConfidenceDecay is the mean-reversion rate of confidence toward
	// ConfidenceBaseline when signals are absent or inconsistent.
	ConfidenceDecay float64
	// ConfidenceBaseline is the neutral resting confidence.
	ConfidenceBaseline float64
	// OutlookThreshold is the absolute sentiment beyond which the
	// outlook turns bullish or bearish.
	OutlookThreshold float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		ImpactScale:        0.4,
		ConfidenceGain:     0.3,
		ConfidenceDecay:    0.2,
		ConfidenceBaseline: 0.5,
		OutlookThreshold:   0.2,
	}
}
