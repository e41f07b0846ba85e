package generator

// Config holds configuration for the news generator.
type Config struct {
	// PositiveWeight, NegativeWeight and NeutralWeight are the relative
	// odds of each category when a material event lands.
	PositiveWeight float64
	NegativeWeight float64
	NeutralWeight  float64
	// QuietProb is the probability that a step produces no material
	// news at all (a zero-magnitude neutral event).
	QuietProb float64
	// MagnitudeMean and MagnitudeSigma parameterize the truncated
	// normal the event magnitude is drawn from. Sigma 0 makes every
	// event land exactly at the mean.
	MagnitudeMean  float64
	MagnitudeSigma float64
	// Seed drives all randomness in the generator. The same seed
	// reproduces the same event sequence.
	Seed uint64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		PositiveWeight: 0.4,
		NegativeWeight: 0.4,
		NeutralWeight:  0.2,
		QuietProb:      0.3,
		MagnitudeMean:  0.5,
		MagnitudeSigma: 0.25,
		Seed:           1,
	}
}
