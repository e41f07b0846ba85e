package market

// Config holds the price-formation parameters. All outputs stay
// bounded regardless of the values: the flow term saturates, the
// per-step move is clamped by the circuit breaker and the price never
// drops below the floor.
type Config struct {
	// FlowWeight scales the saturated net-order-flow term.
	FlowWeight float64
	// FlowScale is the order-flow magnitude at which the saturating
	// tanh term reaches ~76% of full effect.
	FlowScale float64
	// NewsWeight scales the news impact term.
	NewsWeight float64
	// Volatility is the standard deviation of the zero-mean noise
	// term. Zero disables noise entirely.
	Volatility float64
	// MaxStepMove caps the absolute relative price change per step
	// (circuit breaker). Zero disables the cap.
	MaxStepMove float64
	// FloorFrac sets the price floor as a fraction of the initial
	// price. The floor is always strictly positive.
	FloorFrac float64
	// Seed drives the noise term.
	Seed uint64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		FlowWeight:  0.05,
		FlowScale:   50,
		NewsWeight:  0.05,
		Volatility:  0.01,
		MaxStepMove: 0.2,
		FloorFrac:   0.3,
		Seed:        1,
	}
}
