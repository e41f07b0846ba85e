package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/market"
	"github.com/zappabad/agentmarket/internal/news/generator"
)

// ErrInvalidConfig marks configuration problems that are fatal at
// construction or reset time. Nothing else makes a step fail.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds everything needed to build a simulated world.
type Config struct {
	InitialPrice  float64
	InitialCash   float64
	InitialShares float64
	// Roster lists the agent population by type, one entry per agent.
	Roster []agent.Type
	// MaxOrderSize caps the share quantity of any single order.
	MaxOrderSize float64
	// TrendWindow is how many recent price deltas agents see.
	TrendWindow int
	// HistoryCap bounds the retained step records. Zero keeps all.
	HistoryCap int
	// OracleParallelism bounds concurrent oracle calls within a step.
	OracleParallelism int
	// OracleTimeout is the mandatory per-call oracle timeout.
	OracleTimeout time.Duration

	News   generator.Config
	Market market.Config
	Agent  agent.Config
}

// DefaultConfig returns a Config with reasonable defaults: five agents
// (two optimistic, two pessimistic, one calm) echoing the classic
// population.
func DefaultConfig() Config {
	return Config{
		InitialPrice: 100,
		InitialCash:  10000,
		Roster: []agent.Type{
			agent.TypeOptimistic, agent.TypeOptimistic,
			agent.TypePessimistic, agent.TypePessimistic,
			agent.TypeCalm,
		},
		MaxOrderSize:      100,
		TrendWindow:       5,
		OracleParallelism: 4,
		OracleTimeout:     10 * time.Second,
		News:              generator.DefaultConfig(),
		Market:            market.DefaultConfig(),
		Agent:             agent.DefaultConfig(),
	}
}

// Validate reports configuration errors. All are wrapped in
// ErrInvalidConfig.
func (c Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.InitialPrice <= 0 {
		return fail("initial price must be positive, got %v", c.InitialPrice)
	}
	if c.InitialCash < 0 || c.InitialShares < 0 {
		return fail("initial holdings must be non-negative")
	}
	if len(c.Roster) == 0 {
		return fail("agent roster is empty")
	}
	if c.MaxOrderSize <= 0 {
		return fail("max order size must be positive, got %v", c.MaxOrderSize)
	}
	if c.OracleTimeout <= 0 {
		return fail("oracle timeout must be positive")
	}
	if c.OracleParallelism < 0 {
		return fail("oracle parallelism must be non-negative")
	}

	n := c.News
	if n.PositiveWeight < 0 || n.NegativeWeight < 0 || n.NeutralWeight < 0 {
		return fail("news category weights must be non-negative")
	}
	if n.PositiveWeight+n.NegativeWeight+n.NeutralWeight <= 0 {
		return fail("news category weights must not all be zero")
	}
	if n.QuietProb < 0 || n.QuietProb > 1 {
		return fail("quiet probability must be in [0, 1], got %v", n.QuietProb)
	}
	if n.MagnitudeSigma < 0 {
		return fail("magnitude sigma must be non-negative")
	}

	m := c.Market
	if m.Volatility < 0 {
		return fail("volatility must be non-negative, got %v", m.Volatility)
	}
	if m.MaxStepMove < 0 {
		return fail("circuit breaker must be non-negative, got %v", m.MaxStepMove)
	}
	if m.FloorFrac < 0 || m.FloorFrac >= 1 {
		return fail("floor fraction must be in [0, 1), got %v", m.FloorFrac)
	}

	return nil
}
