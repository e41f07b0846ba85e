package sim

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/news"
	"github.com/zappabad/agentmarket/internal/oracle"
)

// failingOracle errors on every call, forcing the fallback path.
type failingOracle struct{}

func (failingOracle) Decide(context.Context, oracle.Request) (oracle.Decision, error) {
	return oracle.Decision{}, oracle.ErrUnavailable
}

// rogueOracle answers with decisions that must be rejected by
// validation.
type rogueOracle struct{}

func (rogueOracle) Decide(context.Context, oracle.Request) (oracle.Decision, error) {
	return oracle.Decision{Action: agent.ActionBuy, Size: -1e9}, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.News.Seed = 7
	cfg.Market.Seed = 8
	return cfg
}

func run(t *testing.T, s *Simulator, steps int) []StepRecord {
	t.Helper()
	out := make([]StepRecord, 0, steps)
	for i := 0; i < steps; i++ {
		out = append(out, s.Step(context.Background()))
	}
	return out
}

func requireInvariants(t *testing.T, recs []StepRecord) {
	t.Helper()
	for _, rec := range recs {
		require.Greater(t, rec.Price, 0.0, "step %d: price must stay positive", rec.Step)
		require.GreaterOrEqual(t, rec.Sentiment, -1.0)
		require.LessOrEqual(t, rec.Sentiment, 1.0)
		for _, as := range rec.Agents {
			require.GreaterOrEqual(t, as.Portfolio.Cash, 0.0,
				"step %d agent %d: negative cash", rec.Step, as.ID)
			require.GreaterOrEqual(t, as.Portfolio.Shares, 0.0,
				"step %d agent %d: negative shares", rec.Step, as.ID)
			require.GreaterOrEqual(t, as.IntendedSize, as.ExecutedSize-1e-9,
				"executed size cannot exceed intended size")
		}
	}
}

func TestStepProducesCompleteRecord(t *testing.T) {
	s, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)

	rec := s.Step(context.Background())
	require.Equal(t, 0, rec.Step)
	require.Len(t, rec.Agents, len(testConfig().Roster))
	require.Equal(t, rec.Price, s.Snapshot().Price)
	requireInvariants(t, []StepRecord{rec})
}

func TestInvariantsOverLongRun(t *testing.T) {
	s, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)
	requireInvariants(t, run(t, s, 500))
}

func TestSentimentIsMeanOfAgents(t *testing.T) {
	s, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)

	recs := run(t, s, 20)
	for _, rec := range recs {
		var sum float64
		for _, as := range rec.Agents {
			sum += as.Belief.Sentiment
		}
		require.InDelta(t, sum/float64(len(rec.Agents)), rec.Sentiment, 1e-9)
	}
}

func TestDeterministicRuns(t *testing.T) {
	a, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)
	b, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)

	require.Equal(t, run(t, a, 100), run(t, b, 100),
		"same seeds and fallback-only oracle must reproduce the run")
}

func TestResetReproducesFreshRun(t *testing.T) {
	s, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)

	first := run(t, s, 50)
	firstID := s.RunID()

	require.NoError(t, s.Reset())
	require.NotEqual(t, firstID, s.RunID(), "reset starts a new run")
	require.Empty(t, s.History())
	require.Equal(t, testConfig().InitialPrice, s.Snapshot().Price)

	require.Equal(t, first, run(t, s, 50))
}

func TestOracleFailureInjection(t *testing.T) {
	s, err := New(testConfig(), failingOracle{}, zerolog.Nop())
	require.NoError(t, err)

	recs := run(t, s, 100)
	require.Len(t, recs, 100)
	requireInvariants(t, recs)

	// A dead oracle must be indistinguishable from running fallback-only.
	fb, err := New(testConfig(), nil, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, run(t, fb, 100), recs)
}

func TestInvalidOracleDecisionsAreDiscarded(t *testing.T) {
	s, err := New(testConfig(), rogueOracle{}, zerolog.Nop())
	require.NoError(t, err)
	requireInvariants(t, run(t, s, 50))
}

func TestHistoryCap(t *testing.T) {
	cfg := testConfig()
	cfg.HistoryCap = 10
	s, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	run(t, s, 25)
	hist := s.History()
	require.Len(t, hist, 10)
	require.Equal(t, 15, hist[0].Step, "oldest records are dropped")
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-positive price", func(c *Config) { c.InitialPrice = 0 }},
		{"empty roster", func(c *Config) { c.Roster = nil }},
		{"negative cash", func(c *Config) { c.InitialCash = -1 }},
		{"zero max order", func(c *Config) { c.MaxOrderSize = 0 }},
		{"zero oracle timeout", func(c *Config) { c.OracleTimeout = 0 }},
		{"negative weight", func(c *Config) { c.News.PositiveWeight = -1 }},
		{"all-zero weights", func(c *Config) {
			c.News.PositiveWeight = 0
			c.News.NegativeWeight = 0
			c.News.NeutralWeight = 0
		}},
		{"bad quiet prob", func(c *Config) { c.News.QuietProb = 1.5 }},
		{"negative volatility", func(c *Config) { c.Market.Volatility = -0.1 }},
		{"floor fraction too high", func(c *Config) { c.Market.FloorFrac = 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			_, err := New(cfg, nil, zerolog.Nop())
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// TestSingleCalmAgentScenario walks the canonical hand-checkable case:
// one calm agent, strongly positive news, no randomness anywhere.
func TestSingleCalmAgentScenario(t *testing.T) {
	cfg := testConfig()
	cfg.InitialPrice = 100
	cfg.InitialCash = 1000
	cfg.InitialShares = 0
	cfg.Roster = []agent.Type{agent.TypeCalm}
	cfg.News.QuietProb = 0
	cfg.News.PositiveWeight = 1
	cfg.News.NegativeWeight = 0
	cfg.News.NeutralWeight = 0
	cfg.News.MagnitudeMean = 1
	cfg.News.MagnitudeSigma = 0
	cfg.Market.Volatility = 0

	s, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	rec := s.Step(context.Background())

	require.Equal(t, news.CategoryPositive, rec.News.Category)
	require.Equal(t, 1.0, rec.News.Magnitude)

	as := rec.Agents[0]
	assert.Equal(t, agent.OutlookBullish, as.Belief.Outlook)
	assert.Equal(t, agent.ActionBuy, as.Intention.Action)
	assert.Greater(t, as.ExecutedSize, 0.0)
	assert.LessOrEqual(t, as.ExecutedSize*rec.Price, 1000.0+1e-9,
		"executed buy is capped by affordable cash")

	assert.Greater(t, rec.Price, 100.0)
	assert.Less(t, as.Portfolio.Cash, 1000.0)
	assert.Greater(t, as.Portfolio.Shares, 0.0)
	assert.Greater(t, rec.BuyVolume, 0.0)
	assert.Zero(t, rec.SellVolume)
}

// TestSellWithNoShares confirms a bearish agent holding nothing
// settles as a no-op.
func TestSellWithNoShares(t *testing.T) {
	cfg := testConfig()
	cfg.InitialShares = 0
	cfg.Roster = []agent.Type{agent.TypePessimistic}
	cfg.News.QuietProb = 0
	cfg.News.PositiveWeight = 0
	cfg.News.NegativeWeight = 1
	cfg.News.NeutralWeight = 0
	cfg.News.MagnitudeMean = 1
	cfg.News.MagnitudeSigma = 0
	cfg.Market.Volatility = 0

	s, err := New(cfg, nil, zerolog.Nop())
	require.NoError(t, err)

	rec := s.Step(context.Background())
	as := rec.Agents[0]

	require.Equal(t, agent.ActionSell, as.Intention.Action)
	require.Zero(t, as.ExecutedSize)
	require.Equal(t, cfg.InitialCash, as.Portfolio.Cash)
	require.Zero(t, as.Portfolio.Shares)
	require.Zero(t, rec.SellVolume)
}
