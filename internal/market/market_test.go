package market

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/news"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Volatility = 0 // deterministic price path
	return cfg
}

func newAgent(id agent.ID, cash, shares float64) *agent.Agent {
	return agent.New(id, agent.TypeCalm, agent.DefaultConfig(), cash, shares)
}

func TestPositiveNewsRaisesPrice(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())

	st := m.Settle(nil, news.Event{Category: news.CategoryPositive, Magnitude: 1})
	require.Greater(t, st.Price, 100.0)
	require.Equal(t, st.Price, m.Price())
}

func TestNegativeNewsLowersPrice(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())

	st := m.Settle(nil, news.Event{Category: news.CategoryNegative, Magnitude: 1})
	require.Less(t, st.Price, 100.0)
}

func TestPriceFloorHolds(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxStepMove = 0 // no circuit breaker, worst case
	m := New(100, cfg, zerolog.Nop())

	seller := newAgent(1, 0, 1e9)
	for i := 0; i < 500; i++ {
		orders := []Order{{Agent: seller, Quantity: -1e6}}
		st := m.Settle(orders, news.Event{Category: news.CategoryNegative, Magnitude: 1})
		require.Greater(t, st.Price, 0.0, "price must stay strictly positive")
	}
	require.InDelta(t, 100*cfg.FloorFrac, m.Price(), 1e-9)
}

func TestCircuitBreakerCapsStepMove(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxStepMove = 0.1
	cfg.NewsWeight = 10 // absurd impact, must be clamped
	m := New(100, cfg, zerolog.Nop())

	st := m.Settle(nil, news.Event{Category: news.CategoryPositive, Magnitude: 1})
	require.InDelta(t, 110, st.Price, 1e-9)
}

func TestFlowTermSaturates(t *testing.T) {
	cfg := quietConfig()
	cfg.MaxStepMove = 0
	m := New(100, cfg, zerolog.Nop())

	buyer := newAgent(1, 1e12, 0)
	st := m.Settle([]Order{{Agent: buyer, Quantity: 1e9}}, news.Event{Category: news.CategoryNeutral})

	// tanh caps the flow term at FlowWeight no matter the order size.
	require.LessOrEqual(t, st.Price, 100*(1+cfg.FlowWeight)+1e-9)
}

func TestBatchSettlesAtSinglePrice(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())

	a := newAgent(1, 10000, 0)
	b := newAgent(2, 0, 50)
	orders := []Order{
		{Agent: a, Quantity: 10},
		{Agent: b, Quantity: -20},
	}
	st := m.Settle(orders, news.Event{Category: news.CategoryNeutral})

	require.Len(t, st.Fills, 2)
	require.Equal(t, 10.0, st.Fills[0].Executed)
	require.Equal(t, -20.0, st.Fills[1].Executed)
	require.Equal(t, 10.0, st.BuyVolume)
	require.Equal(t, 20.0, st.SellVolume)
	require.Equal(t, -10.0, st.NetFlow)

	// Both legs cleared at the settlement price.
	require.InDelta(t, 10000-10*st.Price, a.Portfolio().Cash, 1e-9)
	require.InDelta(t, 20*st.Price, b.Portfolio().Cash, 1e-9)
}

func TestBuyRecappedWhenPriceGapsUp(t *testing.T) {
	cfg := quietConfig()
	cfg.NewsWeight = 0.2
	m := New(100, cfg, zerolog.Nop())

	// Affords exactly 10 shares at the old price; fewer at the new one.
	a := newAgent(1, 1000, 0)
	st := m.Settle([]Order{{Agent: a, Quantity: 10}}, news.Event{Category: news.CategoryPositive, Magnitude: 1})

	require.Greater(t, st.Price, 100.0)
	require.Less(t, st.Fills[0].Executed, 10.0)
	require.GreaterOrEqual(t, a.Portfolio().Cash, 0.0)
}

func TestDeterministicNoise(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99

	a := New(100, cfg, zerolog.Nop())
	b := New(100, cfg, zerolog.Nop())
	for i := 0; i < 50; i++ {
		ev := news.Event{Category: news.CategoryNeutral}
		require.Equal(t, a.Settle(nil, ev).Price, b.Settle(nil, ev).Price)
	}
}

func TestTrend(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())
	require.Nil(t, m.Trend(5), "no deltas before the first settlement")

	m.Settle(nil, news.Event{Category: news.CategoryPositive, Magnitude: 0.5})
	m.Settle(nil, news.Event{Category: news.CategoryNegative, Magnitude: 0.5})

	trend := m.Trend(5)
	require.Len(t, trend, 2)
	assert.Greater(t, trend[0], 0.0)
	assert.Less(t, trend[1], 0.0)

	require.Len(t, m.Trend(1), 1)
}

func TestHistoryAndStats(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())
	for i := 0; i < 10; i++ {
		m.Settle(nil, news.Event{Category: news.CategoryPositive, Magnitude: 0.5})
	}

	hist := m.History()
	require.Len(t, hist, 11)
	require.Equal(t, 100.0, hist[0])

	// Mutating the copy must not touch the market.
	hist[0] = -1
	require.Equal(t, 100.0, m.History()[0])

	s := m.Stats()
	require.Equal(t, m.Price(), s.Price)
	require.Greater(t, s.Change, 0.0)
	require.Equal(t, 100.0, s.Min)
	require.Equal(t, m.Price(), s.Max)
	require.GreaterOrEqual(t, s.Volatility, 0.0)
}

func TestCumulativeFlow(t *testing.T) {
	m := New(100, quietConfig(), zerolog.Nop())
	a := newAgent(1, 1e9, 1e9)

	m.Settle([]Order{{Agent: a, Quantity: 30}}, news.Event{Category: news.CategoryNeutral})
	m.Settle([]Order{{Agent: a, Quantity: -10}}, news.Event{Category: news.CategoryNeutral})
	require.Equal(t, 20.0, m.CumulativeFlow())
	require.Equal(t, 2, m.Step())
}
