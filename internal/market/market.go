package market

import (
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/news"
)

const minFloor = 1e-6

// Order pairs a signed quantity with the agent it settles against.
type Order struct {
	Agent    *agent.Agent
	Quantity float64 // positive = buy, negative = sell
}

// Fill reports what actually executed for one agent at the settlement
// price.
type Fill struct {
	Agent    agent.ID
	Executed float64 // signed, after settlement-price re-capping
}

// Settlement summarizes one settled step.
type Settlement struct {
	Price      float64
	NetFlow    float64
	BuyVolume  float64
	SellVolume float64
	Fills      []Fill
}

// Stats is a snapshot of price statistics over the run so far.
type Stats struct {
	Price      float64
	Change     float64
	ChangePct  float64
	Volatility float64 // stddev of per-step returns
	Max        float64
	Min        float64
}

// Market owns the price state of the single traded security. Price
// formation combines net order flow, the step's news and a seeded
// noise term; all trades in a step clear against the one new price.
type Market struct {
	cfg     Config
	initial float64
	price   float64
	step    int
	cumFlow float64
	history []float64
	noise   distuv.Normal
	log     zerolog.Logger
}

// New creates a market at the given starting price. The caller
// validates that the price is positive.
func New(initialPrice float64, cfg Config, log zerolog.Logger) *Market {
	return &Market{
		cfg:     cfg,
		initial: initialPrice,
		price:   initialPrice,
		history: []float64{initialPrice},
		noise:   distuv.Normal{Mu: 0, Sigma: cfg.Volatility, Src: rand.NewSource(cfg.Seed)},
		log:     log.With().Str("component", "market").Logger(),
	}
}

// Price returns the current price.
func (m *Market) Price() float64 { return m.price }

// Step returns the number of settled steps.
func (m *Market) Step() int { return m.step }

// CumulativeFlow returns the net order flow summed over all steps.
func (m *Market) CumulativeFlow() float64 { return m.cumFlow }

// History returns a copy of the price series, index 0 being the
// initial price.
func (m *Market) History() []float64 {
	out := make([]float64, len(m.history))
	copy(out, m.history)
	return out
}

// Trend returns up to k most recent price deltas, oldest first. Agents
// use it as read-only decision context.
func (m *Market) Trend(k int) []float64 {
	n := len(m.history)
	if k <= 0 || n < 2 {
		return nil
	}
	if k > n-1 {
		k = n - 1
	}
	deltas := make([]float64, k)
	for i := 0; i < k; i++ {
		j := n - k + i
		deltas[i] = m.history[j] - m.history[j-1]
	}
	return deltas
}

// Settle computes the new price from the batch of orders and the
// step's news, then clears every order against that single price.
// Buys are re-capped by the agent's cash at the settlement price and
// sells by shares held, so portfolios never go negative.
func (m *Market) Settle(orders []Order, ev news.Event) Settlement {
	var flow float64
	for _, o := range orders {
		flow += o.Quantity
	}

	flowTerm := m.cfg.FlowWeight * saturate(flow, m.cfg.FlowScale)
	newsTerm := ev.Category.Sign() * ev.Magnitude * m.cfg.NewsWeight
	noiseTerm := m.drawNoise()

	move := flowTerm + newsTerm + noiseTerm
	if m.cfg.MaxStepMove > 0 {
		move = clamp(move, -m.cfg.MaxStepMove, m.cfg.MaxStepMove)
	}

	price := m.price * (1 + move)
	if floor := m.floor(); price < floor {
		price = floor
	}

	st := Settlement{Price: price, NetFlow: flow, Fills: make([]Fill, 0, len(orders))}
	for _, o := range orders {
		exec := o.Agent.Fill(o.Quantity, price)
		if exec > 0 {
			st.BuyVolume += exec
		} else {
			st.SellVolume += -exec
		}
		st.Fills = append(st.Fills, Fill{Agent: o.Agent.ID(), Executed: exec})
	}

	m.price = price
	m.step++
	m.cumFlow += flow
	m.history = append(m.history, price)

	m.log.Debug().
		Int("step", m.step).
		Float64("price", price).
		Float64("flow", flow).
		Float64("move", move).
		Msg("settled")
	return st
}

// Stats computes summary statistics over the price history.
func (m *Market) Stats() Stats {
	s := Stats{
		Price:     m.price,
		Change:    m.price - m.initial,
		ChangePct: (m.price - m.initial) / m.initial * 100,
		Max:       m.history[0],
		Min:       m.history[0],
	}
	for _, p := range m.history {
		s.Max = math.Max(s.Max, p)
		s.Min = math.Min(s.Min, p)
	}
	if len(m.history) >= 3 {
		returns := make([]float64, len(m.history)-1)
		for i := 1; i < len(m.history); i++ {
			returns[i-1] = (m.history[i] - m.history[i-1]) / m.history[i-1]
		}
		s.Volatility = stat.StdDev(returns, nil)
	}
	return s
}

// drawNoise samples the bounded zero-mean noise term. The draw is
// truncated at three sigma so a single unlucky sample cannot dominate
// the step.
func (m *Market) drawNoise() float64 {
	if m.cfg.Volatility <= 0 {
		return 0
	}
	v := m.noise.Rand()
	return clamp(v, -3*m.cfg.Volatility, 3*m.cfg.Volatility)
}

func (m *Market) floor() float64 {
	f := m.initial * m.cfg.FloorFrac
	if f < minFloor {
		f = minFloor
	}
	return f
}

// saturate bounds the order-flow term to (-1, 1) so one oversized
// order cannot move the price without limit.
func saturate(flow, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return math.Tanh(flow / scale)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
