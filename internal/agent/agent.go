package agent

import (
	"math"

	"github.com/zappabad/agentmarket/internal/news"
)

// Agent owns one belief state and one portfolio. Per step it moves
// through belief update, intention formation and trade execution; the
// simulator drives the phases, the market settles the resulting order.
type Agent struct {
	id        ID
	typ       Type
	cfg       Config
	belief    BeliefState
	portfolio Portfolio
}

// New creates an agent with a neutral belief and the given starting
// holdings. Negative holdings are clamped to zero.
func New(id ID, typ Type, cfg Config, cash, shares float64) *Agent {
	return &Agent{
		id:  id,
		typ: typ,
		cfg: cfg,
		belief: BeliefState{
			Outlook:    OutlookNeutral,
			Confidence: cfg.ConfidenceBaseline,
		},
		portfolio: Portfolio{
			Cash:   math.Max(cash, 0),
			Shares: math.Max(shares, 0),
		},
	}
}

func (a *Agent) ID() ID               { return a.id }
func (a *Agent) Type() Type           { return a.typ }
func (a *Agent) Belief() BeliefState  { return a.belief }
func (a *Agent) Portfolio() Portfolio { return a.portfolio }

// UpdateBelief folds one news event into the agent's belief state.
// Positive news pushes sentiment up and negative news down, each scaled
// by the type's bias multiplier; confidence strengthens on signals that
// agree with the current sentiment and otherwise reverts toward the
// baseline.
func (a *Agent) UpdateBelief(ev news.Event) {
	bias := a.typ.Bias()

	mult := 0.0
	switch ev.Category {
	case news.CategoryPositive:
		mult = bias.PositiveNews
	case news.CategoryNegative:
		mult = bias.NegativeNews
	}

	delta := ev.Category.Sign() * ev.Magnitude * mult * a.cfg.ImpactScale

	consistent := delta != 0 && sameSign(delta, a.belief.Sentiment)
	a.belief.Sentiment = clamp(a.belief.Sentiment+delta, -1, 1)

	if consistent {
		a.belief.Confidence += a.cfg.ConfidenceGain * ev.Magnitude * (1 - a.belief.Confidence)
	} else {
		a.belief.Confidence += a.cfg.ConfidenceDecay * (a.cfg.ConfidenceBaseline - a.belief.Confidence)
	}
	a.belief.Confidence = clamp(a.belief.Confidence, 0, 1)

	switch {
	case a.belief.Sentiment > a.cfg.OutlookThreshold:
		a.belief.Outlook = OutlookBullish
	case a.belief.Sentiment < -a.cfg.OutlookThreshold:
		a.belief.Outlook = OutlookBearish
	default:
		a.belief.Outlook = OutlookNeutral
	}
}

// BuildOrder converts an intention into an order capped by the
// portfolio: buys by affordable quantity at the quoted price, sells by
// shares held. It returns the order and the capped (executable) size.
func (a *Agent) BuildOrder(it Intention, price float64) (Order, float64) {
	switch it.Action {
	case ActionBuy:
		q := it.Size
		if price > 0 {
			q = math.Min(q, a.portfolio.Cash/price)
		}
		q = math.Max(q, 0)
		return Order{Agent: a.id, Quantity: q}, q
	case ActionSell:
		q := math.Max(math.Min(it.Size, a.portfolio.Shares), 0)
		return Order{Agent: a.id, Quantity: -q}, q
	default:
		return Order{Agent: a.id}, 0
	}
}

// Fill applies a settled trade at the settlement price and returns the
// signed quantity that actually executed. Quantities are re-capped at
// the settlement price, so cash and shares cannot go negative even
// when the price moved between order emission and settlement. Only
// market settlement calls Fill.
func (a *Agent) Fill(quantity, price float64) float64 {
	switch {
	case quantity > 0:
		q := quantity
		if price > 0 {
			q = math.Min(q, a.portfolio.Cash/price)
		}
		a.portfolio.Cash -= q * price
		a.portfolio.Shares += q
		// guard against float residue
		if a.portfolio.Cash < 0 {
			a.portfolio.Cash = 0
		}
		return q
	case quantity < 0:
		q := math.Min(-quantity, a.portfolio.Shares)
		a.portfolio.Shares -= q
		a.portfolio.Cash += q * price
		if a.portfolio.Shares < 0 {
			a.portfolio.Shares = 0
		}
		return -q
	default:
		return 0
	}
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
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
