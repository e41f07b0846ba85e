package oracle

import (
	"context"

	"github.com/zappabad/agentmarket/internal/agent"
)

// Fallback is the deterministic stand-in used whenever the real oracle
// is absent, slow or returns garbage. The action follows the agent's
// outlook and the size scales with confidence, the configured maximum
// order and the type's sizing fraction. It never fails.
type Fallback struct {
	maxOrderSize float64
}

// NewFallback creates the rule-based oracle. maxOrderSize caps the
// share quantity of any single order.
func NewFallback(maxOrderSize float64) *Fallback {
	return &Fallback{maxOrderSize: maxOrderSize}
}

// Decide implements Oracle.
func (f *Fallback) Decide(_ context.Context, req Request) (Decision, error) {
	bias := req.AgentType.Bias()

	switch req.Belief.Outlook {
	case agent.OutlookBullish:
		return Decision{
			Action:    agent.ActionBuy,
			Size:      req.Belief.Confidence * f.maxOrderSize * bias.BuyFraction,
			Rationale: "outlook bullish, buying on confidence",
		}, nil
	case agent.OutlookBearish:
		return Decision{
			Action:    agent.ActionSell,
			Size:      req.Belief.Confidence * f.maxOrderSize * bias.SellFraction,
			Rationale: "outlook bearish, reducing exposure",
		}, nil
	default:
		return Decision{
			Action:    agent.ActionHold,
			Rationale: "outlook neutral, waiting for a clearer signal",
		}, nil
	}
}
