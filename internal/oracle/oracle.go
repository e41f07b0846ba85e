// Package oracle is the decision boundary of the simulation. An Oracle
// maps an agent's situation onto a trading decision; the simulation
// works identically whether the backing implementation is a remote
// model or the deterministic fallback rule.
package oracle

import (
	"context"
	"errors"
	"math"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/news"
)

var (
	// ErrUnavailable means the oracle backend could not be reached or
	// did not answer in time.
	ErrUnavailable = errors.New("oracle unavailable")
	// ErrMalformed means the oracle answered but the response could
	// not be turned into a valid decision.
	ErrMalformed = errors.New("oracle response malformed")
)

// Request carries everything a decision needs: the agent's situation,
// the step's news and recent price context. It is read-only for the
// oracle.
type Request struct {
	AgentID   agent.ID
	AgentType agent.Type
	Belief    agent.BeliefState
	News      news.Event
	Price     float64
	// Trend holds the last few price deltas, oldest first.
	Trend []float64
}

// Decision is the oracle's answer. It is validated before use; an
// invalid decision is discarded in favor of the fallback rule.
type Decision struct {
	Action    agent.Action
	Size      float64
	Rationale string
}

// Validate reports whether the decision is usable.
func (d Decision) Validate() error {
	switch d.Action {
	case agent.ActionBuy, agent.ActionSell, agent.ActionHold:
	default:
		return ErrMalformed
	}
	if d.Size < 0 || math.IsNaN(d.Size) || math.IsInf(d.Size, 0) {
		return ErrMalformed
	}
	return nil
}

// Oracle decides a trading action for one agent in one step.
// Implementations must respect ctx cancellation; slow backends are cut
// off by the caller's per-call timeout.
type Oracle interface {
	Decide(ctx context.Context, req Request) (Decision, error)
}
