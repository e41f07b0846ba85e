package sim

import (
	"github.com/google/uuid"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/market"
	"github.com/zappabad/agentmarket/internal/news"
)

// AgentSnapshot freezes one agent's state at the end of a step.
type AgentSnapshot struct {
	ID        agent.ID
	Type      agent.Type
	Belief    agent.BeliefState
	Portfolio agent.Portfolio
	Intention agent.Intention
	// IntendedSize is the size the decision asked for, ExecutedSize
	// what survived portfolio capping and settlement.
	IntendedSize float64
	ExecutedSize float64
}

// StepRecord is the immutable record of one completed step. The
// simulator appends one per step and never touches it again.
type StepRecord struct {
	Step       int
	News       news.Event
	Price      float64
	Sentiment  float64 // mean of all agents' sentiment scores, [-1, 1]
	Agents     []AgentSnapshot
	BuyVolume  float64
	SellVolume float64
}

// Snapshot is the read-only view of the current simulation state
// exposed to presentation layers.
type Snapshot struct {
	RunID     uuid.UUID
	Step      int
	Price     float64
	Sentiment float64
	Stats     market.Stats
	Agents    []AgentSnapshot
}
