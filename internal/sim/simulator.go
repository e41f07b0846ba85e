package sim

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/zappabad/agentmarket/internal/agent"
	"github.com/zappabad/agentmarket/internal/market"
	"github.com/zappabad/agentmarket/internal/news/generator"
	"github.com/zappabad/agentmarket/internal/oracle"
)

// Simulator owns the agent population, the market and the step
// history. It is not safe for concurrent use: exactly one step runs at
// a time and all mutation goes through Step and Reset.
type Simulator struct {
	cfg Config
	log zerolog.Logger

	// orc may be nil, in which case every decision comes from the
	// deterministic fallback.
	orc      oracle.Oracle
	fallback *oracle.Fallback

	runID   uuid.UUID
	gen     *generator.Generator
	market  *market.Market
	agents  []*agent.Agent
	history []StepRecord
	stepIdx int
}

// New validates the configuration and builds the initial world. orc
// is the remote decision oracle; pass nil to run fallback-only.
func New(cfg Config, orc oracle.Oracle, log zerolog.Logger) (*Simulator, error) {
	s := &Simulator{
		cfg:      cfg,
		log:      log.With().Str("component", "simulator").Logger(),
		orc:      orc,
		fallback: oracle.NewFallback(cfg.MaxOrderSize),
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset discards the whole simulated world and rebuilds it from the
// configuration. Because every stochastic source is reseeded from the
// config, a reset run reproduces a fresh run exactly.
func (s *Simulator) Reset() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	s.runID = uuid.New()
	s.gen = generator.New(s.cfg.News)
	s.market = market.New(s.cfg.InitialPrice, s.cfg.Market, s.log)
	s.agents = make([]*agent.Agent, 0, len(s.cfg.Roster))
	for i, typ := range s.cfg.Roster {
		s.agents = append(s.agents,
			agent.New(agent.ID(i+1), typ, s.cfg.Agent, s.cfg.InitialCash, s.cfg.InitialShares))
	}
	s.history = nil
	s.stepIdx = 0

	s.log.Info().
		Str("run_id", s.runID.String()).
		Int("agents", len(s.agents)).
		Float64("initial_price", s.cfg.InitialPrice).
		Msg("world reset")
	return nil
}

// Step advances the simulation by one tick: news, belief updates,
// decisions, order collection, settlement, record. Oracle trouble
// never fails a step; it degrades to the fallback rule per agent.
func (s *Simulator) Step(ctx context.Context) StepRecord {
	ev := s.gen.Next(s.stepIdx)
	price := s.market.Price()
	trend := s.market.Trend(s.cfg.TrendWindow)

	for _, a := range s.agents {
		a.UpdateBelief(ev)
	}

	reqs := make([]oracle.Request, len(s.agents))
	for i, a := range s.agents {
		reqs[i] = oracle.Request{
			AgentID:   a.ID(),
			AgentType: a.Type(),
			Belief:    a.Belief(),
			News:      ev,
			Price:     price,
			Trend:     trend,
		}
	}
	decs := s.decide(ctx, reqs)

	// Collect every order before anything touches the market, so the
	// whole batch settles against one post-news price.
	orders := make([]market.Order, len(s.agents))
	snaps := make([]AgentSnapshot, len(s.agents))
	for i, a := range s.agents {
		it := agent.Intention{
			Action:    decs[i].Action,
			Size:      decs[i].Size,
			Rationale: decs[i].Rationale,
		}
		ord, _ := a.BuildOrder(it, price)
		orders[i] = market.Order{Agent: a, Quantity: ord.Quantity}
		snaps[i] = AgentSnapshot{
			ID:           a.ID(),
			Type:         a.Type(),
			Intention:    it,
			IntendedSize: it.Size,
		}
	}

	settlement := s.market.Settle(orders, ev)
	for i, a := range s.agents {
		snaps[i].Belief = a.Belief()
		snaps[i].Portfolio = a.Portfolio()
		snaps[i].ExecutedSize = math.Abs(settlement.Fills[i].Executed)
	}

	rec := StepRecord{
		Step:       s.stepIdx,
		News:       ev,
		Price:      settlement.Price,
		Sentiment:  s.sentiment(),
		Agents:     snaps,
		BuyVolume:  settlement.BuyVolume,
		SellVolume: settlement.SellVolume,
	}

	s.history = append(s.history, rec)
	if s.cfg.HistoryCap > 0 && len(s.history) > s.cfg.HistoryCap {
		s.history = s.history[len(s.history)-s.cfg.HistoryCap:]
	}
	s.stepIdx++
	return rec
}

// decide fans the oracle calls out across agents with bounded
// parallelism and a per-call timeout, and joins all results before
// returning. Failed or invalid responses are replaced by the fallback
// decision, never surfaced.
func (s *Simulator) decide(ctx context.Context, reqs []oracle.Request) []oracle.Decision {
	out := make([]oracle.Decision, len(reqs))

	if s.orc == nil {
		for i := range reqs {
			out[i], _ = s.fallback.Decide(ctx, reqs[i])
		}
		return out
	}

	par := s.cfg.OracleParallelism
	if par <= 0 {
		par = 1
	}
	sem := make(chan struct{}, par)

	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, s.cfg.OracleTimeout)
			defer cancel()

			dec, err := s.orc.Decide(callCtx, reqs[i])
			if err == nil {
				err = dec.Validate()
			}
			if err != nil {
				s.log.Warn().
					Err(err).
					Int64("agent", int64(reqs[i].AgentID)).
					Msg("oracle call failed, using fallback")
				dec, _ = s.fallback.Decide(ctx, reqs[i])
			}
			out[i] = dec
		}(i)
	}
	wg.Wait()
	return out
}

func (s *Simulator) sentiment() float64 {
	scores := make([]float64, len(s.agents))
	for i, a := range s.agents {
		scores[i] = a.Belief().Sentiment
	}
	return stat.Mean(scores, nil)
}

// RunID identifies the current world; it changes on every reset.
func (s *Simulator) RunID() uuid.UUID { return s.runID }

// Sentiment returns the current aggregate sentiment index.
func (s *Simulator) Sentiment() float64 { return s.sentiment() }

// History returns a copy of the step records so far.
func (s *Simulator) History() []StepRecord {
	out := make([]StepRecord, len(s.history))
	copy(out, s.history)
	return out
}

// PriceHistory returns a copy of the price series.
func (s *Simulator) PriceHistory() []float64 { return s.market.History() }

// Snapshot returns the current read-only state for presentation.
func (s *Simulator) Snapshot() Snapshot {
	snaps := make([]AgentSnapshot, len(s.agents))
	for i, a := range s.agents {
		snaps[i] = AgentSnapshot{
			ID:        a.ID(),
			Type:      a.Type(),
			Belief:    a.Belief(),
			Portfolio: a.Portfolio(),
		}
	}
	return Snapshot{
		RunID:     s.runID,
		Step:      s.stepIdx,
		Price:     s.market.Price(),
		Sentiment: s.sentiment(),
		Stats:     s.market.Stats(),
		Agents:    snaps,
	}
}
