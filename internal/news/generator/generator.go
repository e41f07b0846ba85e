package generator

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zappabad/agentmarket/internal/news"
)

var positiveHeadlines = []string{
	"Quarterly results beat expectations, net profit up sharply",
	"Key patent granted, widening the company's technology moat",
	"Strategic partnership signed with an industry leader",
	"New product launch draws strong demand, order book swells",
	"Analysts raise price target on improving outlook",
	"Large buyback announced, management signals confidence",
	"Favorable sector policy expected to lift earnings",
	"Overseas expansion on track, market share climbing",
}

var negativeHeadlines = []string{
	"Earnings miss estimates, net profit down year on year",
	"Major lawsuit filed, damages exposure unclear",
	"Key customer cuts orders, volumes fall sharply",
	"Regulator tightens rules, core business under pressure",
	"Senior executives depart, raising governance concerns",
	"Product quality issue surfaces, recall risk looms",
	"Analysts downgrade rating and slash price target",
	"Cash flow tightens as debt repayments come due",
}

var neutralHeadlines = []string{
	"Routine filing published, no material changes",
	"Shares drift with the broader market",
	"Company presents at industry conference",
	"Ordinary business reshuffle completed, operations normal",
}

const quietHeadline = "Quiet session, no market-moving news"

// Generator produces one news event per simulation step from a fixed
// categorical distribution. It keeps no memory of prior draws, so the
// event stream is fully determined by the seed and the step sequence.
type Generator struct {
	cfg Config
	rng *rand.Rand
	mag distuv.Normal
}

// New creates a seeded Generator. Weights are taken as-is; New does not
// validate them (the simulator validates configuration at reset).
func New(cfg Config) *Generator {
	src := rand.NewSource(cfg.Seed)
	return &Generator{
		cfg: cfg,
		rng: rand.New(src),
		mag: distuv.Normal{Mu: cfg.MagnitudeMean, Sigma: cfg.MagnitudeSigma, Src: src},
	}
}

// Next draws the news event for the given step.
func (g *Generator) Next(step int) news.Event {
	if g.rng.Float64() < g.cfg.QuietProb {
		return news.Event{Step: step, Category: news.CategoryNeutral, Headline: quietHeadline}
	}

	cat := g.drawCategory()
	return news.Event{
		Step:      step,
		Category:  cat,
		Magnitude: g.drawMagnitude(),
		Headline:  g.headline(cat),
	}
}

func (g *Generator) drawCategory() news.Category {
	total := g.cfg.PositiveWeight + g.cfg.NegativeWeight + g.cfg.NeutralWeight
	r := g.rng.Float64() * total
	if r < g.cfg.PositiveWeight {
		return news.CategoryPositive
	}
	if r < g.cfg.PositiveWeight+g.cfg.NegativeWeight {
		return news.CategoryNegative
	}
	return news.CategoryNeutral
}

// drawMagnitude samples the magnitude, truncated to [0, 1].
func (g *Generator) drawMagnitude() float64 {
	if g.cfg.MagnitudeSigma <= 0 {
		return clamp01(g.cfg.MagnitudeMean)
	}
	return clamp01(g.mag.Rand())
}

func (g *Generator) headline(cat news.Category) string {
	switch cat {
	case news.CategoryPositive:
		return positiveHeadlines[g.rng.Intn(len(positiveHeadlines))]
	case news.CategoryNegative:
		return negativeHeadlines[g.rng.Intn(len(negativeHeadlines))]
	default:
		return neutralHeadlines[g.rng.Intn(len(neutralHeadlines))]
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
