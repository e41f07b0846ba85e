package agent

// ID uniquely identifies an agent within a simulation.
type ID int64

// Type is the fixed temperament of an agent. It biases how news moves
// the agent's beliefs and how aggressively the fallback rule sizes
// orders. The set is closed: behavior differences are data in the bias
// table, not subtypes.
type Type int8

const (
	TypeCalm Type = iota
	TypeOptimistic
	TypePessimistic
)

func (t Type) String() string {
	switch t {
	case TypeOptimistic:
		return "OPTIMISTIC"
	case TypePessimistic:
		return "PESSIMISTIC"
	case TypeCalm:
		return "CALM"
	default:
		return "UNKNOWN"
	}
}

// Bias holds the per-type multipliers applied during belief updates and
// fallback order sizing.
type Bias struct {
	// PositiveNews and NegativeNews scale the sentiment impact of news
	// in the respective category. An amplifier is > 1, a damper < 1.
	PositiveNews float64
	NegativeNews float64
	// BuyFraction and SellFraction scale the fallback order size for
	// buys and sells.
	BuyFraction  float64
	SellFraction float64
}

var biasTable = map[Type]Bias{
	TypeOptimistic:  {PositiveNews: 1.5, NegativeNews: 0.5, BuyFraction: 0.8, SellFraction: 0.2},
	TypePessimistic: {PositiveNews: 0.5, NegativeNews: 1.5, BuyFraction: 0.3, SellFraction: 0.7},
	TypeCalm:        {PositiveNews: 0.7, NegativeNews: 0.7, BuyFraction: 0.5, SellFraction: 0.4},
}

// Bias returns the bias parameters for the type. Unknown types get the
// calm profile.
func (t Type) Bias() Bias {
	if b, ok := biasTable[t]; ok {
		return b
	}
	return biasTable[TypeCalm]
}

// Outlook is the categorical view derived from the sentiment score.
type Outlook int8

const (
	OutlookNeutral Outlook = iota
	OutlookBullish
	OutlookBearish
)

func (o Outlook) String() string {
	switch o {
	case OutlookBullish:
		return "BULLISH"
	case OutlookBearish:
		return "BEARISH"
	case OutlookNeutral:
		return "NEUTRAL"
	default:
		return "UNKNOWN"
	}
}

// BeliefState is the agent's internal read of the market. Owned
// exclusively by its agent; only the agent's own belief-update phase
// mutates it.
type BeliefState struct {
	Sentiment  float64 // [-1, 1]
	Outlook    Outlook
	Confidence float64 // [0, 1]
}

// Action is a trading decision direction.
type Action int8

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	case ActionHold:
		return "HOLD"
	default:
		return "UNKNOWN"
	}
}

// Intention is a formed but not-yet-executed trading decision. Produced
// fresh each step and discarded after execution.
type Intention struct {
	Action    Action
	Size      float64 // requested share quantity, >= 0
	Rationale string
}

// Portfolio tracks an agent's holdings. Cash and shares never go
// negative: every mutation path caps quantities first.
type Portfolio struct {
	Cash   float64
	Shares float64
}

// Value returns the mark-to-market value of the portfolio.
func (p Portfolio) Value(price float64) float64 {
	return p.Cash + p.Shares*price
}

// Order is the signed quantity an agent submits for the step.
// Positive is a buy, negative a sell.
type Order struct {
	Agent    ID
	Quantity float64
}
