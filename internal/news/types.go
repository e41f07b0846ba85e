package news

// Category classifies the directional tone of a news event.
type Category int8

const (
	CategoryNeutral Category = iota
	CategoryPositive
	CategoryNegative
)

func (c Category) String() string {
	switch c {
	case CategoryPositive:
		return "POSITIVE"
	case CategoryNegative:
		return "NEGATIVE"
	case CategoryNeutral:
		return "NEUTRAL"
	default:
		return "UNKNOWN"
	}
}

// Sign maps a category onto the direction of its price impact.
func (c Category) Sign() float64 {
	switch c {
	case CategoryPositive:
		return 1
	case CategoryNegative:
		return -1
	default:
		return 0
	}
}

// Event is a single piece of market news. Events are value objects:
// created once by the generator, read by every agent in the step,
// never mutated afterwards.
type Event struct {
	Step      int
	Category  Category
	Magnitude float64 // strength of the event in [0, 1]
	Headline  string
}
