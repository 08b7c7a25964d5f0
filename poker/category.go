package poker

// Category is the hand category. Its numeric value is the category score:
// higher categories beat lower ones regardless of card values.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush

	numCategories = int(StraightFlush) + 1
)

// Label returns the phrase used in showdown messages ("a flush", "two pair")
func (c Category) Label() string {
	switch c {
	case HighCard:
		return "a high card"
	case Pair:
		return "a pair"
	case TwoPair:
		return "two pair"
	case ThreeOfAKind:
		return "three of a kind"
	case Flush:
		return "a flush"
	case Straight:
		return "a straight"
	case FullHouse:
		return "a full house"
	case FourOfAKind:
		return "four of a kind"
	case StraightFlush:
		return "a straight flush"
	default:
		return "an unknown hand"
	}
}

// String returns a title-cased category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Categories lists every category from strongest to weakest
var Categories = [...]Category{StraightFlush, FourOfAKind, FullHouse, Flush, Straight, ThreeOfAKind, TwoPair, Pair, HighCard}

// kickerRule describes how ties that survive the high hand cards are broken.
type kickerRule struct {
	// side is the number of cards in the best five that are not part of CardsUsed.
	// Zero means the category has no kickers and an exact tie is a draw.
	side int
}

func (r kickerRule) hasKickers() bool { return r.side > 0 }

// kickerRules is indexed by Category. The length assertion below fails to compile
// if a category is added without a rule.
var kickerRules = [...]kickerRule{
	HighCard:      {side: 4},
	Pair:          {side: 3},
	TwoPair:       {side: 1},
	ThreeOfAKind:  {side: 2},
	Flush:         {side: 0},
	Straight:      {side: 0},
	FullHouse:     {side: 0},
	FourOfAKind:   {side: 1},
	StraightFlush: {side: 0},
}

var _ = [1]struct{}{}[len(kickerRules)-numCategories]

// kickerRuleFor returns the rule for c, or false for a category outside the table.
func kickerRuleFor(c Category) (kickerRule, bool) {
	if int(c) >= len(kickerRules) {
		return kickerRule{}, false
	}
	return kickerRules[c], true
}
