package poker

// Score is the result of classifying a hand.
//
// Scores produced by an Evaluator are values: slices are cloned before they are
// handed out, so callers may modify what they receive without affecting the cache.
type Score struct {
	Category Category
	Type     string

	// CardsUsed are the cards that define the category (the four cards of quads,
	// all five of a straight, the single top card of a high-card hand).
	CardsUsed []Card

	// HighHandCards break ties within a category, most significant first.
	HighHandCards []Card

	// Hand is the full five-card hand the score was computed from, ascending with
	// an ace-low straight's ace first.
	Hand []Card

	// Owner is set by GetScore; empty for pure classification.
	Owner string

	// HoleCards are the owner's private cards, highest first.
	HoleCards []Card

	// ValidKickers is only set on showdown winners: the owner's hole cards that
	// count as kickers in the final comparison.
	ValidKickers []Card
}

// Kickers returns the cards of the five-card hand that are not part of CardsUsed,
// highest first.
func (s Score) Kickers() []Card {
	var out []Card
	for _, c := range s.Hand {
		if !containsCard(s.CardsUsed, c) {
			out = append(out, c)
		}
	}
	return sortedDescending(out)
}

func (s Score) clone() Score {
	s.CardsUsed = cloneCards(s.CardsUsed)
	s.HighHandCards = cloneCards(s.HighHandCards)
	s.Hand = cloneCards(s.Hand)
	s.HoleCards = cloneCards(s.HoleCards)
	s.ValidKickers = cloneCards(s.ValidKickers)
	return s
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card(nil), cards...)
}

// Compare orders two scores by category, then high hand cards, then kickers.
// It returns 1 if a is stronger, -1 if b is stronger and 0 for equal hands.
func Compare(a, b Score) int {
	switch {
	case a.Category > b.Category:
		return 1
	case a.Category < b.Category:
		return -1
	}
	if c := compareHighHandCards(a, b); c != 0 {
		return c
	}
	return compareValues(values(a.Kickers()), values(b.Kickers()))
}

// compareHighHandCards compares element-wise by value, most significant first.
func compareHighHandCards(a, b Score) int {
	return compareValues(values(a.HighHandCards), values(b.HighHandCards))
}

func compareValues(a, b []int) int {
	n := min(len(a), len(b))
	for i := range n {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	switch {
	case len(a) > len(b):
		return 1
	case len(a) < len(b):
		return -1
	}
	return 0
}
