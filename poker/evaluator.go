package poker

import (
	"fmt"
)

// Evaluator classifies hands and resolves showdowns, memoizing through a ScoreCache.
// An Evaluator holds no other state and is safe for concurrent use.
type Evaluator struct {
	cache *ScoreCache
}

// NewEvaluator returns an evaluator backed by cache. A nil cache gets a fresh one.
func NewEvaluator(cache *ScoreCache) *Evaluator {
	if cache == nil {
		cache = NewScoreCache()
	}
	return &Evaluator{cache: cache}
}

// Cache returns the evaluator's score cache
func (e *Evaluator) Cache() *ScoreCache {
	return e.cache
}

// ClassifyFive scores exactly five cards.
func (e *Evaluator) ClassifyFive(cards []Card) (Score, error) {
	if len(cards) != 5 {
		return Score{}, fmt.Errorf("classify: %w: need 5 cards, got %d", ErrInvalidHandSize, len(cards))
	}
	if err := checkCards(cards); err != nil {
		return Score{}, fmt.Errorf("classify: %w", err)
	}
	key := keyFor(cards)
	if s, ok := e.cache.get(key); ok {
		return s.clone(), nil
	}
	s := classify(sortedAscending(cards))
	e.cache.put(key, s)
	return s.clone(), nil
}

// checkCards rejects cards outside the deck; their values would not fit a cache key
func checkCards(cards []Card) error {
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %d of suit %d", ErrInvalidCard, c.Value, c.Suit)
		}
	}
	return nil
}

// classify does the work for ClassifyFive on a value-sorted hand.
func classify(hand []Card) Score {
	isFlush := true
	isStraight := true
	for i := 1; i < len(hand); i++ {
		if hand[i].Suit != hand[0].Suit {
			isFlush = false
		}
		if hand[i].Value != hand[i-1].Value+1 {
			isStraight = false
		}
	}

	// A-2-3-4-5: the ace plays low, so it moves to the front and the five is the top card.
	if !isStraight && hand[0].Value == 2 && hand[1].Value == 3 && hand[2].Value == 4 &&
		hand[3].Value == 5 && hand[4].IsAce() {
		isStraight = true
		hand = append([]Card{hand[4]}, hand[:4]...)
	}

	switch {
	case isStraight && isFlush:
		return newScore(StraightFlush, hand, hand, []Card{hand[4]})
	case isStraight:
		return newScore(Straight, hand, hand, []Card{hand[4]})
	case isFlush:
		return newScore(Flush, hand, hand, sortedDescending(hand))
	}

	// Group by value. Groups are ordered by size, then value, both descending.
	groups := groupByValue(hand)
	switch {
	case len(groups[0]) == 4:
		return newScore(FourOfAKind, hand, groups[0], []Card{groups[0][0]})
	case len(groups[0]) == 3 && len(groups[1]) == 2:
		return newScore(FullHouse, hand, hand, []Card{groups[0][0], groups[1][0]})
	case len(groups[0]) == 3:
		return newScore(ThreeOfAKind, hand, groups[0], []Card{groups[0][0]})
	case len(groups[0]) == 2 && len(groups[1]) == 2:
		used := append(append([]Card{}, groups[0]...), groups[1]...)
		return newScore(TwoPair, hand, used, []Card{groups[0][0], groups[1][0]})
	case len(groups[0]) == 2:
		return newScore(Pair, hand, groups[0], []Card{groups[0][0]})
	}

	desc := sortedDescending(hand)
	return newScore(HighCard, hand, desc[:1], desc)
}

func newScore(category Category, hand, used, high []Card) Score {
	return Score{
		Category:      category,
		Type:          category.Label(),
		CardsUsed:     cloneCards(used),
		HighHandCards: cloneCards(high),
		Hand:          cloneCards(hand),
	}
}

// groupByValue buckets an ascending hand by value.
func groupByValue(hand []Card) [][]Card {
	var groups [][]Card
	for i := 0; i < len(hand); {
		j := i
		for j < len(hand) && hand[j].Value == hand[i].Value {
			j++
		}
		groups = append(groups, sortedDescending(hand[i:j]))
		i = j
	}
	// insertion sort: at most five groups
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && groupLess(groups[j-1], groups[j]); j-- {
			groups[j-1], groups[j] = groups[j], groups[j-1]
		}
	}
	return groups
}

func groupLess(a, b []Card) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a[0].Value < b[0].Value
}

// BestHand returns the strongest five-card score among cards (five or more).
func (e *Evaluator) BestHand(cards []Card) (Score, error) {
	if len(cards) < 5 {
		return Score{}, fmt.Errorf("best hand: %w: need at least 5 cards, got %d", ErrInvalidHandSize, len(cards))
	}
	if len(cards) > 7 {
		return Score{}, fmt.Errorf("best hand: %w: at most 7 cards, got %d", ErrInvalidHandSize, len(cards))
	}
	if err := checkCards(cards); err != nil {
		return Score{}, fmt.Errorf("best hand: %w", err)
	}
	s, err := e.bestOf(sortedAscending(cards))
	if err != nil {
		return Score{}, err
	}
	return s.clone(), nil
}

// bestOf recursively drops one card at a time, keeping the strongest subset.
// Results are cached at every depth so shared sub-hands are scored once.
func (e *Evaluator) bestOf(cards []Card) (Score, error) {
	if len(cards) == 5 {
		return e.ClassifyFive(cards)
	}
	key := keyFor(cards)
	if s, ok := e.cache.get(key); ok {
		return s, nil
	}

	var best Score
	found := false
	sub := make([]Card, len(cards)-1)
	for i := range cards {
		copy(sub, cards[:i])
		copy(sub[i:], cards[i+1:])
		s, err := e.bestOf(sub)
		if err != nil {
			return Score{}, err
		}
		if !found || Compare(s, best) > 0 {
			best = s
			found = true
		}
	}
	e.cache.put(key, best)
	return best, nil
}

// GetScore scores a player's hole cards with the board and stamps the owner.
func (e *Evaluator) GetScore(holeCards, boardCards []Card, owner string) (Score, error) {
	all := make([]Card, 0, len(holeCards)+len(boardCards))
	all = append(all, holeCards...)
	all = append(all, boardCards...)
	s, err := e.BestHand(all)
	if err != nil {
		return Score{}, fmt.Errorf("score %s: %w", owner, err)
	}
	s.Owner = owner
	s.HoleCards = sortedDescending(holeCards)
	return s, nil
}

// ClassifyFive scores five cards with a throwaway cache.
func ClassifyFive(cards []Card) (Score, error) {
	return NewEvaluator(nil).ClassifyFive(cards)
}

// BestHand picks the best five of up to seven cards with a throwaway cache.
func BestHand(cards []Card) (Score, error) {
	return NewEvaluator(nil).BestHand(cards)
}

// GetScore scores hole cards against the board with a throwaway cache.
func GetScore(holeCards, boardCards []Card, owner string) (Score, error) {
	return NewEvaluator(nil).GetScore(holeCards, boardCards, owner)
}
