package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFive(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cards    string
		category Category
		label    string
		used     int
		high     []int
	}{
		{"royal flush", "As Ks Qs Js Ts", StraightFlush, "a straight flush", 5, []int{14}},
		{"steel wheel", "5d 4d 3d 2d Ad", StraightFlush, "a straight flush", 5, []int{5}},
		{"four of a kind", "Kh Kd Kc Ks 2h", FourOfAKind, "four of a kind", 4, []int{13}},
		{"full house", "3h 3d 3c 9s 9h", FullHouse, "a full house", 5, []int{3, 9}},
		{"flush", "Kc 9c 7c 4c 2c", Flush, "a flush", 5, []int{13, 9, 7, 4, 2}},
		{"broadway", "Th Jc Qd Ks Ah", Straight, "a straight", 5, []int{14}},
		{"wheel", "Ah 2c 3d 4s 5h", Straight, "a straight", 5, []int{5}},
		{"three of a kind", "7h 7d 7c Ks 2h", ThreeOfAKind, "three of a kind", 3, []int{7}},
		{"two pair", "Jh Jd 4c 4s Ah", TwoPair, "two pair", 4, []int{11, 4}},
		{"pair", "8h 8d Ac 5s 2h", Pair, "a pair", 2, []int{8}},
		{"pair of aces with low cards", "Ah Ad 2c 3d 4s", Pair, "a pair", 2, []int{14}},
		{"high card", "Kh 9d 7c 5s 2h", HighCard, "a high card", 1, []int{13, 9, 7, 5, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := ClassifyFive(MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.category, s.Category)
			assert.Equal(t, tt.label, s.Type)
			assert.Len(t, s.CardsUsed, tt.used)
			assert.Equal(t, tt.high, values(s.HighHandCards))
			assert.Len(t, s.Hand, 5)
			assert.Len(t, s.Kickers(), kickerRules[s.Category].side)
		})
	}
}

func TestClassifyFiveAceLowOrdering(t *testing.T) {
	t.Parallel()
	s, err := ClassifyFive(MustParseCards("5h 3d Ah 4s 2c"))
	require.NoError(t, err)
	require.Equal(t, Straight, s.Category)
	assert.True(t, s.Hand[0].IsAce(), "ace plays low in a wheel: %s", FormatCards(s.Hand))
	assert.Equal(t, 5, s.Hand[4].Value)

	six, err := ClassifyFive(MustParseCards("6h 5d 4c 3s 2h"))
	require.NoError(t, err)
	assert.Equal(t, 1, Compare(six, s), "six-high straight beats the wheel")
}

func TestClassifyFiveHighCardUsesTopCard(t *testing.T) {
	t.Parallel()
	s, err := ClassifyFive(MustParseCards("2h 9d Kc 5s 7h"))
	require.NoError(t, err)
	assert.Equal(t, MustParseCards("Kc"), s.CardsUsed)
	assert.Equal(t, []int{9, 7, 5, 2}, values(s.Kickers()))
}

func TestClassifyFiveInvalidSize(t *testing.T) {
	t.Parallel()
	for _, cards := range []string{"", "As Ks Qs Js", "As Ks Qs Js Ts 9s"} {
		_, err := ClassifyFive(MustParseCards(cards))
		assert.ErrorIs(t, err, ErrInvalidHandSize, cards)
	}
}

func TestClassifyFiveRejectsInvalidCards(t *testing.T) {
	t.Parallel()
	base := MustParseCards("2h 9d Kc 5s")
	for _, bad := range []Card{{Value: 17, Suit: Hearts}, {Value: -1, Suit: Clubs}, {Value: 1, Suit: Spades}, {Value: Ace, Suit: Spades + 1}} {
		_, err := ClassifyFive(append(cloneCards(base), bad))
		assert.ErrorIs(t, err, ErrInvalidCard, "%+v", bad)

		_, err = BestHand(append(MustParseCards("3c 4c"), append(cloneCards(base), bad)...))
		assert.ErrorIs(t, err, ErrInvalidCard, "%+v", bad)
	}

	// a rejected hand leaves nothing behind that a valid hand could collide with
	e := NewEvaluator(nil)
	_, err := e.ClassifyFive(append(cloneCards(base), Card{Value: 17, Suit: Hearts}))
	require.Error(t, err)
	assert.Zero(t, e.Cache().Len())
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	ladder := []string{
		"Kh 9d 7c 5s 2h", // high card
		"8h 8d Ac 5s 2h", // pair
		"Jh Jd 4c 4s Ah", // two pair
		"7h 7d 7c Ks 2h", // trips
		"Ah 2c 3d 4s 5h", // straight
		"Kc 9c 7c 4c 2c", // flush
		"3h 3d 3c 9s 9h", // full house
		"2h 2d 2c 2s 3h", // quads
		"6s 5s 4s 3s 2s", // straight flush
	}
	var prev Score
	for i, cards := range ladder {
		s, err := ClassifyFive(MustParseCards(cards))
		require.NoError(t, err)
		assert.Equal(t, Category(i), s.Category, cards)
		if i > 0 {
			assert.Equal(t, 1, Compare(s, prev), "%s should beat %s", cards, FormatCards(prev.Hand))
		}
		prev = s
	}

	// category scores stay monotonic with strength: a straight is 4 and a flush 5
	assert.Equal(t, Category(4), Straight)
	assert.Equal(t, Category(5), Flush)
	assert.Equal(t, Category(8), StraightFlush)
}

func TestCompareWithinCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		a, b   string
		expect int
	}{
		{"ten-high flush beats nine-high", "Tc 7c 5c 3c 2c", "9h 7h 5h 3h 2h", 1},
		{"flush decided on last card", "Kc 9c 7c 4c 3c", "Kh 9h 7h 4h 2h", 1},
		{"straight flush beats quad aces", "6s 5s 4s 3s 2s", "Ah Ad Ac As Kh", 1},
		{"trip over pair decides full house", "4h 4d 4c 2s 2h", "3h 3d 3c As Ah", 1},
		{"pair kicker", "8h 8d Ac 5s 2h", "8s 8c Kc Qs Jh", 1},
		{"equal straights", "9h 8d 7c 6s 5h", "9c 8c 7d 6h 5s", 0},
		{"second pair decides", "Jh Jd 4c 4s 2h", "Js Jc 3c 3s Ah", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, err := ClassifyFive(MustParseCards(tt.a))
			require.NoError(t, err)
			b, err := ClassifyFive(MustParseCards(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.expect, Compare(a, b))
			assert.Equal(t, -tt.expect, Compare(b, a))
		})
	}
}

func TestClassifyFiveCached(t *testing.T) {
	t.Parallel()
	e := NewEvaluator(nil)
	first, err := e.ClassifyFive(MustParseCards("Jh Jd 4c 4s Ah"))
	require.NoError(t, err)

	// same cards in another order
	second, err := e.ClassifyFive(MustParseCards("Ah 4s Jd 4c Jh"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), e.Cache().Hits())
	assert.Equal(t, 1, e.Cache().Len())

	// mutating a returned score leaves the cache alone
	second.HighHandCards[0] = NewCard(2, Clubs)
	third, err := e.ClassifyFive(MustParseCards("Jh Jd 4c 4s Ah"))
	require.NoError(t, err)
	assert.Equal(t, first, third)
}
