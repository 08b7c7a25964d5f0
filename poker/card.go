package poker

import (
	"fmt"
	"sort"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Clubs Suit = iota
	Hearts
	Diamonds
	Spades
)

// Suits lists every suit in deck construction order.
var Suits = [...]Suit{Clubs, Hearts, Diamonds, Spades}

// String returns the suit name
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "Clubs"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	default:
		return "Unknown"
	}
}

// Glyph returns the unicode symbol for the suit
func (s Suit) Glyph() string {
	switch s {
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the lowercase single-letter notation for the suit
func (s Suit) Letter() byte {
	return "chds"[s&3]
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Card values. Aces are always stored high.
const (
	Two   = 2
	Ten   = 10
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an immutable playing card. Two cards are equal when value and suit match.
type Card struct {
	Value int
	Suit  Suit
}

// NewCard creates a card. A value of 1 is treated as an ace.
func NewCard(value int, suit Suit) Card {
	if value == 1 {
		value = Ace
	}
	return Card{Value: value, Suit: suit}
}

// Valid reports whether the card is one of the 52 standard cards
func (c Card) Valid() bool {
	return c.Value >= Two && c.Value <= Ace && c.Suit <= Spades
}

// IsAce returns true if the card is an ace
func (c Card) IsAce() bool {
	return c.Value == Ace
}

// Index returns a dense 0..51 index for the card
func (c Card) Index() int {
	return (c.Value-Two)*4 + int(c.Suit)
}

// Short returns the rank label ("A", "K", "10", "2")
func (c Card) Short() string {
	switch c.Value {
	case Ace:
		return "A"
	case King:
		return "K"
	case Queen:
		return "Q"
	case Jack:
		return "J"
	default:
		return fmt.Sprintf("%d", c.Value)
	}
}

// Glyph returns the suit symbol of the card
func (c Card) Glyph() string {
	return c.Suit.Glyph()
}

// Color returns "red" or "black"
func (c Card) Color() string {
	if c.Suit.IsRed() {
		return "red"
	}
	return "black"
}

var valueNames = [...]string{"", "Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King", "Ace"}

// DisplayName returns the long form, e.g. "Queen of Hearts"
func (c Card) DisplayName() string {
	if c.Value < 1 || c.Value >= len(valueNames) {
		return "Unknown card"
	}
	return fmt.Sprintf("%s of %s", valueNames[c.Value], c.Suit)
}

// String returns compact notation such as "As" or "Td"
func (c Card) String() string {
	rank := c.Short()
	if c.Value == Ten {
		rank = "T"
	}
	return rank + string(c.Suit.Letter())
}

// ParseCard parses a single card in compact notation ("As", "Td", "10d")
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rankPart, suitPart := strings.ToUpper(s[:len(s)-1]), strings.ToLower(s[len(s)-1:])

	var value int
	switch rankPart {
	case "A":
		value = Ace
	case "K":
		value = King
	case "Q":
		value = Queen
	case "J":
		value = Jack
	case "T", "10":
		value = Ten
	default:
		if len(rankPart) != 1 || rankPart[0] < '2' || rankPart[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank in card %q", s)
		}
		value = int(rankPart[0] - '0')
	}

	idx := strings.IndexByte("chds", suitPart[0])
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}
	return NewCard(value, Suit(idx)), nil
}

// ParseCards parses a run of cards such as "AsKdQh" or "As Kd 10h".
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); {
		size := 2
		if strings.HasPrefix(s[i:], "10") {
			size = 3
		}
		if i+size > len(s) {
			return nil, fmt.Errorf("incomplete card at position %d in %q", i, s)
		}
		card, err := ParseCard(s[i : i+size])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		i += size
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins cards with spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// sortedAscending returns a copy of cards ordered by value, then suit.
func sortedAscending(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value < out[j].Value
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}

// sortedDescending returns a copy of cards ordered from highest value down.
func sortedDescending(cards []Card) []Card {
	out := append([]Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Suit > out[j].Suit
	})
	return out
}

// values extracts card values in order
func values(cards []Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Value
	}
	return out
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
