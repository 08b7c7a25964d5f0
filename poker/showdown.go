package poker

import (
	"fmt"
	"sort"
	"strings"
)

// PlayerData is one seat's state at showdown
type PlayerData struct {
	Active bool
	Hand   []Card
}

// GameResult is the outcome of a showdown.
type GameResult struct {
	// Error is set when the resolver hit an internal inconsistency; Notify then
	// carries a diagnostic and Err the underlying error. Winners is empty.
	Error bool
	Err   error

	// Winners holds one score for a clean win, two or more for a draw.
	Winners []Score
	Notify  string

	PotSplit bool

	// KickerCardTie is set when a draw survived kicker comparison.
	KickerCardTie bool

	// BoardPlays is set when every deciding kicker of the drawn hands sits on the board.
	BoardPlays bool

	// Kickers maps each active owner to their valid kickers: hole cards that
	// act as kickers in their best hand.
	Kickers map[string][]Card
}

// UsedCards returns the union of every winner's CardsUsed, for highlighting.
func (r GameResult) UsedCards() []Card {
	var out []Card
	for _, w := range r.Winners {
		for _, c := range w.CardsUsed {
			if !containsCard(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// WinnerIDs returns the owners of the winning scores in seat order
func (r GameResult) WinnerIDs() []string {
	ids := make([]string, len(r.Winners))
	for i, w := range r.Winners {
		ids[i] = w.Owner
	}
	return ids
}

// GetWinner resolves a showdown, visiting seats in sorted id order.
func (e *Evaluator) GetWinner(players map[string]PlayerData, board []Card) (GameResult, error) {
	order := make([]string, 0, len(players))
	for id := range players {
		order = append(order, id)
	}
	sort.Strings(order)
	return e.GetWinnerOrdered(order, players, board)
}

// GetWinnerOrdered resolves a showdown, visiting seats in the given order.
// Ids in order that are missing from players are skipped.
func (e *Evaluator) GetWinnerOrdered(order []string, players map[string]PlayerData, board []Card) (GameResult, error) {
	var scores []Score
	for _, id := range order {
		p, ok := players[id]
		if !ok || !p.Active {
			continue
		}
		s, err := e.GetScore(p.Hand, board, id)
		if err != nil {
			return GameResult{}, fmt.Errorf("showdown: %w", err)
		}
		scores = append(scores, s)
	}
	if len(scores) == 0 {
		return GameResult{}, ErrNoActivePlayers
	}

	result := GameResult{Kickers: make(map[string][]Card, len(scores))}
	for _, s := range scores {
		result.Kickers[s.Owner] = validKickers(s, board)
	}

	if len(scores) == 1 {
		only := scores[0]
		only.ValidKickers = result.Kickers[only.Owner]
		result.Winners = []Score{only}
		result.Notify = fmt.Sprintf("Game over. %s won with %s.", only.Owner, only.Type)
		return result, nil
	}

	best := scores[0]
	ties := make(map[string][]Score)
	for _, cur := range scores[1:] {
		out, err := resolvePair(best, cur, board)
		if err != nil {
			return failedResult(err), nil
		}
		switch out.winner {
		case 1:
			// best holds
		case -1:
			best = cur
		default:
			sig := signature(best, board)
			if len(ties[sig]) == 0 {
				ties[sig] = []Score{best}
			}
			ties[sig] = append(ties[sig], cur)
		}
	}

	tied := ties[signature(best, board)]
	if len(tied) < 2 {
		best.ValidKickers = result.Kickers[best.Owner]
		result.Winners = []Score{best}
		result.Notify = fmt.Sprintf("Game over. %s won with %s.", best.Owner, best.Type)
		return result, nil
	}

	rule, _ := kickerRuleFor(best.Category)
	result.PotSplit = true
	result.KickerCardTie = rule.hasKickers()
	result.BoardPlays = rule.hasKickers()
	owners := make([]string, len(tied))
	for i, s := range tied {
		s = s.clone()
		s.ValidKickers = result.Kickers[s.Owner]
		if len(s.ValidKickers) > 0 {
			result.BoardPlays = false
		}
		result.Winners = append(result.Winners, s)
		owners[i] = s.Owner
	}

	quantifier := "all"
	if len(owners) == 2 {
		quantifier = "both"
	}
	result.Notify = fmt.Sprintf("Draw! Pot is split between %s, %s having %s.",
		strings.Join(owners, " and "), quantifier, best.Type)
	return result, nil
}

// GetWinner resolves a showdown with a throwaway cache.
func GetWinner(players map[string]PlayerData, board []Card) (GameResult, error) {
	return NewEvaluator(nil).GetWinner(players, board)
}

func failedResult(err error) GameResult {
	return GameResult{
		Error:  true,
		Err:    err,
		Notify: fmt.Sprintf("Showdown error: %v", err),
	}
}

type pairOutcome struct {
	winner int // 1: first, -1: second, 0: draw
}

// resolvePair compares two players' best hands: category, high hand cards, then
// the category's kicker rule.
func resolvePair(a, b Score, board []Card) (pairOutcome, error) {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return pairOutcome{winner: 1}, nil
		}
		return pairOutcome{winner: -1}, nil
	}
	if c := compareHighHandCards(a, b); c != 0 {
		return pairOutcome{winner: c}, nil
	}

	rule, ok := kickerRuleFor(a.Category)
	if !ok {
		return pairOutcome{}, fmt.Errorf("%w: category %d", ErrUnhandledCategory, a.Category)
	}
	if !rule.hasKickers() {
		return pairOutcome{}, nil
	}

	ka, kb := a.Kickers(), b.Kickers()
	if len(ka) != rule.side || len(kb) != rule.side {
		return pairOutcome{}, fmt.Errorf("%w: %s expects %d kickers, got %d and %d",
			ErrUnhandledCategory, a.Category, rule.side, len(ka), len(kb))
	}
	return pairOutcome{winner: compareValues(values(ka), values(kb))}, nil
}

// kickerSources splits a score's kickers into those matched by an unused board
// card and those that must come from the hole.
func kickerSources(s Score, board []Card) (fromBoard, fromHole []Card) {
	pool := make([]Card, 0, len(board))
	for _, c := range board {
		if !containsCard(s.CardsUsed, c) {
			pool = append(pool, c)
		}
	}
	for _, k := range s.Kickers() {
		matched := -1
		for i, c := range pool {
			if c.Value == k.Value {
				matched = i
				break
			}
		}
		if matched >= 0 {
			fromBoard = append(fromBoard, k)
			pool = append(pool[:matched], pool[matched+1:]...)
			continue
		}
		fromHole = append(fromHole, k)
	}
	return fromBoard, fromHole
}

// validKickers are the hole cards that decide ties for s. A hole card whose
// value is matched by an unused board card is not a deciding kicker.
func validKickers(s Score, board []Card) []Card {
	rule, ok := kickerRuleFor(s.Category)
	if !ok || !rule.hasKickers() {
		return nil
	}
	_, fromHole := kickerSources(s, board)
	var out []Card
	for _, k := range fromHole {
		for _, h := range s.HoleCards {
			if h.Value == k.Value && !containsCard(out, h) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// signature identifies an exact (hand, kicker) outcome. Equal signatures are
// equal hands, so every player sharing the winning signature splits the pot.
func signature(s Score, board []Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%v|", s.Category, values(s.HighHandCards))
	rule, ok := kickerRuleFor(s.Category)
	if !ok || !rule.hasKickers() {
		return b.String()
	}
	if _, fromHole := kickerSources(s, board); len(fromHole) == 0 {
		b.WriteString("table")
		return b.String()
	}
	fmt.Fprintf(&b, "%v", values(s.Kickers()))
	return b.String()
}
