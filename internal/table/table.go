package table

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-showdown/internal/handid"
	"github.com/lox/holdem-showdown/poker"
)

// Stage is the point a hand has reached
type Stage int

const (
	Hole Stage = iota
	Flop
	Turn
	River
	Showdown
	Complete
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case Hole:
		return "Hole"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	case Complete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// ErrNotEnoughPlayers is returned when fewer than two seats can pay the ante
var ErrNotEnoughPlayers = errors.New("not enough players with chips to start a hand")

// Options holds table rules
type Options struct {
	Ante         int
	MaxRaise     int
	MessageLimit int
}

// Seat is a persistent seat at the table
type Seat struct {
	ID      string
	Name    string
	Agent   Agent
	Balance int
}

// HandResult summarises one played hand
type HandResult struct {
	ID            string
	Board         []poker.Card
	Hands         map[string][]poker.Card
	Folded        []string
	Reached       Stage
	Showdown      bool
	Result        poker.GameResult
	Pot           int
	Contributions map[string]int
	Payouts       map[string]int
	// Highlight holds the cards that made the winning hands
	Highlight []poker.Card
}

// Net returns the chips seat id won or lost in the hand
func (r *HandResult) Net(id string) int {
	return r.Payouts[id] - r.Contributions[id]
}

// Table deals hands to its seats and settles them through the showdown engine.
// A Table is not safe for concurrent use.
type Table struct {
	opts      Options
	seats     []*Seat
	deck      *poker.Deck
	evaluator *poker.Evaluator
	ids       *handid.Generator
	messages  *Messages
	stage     Stage
	logger    *log.Logger
}

// New creates a table. Seats act and are resolved in the given order.
func New(opts Options, seats []*Seat, rng *rand.Rand, evaluator *poker.Evaluator, ids *handid.Generator, logger *log.Logger) (*Table, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("table needs at least 2 seats, got %d", len(seats))
	}
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate seat id %q", s.ID)
		}
		if s.Agent == nil {
			return nil, fmt.Errorf("seat %q has no agent", s.ID)
		}
		seen[s.ID] = true
	}
	messages, err := NewMessages(opts.MessageLimit)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = poker.NewEvaluator(nil)
	}
	if ids == nil {
		ids = handid.NewGenerator(nil, nil)
	}
	return &Table{
		opts:      opts,
		seats:     seats,
		deck:      poker.NewDeck(rng),
		evaluator: evaluator,
		ids:       ids,
		messages:  messages,
		stage:     Complete,
		logger:    logger,
	}, nil
}

// Seats returns the table's seats in order
func (t *Table) Seats() []*Seat {
	return t.seats
}

// CanPlay reports whether the seat can cover the ante and so will be dealt in
func (t *Table) CanPlay(s *Seat) bool {
	return s.Balance >= t.opts.Ante && s.Balance > 0
}

// Stage returns the stage of the hand in progress, or Complete between hands
func (t *Table) Stage() Stage {
	return t.stage
}

// Messages returns the latest table messages, oldest first
func (t *Table) Messages() []string {
	return t.messages.List()
}

// hand is the mutable state of one hand in progress
type hand struct {
	id            string
	stage         Stage
	board         []poker.Card
	holes         map[string][]poker.Card
	active        map[string]bool
	bets          map[string]int
	contributions map[string]int
	pot           int
	folded        []string
}

func (h *hand) activeIDs(seats []*Seat) []string {
	var ids []string
	for _, s := range seats {
		if h.active[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// PlayHand plays one hand from ante to payout. Seats that cannot cover the ante
// sit the hand out. Errors from the deck or engine abort the hand and refund
// every contribution; a cancelled context aborts the same way.
func (t *Table) PlayHand(ctx context.Context) (*HandResult, error) {
	id, err := t.ids.Generate()
	if err != nil {
		return nil, err
	}
	h := &hand{
		id:            id,
		holes:         make(map[string][]poker.Card, len(t.seats)),
		active:        make(map[string]bool, len(t.seats)),
		bets:          make(map[string]int, len(t.seats)),
		contributions: make(map[string]int, len(t.seats)),
	}
	for _, s := range t.seats {
		h.active[s.ID] = t.CanPlay(s)
	}
	if len(h.activeIDs(t.seats)) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	logger := t.logger.With("hand", id)
	logger.Info("Starting hand", "seats", len(h.activeIDs(t.seats)), "ante", t.opts.Ante)

	t.deck.Reset()
	for _, s := range t.seats {
		if h.active[s.ID] {
			t.pay(h, s, t.opts.Ante)
		}
	}

	result, err := t.play(ctx, h, logger)
	t.stage = Complete
	if err != nil {
		t.refund(h)
		logger.Error("Hand aborted", "error", err, "refunded", h.pot)
		return nil, fmt.Errorf("hand %s: %w", id, err)
	}
	return result, nil
}

func (t *Table) play(ctx context.Context, h *hand, logger *log.Logger) (*HandResult, error) {
	for _, stage := range []Stage{Hole, Flop, Turn, River} {
		h.stage = stage
		t.stage = stage
		if err := t.deal(h); err != nil {
			return nil, err
		}
		logger.Debug("Dealt", "stage", stage, "board", poker.FormatCards(h.board))

		if err := t.bettingRound(ctx, h, logger); err != nil {
			return nil, err
		}
		if ids := h.activeIDs(t.seats); len(ids) == 1 {
			return t.walkover(h, ids[0], logger), nil
		}
	}

	h.stage = Showdown
	t.stage = Showdown
	return t.showdown(h, logger)
}

func (t *Table) deal(h *hand) error {
	switch h.stage {
	case Hole:
		for _, s := range t.seats {
			if !h.active[s.ID] {
				continue
			}
			cards, err := t.deck.DealN(2)
			if err != nil {
				return err
			}
			h.holes[s.ID] = cards
		}
		t.messages.Add("Hole cards dealt.")
	case Flop:
		return t.dealBoard(h, 3, "Flop dealt.")
	case Turn:
		return t.dealBoard(h, 1, "Turn dealt.")
	case River:
		return t.dealBoard(h, 1, "River dealt.")
	}
	return nil
}

func (t *Table) dealBoard(h *hand, n int, msg string) error {
	cards, err := t.deck.DealN(n)
	if err != nil {
		return err
	}
	h.board = append(h.board, cards...)
	t.messages.Add(msg)
	return nil
}

// bettingRound lets every active seat act. One raise is allowed per stage;
// after it, the other active seats act again to call or fold.
func (t *Table) bettingRound(ctx context.Context, h *hand, logger *log.Logger) error {
	clear(h.bets)
	maxBet := 0
	raised := false
	pending := h.activeIDs(t.seats)

	for len(pending) > 0 {
		if len(h.activeIDs(t.seats)) < 2 {
			return nil
		}
		id := pending[0]
		pending = pending[1:]
		if !h.active[id] {
			continue
		}
		seat := t.seat(id)
		if seat.Balance == 0 {
			// all in
			continue
		}
		toCall := maxBet - h.bets[id]

		state := t.state(h, id, toCall, !raised)
		decision, err := seat.Agent.MakeDecision(ctx, state)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrInputClosed) {
				return err
			}
			logger.Warn("Agent failed, folding", "seat", id, "error", err)
			decision = Decision{Action: Fold, Reasoning: err.Error()}
		}

		if decision.Action == Raise && (raised || decision.Amount <= 0 || toCall+decision.Amount > seat.Balance) {
			decision = Decision{Action: Call, Reasoning: "raise not allowed, calling"}
		}
		if decision.Action == Raise && t.opts.MaxRaise > 0 && decision.Amount > t.opts.MaxRaise {
			decision.Amount = t.opts.MaxRaise
		}

		switch decision.Action {
		case Fold:
			h.active[id] = false
			h.folded = append(h.folded, id)
			t.messages.Add(fmt.Sprintf("%s folds.", seat.Name))
		case Raise:
			t.pay(h, seat, toCall+decision.Amount)
			maxBet = h.bets[id]
			raised = true
			t.messages.Add(fmt.Sprintf("%s raises %d.", seat.Name, decision.Amount))
			pending = t.after(h, id)
		default:
			amount := min(toCall, seat.Balance)
			t.pay(h, seat, amount)
			if amount == 0 {
				t.messages.Add(fmt.Sprintf("%s checks.", seat.Name))
			} else {
				t.messages.Add(fmt.Sprintf("%s calls %d.", seat.Name, amount))
			}
		}
		logger.Debug("Seat acted",
			"seat", id,
			"stage", h.stage,
			"action", decision.Action,
			"amount", decision.Amount,
			"pot", h.pot,
			"reasoning", decision.Reasoning)
	}
	return nil
}

// after returns the active seats that follow id, wrapping around the table
func (t *Table) after(h *hand, id string) []string {
	start := 0
	for i, s := range t.seats {
		if s.ID == id {
			start = i + 1
			break
		}
	}
	var out []string
	for i := range len(t.seats) - 1 {
		s := t.seats[(start+i)%len(t.seats)]
		if h.active[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

func (t *Table) seat(id string) *Seat {
	for _, s := range t.seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (t *Table) pay(h *hand, s *Seat, amount int) {
	s.Balance -= amount
	h.bets[s.ID] += amount
	h.contributions[s.ID] += amount
	h.pot += amount
}

func (t *Table) refund(h *hand) {
	for id, amount := range Refund(h.contributions) {
		t.seat(id).Balance += amount
	}
}

func (t *Table) state(h *hand, acting string, toCall int, canRaise bool) State {
	st := State{
		HandID:   h.id,
		Stage:    h.stage,
		Board:    append([]poker.Card(nil), h.board...),
		Pot:      h.pot,
		ToCall:   toCall,
		CanRaise: canRaise,
		MaxRaise: t.opts.MaxRaise,
	}
	for i, s := range t.seats {
		view := SeatView{
			ID:         s.ID,
			Name:       s.Name,
			Active:     h.active[s.ID],
			Balance:    s.Balance,
			CurrentBet: h.bets[s.ID],
		}
		if s.ID == acting {
			view.Hand = append([]poker.Card(nil), h.holes[s.ID]...)
			st.Acting = i
		}
		st.Seats = append(st.Seats, view)
	}
	return st
}

func (t *Table) walkover(h *hand, winner string, logger *log.Logger) *HandResult {
	seat := t.seat(winner)
	result := poker.GameResult{
		Winners: []poker.Score{{Owner: winner, HoleCards: h.holes[winner]}},
		Notify:  fmt.Sprintf("Game over. %s wins as everyone else folded.", seat.Name),
	}
	t.messages.Add(result.Notify)
	logger.Info("Hand won uncontested", "winner", winner, "pot", h.pot, "stage", h.stage)
	return t.settle(h, result, []string{winner}, false)
}

func (t *Table) showdown(h *hand, logger *log.Logger) (*HandResult, error) {
	order := make([]string, len(t.seats))
	players := make(map[string]poker.PlayerData, len(t.seats))
	for i, s := range t.seats {
		order[i] = s.ID
		if hole, ok := h.holes[s.ID]; ok {
			players[s.ID] = poker.PlayerData{Active: h.active[s.ID], Hand: hole}
		}
	}

	result, err := t.evaluator.GetWinnerOrdered(order, players, h.board)
	if err != nil {
		return nil, err
	}
	t.messages.Add(result.Notify)

	if result.Error {
		logger.Error("Showdown failed, refunding pot", "error", result.Err)
		t.refund(h)
		hr := t.result(h, result, true)
		hr.Payouts = Refund(h.contributions)
		return hr, nil
	}

	logger.Info("Showdown",
		"winners", result.WinnerIDs(),
		"category", result.Winners[0].Type,
		"pot", h.pot,
		"split", result.PotSplit)
	return t.settle(h, result, result.WinnerIDs(), true), nil
}

func (t *Table) settle(h *hand, result poker.GameResult, winners []string, showdown bool) *HandResult {
	payouts := SplitPot(h.pot, winners)
	for id, amount := range payouts {
		t.seat(id).Balance += amount
	}
	hr := t.result(h, result, showdown)
	hr.Payouts = payouts
	return hr
}

func (t *Table) result(h *hand, result poker.GameResult, showdown bool) *HandResult {
	hands := make(map[string][]poker.Card, len(h.holes))
	for id, cards := range h.holes {
		hands[id] = cards
	}
	return &HandResult{
		ID:            h.id,
		Board:         h.board,
		Hands:         hands,
		Folded:        h.folded,
		Reached:       h.stage,
		Showdown:      showdown,
		Result:        result,
		Pot:           h.pot,
		Contributions: h.contributions,
		Highlight:     result.UsedCards(),
	}
}
