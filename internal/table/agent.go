package table

import (
	"context"

	"github.com/lox/holdem-showdown/poker"
)

// Action is a betting action
type Action int

const (
	Fold Action = iota
	Call
	Raise
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// Decision represents a seat's decision with reasoning
type Decision struct {
	Action Action
	// Amount is the raise on top of the amount needed to call. Ignored for fold and call.
	Amount    int
	Reasoning string
}

// SeatView is the read-only state of one seat. Hand is only populated for the
// acting seat.
type SeatView struct {
	ID         string
	Name       string
	Active     bool
	Balance    int
	CurrentBet int
	Hand       []poker.Card
}

// State is the read-only state of the table handed to an acting agent
type State struct {
	HandID   string
	Stage    Stage
	Board    []poker.Card
	Pot      int
	Seats    []SeatView
	Acting   int // index into Seats
	ToCall   int
	CanRaise bool
	MaxRaise int
}

// Self returns the acting seat
func (s State) Self() SeatView {
	return s.Seats[s.Acting]
}

// Agent represents any entity (human or AI) that decides for a seat.
// Agents receive immutable state and return decisions.
type Agent interface {
	MakeDecision(ctx context.Context, state State) (Decision, error)
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(ctx context.Context, state State) (Decision, error)

// MakeDecision calls f
func (f AgentFunc) MakeDecision(ctx context.Context, state State) (Decision, error) {
	return f(ctx, state)
}
