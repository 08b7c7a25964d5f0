package table

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/holdem-showdown/poker"
)

// ErrInputClosed is returned when the human's input ends mid-hand
var ErrInputClosed = errors.New("input closed")

// HumanAgent prompts for decisions on a line-oriented stream: "f" folds, "c"
// calls (or checks) and "r <amount>" raises by amount.
type HumanAgent struct {
	in     *bufio.Scanner
	out    io.Writer
	render func(State) string
}

// NewHumanAgent creates a human agent. render formats the prompt; nil uses a plain summary.
func NewHumanAgent(in io.Reader, out io.Writer, render func(State) string) *HumanAgent {
	if render == nil {
		render = PlainPrompt
	}
	return &HumanAgent{in: bufio.NewScanner(in), out: out, render: render}
}

// PlainPrompt renders the acting seat's view without styling
func PlainPrompt(s State) string {
	self := s.Self()
	var b strings.Builder
	fmt.Fprintf(&b, "%s | board: %s | hand: %s | pot: %d | balance: %d", s.Stage, boardString(s.Board),
		poker.FormatCards(self.Hand), s.Pot, self.Balance)
	if s.ToCall > 0 {
		fmt.Fprintf(&b, " | to call: %d", s.ToCall)
	}
	if s.CanRaise {
		b.WriteString("\n[f]old, [c]all, [r]aise <amount> > ")
	} else {
		b.WriteString("\n[f]old, [c]all > ")
	}
	return b.String()
}

func boardString(board []poker.Card) string {
	if len(board) == 0 {
		return "-"
	}
	return poker.FormatCards(board)
}

// MakeDecision prompts until a valid decision is entered
func (h *HumanAgent) MakeDecision(ctx context.Context, state State) (Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		fmt.Fprint(h.out, h.render(state))
		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return Decision{}, fmt.Errorf("reading decision: %w", err)
			}
			return Decision{}, ErrInputClosed
		}
		decision, err := ParseDecision(h.in.Text(), state.CanRaise)
		if err != nil {
			fmt.Fprintf(h.out, "Invalid input: %v\n", err)
			continue
		}
		return decision, nil
	}
}

// ParseDecision parses one line of human input
func ParseDecision(line string, canRaise bool) (Decision, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Decision{}, errors.New("empty input")
	}
	switch fields[0] {
	case "f", "fold":
		return Decision{Action: Fold, Reasoning: "human"}, nil
	case "c", "call", "check", "k":
		return Decision{Action: Call, Reasoning: "human"}, nil
	case "r", "raise":
		if !canRaise {
			return Decision{}, errors.New("raising is closed for this stage")
		}
		if len(fields) != 2 {
			return Decision{}, errors.New("usage: r <amount>")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return Decision{}, fmt.Errorf("invalid raise amount %q", fields[1])
		}
		return Decision{Action: Raise, Amount: amount, Reasoning: "human"}, nil
	default:
		return Decision{}, fmt.Errorf("unknown command %q", fields[0])
	}
}
