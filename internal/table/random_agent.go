package table

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Thresholds are the random agent's decision boundaries. A uniform draw below
// Fold folds, below Raise raises, and anything else calls. OpenRaise replaces
// Raise when there is nothing to call, and folding is then never chosen.
type Thresholds struct {
	Fold      float64
	Raise     float64
	OpenRaise float64
}

// DefaultThresholds are the stock opponent's thresholds
var DefaultThresholds = Thresholds{Fold: 0.15, Raise: 0.30, OpenRaise: 0.15}

const (
	raiseUnit    = 10
	bigRaise     = 50
	halveBigOdds = 0.8
)

// RandomAgent folds, calls and raises at random according to its thresholds,
// pausing for a thinking delay before each decision.
type RandomAgent struct {
	rng        *rand.Rand
	thresholds Thresholds
	clock      quartz.Clock
	delay      time.Duration
	logger     *log.Logger
}

// NewRandomAgent creates a random agent. A nil clock uses the real clock.
func NewRandomAgent(rng *rand.Rand, thresholds Thresholds, clock quartz.Clock, delay time.Duration, logger *log.Logger) *RandomAgent {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &RandomAgent{
		rng:        rng,
		thresholds: thresholds,
		clock:      clock,
		delay:      delay,
		logger:     logger,
	}
}

// MakeDecision waits out the thinking delay and then decides
func (a *RandomAgent) MakeDecision(ctx context.Context, state State) (Decision, error) {
	if err := a.think(ctx); err != nil {
		return Decision{}, err
	}
	d := a.decide(state)
	a.logger.Debug("Random agent decided",
		"seat", state.Self().ID,
		"action", d.Action,
		"amount", d.Amount,
		"toCall", state.ToCall)
	return d, nil
}

func (a *RandomAgent) think(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	done := make(chan struct{})
	timer := a.clock.AfterFunc(a.delay, func() {
		close(done)
	}, "agent", "think")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (a *RandomAgent) decide(state State) Decision {
	self := state.Self()
	toCall := state.ToCall
	if self.Balance < toCall {
		return Decision{Action: Fold, Reasoning: "cannot afford the call"}
	}

	foldAt, raiseAt := a.thresholds.Fold, a.thresholds.Raise
	if toCall == 0 {
		foldAt, raiseAt = 0, a.thresholds.OpenRaise
	}

	bettingBalance := self.Balance - toCall
	if state.MaxRaise > 0 && bettingBalance > state.MaxRaise {
		bettingBalance = state.MaxRaise
	}

	r := a.rng.Float64()
	switch {
	case r < foldAt:
		return Decision{Action: Fold, Reasoning: "random fold"}
	case state.CanRaise && r < raiseAt && bettingBalance >= raiseUnit:
		amount := (a.rng.IntN(bettingBalance/raiseUnit) + 1) * raiseUnit
		if amount > bigRaise && a.rng.Float64() < halveBigOdds {
			// halve to the nearest unit, rounding half up
			amount = (amount/raiseUnit + 1) / 2 * raiseUnit
		}
		return Decision{Action: Raise, Amount: amount, Reasoning: "random raise"}
	default:
		return Decision{Action: Call, Reasoning: "random call"}
	}
}
