package environment

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/spaces"
)

const (
	// StepsPerDay is the number of 10 minute slots in one episode
	StepsPerDay = 144

	// StreakThreshold is the approval streak after which holding time accrues
	StreakThreshold = 10
	// HoldingThreshold is the holding time that pays out the bonus
	HoldingThreshold = 10
	// HoldingBonus is added to the step reward on payout
	HoldingBonus = 10
)

var (
	// ErrInvalidAction is returned by Step for actions outside the action space
	ErrInvalidAction = errors.New("invalid action")
	// ErrEpisodeDone is returned by Step once the day is over
	ErrEpisodeDone = errors.New("episode is done, call Reset")
)

// LightSwitchEnvironment simulates one day of a light switch in 10 minute slots.
// It is not safe for concurrent use; run one instance per episode stream.
type LightSwitchEnvironment struct {
	lightStatus         int
	timeStep            int
	positiveRewardCount int
	holdingTime         int
	bonuses             int
	history             []core.HistoryEntry

	preference Preference
	out        io.Writer
}

type Option func(*LightSwitchEnvironment)

// WithPreference swaps the feedback rule
func WithPreference(p Preference) Option {
	return func(e *LightSwitchEnvironment) {
		if p != nil {
			e.preference = p
		}
	}
}

// WithOutput sets where Render writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *LightSwitchEnvironment) {
		if w != nil {
			e.out = w
		}
	}
}

// NewLightSwitchEnvironment creates an environment already reset to the start of the day
func NewLightSwitchEnvironment(opts ...Option) *LightSwitchEnvironment {
	e := &LightSwitchEnvironment{
		preference: DefaultPreference,
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

func (e *LightSwitchEnvironment) ActionSpace() spaces.Discrete {
	return spaces.NewDiscrete(2)
}

func (e *LightSwitchEnvironment) ObservationSpace() spaces.Tuple {
	return spaces.NewTuple(spaces.NewDiscrete(2), spaces.NewDiscrete(StepsPerDay))
}

// Reset starts a new day with the light off
func (e *LightSwitchEnvironment) Reset() core.Observation {
	e.lightStatus = core.LightOff
	e.timeStep = 0
	e.positiveRewardCount = 0
	e.holdingTime = 0
	e.bonuses = 0
	e.history = make([]core.HistoryEntry, 0, StepsPerDay)
	return e.observation()
}

// Step applies action (0 no-op, 1 toggle), scores the slot just acted in and
// advances the clock. Invalid actions and steps past the end of the day are
// rejected without touching state.
func (e *LightSwitchEnvironment) Step(action int) (core.Observation, float64, bool, core.Info, error) {
	if e.Done() {
		return e.observation(), 0, true, core.Info{}, ErrEpisodeDone
	}
	if !e.ActionSpace().Contains(action) {
		return e.observation(), 0, false, core.Info{}, fmt.Errorf("%w: %d", ErrInvalidAction, action)
	}

	if action == core.ActionToggle {
		e.lightStatus = 1 - e.lightStatus
	}

	var reward float64
	switch e.preference.Feedback(e.timeStep, e.lightStatus) {
	case Approve:
		reward = 1
		e.positiveRewardCount++
	case Disapprove:
		reward = -1
		e.positiveRewardCount = 0
		e.holdingTime = 0
	default:
		reward = 0
	}

	// Order matters: streak gate, then holding count, then payout.
	if e.positiveRewardCount >= StreakThreshold {
		e.holdingTime++
		if e.holdingTime >= HoldingThreshold {
			reward += HoldingBonus
			e.holdingTime = 0
			e.positiveRewardCount = 0
			e.bonuses++
		}
	}

	e.timeStep++
	done := e.Done()

	e.history = append(e.history, core.HistoryEntry{TimeStep: e.timeStep, LightStatus: e.lightStatus})

	return e.observation(), reward, done, core.Info{}, nil
}

// Render prints the current time step and light label
func (e *LightSwitchEnvironment) Render() error {
	_, err := fmt.Fprintf(e.out, "Time Step: %d, Light: %s\n", e.timeStep, LightLabel(e.lightStatus))
	return err
}

// LightLabel returns "On" for a lit status and "Off" otherwise
func LightLabel(status int) string {
	if status == core.LightOn {
		return "On"
	}
	return "Off"
}

func (e *LightSwitchEnvironment) Done() bool {
	return e.timeStep >= StepsPerDay
}

func (e *LightSwitchEnvironment) LightStatus() int {
	return e.lightStatus
}

func (e *LightSwitchEnvironment) TimeStep() int {
	return e.timeStep
}

func (e *LightSwitchEnvironment) PositiveRewardCount() int {
	return e.positiveRewardCount
}

func (e *LightSwitchEnvironment) HoldingTime() int {
	return e.holdingTime
}

// Bonuses returns how many holding bonuses were paid this episode
func (e *LightSwitchEnvironment) Bonuses() int {
	return e.bonuses
}

// History returns a copy of the episode trace
func (e *LightSwitchEnvironment) History() []core.HistoryEntry {
	history := make([]core.HistoryEntry, len(e.history))
	copy(history, e.history)
	return history
}

func (e *LightSwitchEnvironment) observation() core.Observation {
	return core.Observation{LightStatus: e.lightStatus, TimeStep: e.timeStep}
}

var _ core.Environment = (*LightSwitchEnvironment)(nil)
