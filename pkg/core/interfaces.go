package core

import (
	"context"

	"github.com/boristopalov/lightswitch/pkg/spaces"
)

// Environment defines the reset/step/render contract of a discrete-time simulation
type Environment interface {
	// Reset restores initial conditions and returns the first observation
	Reset() Observation
	// Step applies an action and advances the environment one time step
	Step(action int) (Observation, float64, bool, Info, error)
	// Render writes a human readable view of the current state
	Render() error
	// ActionSpace returns the set of valid actions
	ActionSpace() spaces.Discrete
}

// Policy chooses the next action for an observation
type Policy interface {
	Act(ctx context.Context, obs Observation) (int, error)
}

// Observer is implemented by policies that want to see the outcome of each step
type Observer interface {
	Observe(record StepRecord)
}

// Experiment coordinates the running of episodes
type Experiment interface {
	// Run executes the experiment according to configuration
	Run(ctx context.Context) error
	// GetStatus returns current experiment status
	GetStatus() ExperimentStatus
}
