package core

import (
	"fmt"
	"time"
)

// Light status values
const (
	LightOff = 0
	LightOn  = 1
)

// Actions
const (
	ActionNoop   = 0
	ActionToggle = 1
)

// Observation is the (light_status, time_step) pair returned by the environment
type Observation struct {
	LightStatus int
	TimeStep    int
}

func (o Observation) String() string {
	return fmt.Sprintf("(%d, %d)", o.LightStatus, o.TimeStep)
}

// Info carries auxiliary step data. The light switch environment returns it empty.
type Info map[string]any

// HistoryEntry is one (time_step, light_status) point of an episode trace
type HistoryEntry struct {
	TimeStep    int
	LightStatus int
}

// StepRecord describes one transition as seen by the driver loop
type StepRecord struct {
	EpisodeID string
	Index     int // 1-based step call number within the episode
	Before    Observation
	Action    int
	After     Observation
	Reward    float64
	Done      bool
	Timestamp time.Time
}

type ExperimentStatus struct {
	Running   bool
	StartTime time.Time
	EndTime   time.Time
	Episodes  int
	Errors    []error
}
