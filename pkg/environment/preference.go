package environment

import "github.com/boristopalov/lightswitch/pkg/core"

// Feedback is the simulated user signal for the current light status
type Feedback int

const (
	Disapprove Feedback = -1
	Neutral    Feedback = 0
	Approve    Feedback = 1
)

func (f Feedback) String() string {
	switch f {
	case Approve:
		return "approve"
	case Disapprove:
		return "disapprove"
	default:
		return "neutral"
	}
}

// Preference maps a time slot and light status to user feedback.
// Implementations must be pure.
type Preference interface {
	Feedback(timeStep, lightStatus int) Feedback
}

// PreferenceFunc adapts an ordinary function to Preference
type PreferenceFunc func(timeStep, lightStatus int) Feedback

func (f PreferenceFunc) Feedback(timeStep, lightStatus int) Feedback {
	return f(timeStep, lightStatus)
}

// DayNightPreference wants the light on inside [NightStart, NightEnd] and off otherwise
type DayNightPreference struct {
	NightStart int
	NightEnd   int
}

// DefaultPreference is on from 16:00 (slot 96) to midnight, off for the rest of the day
var DefaultPreference = DayNightPreference{NightStart: 96, NightEnd: StepsPerDay - 1}

func (p DayNightPreference) Feedback(timeStep, lightStatus int) Feedback {
	want := core.LightOff
	if timeStep >= p.NightStart && timeStep <= p.NightEnd {
		want = core.LightOn
	}
	if lightStatus == want {
		return Approve
	}
	return Disapprove
}
