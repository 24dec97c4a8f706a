package render

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/environment"
	"github.com/boristopalov/lightswitch/pkg/messaging"
)

// Terminal prints step records as coloured status lines
type Terminal struct {
	out io.Writer
	au  aurora.Aurora
}

func NewTerminal(w io.Writer, color bool) *Terminal {
	return &Terminal{
		out: w,
		au:  aurora.NewAurora(color),
	}
}

// RenderStep writes "Time Step: N, Light: On|Off" followed by the reward
func (t *Terminal) RenderStep(record core.StepRecord) error {
	label := environment.LightLabel(record.After.LightStatus)
	var light aurora.Value
	if record.After.LightStatus == core.LightOn {
		light = t.au.Yellow(label)
	} else {
		light = t.au.Blue(label)
	}

	reward := fmt.Sprintf("%+g", record.Reward)
	var rewardValue aurora.Value
	switch {
	case record.Reward > 1:
		rewardValue = t.au.Bold(t.au.Green(reward))
	case record.Reward > 0:
		rewardValue = t.au.Green(reward)
	case record.Reward < 0:
		rewardValue = t.au.Red(reward)
	default:
		rewardValue = t.au.Faint(reward)
	}

	_, err := fmt.Fprintf(t.out, "Time Step: %d, Light: %s  reward %s\n", record.After.TimeStep, light, rewardValue)
	return err
}

// Consume renders step messages until ch is closed
func (t *Terminal) Consume(ch <-chan messaging.Message) error {
	for msg := range ch {
		if msg.Topic != messaging.TopicStep {
			continue
		}
		record, ok := msg.Content.(core.StepRecord)
		if !ok {
			continue
		}
		if err := t.RenderStep(record); err != nil {
			return err
		}
	}
	return nil
}
