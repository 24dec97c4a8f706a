package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/messaging"
)

func TestRenderStepPlain(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	records := []core.StepRecord{
		{After: core.Observation{LightStatus: 1, TimeStep: 1}, Reward: -1},
		{After: core.Observation{LightStatus: 0, TimeStep: 19}, Reward: 11},
	}
	for _, r := range records {
		if err := term.RenderStep(r); err != nil {
			t.Fatalf("render: %v", err)
		}
	}

	want := "Time Step: 1, Light: On  reward -1\nTime Step: 19, Light: Off  reward +11\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderStepColor(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTerminal(&buf, true).RenderStep(core.StepRecord{
		After:  core.Observation{LightStatus: 1, TimeStep: 100},
		Reward: 1,
	}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", buf.String())
	}
}

func TestConsume(t *testing.T) {
	var buf bytes.Buffer
	ch := make(chan messaging.Message, 3)
	ch <- messaging.StepMessage(core.StepRecord{After: core.Observation{TimeStep: 1}, Reward: 1})
	ch <- messaging.Message{Topic: messaging.TopicEpisode, Content: "ignored"}
	ch <- messaging.StepMessage(core.StepRecord{After: core.Observation{TimeStep: 2}, Reward: 1})
	close(ch)

	if err := NewTerminal(&buf, false).Consume(ch); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Errorf("rendered %d lines, want 2:\n%s", lines, buf.String())
	}
}
