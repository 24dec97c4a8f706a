package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boristopalov/lightswitch/pkg/providers"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunScriptedEpisodeWritesChart(t *testing.T) {
	chart := filepath.Join(t.TempDir(), "charts", "day.html")
	actions := strings.Repeat("0,", 96) + "1"

	out, err := execute(t, "run", "--policy", "scripted", "--actions", actions, "--renderer", "none", "--plot", chart)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Total reward for the episode: 214") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(chart); err != nil {
		t.Errorf("chart not written: %v", err)
	}
}

func TestRunTerminalRenderer(t *testing.T) {
	out, err := execute(t, "run", "--policy", "scripted", "--no-color", "--plot", "")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if got := strings.Count(out, "Time Step: "); got != 144 {
		t.Errorf("rendered %d steps, want 144", got)
	}
	if !strings.Contains(out, "Time Step: 144, Light: Off  reward -1") {
		t.Errorf("missing final step line:\n%s", out)
	}
	if !strings.HasSuffix(out, "Total reward for the episode: 98\n") {
		t.Errorf("total reward should be printed last:\n%s", out)
	}
}

func TestRunTerminalRendererKeepsEveryStep(t *testing.T) {
	out, err := execute(t, "run", "--policy", "scripted", "--episodes", "5",
		"--max-steps", "1000000000000", "--no-color", "--plot", "")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if got := strings.Count(out, "Time Step: "); got != 5*144 {
		t.Errorf("rendered %d steps, want %d", got, 5*144)
	}
	if got := strings.Count(out, "Time Step: 144, Light: Off  reward -1"); got != 5 {
		t.Errorf("rendered %d final step lines, want 5", got)
	}
	if got := strings.Count(out, "Total reward for the episode: 98"); got != 5 {
		t.Errorf("printed %d episode totals, want 5", got)
	}
}

func TestRunEnvRendererAndSummary(t *testing.T) {
	out, err := execute(t, "run", "--episodes", "2", "--seed", "5", "--renderer", "env", "--plot", "")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if got := strings.Count(out, "Time Step: "); got != 288 {
		t.Errorf("rendered %d steps, want 288", got)
	}
	if strings.Count(out, "Total reward for the episode:") != 2 || !strings.Contains(out, "Episodes: 2") {
		t.Errorf("missing per-episode totals or summary:\n%s", out)
	}
}

type cannedClient struct{ reply string }

func (c cannedClient) Complete(context.Context, string, string) (string, error) {
	return c.reply, nil
}

func TestRunLLMPolicy(t *testing.T) {
	orig := newProvider
	t.Cleanup(func() { newProvider = orig })
	newProvider = func(ctx context.Context, name string, opts ...providers.ProviderOption) (providers.Client, error) {
		return cannedClient{reply: "The light is off and it is day.\nANSWER: 0"}, nil
	}

	out, err := execute(t, "run", "--policy", "llm", "--renderer", "none", "--plot", "")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Total reward for the episode: 98") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"run", "--policy", "q-learning"},
		{"run", "--policy", "scripted", "--actions", "0,2", "--renderer", "none", "--plot", ""},
		{"run", "--episodes", "0"},
		{"run", "--renderer", "hologram"},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestSpacesCommand(t *testing.T) {
	out, err := execute(t, "spaces")
	if err != nil {
		t.Fatalf("spaces: %v", err)
	}
	want := "action space: Discrete(2)\nobservation space: Tuple(Discrete(2), Discrete(144))\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
