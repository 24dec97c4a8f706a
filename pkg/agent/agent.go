package agent

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/spaces"
	"github.com/google/uuid"
)

// Agent is an identifiable action-selection policy
type Agent interface {
	core.Policy
	GetID() string
}

func newAgentID() string {
	return "agent-" + uuid.New().String()
}

// RandomAgent samples uniformly from the action space
type RandomAgent struct {
	id    string
	space spaces.Discrete
	mu    sync.Mutex
	rng   *rand.Rand
}

func NewRandomAgent(space spaces.Discrete, seed int64) *RandomAgent {
	return &RandomAgent{
		id:    newAgentID(),
		space: space,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) GetID() string {
	return a.id
}

func (a *RandomAgent) Act(ctx context.Context, _ core.Observation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.space.Sample(a.rng), nil
}

// ScriptedAgent replays a fixed action sequence and then does nothing
type ScriptedAgent struct {
	id      string
	actions []int
	next    int
}

func NewScriptedAgent(actions []int) *ScriptedAgent {
	return &ScriptedAgent{
		id:      newAgentID(),
		actions: append([]int(nil), actions...),
	}
}

func (a *ScriptedAgent) GetID() string {
	return a.id
}

func (a *ScriptedAgent) Act(ctx context.Context, _ core.Observation) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if a.next >= len(a.actions) {
		return core.ActionNoop, nil
	}
	action := a.actions[a.next]
	a.next++
	return action, nil
}

// Rewind restarts the script, typically at the start of an episode
func (a *ScriptedAgent) Rewind() {
	a.next = 0
}

// ParseActions parses a comma separated action list such as "1,0,0,1"
func ParseActions(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	actions := make([]int, 0, len(fields))
	for _, f := range fields {
		switch strings.TrimSpace(f) {
		case "0":
			actions = append(actions, core.ActionNoop)
		case "1":
			actions = append(actions, core.ActionToggle)
		default:
			return nil, fmt.Errorf("invalid action %q, want 0 or 1", f)
		}
	}
	return actions, nil
}
