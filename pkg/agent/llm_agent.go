package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/memory"
)

const (
	SYSTEM_PROMPT = `You control a light switch in a home over one simulated day split into 144 ten-minute slots (slot 0 is midnight). Each slot you either leave the switch alone (action 0) or flip it (action 1). After every slot the resident approves (+1) or disapproves (-1) of the light. Keeping the resident happy for a long streak earns a bonus.`

	ACTION_PROMPT_TEMPLATE = `%s

It is now slot %d (%s). The light is currently %s.

%s

Which action do you take? Very briefly think step by step and then give your answer after the string "ANSWER" like so: ANSWER: 0`

	RETRY_PROMPT_TEMPLATE = `Your previous response did not include the required format. Here was your response:

%s

Reply with exactly "ANSWER: 0" to leave the switch alone or "ANSWER: 1" to flip it.`

	historyWindow = 6
)

var answerPattern = regexp.MustCompile(`ANSWER:\s*([01])\b`)

type ModelInfo struct {
	Id     string         // e.g. "gpt-4o-mini"
	Config map[string]any // model-specific configuration
}

// LLMClient is the subset of a provider the agent needs
type LLMClient interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
}

// LLMAgent asks a language model for each action
type LLMAgent struct {
	id     string
	model  ModelInfo
	client LLMClient
	memory *memory.Memory
	logger *log.Logger
}

type AgentParams struct {
	AgentID        string
	Model          ModelInfo
	Client         LLMClient
	MemoryCapacity int
	Logger         *log.Logger
}

type AgentOption func(*AgentParams)

func WithModel(model ModelInfo) AgentOption {
	return func(p *AgentParams) {
		p.Model = model
	}
}

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithClient(c LLMClient) AgentOption {
	return func(p *AgentParams) {
		p.Client = c
	}
}

func WithMemoryCapacity(n int) AgentOption {
	return func(p *AgentParams) {
		p.MemoryCapacity = n
	}
}

func WithLogger(l *log.Logger) AgentOption {
	return func(p *AgentParams) {
		p.Logger = l
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID: newAgentID(),
		Model: ModelInfo{
			Id:     "gpt-4o-mini",
			Config: make(map[string]any),
		},
		MemoryCapacity: 100,
		Logger:         log.Default(),
	}
}

func NewLLMAgent(opts ...AgentOption) (*LLMAgent, error) {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.Client == nil {
		return nil, fmt.Errorf("llm agent %s has no client", params.AgentID)
	}

	return &LLMAgent{
		id:     params.AgentID,
		model:  params.Model,
		client: params.Client,
		memory: memory.NewMemory(params.MemoryCapacity),
		logger: params.Logger,
	}, nil
}

func (a *LLMAgent) GetID() string {
	return a.id
}

func (a *LLMAgent) GetModel() ModelInfo {
	return a.model
}

func (a *LLMAgent) GetMemory() *memory.Memory {
	return a.memory
}

// Act prompts the model once, retries once on a malformed reply and
// otherwise leaves the switch alone
func (a *LLMAgent) Act(ctx context.Context, obs core.Observation) (int, error) {
	prompt := a.actionPrompt(obs)
	response, err := a.client.Complete(ctx, a.model.Id, prompt)
	if err != nil {
		return 0, fmt.Errorf("agent %s: failed to generate response: %w", a.id, err)
	}

	action, ok := parseActionResponse(response)
	if ok {
		return action, nil
	}

	response, err = a.client.Complete(ctx, a.model.Id, fmt.Sprintf(RETRY_PROMPT_TEMPLATE, response))
	if err != nil {
		return 0, fmt.Errorf("agent %s: failed to generate response on retry: %w", a.id, err)
	}
	if action, ok = parseActionResponse(response); ok {
		return action, nil
	}
	a.logger.Printf("agent %s: no action in response, defaulting to no-op: %q", a.id, response)
	return core.ActionNoop, nil
}

// Observe remembers the outcome of a step for later prompts
func (a *LLMAgent) Observe(record core.StepRecord) {
	verb := "left the switch alone"
	if record.Action == core.ActionToggle {
		verb = "flipped the switch"
	}
	note := fmt.Sprintf("Slot %d: I %s, the light was %s, reward %+g",
		record.Before.TimeStep, verb, lightWord(record.After.LightStatus), record.Reward)
	if err := a.memory.Store(note); err != nil {
		a.logger.Printf("agent %s: failed to store memory: %v", a.id, err)
	}
}

// Reset forgets the previous episode
func (a *LLMAgent) Reset() {
	a.memory.Clear()
}

func (a *LLMAgent) actionPrompt(obs core.Observation) string {
	recent := a.memory.Recent(historyWindow)
	history := "This is the first slot of the day, so there is no history yet."
	if len(recent) > 0 {
		history = "Your most recent slots:\n" + strings.Join(recent, "\n")
	}
	return fmt.Sprintf(ACTION_PROMPT_TEMPLATE,
		SYSTEM_PROMPT,
		obs.TimeStep,
		clockTime(obs.TimeStep),
		lightWord(obs.LightStatus),
		history,
	)
}

func parseActionResponse(response string) (int, bool) {
	matches := answerPattern.FindStringSubmatch(response)
	if len(matches) < 2 {
		return 0, false
	}
	action, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return action, true
}

// clockTime renders a 10 minute slot as HH:MM
func clockTime(slot int) string {
	minutes := slot * 10
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

func lightWord(status int) string {
	if status == core.LightOn {
		return "on"
	}
	return "off"
}
