package experiment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/messaging"
	"github.com/google/uuid"
)

const DefaultMaxSteps = 288

var ErrStepLimit = errors.New("episode exceeded step limit")

// Environment is what the driver needs from a simulation
type Environment interface {
	core.Environment
	History() []core.HistoryEntry
}

type bonusCounter interface {
	Bonuses() int
}

// EpisodeResult summarises one finished episode
type EpisodeResult struct {
	ID          string
	TotalReward float64
	Steps       int
	Bonuses     int
	History     []core.HistoryEntry
}

type Summary struct {
	Episodes   int
	MeanReward float64
	MinReward  float64
	MaxReward  float64
	Bonuses    int
}

// LightSwitchExperiment drives a policy through one or more episodes
type LightSwitchExperiment struct {
	name     string
	env      Environment
	policy   core.Policy
	episodes int
	maxSteps int
	render   bool
	broker   messaging.Broker
	logger   *log.Logger

	mu      sync.RWMutex
	status  core.ExperimentStatus
	results []EpisodeResult
}

type Option func(*LightSwitchExperiment)

func WithEpisodes(n int) Option {
	return func(e *LightSwitchExperiment) {
		if n > 0 {
			e.episodes = n
		}
	}
}

func WithMaxSteps(n int) Option {
	return func(e *LightSwitchExperiment) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithRender calls env.Render after every step
func WithRender(render bool) Option {
	return func(e *LightSwitchExperiment) {
		e.render = render
	}
}

// WithBroker publishes every step record to the broker
func WithBroker(b messaging.Broker) Option {
	return func(e *LightSwitchExperiment) {
		e.broker = b
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *LightSwitchExperiment) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewLightSwitchExperiment(name string, env Environment, policy core.Policy, opts ...Option) *LightSwitchExperiment {
	e := &LightSwitchExperiment{
		name:     name,
		env:      env,
		policy:   policy,
		episodes: 1,
		maxSteps: DefaultMaxSteps,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *LightSwitchExperiment) Run(ctx context.Context) error {
	e.mu.Lock()
	e.status = core.ExperimentStatus{Running: true, StartTime: time.Now()}
	e.results = nil
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.status.Running = false
		e.status.EndTime = time.Now()
		e.mu.Unlock()
	}()

	for i := 1; i <= e.episodes; i++ {
		result, err := e.runEpisode(ctx)
		if err != nil {
			e.mu.Lock()
			e.status.Errors = append(e.status.Errors, err)
			e.mu.Unlock()
			return fmt.Errorf("episode %d of %s: %w", i, e.name, err)
		}
		e.logger.Printf("Episode %d/%d (%s): total reward %g over %d steps, %d bonuses",
			i, e.episodes, result.ID, result.TotalReward, result.Steps, result.Bonuses)

		e.mu.Lock()
		e.results = append(e.results, result)
		e.status.Episodes++
		e.mu.Unlock()
	}
	return nil
}

func (e *LightSwitchExperiment) runEpisode(ctx context.Context) (EpisodeResult, error) {
	result := EpisodeResult{ID: "episode-" + uuid.New().String()}

	obs := e.env.Reset()
	resetPolicy(e.policy)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if result.Steps >= e.maxSteps {
			return result, fmt.Errorf("%w (%d)", ErrStepLimit, e.maxSteps)
		}

		action, err := e.policy.Act(ctx, obs)
		if err != nil {
			return result, fmt.Errorf("choose action at %v: %w", obs, err)
		}
		next, reward, done, _, err := e.env.Step(action)
		if err != nil {
			return result, fmt.Errorf("step at %v: %w", obs, err)
		}
		result.Steps++
		result.TotalReward += reward

		record := core.StepRecord{
			EpisodeID: result.ID,
			Index:     result.Steps,
			Before:    obs,
			Action:    action,
			After:     next,
			Reward:    reward,
			Done:      done,
			Timestamp: time.Now(),
		}
		if observer, ok := e.policy.(core.Observer); ok {
			observer.Observe(record)
		}
		e.publish(record)

		if e.render {
			if err := e.env.Render(); err != nil {
				return result, fmt.Errorf("render: %w", err)
			}
		}

		obs = next
		if done {
			break
		}
	}

	result.History = e.env.History()
	if counter, ok := e.env.(bonusCounter); ok {
		result.Bonuses = counter.Bonuses()
	}
	return result, nil
}

func (e *LightSwitchExperiment) publish(record core.StepRecord) {
	if e.broker == nil {
		return
	}
	if err := e.broker.Publish(messaging.StepMessage(record)); err != nil {
		e.logger.Printf("Warning: failed to publish step %d of %s: %v", record.Index, record.EpisodeID, err)
	}
}

func resetPolicy(p core.Policy) {
	switch typed := p.(type) {
	case interface{ Reset() }:
		typed.Reset()
	case interface{ Rewind() }:
		typed.Rewind()
	}
}

func (e *LightSwitchExperiment) GetStatus() core.ExperimentStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	status := e.status
	status.Errors = append([]error(nil), e.status.Errors...)
	return status
}

// Results returns the finished episodes in order
func (e *LightSwitchExperiment) Results() []EpisodeResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]EpisodeResult(nil), e.results...)
}

func (e *LightSwitchExperiment) Summary() Summary {
	return Summarize(e.Results())
}

func Summarize(results []EpisodeResult) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	s := Summary{
		Episodes:  len(results),
		MinReward: math.Inf(1),
		MaxReward: math.Inf(-1),
	}
	var total float64
	for _, r := range results {
		total += r.TotalReward
		s.MinReward = math.Min(s.MinReward, r.TotalReward)
		s.MaxReward = math.Max(s.MaxReward, r.TotalReward)
		s.Bonuses += r.Bonuses
	}
	s.MeanReward = total / float64(len(results))
	return s
}

var _ core.Experiment = (*LightSwitchExperiment)(nil)
