package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/boristopalov/lightswitch/pkg/agent"
	"github.com/boristopalov/lightswitch/pkg/config"
	"github.com/boristopalov/lightswitch/pkg/core"
	"github.com/boristopalov/lightswitch/pkg/environment"
	"github.com/boristopalov/lightswitch/pkg/experiment"
	"github.com/boristopalov/lightswitch/pkg/messaging"
	"github.com/boristopalov/lightswitch/pkg/plot"
	"github.com/boristopalov/lightswitch/pkg/providers"
	"github.com/boristopalov/lightswitch/pkg/render"
)

const rendererID = "terminal-renderer"

// newProvider is swapped out in tests
var newProvider = providers.New

func runExperiment(ctx context.Context, cfg *config.ExperimentConfig, out io.Writer) error {
	env := environment.NewLightSwitchEnvironment(environment.WithOutput(out))

	policy, err := buildPolicy(ctx, cfg, env)
	if err != nil {
		return err
	}

	broker := messaging.NewBroker()
	defer broker.Reset()

	opts := []experiment.Option{
		experiment.WithEpisodes(cfg.Episodes),
		experiment.WithMaxSteps(cfg.MaxSteps),
		experiment.WithRender(cfg.Renderer == "env"),
		experiment.WithBroker(broker),
	}

	var rendered chan error
	var steps chan messaging.Message
	if cfg.Renderer == "terminal" {
		steps = make(chan messaging.Message, environment.StepsPerDay)
		if err := broker.SubscribeBlocking(rendererID, steps); err != nil {
			return err
		}
		rendered = make(chan error, 1)
		term := render.NewTerminal(out, cfg.Color)
		go func() {
			err := term.Consume(steps)
			// keep draining so a failed writer cannot stall the experiment
			for range steps {
			}
			rendered <- err
		}()
	}

	exp := experiment.NewLightSwitchExperiment(cfg.Name, env, policy, opts...)
	runErr := exp.Run(ctx)

	if steps != nil {
		if err := broker.Unsubscribe(rendererID); err != nil {
			log.Printf("Warning: %v", err)
		}
		close(steps)
		if err := <-rendered; err != nil && runErr == nil {
			runErr = fmt.Errorf("render: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	results := exp.Results()
	for _, r := range results {
		fmt.Fprintf(out, "Total reward for the episode: %g\n", r.TotalReward)
	}
	if len(results) > 1 {
		s := exp.Summary()
		fmt.Fprintf(out, "Episodes: %d, mean reward: %.2f, min: %g, max: %g, bonuses: %d\n",
			s.Episodes, s.MeanReward, s.MinReward, s.MaxReward, s.Bonuses)
	}

	if cfg.PlotPath == "" {
		return nil
	}
	series := make([]plot.Series, 0, len(results))
	for _, r := range results {
		series = append(series, plot.Series{Name: r.ID, History: r.History})
	}
	if err := plot.SaveHistoryChart(cfg.PlotPath, plot.Options{}, series...); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	log.Printf("Wrote chart to %s", cfg.PlotPath)

	if cfg.ServeAddr != "" {
		return plot.Serve(ctx, cfg.ServeAddr, filepath.Dir(cfg.PlotPath))
	}
	return nil
}

func buildPolicy(ctx context.Context, cfg *config.ExperimentConfig, env core.Environment) (core.Policy, error) {
	switch cfg.Policy {
	case "random":
		return agent.NewRandomAgent(env.ActionSpace(), cfg.Seed), nil
	case "scripted":
		actions, err := agent.ParseActions(cfg.Actions)
		if err != nil {
			return nil, err
		}
		return agent.NewScriptedAgent(actions), nil
	case "llm":
		client, err := newProvider(ctx, cfg.Provider)
		if err != nil {
			return nil, err
		}
		model := cfg.Model
		if model == "" {
			model = providers.DefaultModel(cfg.Provider)
		}
		a, err := agent.NewLLMAgent(
			agent.WithClient(client),
			agent.WithModel(agent.ModelInfo{Id: model, Config: make(map[string]any)}),
		)
		if err != nil {
			return nil, err
		}
		log.Printf("Created %s using %s/%s", a.GetID(), cfg.Provider, model)
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported policy: %s", cfg.Policy)
	}
}
