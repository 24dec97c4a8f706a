package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/boristopalov/lightswitch/pkg/config"
	"github.com/boristopalov/lightswitch/pkg/environment"
)

func main() {
	if envFile := config.LoadDotEnv(); envFile != "" {
		log.Printf("Loaded %s", envFile)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lightswitch",
		Short: "Lightswitch simulates a day of light switch control and scores the agent against a resident's preferences.",
	}
	rootCmd.AddCommand(newRunCmd(), newSpacesCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	var configPath string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run light switch episodes and plot the light status over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			return runExperiment(ctx, cfg, cmd.OutOrStdout())
		},
	}

	flags := runCmd.Flags()
	flags.StringVar(&configPath, "config", "", "dotenv-format experiment config file")
	flags.Int("episodes", 1, "number of episodes to run")
	flags.Int("max-steps", 288, "per-episode step limit")
	flags.Int64("seed", 1, "random policy seed")
	flags.String("policy", "random", "action policy: random|scripted|llm")
	flags.String("actions", "", "comma separated actions for the scripted policy, e.g. 0,0,1")
	flags.String("provider", "openai", "llm provider: openai|gemini")
	flags.String("model", "", "llm model id (provider default when empty)")
	flags.String("renderer", "terminal", "step output: terminal|env|none")
	flags.Bool("no-color", false, "disable coloured terminal output")
	flags.String("plot", "charts/light_switch.html", "write the history chart to this HTML file (empty disables)")
	flags.String("serve", "", "serve the chart directory on this address after the run, e.g. localhost:8089")
	return runCmd
}

// applyFlags overrides config values with the flags the user actually set
func applyFlags(cmd *cobra.Command, cfg *config.ExperimentConfig) error {
	flags := cmd.Flags()
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("episodes", func() (e error) { cfg.Episodes, e = flags.GetInt("episodes"); return })
	set("max-steps", func() (e error) { cfg.MaxSteps, e = flags.GetInt("max-steps"); return })
	set("seed", func() (e error) { cfg.Seed, e = flags.GetInt64("seed"); return })
	set("policy", func() (e error) { cfg.Policy, e = flags.GetString("policy"); return })
	set("actions", func() (e error) { cfg.Actions, e = flags.GetString("actions"); return })
	set("provider", func() (e error) { cfg.Provider, e = flags.GetString("provider"); return })
	set("model", func() (e error) { cfg.Model, e = flags.GetString("model"); return })
	set("renderer", func() (e error) { cfg.Renderer, e = flags.GetString("renderer"); return })
	set("plot", func() (e error) { cfg.PlotPath, e = flags.GetString("plot"); return })
	set("serve", func() (e error) { cfg.ServeAddr, e = flags.GetString("serve"); return })
	set("no-color", func() error {
		noColor, e := flags.GetBool("no-color")
		cfg.Color = !noColor
		return e
	})
	if err != nil {
		return err
	}
	return cfg.Validate()
}

func newSpacesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spaces",
		Short: "Print the action and observation spaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := environment.NewLightSwitchEnvironment()
			fmt.Fprintf(cmd.OutOrStdout(), "action space: %s\nobservation space: %s\n",
				env.ActionSpace(), env.ObservationSpace())
			return nil
		},
	}
}
