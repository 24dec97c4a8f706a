package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "LIGHTSWITCH_"

// ExperimentConfig describes one driver run
type ExperimentConfig struct {
	Name      string
	Episodes  int
	MaxSteps  int // per-episode safety limit
	Seed      int64
	Policy    string // random|scripted|llm
	Actions   string // comma separated script for the scripted policy
	Provider  string // openai|gemini
	Model     string
	Renderer  string // terminal|env|none
	Color     bool
	PlotPath  string
	ServeAddr string
}

func Default() ExperimentConfig {
	return ExperimentConfig{
		Name:     "light_switch",
		Episodes: 1,
		MaxSteps: 288,
		Seed:     1,
		Policy:   "random",
		Provider: "openai",
		Renderer: "terminal",
		Color:    true,
		PlotPath: "charts/light_switch.html",
	}
}

// LoadConfig starts from Default, applies a dotenv-format file when path is
// set, then LIGHTSWITCH_* variables from the process environment
func LoadConfig(path string) (*ExperimentConfig, error) {
	cfg := Default()

	if path != "" {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cfg.apply(values); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.apply(environ()); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c ExperimentConfig) Validate() error {
	if c.Episodes < 1 {
		return fmt.Errorf("episodes must be at least 1, got %d", c.Episodes)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max steps must be at least 1, got %d", c.MaxSteps)
	}
	switch c.Policy {
	case "random", "scripted", "llm":
	default:
		return fmt.Errorf("unsupported policy: %s", c.Policy)
	}
	switch c.Renderer {
	case "terminal", "env", "none":
	default:
		return fmt.Errorf("unsupported renderer: %s", c.Renderer)
	}
	return nil
}

func (c *ExperimentConfig) apply(values map[string]string) error {
	for key, raw := range values {
		name := strings.TrimPrefix(strings.ToUpper(key), envPrefix)
		value := strings.TrimSpace(raw)
		var err error
		switch name {
		case "NAME":
			c.Name = value
		case "EPISODES":
			c.Episodes, err = strconv.Atoi(value)
		case "MAX_STEPS":
			c.MaxSteps, err = strconv.Atoi(value)
		case "SEED":
			c.Seed, err = strconv.ParseInt(value, 10, 64)
		case "POLICY":
			c.Policy = strings.ToLower(value)
		case "ACTIONS":
			c.Actions = value
		case "PROVIDER":
			c.Provider = strings.ToLower(value)
		case "MODEL":
			c.Model = value
		case "RENDERER":
			c.Renderer = strings.ToLower(value)
		case "COLOR":
			c.Color, err = strconv.ParseBool(value)
		case "PLOT":
			c.PlotPath = value
		case "SERVE":
			c.ServeAddr = value
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("invalid %s%s=%q: %w", envPrefix, name, raw, err)
		}
	}
	return nil
}

func environ() map[string]string {
	values := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, envPrefix) {
			values[key] = value
		}
	}
	return values
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() string {
	for _, envFile := range []string{
		".env",
		"../.env",
		"../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			return envFile
		}
	}
	return ""
}
