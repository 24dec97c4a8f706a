package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Episodes != 1 || cfg.Policy != "random" || cfg.MaxSteps != 288 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.env")
	contents := "LIGHTSWITCH_EPISODES=3\nLIGHTSWITCH_POLICY=scripted\nLIGHTSWITCH_ACTIONS=1,0,1\nSEED=7\nUNRELATED=x\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LIGHTSWITCH_EPISODES", "5")
	t.Setenv("LIGHTSWITCH_RENDERER", "none")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Episodes != 5 {
		t.Errorf("Episodes = %d, want environment override 5", cfg.Episodes)
	}
	if cfg.Policy != "scripted" || cfg.Actions != "1,0,1" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.Renderer != "none" {
		t.Errorf("Renderer = %q, want none from the environment", cfg.Renderer)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("bad number", func(t *testing.T) {
		t.Setenv("LIGHTSWITCH_EPISODES", "many")
		if _, err := LoadConfig(""); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("unknown renderer", func(t *testing.T) {
		t.Setenv("LIGHTSWITCH_RENDERER", "hologram")
		if _, err := LoadConfig(""); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("unknown policy", func(t *testing.T) {
		t.Setenv("LIGHTSWITCH_POLICY", "q-learning")
		if _, err := LoadConfig(""); err == nil {
			t.Error("expected validation error")
		}
	})
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDotEnvSearchesParents(t *testing.T) {
	const key = "LIGHTSWITCH_DOTENV_SEARCH_TEST"
	writeEnv := func(t *testing.T, dir, value string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"="+value+"\n"), 0o600); err != nil {
			t.Fatalf("write .env: %v", err)
		}
	}
	tests := []struct {
		name      string
		envDirs   map[string]string // dir relative to root -> value
		wantFile  string
		wantValue string
	}{
		{"working directory wins", map[string]string{"a/b": "cwd", "a": "parent", ".": "root"}, ".env", "cwd"},
		{"nearest parent", map[string]string{"a": "parent", ".": "root"}, "../.env", "parent"},
		{"grandparent", map[string]string{".": "root"}, "../../.env", "root"},
		{"nothing found", nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Unsetenv(key) })

			root := t.TempDir()
			cwd := filepath.Join(root, "a", "b")
			if err := os.MkdirAll(cwd, 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			for dir, value := range tt.envDirs {
				writeEnv(t, filepath.Join(root, dir), value)
			}
			chdir(t, cwd)

			if got := LoadDotEnv(); got != tt.wantFile {
				t.Errorf("LoadDotEnv() = %q, want %q", got, tt.wantFile)
			}
			if got := os.Getenv(key); got != tt.wantValue {
				t.Errorf("%s = %q, want %q", key, got, tt.wantValue)
			}
		})
	}
}
