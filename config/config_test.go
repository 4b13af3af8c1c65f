package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.InitialInterval != 2*time.Second {
		t.Errorf("expected InitialInterval=2s, got %v", cfg.Retry.InitialInterval)
	}
	if cfg.Retry.MaxInterval != 30*time.Second {
		t.Errorf("expected MaxInterval=30s, got %v", cfg.Retry.MaxInterval)
	}
	if cfg.Audio.MinSilenceDurationMs != 450 {
		t.Errorf("expected MinSilenceDurationMs=450, got %d", cfg.Audio.MinSilenceDurationMs)
	}
	if cfg.Audio.SilenceThresholdDB != -40 {
		t.Errorf("expected SilenceThresholdDB=-40, got %f", cfg.Audio.SilenceThresholdDB)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/scribe.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scribe.yaml")

	content := `
model:
  context_limit: 8000
  reserved_summary_budget: 1000
retry:
  initial_interval: 500ms
pipeline:
  concurrency: 2
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Model.ContextLimit != 8000 {
		t.Errorf("expected ContextLimit=8000, got %d", cfg.Model.ContextLimit)
	}
	if cfg.Model.ReservedSummaryBudget != 1000 {
		t.Errorf("expected ReservedSummaryBudget=1000, got %d", cfg.Model.ReservedSummaryBudget)
	}
	if cfg.Retry.InitialInterval != 500*time.Millisecond {
		t.Errorf("expected InitialInterval=500ms, got %v", cfg.Retry.InitialInterval)
	}
	if cfg.Pipeline.Concurrency != 2 {
		t.Errorf("expected Concurrency=2, got %d", cfg.Pipeline.Concurrency)
	}
	// untouched sections keep their defaults
	if cfg.Audio.MinTurnMs != 150 {
		t.Errorf("expected MinTurnMs=150, got %d", cfg.Audio.MinTurnMs)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scribe.toml")

	content := `
[model]
backend = "anthropic"
name = "claude-3-5-haiku-latest"

[cache]
backend = "bolt"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.Backend != "anthropic" {
		t.Errorf("expected Backend=anthropic, got %s", cfg.Model.Backend)
	}
	if cfg.Cache.Backend != "bolt" {
		t.Errorf("expected cache Backend=bolt, got %s", cfg.Cache.Backend)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "scribe.yaml")
	if err := os.WriteFile(configPath, []byte("model:\n  context_limit: 8000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MAX_CONTEXT", "4096")
	t.Setenv("MAX_SUMMARY_LENGTH", "512")
	t.Setenv("TEMPERATURE", "0.7")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model.ContextLimit != 4096 {
		t.Errorf("expected ContextLimit=4096, got %d", cfg.Model.ContextLimit)
	}
	if cfg.Model.ReservedSummaryBudget != 512 {
		t.Errorf("expected ReservedSummaryBudget=512, got %d", cfg.Model.ReservedSummaryBudget)
	}
	if cfg.Model.Temperature != 0.7 {
		t.Errorf("expected Temperature=0.7, got %f", cfg.Model.Temperature)
	}
	if cfg.Keys.OpenAI != "sk-test" {
		t.Errorf("expected OpenAI key from env, got %q", cfg.Keys.OpenAI)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".scribe"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".scribe", "config.yaml")

	content := `
pipeline:
  notes_file: minutes.txt
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pipeline.NotesFile != "minutes.txt" {
		t.Errorf("expected NotesFile=minutes.txt, got %s", cfg.Pipeline.NotesFile)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.ReservedSummaryBudget = cfg.Model.ContextLimit
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when reserved budget equals context limit")
	}

	cfg = DefaultConfig()
	cfg.Retry.MaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero attempts")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	cfg := DefaultConfig()
	cfg.Keys.OpenAI = "sk-secret"
	cfg.Model.ContextLimit = 9000

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Error("credentials must not be written to the config file")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Model.ContextLimit != 9000 {
		t.Errorf("expected ContextLimit=9000, got %d", loaded.Model.ContextLimit)
	}
}

func TestCacheDBPath(t *testing.T) {
	cfg := DefaultConfig()
	path := cfg.CacheDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".scribe", "cache.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
