package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for scribe.
type Config struct {
	Model    ModelConfig    `yaml:"model" toml:"model"`
	Retry    RetryConfig    `yaml:"retry" toml:"retry"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio"`
	Pipeline PipelineConfig `yaml:"pipeline" toml:"pipeline"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Keys     KeysConfig     `yaml:"-" toml:"-"`
}

// ModelConfig holds the model backend and token budget.
type ModelConfig struct {
	Backend               string        `yaml:"backend" toml:"backend" env:"AI_TYPE"` // "openai", "azure", "anthropic", "gemini", "mock"
	Name                  string        `yaml:"name" toml:"name" env:"MODEL"`
	Temperature           float64       `yaml:"temperature" toml:"temperature" env:"TEMPERATURE"`
	ContextLimit          int           `yaml:"context_limit" toml:"context_limit" env:"MAX_CONTEXT"`
	ReservedSummaryBudget int           `yaml:"reserved_summary_budget" toml:"reserved_summary_budget" env:"MAX_SUMMARY_LENGTH"`
	Encoding              string        `yaml:"encoding" toml:"encoding" env:"SCRIBE_ENCODING"` // tiktoken encoding or "approx"
	BaseURL               string        `yaml:"base_url" toml:"base_url" env:"OPENAI_BASE_URL"`
	AzureResource         string        `yaml:"azure_resource" toml:"azure_resource" env:"AZ_RESOURCE"`
	AzureVersion          string        `yaml:"azure_version" toml:"azure_version" env:"AZ_VERSION"`
	TranscriptionModel    string        `yaml:"transcription_model" toml:"transcription_model" env:"WHISPER_MODEL"`
	Language              string        `yaml:"language" toml:"language" env:"TRANSCRIPTION_LANGUAGE"`
	Timeout               time.Duration `yaml:"timeout" toml:"timeout" env:"SCRIBE_TIMEOUT"`
}

// KeysConfig holds credentials. They are read from the environment only.
type KeysConfig struct {
	OpenAI    string `env:"OPENAI_API_KEY"`
	Azure     string `env:"AZURE_OPENAI_API_KEY"`
	Anthropic string `env:"ANTHROPIC_API_KEY"`
	Gemini    string `env:"GEMINI_API_KEY"`
}

// RetryConfig holds the retry policy for model and transcription calls.
type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts" toml:"max_attempts" env:"SCRIBE_RETRY_ATTEMPTS"`
	InitialInterval time.Duration `yaml:"initial_interval" toml:"initial_interval"`
	Multiplier      float64       `yaml:"multiplier" toml:"multiplier"`
	MaxInterval     time.Duration `yaml:"max_interval" toml:"max_interval"`
}

// AudioConfig holds segmentation and diarization settings.
type AudioConfig struct {
	MaxSegmentBytes      int     `yaml:"max_segment_bytes" toml:"max_segment_bytes" env:"MAX_AUDIO_SEGMENT_BYTES"`
	SilenceThresholdDB   float64 `yaml:"silence_threshold_db" toml:"silence_threshold_db" env:"SILENCE_THRESHOLD_DB"`
	MinSilenceDurationMs int     `yaml:"min_silence_duration_ms" toml:"min_silence_duration_ms" env:"MIN_SILENCE_DURATION_MS"`
	MinTurnMs            int     `yaml:"min_turn_ms" toml:"min_turn_ms"`
	Speaker              string  `yaml:"speaker" toml:"speaker"`
	FFmpegPath           string  `yaml:"ffmpeg_path" toml:"ffmpeg_path" env:"FFMPEG_PATH"`
}

// PipelineConfig holds run-level settings.
type PipelineConfig struct {
	Concurrency        int    `yaml:"concurrency" toml:"concurrency" env:"SCRIBE_CONCURRENCY"`
	SegmentConcurrency int    `yaml:"segment_concurrency" toml:"segment_concurrency"`
	OutputDir          string `yaml:"output_dir" toml:"output_dir" env:"SCRIBE_OUTPUT_DIR"`
	NotesFile          string `yaml:"notes_file" toml:"notes_file"`
	Intermediate       bool   `yaml:"intermediate" toml:"intermediate"`
	PromptsDir         string `yaml:"prompts_dir" toml:"prompts_dir" env:"SCRIBE_PROMPTS_DIR"`
}

// CacheConfig holds the summary cache backend.
type CacheConfig struct {
	Backend  string        `yaml:"backend" toml:"backend" env:"SCRIBE_CACHE"` // "none", "memory", "bolt", "redis"
	Path     string        `yaml:"path" toml:"path"`
	RedisURL string        `yaml:"redis_url" toml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl" toml:"ttl"`
	Capacity int           `yaml:"capacity" toml:"capacity"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" toml:"level" env:"SCRIBE_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Backend:               "openai",
			Name:                  "gpt-4o-mini",
			Temperature:           0.2,
			ContextLimit:          16000,
			ReservedSummaryBudget: 2000,
			Encoding:              "cl100k_base",
			TranscriptionModel:    "whisper-1",
			Language:              "en",
			Timeout:               2 * time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 2 * time.Second,
			Multiplier:      2,
			MaxInterval:     30 * time.Second,
		},
		Audio: AudioConfig{
			MaxSegmentBytes:      24 * 1024 * 1024,
			SilenceThresholdDB:   -40,
			MinSilenceDurationMs: 450,
			MinTurnMs:            150,
			Speaker:              "SPEAKER_00",
			FFmpegPath:           "ffmpeg",
		},
		Pipeline: PipelineConfig{
			Concurrency:        4,
			SegmentConcurrency: 2,
			OutputDir:          "output",
			NotesFile:          "notes.txt",
		},
		Cache: CacheConfig{
			Backend:  "none",
			Path:     filepath.Join(".scribe", "cache.db"),
			RedisURL: "redis://localhost:6379/0",
			TTL:      7 * 24 * time.Hour,
			Capacity: 256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML or TOML file (by extension) and then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// LoadFromDir looks for scribe.yaml, .scribe/config.yaml, then scribe.toml.
func LoadFromDir(dir string) (*Config, error) {
	candidates := []string{
		filepath.Join(dir, "scribe.yaml"),
		filepath.Join(dir, ".scribe", "config.yaml"),
		filepath.Join(dir, "scribe.toml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate checks that the budget leaves room for content.
func (c *Config) Validate() error {
	if c.Model.ContextLimit <= 0 {
		return fmt.Errorf("context_limit must be positive, got %d", c.Model.ContextLimit)
	}
	if c.Model.ReservedSummaryBudget <= 0 {
		return fmt.Errorf("reserved_summary_budget must be positive, got %d", c.Model.ReservedSummaryBudget)
	}
	if c.Model.ReservedSummaryBudget >= c.Model.ContextLimit {
		return fmt.Errorf("reserved_summary_budget (%d) must be below context_limit (%d)",
			c.Model.ReservedSummaryBudget, c.Model.ContextLimit)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Audio.MaxSegmentBytes <= 0 {
		return fmt.Errorf("audio.max_segment_bytes must be positive, got %d", c.Audio.MaxSegmentBytes)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the bolt cache path, resolved against dir when relative.
func (c *Config) CacheDBPath(dir string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(dir, c.Cache.Path)
}

// EnsureDir ensures the parent directory of path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
