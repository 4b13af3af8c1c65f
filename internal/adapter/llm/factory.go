package llm

import (
	"context"
	"errors"
	"fmt"

	"scribe/config"
	"scribe/internal/port"
)

// Backend is the pair of services a run needs. Transcriber is nil when the
// configured credentials offer no transcription endpoint.
type Backend struct {
	LLM         port.LLM
	Transcriber port.Transcriber
}

// ErrNoTranscriber is returned when audio is submitted without a backend able
// to transcribe it.
var ErrNoTranscriber = errors.New("no transcription backend configured (set OPENAI_API_KEY or use the azure backend)")

// NewBackend builds the configured backend. Each call returns independent
// clients; nothing is shared between them.
func NewBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	m := cfg.Model
	openaiCfg := OpenAIConfig{
		APIKey:       cfg.Keys.OpenAI,
		BaseURL:      m.BaseURL,
		Model:        m.Name,
		Temperature:  m.Temperature,
		MaxTokens:    m.ReservedSummaryBudget,
		WhisperModel: m.TranscriptionModel,
		Language:     m.Language,
	}

	switch m.Backend {
	case "openai":
		c, err := NewOpenAIClient(openaiCfg)
		if err != nil {
			return nil, err
		}
		return &Backend{LLM: c, Transcriber: c}, nil

	case "azure":
		azureCfg := AzureConfig{
			Resource:     m.AzureResource,
			APIVersion:   m.AzureVersion,
			OpenAIConfig: openaiCfg,
		}
		azureCfg.APIKey = cfg.Keys.Azure
		c, err := NewAzureClient(azureCfg)
		if err != nil {
			return nil, err
		}
		return &Backend{LLM: c, Transcriber: c}, nil

	case "anthropic":
		c, err := NewAnthropicClient(AnthropicConfig{
			APIKey:      cfg.Keys.Anthropic,
			Model:       m.Name,
			Temperature: m.Temperature,
			MaxTokens:   m.ReservedSummaryBudget,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{LLM: c, Transcriber: whisperFallback(openaiCfg)}, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:      cfg.Keys.Gemini,
			Model:       m.Name,
			Temperature: m.Temperature,
			MaxTokens:   m.ReservedSummaryBudget,
		})
		if err != nil {
			return nil, err
		}
		return &Backend{LLM: c, Transcriber: whisperFallback(openaiCfg)}, nil

	case "mock":
		c := NewMockClient(m.ReservedSummaryBudget / 2)
		return &Backend{LLM: c, Transcriber: c}, nil

	default:
		return nil, fmt.Errorf("unsupported model backend: %s", m.Backend)
	}
}

// whisperFallback uses OpenAI transcription alongside a chat backend that
// has none, when an OpenAI key is present.
func whisperFallback(cfg OpenAIConfig) port.Transcriber {
	if cfg.APIKey == "" {
		return nil
	}
	c, err := NewOpenAIClient(cfg)
	if err != nil {
		return nil
	}
	return c
}
