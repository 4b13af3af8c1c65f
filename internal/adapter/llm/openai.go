package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
	"scribe/internal/domain"
)

// OpenAIClient talks to OpenAI or an Azure OpenAI deployment. It serves both
// chat completions and Whisper transcription.
type OpenAIClient struct {
	client       openai.Client
	model        string
	temperature  float64
	maxTokens    int
	whisperModel string
	language     string
}

// OpenAIConfig provides configuration for an OpenAI client.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  float64
	MaxTokens    int
	WhisperModel string
	Language     string
}

// AzureConfig provides configuration for an Azure OpenAI client.
type AzureConfig struct {
	Resource   string
	APIVersion string
	Deployment string
	OpenAIConfig
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required (OPENAI_API_KEY)")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return newOpenAIClient(cfg, opts), nil
}

// NewAzureClient targets https://{resource}.openai.azure.com.
func NewAzureClient(cfg AzureConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Azure OpenAI API key is required (AZURE_OPENAI_API_KEY)")
	}
	if cfg.Resource == "" || cfg.APIVersion == "" {
		return nil, errors.New("Azure resource and API version are required (AZ_RESOURCE, AZ_VERSION)")
	}
	endpoint := fmt.Sprintf("https://%s.openai.azure.com", cfg.Resource)
	opts := []option.RequestOption{
		azure.WithEndpoint(endpoint, cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
	}
	inner := cfg.OpenAIConfig
	if cfg.Deployment != "" {
		inner.Model = cfg.Deployment
	}
	return newOpenAIClient(inner, opts), nil
}

func newOpenAIClient(cfg OpenAIConfig, opts []option.RequestOption) *OpenAIClient {
	whisper := cfg.WhisperModel
	if whisper == "" {
		whisper = string(openai.AudioModelWhisper1)
	}
	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		whisperModel: whisper,
		language:     cfg.Language,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userContent),
		},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned by OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:           f,
		Model:          openai.AudioModel(c.whisperModel),
		ResponseFormat: openai.AudioResponseFormatJSON,
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", domain.ErrTranscriptionFailed
	}
	return text, nil
}

func (c *OpenAIClient) ModelName() string {
	return c.model
}
