package port

import "context"

// LLM is a single chat backend. Implementations hold their own credentials
// and endpoint; nothing is shared between instances.
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)

	ModelName() string
}

// Transcriber turns one audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// ModelClient submits content under a named prompt template.
type ModelClient interface {
	Submit(ctx context.Context, templateID, content string, vars map[string]any) (string, error)

	ModelName() string
}

// PromptStore resolves prompt templates by id.
type PromptStore interface {
	Render(templateID string, vars map[string]any) (string, error)
}
