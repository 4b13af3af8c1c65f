package llm

import (
	"context"
	"fmt"
	"time"

	"scribe/internal/port"
	"scribe/internal/retry"
)

// Client renders the named prompt as the system message and submits content
// to the backend under the retry policy.
type Client struct {
	llm       port.LLM
	prompts   port.PromptStore
	policy    retry.Policy
	maxLength int
	timeout   time.Duration
}

func NewClient(llm port.LLM, prompts port.PromptStore, policy retry.Policy, maxLength int) *Client {
	return &Client{
		llm:       llm,
		prompts:   prompts,
		policy:    policy,
		maxLength: maxLength,
	}
}

// Submit fails with domain.ErrPromptTemplateNotFound for an unknown template
// and with *domain.ExternalServiceError once retries are exhausted.
func (c *Client) Submit(ctx context.Context, templateID, content string, vars map[string]any) (string, error) {
	system, err := c.SystemPrompt(templateID, vars)
	if err != nil {
		return "", err
	}
	return retry.Do(ctx, c.policy, "submit "+templateID, func(ctx context.Context) (string, error) {
		return withTimeout(ctx, c.timeout, func(ctx context.Context) (string, error) {
			return c.llm.Complete(ctx, system, content)
		})
	})
}

// WithTimeout bounds each attempt. A timed out attempt is retried.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// withTimeout runs fn under a per-attempt deadline. Hitting that deadline is
// reported without wrapping context.DeadlineExceeded so the policy retries it.
func withTimeout(ctx context.Context, d time.Duration, fn func(context.Context) (string, error)) (string, error) {
	if d <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	out, err := fn(attemptCtx)
	if err != nil && ctx.Err() == nil && attemptCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("call timed out after %s", d)
	}
	return out, err
}

// SystemPrompt renders templateID with max_length set to the reserved budget.
func (c *Client) SystemPrompt(templateID string, vars map[string]any) (string, error) {
	merged := map[string]any{"max_length": c.maxLength}
	for k, v := range vars {
		merged[k] = v
	}
	system, err := c.prompts.Render(templateID, merged)
	if err != nil {
		return "", fmt.Errorf("prompt %s: %w", templateID, err)
	}
	return system, nil
}

func (c *Client) ModelName() string {
	return c.llm.ModelName()
}

// RetryingTranscriber applies the retry policy to a Transcriber.
type RetryingTranscriber struct {
	inner   port.Transcriber
	policy  retry.Policy
	timeout time.Duration
}

func NewRetryingTranscriber(inner port.Transcriber, policy retry.Policy) *RetryingTranscriber {
	return &RetryingTranscriber{inner: inner, policy: policy}
}

func (t *RetryingTranscriber) WithTimeout(d time.Duration) *RetryingTranscriber {
	t.timeout = d
	return t
}

func (t *RetryingTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	return retry.Do(ctx, t.policy, "transcribe", func(ctx context.Context) (string, error) {
		return withTimeout(ctx, t.timeout, func(ctx context.Context) (string, error) {
			return t.inner.Transcribe(ctx, path)
		})
	})
}
