package llm

import (
	"context"
	"path/filepath"
	"strings"
)

// MockClient is an offline backend: it answers with the first words of the
// input. Selected with AI_TYPE=mock and used by the benchmark.
type MockClient struct {
	words int
}

func NewMockClient(words int) *MockClient {
	if words <= 0 {
		words = 50
	}
	return &MockClient{words: words}
}

func (m *MockClient) Complete(_ context.Context, _, userContent string) (string, error) {
	fields := strings.Fields(userContent)
	if len(fields) > m.words {
		fields = fields[:m.words]
	}
	return strings.Join(fields, " "), nil
}

func (m *MockClient) Transcribe(_ context.Context, path string) (string, error) {
	return "transcript of " + filepath.Base(path), nil
}

func (m *MockClient) ModelName() string {
	return "mock"
}
