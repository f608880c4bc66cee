package openai

import (
	"context"
	"fmt"
	"hash/fnv"
)

// MockProvider is a deterministic Provider implementation for tests and for
// running without API credentials.
type MockProvider struct{}

// NewMockProvider creates a new mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Ensure MockProvider implements Provider interface.
var _ Provider = (*MockProvider)(nil)

// Transcribe returns a fixed transcript so audio turns flow through the
// pipeline without a real speech model.
func (m *MockProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return fmt.Sprintf("[MOCK] transcrição de %d bytes", len(audio)), nil
}

// Synthesize returns placeholder audio bytes.
func (m *MockProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("MOCKAUDIO:" + truncate(text, 64)), nil
}

// GenerateImage returns placeholder image bytes.
func (m *MockProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return []byte("MOCKIMAGE:" + truncate(prompt, 64)), nil
}

// Complete echoes the last user message.
func (m *MockProvider) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			lastUser = messages[i].Content
			break
		}
	}
	if lastUser == "" {
		return "[MOCK] Olá! Vamos conversar.", nil
	}
	return fmt.Sprintf("[MOCK] Entendi: %q. Vamos continuar praticando!", truncate(lastUser, 100)), nil
}

// Embed hashes words into a small fixed-size vector. Deterministic, so the
// same text always lands at the same point.
func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 32)
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return vec, nil
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
