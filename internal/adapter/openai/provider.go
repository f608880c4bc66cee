// Package openai talks to the OpenAI media endpoints used by the tutor:
// transcription, speech synthesis, image generation, chat completion, and
// embeddings.
package openai

import "context"

// ChatMessage represents a chat message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider abstracts the media and language endpoints so the service layer
// can run against the real API or a mock.
type Provider interface {
	// Transcribe converts learner audio into text.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	// Synthesize converts text into spoken audio.
	Synthesize(ctx context.Context, text string) ([]byte, error)
	// GenerateImage renders an illustration from a prompt.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	// Complete returns the assistant's reply for a chat transcript.
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	// Embed returns the embedding vector for a text snippet.
	Embed(ctx context.Context, text string) ([]float32, error)
}
