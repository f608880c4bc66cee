package openai

import (
	"log"
	"os"
	"time"
)

const (
	// EnvAlfaiaMode is the environment variable name for mode selection.
	EnvAlfaiaMode = "ALFAIA_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewProvider creates a provider based on the ALFAIA_MODE environment
// variable. If ALFAIA_MODE=MOCK, returns a MockProvider; otherwise returns a
// real Client.
func NewProvider(baseURL, apiKey string, timeout time.Duration) Provider {
	mode := os.Getenv(EnvAlfaiaMode)

	if mode == ModeMock {
		log.Println("ALFAIA_MODE=MOCK detected, using mock OpenAI provider")
		return NewMockProvider()
	}

	return NewClient(baseURL, apiKey, timeout)
}
