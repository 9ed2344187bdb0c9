package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvLLMMode is the environment variable name for mode selection.
	EnvLLMMode = "LLM_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the LLM_MODE environment
// variable. If LLM_MODE=MOCK, returns a MockClient; otherwise returns a
// real Client.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration) LLMClient {
	mode := os.Getenv(EnvLLMMode)

	if mode == ModeMock {
		log.Println("LLM_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
