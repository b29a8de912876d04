package llm

import (
	"context"
	"fmt"

	"github.com/lshigami/Quokkas/config"
)

// Generator turns a prompt into a text completion. Implementations: the
// OpenAI-compatible backend client, the Gemini backend client, and the
// worker-side proxy client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the proxy's backend according to LLM_PROVIDER.
func NewGenerator(cfg *config.Config) (Generator, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return NewOpenAIGenerator(cfg), nil
	case "gemini":
		return NewGeminiGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
