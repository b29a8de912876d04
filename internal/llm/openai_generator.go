package llm

import (
	"context"
	"fmt"

	"github.com/lshigami/Quokkas/config"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator speaks the OpenAI chat-completions protocol. Pointing
// LLM_BASE_URL at a vLLM server (or any compatible one) works unchanged.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg *config.Config) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		clientCfg.BaseURL = cfg.LLM.BaseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.LLM.Model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}
	log.Debug().Str("model", g.model).Str("finishReason", string(resp.Choices[0].FinishReason)).Msg("Received completion")
	return resp.Choices[0].Message.Content, nil
}
