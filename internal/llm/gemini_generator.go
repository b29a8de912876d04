package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Quokkas/config"
	"google.golang.org/api/option"
)

type GeminiGenerator struct {
	model *genai.GenerativeModel
}

func NewGeminiGenerator(cfg *config.Config) (*GeminiGenerator, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required for the gemini provider")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.LLM.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiGenerator{model: client.GenerativeModel(cfg.LLM.Model)}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
