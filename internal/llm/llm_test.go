package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/apperr"
	"github.com/lshigami/Quokkas/internal/dto"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGeneratorAgainstCompatibleServer(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "What is 2+2?", req.Messages[0].Content)

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "4"}, FinishReason: "stop"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer backend.Close()

	cfg := &config.Config{}
	cfg.LLM.APIKey = "token-abc123"
	cfg.LLM.BaseURL = backend.URL + "/v1"
	cfg.LLM.Model = "Qwen/Qwen2.5-3B-Instruct"

	gen := NewOpenAIGenerator(cfg)
	answer, err := gen.Generate(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", answer)
}

func TestProxyClientSendsAPIKeyAndDecodesAnswer(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))

		var req dto.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is 2+2?", req.Prompt)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(dto.GenerateResponse{Answer: "4"}))
	}))
	defer proxy.Close()

	cfg := &config.Config{}
	cfg.Generator.URL = proxy.URL
	cfg.Generator.APIKey = "secret-key"
	cfg.Generator.TimeoutSeconds = 5

	client := NewProxyClient(cfg)
	answer, err := client.Generate(context.Background(), "What is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", answer)
}

func TestProxyClientSurfacesUpstreamFailure(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer proxy.Close()

	cfg := &config.Config{}
	cfg.Generator.URL = proxy.URL
	cfg.Generator.APIKey = "secret-key"
	cfg.Generator.TimeoutSeconds = 5

	client := NewProxyClient(cfg)
	_, err := client.Generate(context.Background(), "What is 2+2?")
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestNewGeneratorRejectsUnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "carrier-pigeon"
	_, err := NewGenerator(cfg)
	assert.Error(t, err)
}
