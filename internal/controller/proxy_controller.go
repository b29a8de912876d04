package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/llm"
	"github.com/rs/zerolog/log"
)

// ProxyController is the llmproxy's single endpoint: an API-key protected
// one-to-one forwarding shim in front of the configured LLM backend.
type ProxyController struct {
	generator llm.Generator
	apiKey    string
}

func NewProxyController(generator llm.Generator, cfg *config.Config) *ProxyController {
	return &ProxyController{generator: generator, apiKey: cfg.Proxy.APIKey}
}

// Generate godoc
// @Summary Generate a text completion (internal)
// @Description Forwards the prompt to the configured LLM backend and returns its answer. Protected by the X-API-Key header.
// @Tags generate
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Shared API key"
// @Param prompt body dto.GenerateRequest true "Prompt"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Bad API key"
// @Failure 502 {object} dto.ErrorResponse "Backend unavailable"
// @Router /generate [post]
func (c *ProxyController) Generate(ctx *gin.Context) {
	key := ctx.GetHeader("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(c.apiKey)) != 1 {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid API key"})
		return
	}

	var req dto.GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	answer, err := c.generator.Generate(ctx.Request.Context(), req.Prompt)
	if err != nil {
		log.Error().Err(err).Msg("Generate: Backend call failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Generation backend unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, dto.GenerateResponse{Answer: answer})
}
