package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/internal/controller"
	"github.com/lshigami/Quokkas/internal/llm"
	"github.com/lshigami/Quokkas/internal/logger"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			llm.NewGenerator,
			controller.NewProxyController,
			NewGinEngine,
		),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start llmproxy")
	}

	<-app.Done()
	log.Info().Msg("LLM proxy shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	return r
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	proxyCtrl *controller.ProxyController,
) {
	router.POST("/generate", proxyCtrl.Generate)

	server := &http.Server{
		Addr:    ":" + cfg.Proxy.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("LLM proxy starting on port %s", cfg.Proxy.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
