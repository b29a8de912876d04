package main

import (
	"context"

	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/database"
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/llm"
	"github.com/lshigami/Quokkas/internal/logger"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/lshigami/Quokkas/internal/worker"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewRedisClient,
			cache.NewRedisCache,
			queue.NewRedisQueue,
		),

		fx.Provide(
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
		),

		// The worker reaches the generator through the llmproxy service.
		fx.Provide(
			func(cfg *config.Config) llm.Generator { return llm.NewProxyClient(cfg) },
			worker.NewPool,
		),

		fx.Invoke(StartWorkerPool),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start worker")
	}

	<-app.Done()
	log.Info().Msg("Worker shutting down gracefully...")
}

// StartWorkerPool ties the pool's executors to the fx lifecycle.
func StartWorkerPool(lc fx.Lifecycle, pool *worker.Pool) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pool.Start(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping worker pool...")
			cancel()
			done := make(chan struct{})
			go func() {
				pool.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
