package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/config"
	"github.com/lshigami/Quokkas/database"
	_ "github.com/lshigami/Quokkas/docs" // Swagger docs - auto-generated
	"github.com/lshigami/Quokkas/internal/cache"
	"github.com/lshigami/Quokkas/internal/controller"
	"github.com/lshigami/Quokkas/internal/logger"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/queue"
	"github.com/lshigami/Quokkas/internal/repository"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Quokkas Q&A API
// @version 1.0
// @description Question-answering API. Questions are answered asynchronously by a worker pool; clients poll for results.
// @host localhost:8000
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			cache.NewRedisClient, // Provides *redis.Client, shared by cache and queue
			cache.NewRedisCache,
			queue.NewRedisQueue,
			NewGinEngine, // Provides *gin.Engine
		),

		// Repositories layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerRepository,
		),

		// Services layer
		fx.Provide(
			service.NewAuthService,
			service.NewQuestionService,
		),

		// API controllers layer
		fx.Provide(
			controller.NewAuthController,
			controller.NewQuestionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Request logging through zerolog instead of Gin's default logger.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(controller.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	authCtrl *controller.AuthController,
	questionCtrl *controller.QuestionController,
) {
	api := router.Group("/api")
	{
		api.POST("/register", authCtrl.Register)
		api.POST("/login", authCtrl.Login)

		authed := api.Group("")
		authed.Use(controller.RequireAuth(authService))
		authed.POST("/ask", questionCtrl.Ask)
		authed.GET("/answer/:question_id", questionCtrl.GetAnswer)
		authed.GET("/questions", questionCtrl.ListQuestions)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Q&A API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
