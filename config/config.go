package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Redis     Redis
	Auth      Auth
	Worker    Worker
	Generator Generator
	Proxy     Proxy
	LLM       LLM
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	QueueKey string
}

type Auth struct {
	JWTSecret       string
	TokenTTLMinutes int
}

type Worker struct {
	Concurrency int
}

// Generator holds settings for the worker-side client of the LLM proxy.
type Generator struct {
	URL            string
	APIKey         string
	TimeoutSeconds int
}

// Proxy holds settings for the llmproxy binary itself.
type Proxy struct {
	Port   string
	APIKey string
}

// LLM selects and configures the proxy's text-completion backend.
type LLM struct {
	Provider string // "openai" (any OpenAI-compatible server, e.g. vLLM) or "gemini"
	BaseURL  string
	APIKey   string
	Model    string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("QUEUE_KEY", "questions:pending")
	viper.SetDefault("TOKEN_TTL_MINUTES", 30)
	viper.SetDefault("WORKER_CONCURRENCY", 4)
	viper.SetDefault("GENERATOR_TIMEOUT_SECONDS", 60)
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("LLM_MODEL", "Qwen/Qwen2.5-3B-Instruct")
	viper.SetDefault("PROXY_PORT", "8002")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.Redis.QueueKey = viper.GetString("QUEUE_KEY")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTLMinutes = viper.GetInt("TOKEN_TTL_MINUTES")

	config.Worker.Concurrency = viper.GetInt("WORKER_CONCURRENCY")

	config.Generator.URL = viper.GetString("GENERATOR_URL")
	config.Generator.APIKey = viper.GetString("GENERATOR_API_KEY")
	config.Generator.TimeoutSeconds = viper.GetInt("GENERATOR_TIMEOUT_SECONDS")

	config.Proxy.Port = viper.GetString("PROXY_PORT")
	config.Proxy.APIKey = viper.GetString("PROXY_API_KEY")

	config.LLM.Provider = viper.GetString("LLM_PROVIDER")
	config.LLM.BaseURL = viper.GetString("LLM_BASE_URL")
	config.LLM.APIKey = viper.GetString("LLM_API_KEY")
	config.LLM.Model = viper.GetString("LLM_MODEL")

	log.Info().Str("serverPort", config.Server.Port).Str("redisAddr", config.Redis.Addr).Msg("Config loaded")
	return &config, nil
}
