package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all process-wide settings. It is built once in main and
// passed by reference to every component that needs it.
type Config struct {
	Port    string `env:"PORT" env-default:"8080"`
	GinMode string `env:"GIN_MODE" env-default:"debug"`

	MongoURI string `env:"MONGO_URI" env-default:"mongodb://127.0.0.1:27017"`
	DBName   string `env:"DB_NAME" env-default:"placementflow"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"168h"` // 7 days

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`

	// Sliding-window rate limits, applied per client IP.
	RateLimit     int           `env:"RATE_LIMIT" env-default:"100"`
	AuthRateLimit int           `env:"AUTH_RATE_LIMIT" env-default:"10"`
	RateWindow    time.Duration `env:"RATE_WINDOW" env-default:"15m"`

	// KeepAliveInterval > 0 enables the periodic self-ping against /health.
	KeepAliveInterval time.Duration `env:"KEEP_ALIVE_INTERVAL" env-default:"0"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return cfg, nil
}
