package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything main needs to wire the service.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Object storage for report snapshots; archival is disabled when the
	// endpoint is empty.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration from the environment, with a best-effort .env
// file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           envInt("PORT", 8080),
		RedisAddr:      envDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: envDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    envDefault("MINIO_BUCKET", "pedalgo-reports"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
