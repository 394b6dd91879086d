package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	Port          string
	CORSOrigin    string
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	OllamaBaseURL string
	AIModel       string
	AITimeout     time.Duration
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
		AccessTTL:     time.Duration(getEnvInt("JWT_EXPIRE_MIN", 15)) * time.Minute,
		RefreshTTL:    time.Duration(getEnvInt("JWT_REFRESH_EXPIRE_MIN", 43200)) * time.Minute,
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		AIModel:       getEnv("AI_MODEL", "mistral:7b"),
		AITimeout:     time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 180)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
