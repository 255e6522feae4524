// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Storage
	DatabasePath string

	// OCR provider
	MistralAPIKey   string
	MistralOCRURL   string
	MistralOCRModel string
	OCRTimeout      time.Duration

	// Listings
	RecentLimit int
}

func Load() Config {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "3000"),

		DatabasePath: envOr("DATABASE_PATH", "data/pagemark.db"),

		MistralAPIKey:   os.Getenv("MISTRAL_API_KEY"),
		MistralOCRURL:   envOr("MISTRAL_OCR_URL", "https://api.mistral.ai/v1/ocr"),
		MistralOCRModel: envOr("MISTRAL_OCR_MODEL", "mistral-ocr-latest"),
		OCRTimeout:      envDuration("OCR_TIMEOUT", 120*time.Second),

		RecentLimit: envInt("RECENT_LIMIT", 10),
	}

	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 120 * time.Second
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MistralAPIKey == "" {
		return fmt.Errorf("MISTRAL_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
