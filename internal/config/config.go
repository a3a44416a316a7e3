// Package config loads runtime settings from a .env file, the
// environment, and env-tag defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Remote project endpoints. The database rules are open; the
	// credentials file is only needed where application-default
	// credentials are unavailable.
	DatabaseURL     string `env:"FIREBASE_DATABASE_URL" envDefault:"https://inventoryapp-4a2c1-default-rtdb.firebaseio.com"`
	StorageBucket   string `env:"FIREBASE_STORAGE_BUCKET" envDefault:"inventoryapp-4a2c1.appspot.com"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Photo storage backend: "firebase" or "local".
	PhotoBackend   string `env:"PHOTO_BACKEND" envDefault:"firebase"`
	PhotoLocalPath string `env:"PHOTO_LOCAL_PATH"`

	// Snapshot cache.
	CachePath string `env:"CACHE_DB_PATH"`

	// Vision suggestion backend: "claude", "ollama", or "off".
	VisionBackend string `env:"VISION_BACKEND" envDefault:"off"`
	ClaudeAPIKey  string `env:"CLAUDE_API_KEY"`
	ClaudeModel   string `env:"CLAUDE_MODEL" envDefault:"claude-3-5-haiku-latest"`
	OllamaHost    string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"moondream"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(home, ".partsinv", "cache.db")
	}
	if cfg.PhotoLocalPath == "" {
		cfg.PhotoLocalPath = filepath.Join(home, ".partsinv", "photos")
	}
	return cfg, nil
}
