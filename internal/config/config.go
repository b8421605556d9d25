package config

import (
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultEnvFile = ".env"

	BackendDeepAI = "deepai"
	BackendGemini = "gemini"
)

type Config struct {
	APIKey   string        `env:"DL_API_KEY"`
	Endpoint string        `env:"COLORIZE_ENDPOINT"`
	Backend  string        `env:"COLORIZE_BACKEND" envDefault:"deepai"`
	Timeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"2m"`
	LogLevel string        `env:"LOG_LEVEL" envDefault:"info"`

	// Vertex AI settings, only read by the gemini backend.
	Project  string `env:"PROJECT"`
	Location string `env:"LOCATION"`
	Model    string `env:"MODEL" envDefault:"gemini-2.0-flash-exp"`

	HomeDir string
}

// Load reads envFile into the process environment and parses the result.
// A missing default .env file is not an error; a missing explicit one is.
func Load(envFile string) (*Config, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Errorf("parsing environment: %w", err)
	}

	switch cfg.Backend {
	case BackendDeepAI, BackendGemini:
	default:
		return nil, errors.Errorf("unknown colorize backend %q", cfg.Backend)
	}

	// Left empty when unknown; only ~ expansion needs it.
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HomeDir = home
	}

	return cfg, nil
}
