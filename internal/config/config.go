// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":5000"`
	DBPath     string `env:"DB_PATH" envDefault:"/data/rateboard.db"`

	UploadBackend   string `env:"UPLOAD_BACKEND" envDefault:"local" validate:"oneof=local s3"`
	UploadLocalPath string `env:"UPLOAD_LOCAL_PATH" envDefault:"/data/uploads"`
	S3              S3Config
	MaxImageWidth   int `env:"MAX_IMAGE_WIDTH" envDefault:"1920" validate:"min=1"`

	// AllowedOrigins is the CORS allow-list. Empty disables CORS handling.
	AllowedOrigins []string `env:"CORS_ALLOW_ORIGIN" envSeparator:","`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`

	DisplayServerURL    string        `env:"DISPLAY_SERVER_URL" envDefault:"http://localhost:5000" validate:"url"`
	DisplayPollInterval time.Duration `env:"DISPLAY_POLL_INTERVAL" envDefault:"30s" validate:"gt=0"`

	// TestMode runs against an in-memory database.
	TestMode bool `env:"RATEBOARD_TEST_MODE"`
}

type S3Config struct {
	Bucket    string `env:"S3_BUCKET" validate:"required_if=Enabled true"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`

	// Enabled is set from UploadBackend, not the environment.
	Enabled bool `env:"-"`
}

// Load parses the environment and checks the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.S3.Enabled = cfg.UploadBackend == "s3"
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
