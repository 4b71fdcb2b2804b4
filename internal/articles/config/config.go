// Package config loads the service configuration from articles.env and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// EnvFile is read from the working directory when present.
const EnvFile = "articles.env"

// Config holds the application configuration parameters.
// Each field corresponds to an expected environment variable.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"production"`         // Deployment environment (development, production)
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`             // Log level for the application (e.g., debug, info)
	LogFileName string `env:"LOG_FILE_NAME" envDefault:"articles.log"` // File's name for log

	GenerativeName    string   `env:"GENERATIVE_NAME" envDefault:"gemini"`     // Generative AI provider (gemini, openai, deepseek, openrouter)
	GenerativeAPIKey  string   `env:"GENERATIVE_API_KEY"`                      // API key of the provider
	GenerativeBaseURL string   `env:"GENERATIVE_BASE_URL"`                     // Endpoint override for OpenAI compatible providers
	GenerativeModels  []string `env:"GENERATIVE_MODELS" envSeparator:","`      // Model ladder, most capable first
	ClassifierModel   string   `env:"CLASSIFIER_MODEL"`                        // Model of the category classifier
	MaxTokens         int      `env:"GENERATIVE_MAX_TOKENS" envDefault:"0"`    // Output token limit, 0 keeps the provider default
	Temperature       float64  `env:"GENERATIVE_TEMPERATURE" envDefault:"0.7"` // Sampling temperature

	GenerationTimeoutSec     int `env:"GENERATION_TIMEOUT_SEC" envDefault:"60"`     // Timeout of one model call
	ClassificationTimeoutSec int `env:"CLASSIFICATION_TIMEOUT_SEC" envDefault:"20"` // Timeout of the classification call
	ShutdownTimeoutSec       int `env:"SHUTDOWN_TIMEOUT_SEC" envDefault:"10"`       // Graceful shutdown budget

	SiteName            string `env:"SITE_NAME" envDefault:"Свеча онлайн"` // Suffix of short SEO titles
	HTTPAddress         string `env:"HTTP_ADDRESS" envDefault:":8080"`     // Address of the article API
	OpsAddress          string `env:"OPS_ADDRESS" envDefault:":9090"`      // Address of health and metrics endpoints
	DatabaseDSN         string `env:"DATABASE_DSN"`                        // Postgres DSN, empty disables saving
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN"`                  // Bot token for admin notifications
	TelegramChatID      int64  `env:"TELEGRAM_CHAT_ID"`                    // Chat receiving admin notifications
	PromptTemplatesPath string `env:"PROMPT_TEMPLATES_PATH"`               // YAML file with named prompt templates
}

// NewConfig initializes a new Config instance from articles.env and the environment.
// Variables already present in the environment win over the file; a missing file is not an error.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", EnvFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GenerationTimeoutSec <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT_SEC must be positive, got %d", c.GenerationTimeoutSec)
	}
	if c.ClassificationTimeoutSec <= 0 {
		return fmt.Errorf("CLASSIFICATION_TIMEOUT_SEC must be positive, got %d", c.ClassificationTimeoutSec)
	}
	return nil
}

// ModelLadder returns GENERATIVE_MODELS without blanks, or defaults when it is empty.
func (c *Config) ModelLadder(defaults []string) []string {
	ladder := make([]string, 0, len(c.GenerativeModels))
	for _, name := range c.GenerativeModels {
		if name = strings.TrimSpace(name); name != "" {
			ladder = append(ladder, name)
		}
	}
	if len(ladder) == 0 {
		return append(ladder, defaults...)
	}
	return ladder
}

// ClassifierModelName returns CLASSIFIER_MODEL or the last model of ladder.
func (c *Config) ClassifierModelName(ladder []string) string {
	if name := strings.TrimSpace(c.ClassifierModel); name != "" {
		return name
	}
	if len(ladder) == 0 {
		return ""
	}
	return ladder[len(ladder)-1]
}

func (c *Config) GenerationTimeout() time.Duration {
	return time.Duration(c.GenerationTimeoutSec) * time.Second
}

func (c *Config) ClassificationTimeout() time.Duration {
	return time.Duration(c.ClassificationTimeoutSec) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// IsDevelopment reports whether APP_ENV points at a local setup.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
