package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token             string `env:"VK_ACCESS_TOKEN"`
	GroupID           int64  `env:"VK_GROUP_ID"`
	ConfirmationToken string `env:"VK_CONFIRMATION_TOKEN"`
	SecretKey         string `env:"VK_SECRET_KEY"`
	Port              int    `env:"BOT_PORT" envDefault:"3000"`
	DatabaseURL       string `env:"DATABASE_URL"`
	MigrationsPath    string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	DefaultLocale     string `env:"DEFAULT_LOCALE" envDefault:"ru"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional when variables come from the environment
		// (Docker, CI, etc.).
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies all the rules on the loaded configuration.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: VK_ACCESS_TOKEN is required and cannot be empty")
	}

	if c.GroupID <= 0 {
		return fmt.Errorf("config: VK_GROUP_ID must be a positive community id")
	}

	if strings.TrimSpace(c.ConfirmationToken) == "" {
		return fmt.Errorf("config: VK_CONFIRMATION_TOKEN is required and cannot be empty")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: BOT_PORT must be a valid TCP port, got %d", c.Port)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		// Useful default for local runs when DATABASE_URL is not provided.
		c.DatabaseURL = "postgres://localhost:5432/vkeventsbot?sslmode=disable"
	}

	parsed, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.DatabaseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.DatabaseURL)
	}

	return nil
}
