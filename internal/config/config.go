// Package config provides configuration management for the events service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/dorianjanezic/major-news/internal/errors"
)

// Provider variants supported by the adapter.
const (
	ProviderSearch = "search" // citation-capable, search-augmented
	ProviderChat   = "chat"   // plain chat completions, no citations
)

// Config holds all application configuration.
type Config struct {
	Provider ProviderConfig `mapstructure:"provider"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ProviderConfig selects and configures the AI backend. The variant is fixed
// at process configuration time, not per call.
type ProviderConfig struct {
	Variant string        `mapstructure:"variant"` // "search" or "chat"
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"` // empty means the variant's default
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ScheduleConfig holds the pipeline trigger configuration.
type ScheduleConfig struct {
	WeeklyCron   string `mapstructure:"weekly_cron"`
	RunOnStartup bool   `mapstructure:"run_on_startup"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP surface configuration.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/major-news"
	}
	return filepath.Join(home, ".config", "major-news")
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Variant: ProviderSearch,
			Model:   "gpt-4o",
			Timeout: 120 * time.Second,
		},
		Schedule: ScheduleConfig{
			WeeklyCron:   "0 6 * * 1", // Mondays 06:00
			RunOnStartup: true,
		},
		Store: StoreConfig{
			Path: filepath.Join(DefaultConfigDir(), "major-news.db"),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Missing config file is fine; defaults plus env apply.
			return nil
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAJOR_NEWS_PROVIDER"); v != "" {
		cfg.Provider.Variant = v
	}
	if v := os.Getenv("MAJOR_NEWS_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("MAJOR_NEWS_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("MAJOR_NEWS_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("MAJOR_NEWS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MAJOR_NEWS_WEEKLY_CRON"); v != "" {
		cfg.Schedule.WeeklyCron = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Provider.Variant {
	case ProviderSearch, ProviderChat:
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid,
			"unknown provider variant %q", c.Provider.Variant)
	}
	if c.Provider.Model == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "provider model is required")
	}
	if c.Provider.Timeout <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "provider timeout must be positive")
	}
	if c.Schedule.WeeklyCron == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "weekly cron expression is required")
	}
	if c.Store.Path == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "store path is required")
	}
	return nil
}
