package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Odds      OddsConfig      `mapstructure:"odds"`
	APISports APISportsConfig `mapstructure:"apisports"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// OddsConfig holds The Odds API configuration.
// An empty APIKey is allowed: the odds feed then reports a feed error.
type OddsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Sport   string `mapstructure:"sport"`
	Region  string `mapstructure:"region"`
}

// APISportsConfig holds API-Sports configuration
type APISportsConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// UpstreamConfig holds transport settings shared by both providers
type UpstreamConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelayBase  time.Duration `mapstructure:"retry_delay_base"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown"`
	MinInterval     time.Duration `mapstructure:"min_interval"`
}

// TelegramConfig holds Telegram feed alert configuration
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the plain environment variable names the
// service has always read. They take precedence over ODDSBOARD_* names.
var legacyEnv = map[string]string{
	"server.port":        "PORT",
	"odds.api_key":       "ODDS_API_KEY",
	"odds.sport":         "ODDS_SPORT",
	"odds.region":        "ODDS_REGION",
	"apisports.api_key":  "APISPORTS_KEY",
	"apisports.base_url": "APISPORTS_BASE",
}

// Load reads configuration from an optional file and environment variables.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("ODDSBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "ODDSBOARD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env, prefixed); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Read config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Odds defaults
	v.SetDefault("odds.api_key", "")
	v.SetDefault("odds.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds.sport", "basketball_nba")
	v.SetDefault("odds.region", "us")

	// API-Sports defaults
	v.SetDefault("apisports.api_key", "")
	v.SetDefault("apisports.base_url", "https://v1.basketball.api-sports.io")

	// Upstream defaults
	v.SetDefault("upstream.timeout", "15s")
	v.SetDefault("upstream.max_retries", 0)
	v.SetDefault("upstream.retry_delay_base", "500ms")
	v.SetDefault("upstream.breaker_failures", 5)
	v.SetDefault("upstream.breaker_cooldown", "30s")
	v.SetDefault("upstream.min_interval", "0s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}

	// Validate Odds config
	if c.Odds.BaseURL == "" {
		return fmt.Errorf("odds.base_url is required")
	}
	if c.Odds.Sport == "" {
		return fmt.Errorf("odds.sport is required")
	}
	if c.Odds.Region == "" {
		return fmt.Errorf("odds.region is required")
	}

	// Validate API-Sports config
	if c.APISports.BaseURL == "" {
		return fmt.Errorf("apisports.base_url is required")
	}

	// Validate Upstream config
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("upstream.max_retries must not be negative")
	}
	if c.Upstream.MinInterval < 0 {
		return fmt.Errorf("upstream.min_interval must not be negative")
	}
	if c.Upstream.BreakerFailures > 0 && c.Upstream.BreakerCooldown <= 0 {
		return fmt.Errorf("upstream.breaker_cooldown must be positive when the breaker is enabled")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
