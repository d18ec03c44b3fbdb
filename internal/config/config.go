package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Telegram, the bot is disabled when the token is empty
	TelegramToken string

	// Database
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Grants API
	GrantsAPIURL     string
	GrantsAPIKey     string
	GrantsAPITimeout time.Duration

	// HTTP API
	HTTPAddr           string
	RateLimitPerMinute int
	SearchCacheTTL     time.Duration

	// Alerts
	CheckInterval     time.Duration
	MaxGrantsPerCheck int

	// Logging
	LogLevel string
}

// Load reads the configuration from the environment. Values from a .env
// file in the working directory are used when the variable is not set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		// Defaults
		RedisAddr:          "localhost:6379",
		GrantsAPIURL:       "http://localhost:3000",
		GrantsAPITimeout:   30 * time.Second,
		HTTPAddr:           ":8080",
		RateLimitPerMinute: 120,
		SearchCacheTTL:     5 * time.Minute,
		CheckInterval:      15 * time.Minute,
		MaxGrantsPerCheck:  10,
		LogLevel:           "info",
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if baseURL := os.Getenv("GRANTS_API_URL"); baseURL != "" {
		cfg.GrantsAPIURL = baseURL
	}

	cfg.GrantsAPIKey = os.Getenv("GRANTS_API_KEY")

	if timeout := os.Getenv("GRANTS_API_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid GRANTS_API_TIMEOUT: %w", err)
		}
		cfg.GrantsAPITimeout = d
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if limit := os.Getenv("RATE_LIMIT_PER_MINUTE"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.RateLimitPerMinute = n
	}

	if ttl := os.Getenv("SEARCH_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL: %w", err)
		}
		cfg.SearchCacheTTL = d
	}

	if interval := os.Getenv("CHECK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.CheckInterval = d
	}

	if maxGrants := os.Getenv("MAX_GRANTS_PER_CHECK"); maxGrants != "" {
		n, err := strconv.Atoi(maxGrants)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_GRANTS_PER_CHECK: %w", err)
		}
		cfg.MaxGrantsPerCheck = n
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.GrantsAPIURL == "" {
		return fmt.Errorf("grants API URL is empty")
	}

	if c.CheckInterval < time.Minute {
		return fmt.Errorf("check interval too small: %v", c.CheckInterval)
	}

	if c.MaxGrantsPerCheck < 1 || c.MaxGrantsPerCheck > 100 {
		return fmt.Errorf("max grants per check must be between 1 and 100")
	}

	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("rate limit per minute must be positive")
	}

	if c.SearchCacheTTL < 0 {
		return fmt.Errorf("search cache TTL is negative: %v", c.SearchCacheTTL)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	return nil
}

// BotEnabled reports whether Telegram alerts should run.
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}
