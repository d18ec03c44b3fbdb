package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/grantify")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.GrantsAPITimeout)
	assert.Equal(t, 15*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 10, cfg.MaxGrantsPerCheck)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/grantify")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("GRANTS_API_URL", "https://grants.example.org/rest/v1")
	t.Setenv("CHECK_INTERVAL", "1h")
	t.Setenv("SEARCH_CACHE_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.BotEnabled())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "https://grants.example.org/rest/v1", cfg.GrantsAPIURL)
	assert.Equal(t, time.Hour, cfg.CheckInterval)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"POSTGRES_DSN": ""}},
		{"bad redis db", map[string]string{"REDIS_DB": "one"}},
		{"bad timeout", map[string]string{"GRANTS_API_TIMEOUT": "soon"}},
		{"bad interval", map[string]string{"CHECK_INTERVAL": "often"}},
		{"bad max grants", map[string]string{"MAX_GRANTS_PER_CHECK": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POSTGRES_DSN", "postgres://localhost/grantify")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			PostgresDSN:        "postgres://localhost/grantify",
			GrantsAPIURL:       "http://localhost:3000",
			CheckInterval:      5 * time.Minute,
			MaxGrantsPerCheck:  10,
			RateLimitPerMinute: 60,
			LogLevel:           "info",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short interval", func(c *Config) { c.CheckInterval = time.Second }},
		{"too many grants", func(c *Config) { c.MaxGrantsPerCheck = 500 }},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"no api url", func(c *Config) { c.GrantsAPIURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
