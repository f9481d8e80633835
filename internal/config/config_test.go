package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SCREENER_INDEX", "SCREENER_BATCH_SIZE", "SCREENER_CRON", "HTTPS_PROXY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Collector.BatchSize)
	assert.Equal(t, 20*time.Second, cfg.Collector.CallTimeout)
	assert.Equal(t, 500, cfg.Cache.InfoCapacity)
	assert.Equal(t, time.Hour, cfg.Cache.HistoryTTL)
	assert.Equal(t, "IBOVESPA", cfg.Screen.Index)
	assert.Equal(t, "ticker", cfg.Screen.SortBy)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
collector:
  batch_size: 5
  call_timeout: 3s
cache:
  history_ttl: 30m
screen:
  index: "S&P 500"
  graham: cheap
  sort_by: roe
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Collector.BatchSize)
	assert.Equal(t, 3*time.Second, cfg.Collector.CallTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Cache.HistoryTTL)
	assert.Equal(t, "S&P 500", cfg.Screen.Index)
	assert.Equal(t, "cheap", cfg.Screen.Graham)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitZeroIsKept(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "zero retries",
			body: "data_source:\n  max_retries: 0\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.DataSource.MaxRetries)
				assert.Equal(t, 8, cfg.DataSource.RateLimit)
			},
		},
		{
			name: "zero rate limit",
			body: "data_source:\n  rate_limit: 0\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0, cfg.DataSource.RateLimit)
				assert.Equal(t, 2, cfg.DataSource.MaxRetries)
			},
		},
		{
			name: "zero backoff",
			body: "data_source:\n  base_backoff: 0s\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Zero(t, cfg.DataSource.BaseBackoff)
				assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
			},
		},
		{
			name: "unset keys take defaults",
			body: "collector:\n  batch_size: 4\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4, cfg.Collector.BatchSize)
				assert.Equal(t, Defaults().DataSource, cfg.DataSource)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			tt.check(t, cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "collector:\n  batch_size: 5\n")
	t.Setenv("SCREENER_INDEX", "SP500")
	t.Setenv("SCREENER_BATCH_SIZE", "25")
	t.Setenv("SCREENER_CRON", "0 */5 * * * *")
	t.Setenv("HTTPS_PROXY", "http://proxy:3128")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SP500", cfg.Screen.Index)
	assert.Equal(t, 25, cfg.Collector.BatchSize)
	assert.Equal(t, "0 */5 * * * *", cfg.Screen.Cron)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadBatchSizeEnv(t *testing.T) {
	t.Setenv("SCREENER_BATCH_SIZE", "ten")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "collector: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ShippedConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative batch", func(c *Config) { c.Collector.BatchSize = -1 }},
		{"zero capacity", func(c *Config) { c.Cache.InfoCapacity = 0 }},
		{"unknown index", func(c *Config) { c.Screen.Index = "DAX" }},
		{"unknown label", func(c *Config) { c.Screen.Magic = "bargain" }},
		{"unknown sort", func(c *Config) { c.Screen.SortBy = "volume" }},
		{"bad cron", func(c *Config) { c.Screen.Cron = "every hour" }},
		{"negative retries", func(c *Config) { c.DataSource.MaxRetries = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"zero history ttl", func(c *Config) { c.Cache.HistoryTTL = -time.Second }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_ReportsYAMLFieldNames(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.Collector.BatchSize = -3
	assert.EqualError(t, cfg.Validate(), "collector.batch_size: failed gt=0")

	cfg.Collector.BatchSize = 10
	cfg.Telegram.ChatID = "42"
	assert.EqualError(t, cfg.Validate(), "telegram.bot_token: failed required_with=ChatID")

	cfg.Telegram.ChatID = ""
	cfg.Proxy = "not a url"
	assert.EqualError(t, cfg.Validate(), "proxy: failed url")
}
