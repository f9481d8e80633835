package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"ValueScreener/internal/model"
	"ValueScreener/internal/recorder"
	"ValueScreener/internal/universe"
)

// DefaultPath is read when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL     string        `yaml:"base_url" validate:"omitempty,url"`
		CookieURL   string        `yaml:"cookie_url" validate:"omitempty,url"`
		RateLimit   int           `yaml:"rate_limit" validate:"gte=0"` // 0 disables the limiter
		MaxRetries  int           `yaml:"max_retries" validate:"gte=0"`
		BaseBackoff time.Duration `yaml:"base_backoff" validate:"gte=0"`
		Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
		Mock        bool          `yaml:"mock"`
	} `yaml:"data_source"`
	Collector struct {
		BatchSize   int           `yaml:"batch_size" validate:"gt=0"`
		CallTimeout time.Duration `yaml:"call_timeout" validate:"gt=0"`
	} `yaml:"collector"`
	Cache struct {
		InfoCapacity int           `yaml:"info_capacity" validate:"gt=0"`
		HistoryTTL   time.Duration `yaml:"history_ttl" validate:"gt=0"`
	} `yaml:"cache"`
	Screen struct {
		Index  string `yaml:"index" validate:"required"`
		Graham string `yaml:"graham"`
		Magic  string `yaml:"magic"`
		SortBy string `yaml:"sort_by"`
		Cron   string `yaml:"cron" validate:"required"`
	} `yaml:"screen"`
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Defaults returns the configuration used for every key the file leaves out.
func Defaults() *Config {
	cfg := &Config{}
	cfg.DataSource.RateLimit = 8
	cfg.DataSource.MaxRetries = 2
	cfg.DataSource.BaseBackoff = 500 * time.Millisecond
	cfg.DataSource.Timeout = 30 * time.Second
	cfg.Collector.BatchSize = 10
	cfg.Collector.CallTimeout = 20 * time.Second
	cfg.Cache.InfoCapacity = 500
	cfg.Cache.HistoryTTL = time.Hour
	cfg.Screen.Index = string(universe.IBOV)
	cfg.Screen.SortBy = "ticker"
	cfg.Screen.Cron = "0 0 * * * *"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads config from a YAML file over Defaults, then applies environment
// variable overrides. A missing file is not an error. Keys present in the
// file win, so an explicit zero (max_retries: 0) is kept.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SCREENER_INDEX"); v != "" {
		cfg.Screen.Index = v
	}
	if v := os.Getenv("SCREENER_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SCREENER_BATCH_SIZE: %w", err)
		}
		cfg.Collector.BatchSize = n
	}
	if v := os.Getenv("SCREENER_CRON"); v != "" {
		cfg.Screen.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// TelegramEnabled reports whether run alerts should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks field bounds with the struct tags, then the values that
// need domain parsing (index, labels, sort key, cron expression).
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Param() != "" {
				return fmt.Errorf("%s: failed %s=%s", field, fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%s: failed %s", field, fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := universe.ParseIndex(c.Screen.Index); err != nil {
		return fmt.Errorf("screen.index: %w", err)
	}
	for name, v := range map[string]string{"screen.graham": c.Screen.Graham, "screen.magic": c.Screen.Magic} {
		if v == "" || v == "all" {
			continue
		}
		if _, err := model.ParseLabel(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if _, err := recorder.ParseSortKey(c.Screen.SortBy); err != nil {
		return fmt.Errorf("screen.sort_by: %w", err)
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Screen.Cron); err != nil {
		return fmt.Errorf("screen.cron: %w", err)
	}
	return nil
}
