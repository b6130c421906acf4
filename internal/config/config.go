package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	UIAuto = "auto"
	UITUI  = "tui"
	UILine = "line"
)

// Config holds application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	User      UserConfig      `mapstructure:"user"`
	UI        UIConfig        `mapstructure:"ui"`
	Log       LogConfig       `mapstructure:"log"`
	History   HistoryConfig   `mapstructure:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// APIConfig locates the chat service
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 leaves timeouts to the transport
}

// UserConfig holds the identifier sent with every message
type UserConfig struct {
	ID string `mapstructure:"id"`
}

// UIConfig selects the front end
type UIConfig struct {
	Mode  string `mapstructure:"mode"`  // auto|tui|line
	Theme string `mapstructure:"theme"` // glamour standard style for assistant markdown
}

// LogConfig holds logging configuration
type LogConfig struct {
	Dir   string `mapstructure:"dir"`
	Debug bool   `mapstructure:"debug"`
}

// HistoryConfig holds transcript archive configuration
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig toggles OpenTelemetry exporters
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// flagKeys maps command-line flags to config keys
var flagKeys = map[string]string{
	"api-url":    "api.base_url",
	"timeout":    "api.timeout",
	"user-id":    "user.id",
	"ui":         "ui.mode",
	"theme":      "ui.theme",
	"log-dir":    "log.dir",
	"debug":      "log.debug",
	"history":    "history.enabled",
	"history-db": "history.path",
	"telemetry":  "telemetry.enabled",
}

// Load loads configuration from defaults, an optional file, THREADCHAT_* environment
// variables and any flags that were set, in increasing priority
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("threadchat")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/threadchat")
	}

	v.SetEnvPrefix("THREADCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot
func (c *Config) Validate() error {
	switch c.UI.Mode {
	case UIAuto, UITUI, UILine:
	default:
		return fmt.Errorf("unknown ui mode: %s (auto|tui|line)", c.UI.Mode)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 0)

	v.SetDefault("user.id", "")

	v.SetDefault("ui.mode", UIAuto)
	v.SetDefault("ui.theme", "dark")

	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.debug", false)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "threadchat.db")

	v.SetDefault("telemetry.enabled", true)
}
