package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/viper"

	"veilchat/internal/services/keys"
)

// LogConfig controls the logging backend.
type LogConfig struct {
	Level   string `mapstructure:"level"`   // ERROR, WARNING, NOTICE, INFO, DEBUG
	File    string `mapstructure:"file"`    // empty means stderr
	Disable bool   `mapstructure:"disable"` // drop all output
}

// Config holds runtime wiring options for building the app.
//
// Values come from config.yaml in the home directory, overridden by
// VEILCHAT_* environment variables. HTTP is wiring-only, never read from
// the file.
type Config struct {
	ServerURL     string    `mapstructure:"server_url"`       // platform API base URL
	UserID        string    `mapstructure:"user_id"`          // local account identifier
	MaxKeyAgeDays int64     `mapstructure:"max_key_age_days"` // rotation policy threshold
	Log           LogConfig `mapstructure:"log"`

	Home string       `mapstructure:"-"` // config directory, e.g. $HOME/.veilchat
	HTTP *http.Client `mapstructure:"-"` // optional; defaults to http.DefaultClient
}

// LoadConfig reads config.yaml from home, applies defaults and environment
// overrides, and returns the result. A missing file is fine; everything can
// come from flags and environment.
func LoadConfig(home string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)

	v.SetEnvPrefix("VEILCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register every key so environment-only values survive Unmarshal.
	v.SetDefault("server_url", "")
	v.SetDefault("user_id", "")
	v.SetDefault("max_key_age_days", int64(keys.DefaultMaxKeyAgeDays))
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", "")
	v.SetDefault("log.disable", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Home = home
	return cfg, nil
}
