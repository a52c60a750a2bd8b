package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the user-tunable client configuration.
type Settings struct {
	APIURL     string        `mapstructure:"api_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFile    string        `mapstructure:"log_file"`
	DefaultTab string        `mapstructure:"default_tab"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		APIURL:     "http://localhost:8001",
		Timeout:    30 * time.Second,
		LogLevel:   "info",
		DefaultTab: "zephyr",
	}
}

// NewViper returns a viper instance with defaults registered, CQE_* env
// bindings enabled and config.yaml from the data dir as the config file.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultSettings()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("default_tab", d.DefaultTab)

	v.SetEnvPrefix("CQE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := DataDir(); err == nil {
		v.AddConfigPath(dir)
	}
	return v
}

// LoadSettings reads the config file (if any) into Settings and validates it.
// A missing config file is not an error.
func LoadSettings(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	if s.LogFile == "" {
		if dir, err := DataDir(); err == nil {
			s.LogFile = filepath.Join(dir, "cqe.log")
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (s Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", s.APIURL)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	switch strings.ToLower(s.DefaultTab) {
	case "zephyr", "jira":
	default:
		return fmt.Errorf("default_tab must be zephyr or jira, got %q", s.DefaultTab)
	}
	return nil
}
