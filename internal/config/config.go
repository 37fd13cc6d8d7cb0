// Package config loads and saves the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig points the client at the backend.
type APIConfig struct {
	// BaseURL is the backend root. Overridable via TODOTERM_API_URL.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// RealtimeConfig controls the optional websocket relay subscription.
type RealtimeConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
}

// NotificationsConfig controls the toast feed and its history.
type NotificationsConfig struct {
	History     bool   `mapstructure:"history" yaml:"history"`
	HistoryPath string `mapstructure:"history_path" yaml:"history_path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Config is the top-level application configuration.
type Config struct {
	API           APIConfig           `mapstructure:"api" yaml:"api"`
	Realtime      RealtimeConfig      `mapstructure:"realtime" yaml:"realtime"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig       `mapstructure:"display" yaml:"display"`
}

// configDir returns ~/.config/todoterm, falling back to the working
// directory when the home dir cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoterm")
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultHistoryPath returns the default toast history database location.
func DefaultHistoryPath() string {
	return filepath.Join(configDir(), "notifications.db")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "todoterm.log")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
		},
		Realtime: RealtimeConfig{
			Enabled: false,
			URL:     "ws://localhost:8080/ws",
		},
		Notifications: NotificationsConfig{
			History:     true,
			HistoryPath: DefaultHistoryPath(),
		},
		Display: DisplayConfig{
			Theme:    "default",
			LogLevel: "info",
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// TODOTERM_API_URL always overrides api.base_url.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("realtime.enabled", false)
	v.SetDefault("realtime.url", "ws://localhost:8080/ws")
	v.SetDefault("notifications.history", true)
	v.SetDefault("notifications.history_path", DefaultHistoryPath())
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.log_level", "info")

	if err := v.BindEnv("api.base_url", "TODOTERM_API_URL"); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if _, ok := err.(*os.PathError); ok || viperAs(err, &notFound) {
			cfg := defaultConfig()
			if url := v.GetString("api.base_url"); url != "" {
				cfg.API.BaseURL = url
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// viperAs reports whether err is a viper ConfigFileNotFoundError.
func viperAs(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("realtime", cfg.Realtime)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
