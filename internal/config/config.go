// Package config loads application configuration with viper. Values
// come from a YAML config file, MYDAY_* environment variables, and
// defaults, in increasing precedence of the first two over the last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	// DataDir holds the record database and settings file.
	DataDir string `mapstructure:"data_dir"`

	// LogFile, when set, sends structured logs to a rotated file
	// instead of stderr.
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	// DashboardPort is where `myday serve` exposes the WebSocket
	// dashboard.
	DashboardPort int `mapstructure:"dashboard_port"`

	// Parser selects the voice-input backend: "claude" or "local".
	Parser          string `mapstructure:"parser"`
	AnthropicModel  string `mapstructure:"anthropic_model"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

// DatabasePath returns the record database location.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "myday.db")
}

// SettingsPath returns the preferences file location.
func (c Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.yaml")
}

// Load reads configuration. An explicit path wins; otherwise
// $XDG_CONFIG_HOME/myday/config.yaml (or ~/.config/myday/config.yaml)
// is used when present. A missing file just means defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("dashboard_port", 8422)
	v.SetDefault("parser", "local")
	v.SetDefault("anthropic_model", "claude-sonnet-4-5")

	v.SetEnvPrefix("MYDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func defaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "myday")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "myday")
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "myday")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "myday")
}
