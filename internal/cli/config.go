package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string        `mapstructure:"server"`
	Output    string        `mapstructure:"output"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		Output:    "text",
		Timeout:   30 * time.Second,
	}
}

// LoadConfig merges, in increasing priority, defaults, the config file,
// PLAYERCTL_* environment variables and explicitly set flags.
// An empty configFile means ~/.playerctl.yaml, which may be absent.
func LoadConfig(flags *pflag.FlagSet, configFile string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("server", defaults.ServerURL)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("timeout", defaults.Timeout)

	v.SetEnvPrefix("PLAYERCTL")
	v.AutomaticEnv()

	for _, key := range []string{"server", "output", "timeout"} {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	explicit := configFile != ""
	if !explicit {
		configFile = defaultConfigFile()
	}
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Output != "text" && cfg.Output != "json" {
		return nil, fmt.Errorf("output must be text or json, got %q", cfg.Output)
	}
	return cfg, nil
}

func defaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".playerctl.yaml"
	}
	return filepath.Join(home, ".playerctl.yaml")
}
