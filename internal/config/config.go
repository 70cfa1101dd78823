// Package config loads the covlens configuration file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config is the tool configuration. Flags override these values only when
// explicitly set on the command line.
type Config struct {
	// Report is the LCOV tracefile to load.
	Report string `mapstructure:"report"`

	// Root is the workspace root reported paths are resolved against.
	// Empty means the current working directory.
	Root string `mapstructure:"root"`

	// SearchDirs overrides the conventional source directories probed when
	// a reported path matches nothing directly.
	SearchDirs []string `mapstructure:"search_dirs"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// MarkdownOut, when set, is the directory markdown coverage reports
	// are written to after each load.
	MarkdownOut string `mapstructure:"markdown_out"`

	// WatchDebounceMs coalesces bursts of report-file events into one
	// reload when watching.
	WatchDebounceMs int `mapstructure:"watch_debounce_ms"`
}

// Load reads covlens.yaml from the working directory or ~/.config/covlens.
// A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("covlens")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/covlens")

	v.SetDefault("report", "coverage/lcov.info")
	v.SetDefault("log_level", "info")
	v.SetDefault("watch_debounce_ms", 300)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
