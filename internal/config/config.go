package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"preap/internal/proc"
)

const (
	defaultHeight          = 25
	defaultRefreshInterval = 5 * time.Second

	envRefreshInterval = "PREAP_REFRESH_INTERVAL"
	envConfigPath      = "PREAP_CONFIG"
)

// Config aggregates the tunables consumed by the CLI and TUI.
type Config struct {
	// Height is the inline viewport height; ignored when Fullscreen is set.
	Height     int
	Fullscreen bool
	// RefreshInterval schedules periodic refreshes in the TUI. Zero
	// disables the timer; refresh stays available on demand.
	RefreshInterval time.Duration
	Ignore          proc.IgnoreRules
}

// Default returns the built-in configuration: ignore threads and other
// users' processes, no path patterns.
func Default() Config {
	return Config{
		Height:          defaultHeight,
		RefreshInterval: defaultRefreshInterval,
		Ignore: proc.IgnoreRules{
			Threads:    true,
			OtherUsers: true,
		},
	}
}

// Load builds a Config from an optional TOML file plus environment
// overrides. An empty path falls back to PREAP_CONFIG or the per-user
// config dir; a missing file is not an error, a malformed one is. Ignore
// path patterns that fail to compile are reported, never dropped silently.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		fileCfg, err := loadFromFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("load config %s: %w", path, err)
			}
		} else {
			cfg = fileCfg
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func defaultPath() string {
	if explicit := os.Getenv(envConfigPath); explicit != "" {
		return explicit
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "preap", "config.toml")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envRefreshInterval); v != "" {
		if dur, err := time.ParseDuration(v); err == nil && dur >= 0 {
			cfg.RefreshInterval = dur
		} else if err != nil {
			log.Printf("invalid %s value %q: %v", envRefreshInterval, v, err)
		}
	}
}

type fileConfig struct {
	Height          int    `toml:"height"`
	Fullscreen      bool   `toml:"fullscreen"`
	RefreshInterval string `toml:"refresh_interval"`
	Ignore          struct {
		Threads    *bool    `toml:"threads"`
		OtherUsers *bool    `toml:"other_users"`
		Paths      []string `toml:"paths"`
	} `toml:"ignore"`
}

func loadFromFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, err
	}

	if raw.Height > 0 {
		cfg.Height = raw.Height
	}
	cfg.Fullscreen = raw.Fullscreen
	if raw.RefreshInterval != "" {
		dur, err := time.ParseDuration(raw.RefreshInterval)
		if err != nil {
			return cfg, fmt.Errorf("parse refresh_interval: %w", err)
		}
		if dur < 0 {
			return cfg, errors.New("refresh_interval must be >= 0")
		}
		cfg.RefreshInterval = dur
	}
	if raw.Ignore.Threads != nil {
		cfg.Ignore.Threads = *raw.Ignore.Threads
	}
	if raw.Ignore.OtherUsers != nil {
		cfg.Ignore.OtherUsers = *raw.Ignore.OtherUsers
	}
	patterns, err := CompilePathPatterns(raw.Ignore.Paths)
	if err != nil {
		return cfg, err
	}
	cfg.Ignore.Paths = patterns

	return cfg, nil
}

// CompilePathPatterns compiles ignore path regexes, failing on the first
// invalid one so the operator learns about it instead of silently losing a
// filter.
func CompilePathPatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile ignore path %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}
