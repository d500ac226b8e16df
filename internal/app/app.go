package app

import (
	"context"
	"fmt"

	"preap/internal/config"
	"preap/internal/proc"
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to an optional config file; empty means the
	// default per-user location.
	ConfigPath string

	// CLI overrides for the ignore rules. nil leaves the config value.
	IgnoreThreads    *bool
	IgnoreOtherUsers *bool
	IgnorePaths      []string

	// Source overrides process enumeration; nil means the local host.
	Source proc.Source
}

// App exposes the high-level operations shared by the CLI and the TUI:
// refresh, search, family resolution and kill, all against the single
// live index owned by the coordinator.
type App struct {
	cfg   config.Config
	coord *proc.Coordinator
}

// New loads configuration, applies CLI overrides and wires the coordinator.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.IgnoreThreads != nil {
		cfg.Ignore.Threads = *opts.IgnoreThreads
	}
	if opts.IgnoreOtherUsers != nil {
		cfg.Ignore.OtherUsers = *opts.IgnoreOtherUsers
	}
	if len(opts.IgnorePaths) > 0 {
		patterns, err := config.CompilePathPatterns(opts.IgnorePaths)
		if err != nil {
			return nil, err
		}
		cfg.Ignore.Paths = patterns
	}

	source := opts.Source
	if source == nil {
		source = proc.SystemSource{}
	}
	return &App{
		cfg:   cfg,
		coord: proc.NewCoordinator(source, cfg.Ignore),
	}, nil
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Index returns the live process index.
func (a *App) Index() *proc.Index {
	return a.coord.Current()
}

// Refresh re-enumerates the process source and swaps in a fresh index.
func (a *App) Refresh(ctx context.Context) error {
	if _, err := a.coord.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh process list: %w", err)
	}
	return nil
}

// Kill signals one pid and applies the optimistic removal on success.
func (a *App) Kill(pid int, kind proc.SignalKind) proc.Outcome {
	return killProcess(a.coord, pid, kind)
}

// killProcess is a stub point so tests can exercise kill flows without
// signalling real processes.
var killProcess = func(c *proc.Coordinator, pid int, kind proc.SignalKind) proc.Outcome {
	return c.Kill(pid, kind)
}
