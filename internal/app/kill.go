package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"preap/internal/proc"
)

// KillParams configures kill command semantics.
type KillParams struct {
	// Query selects the targets with the same grammar the TUI uses.
	Query string
	Kind  proc.SignalKind
	// Family extends the kill to every descendant of each matched pid.
	Family bool
	// AllowAll permits killing when more than one process matches.
	AllowAll bool
	// SkipRefresh evaluates against the current index instead of
	// re-enumerating first.
	SkipRefresh bool
}

// KillEvent describes one signalled process.
type KillEvent struct {
	Proc    proc.Process
	Outcome proc.Outcome
}

// KillResult aggregates the command outcome.
type KillResult struct {
	Events       []KillEvent
	Message      string
	TotalMatches int
	Killed       int
}

// KillMatching refreshes, evaluates the query and signals every selected
// process. Multiple matches require AllowAll, mirroring the guard the
// one-shot CLI needs so a loose query cannot take down half a session.
func (a *App) KillMatching(ctx context.Context, params KillParams) (KillResult, error) {
	var result KillResult

	if !params.SkipRefresh {
		if err := a.Refresh(ctx); err != nil {
			return result, err
		}
	}

	matches := a.Search(params.Query)
	result.TotalMatches = len(matches)
	if len(matches) == 0 {
		result.Message = "No processes match the query"
		return result, nil
	}
	if len(matches) > 1 && !params.AllowAll {
		return result, fmt.Errorf("multiple processes match (pids: %s). Use --all to kill all of them or narrow the query", joinPidSample(matches))
	}

	targets := a.expandTargets(matches, params.Family)
	for _, target := range targets {
		outcome := a.Kill(target.PID, params.Kind)
		result.Events = append(result.Events, KillEvent{Proc: target, Outcome: outcome})
		if outcome.Status == proc.Killed {
			result.Killed++
		}
	}

	switch {
	case result.Killed == len(targets):
		return result, nil
	case result.Killed == 0:
		return result, errors.New("no processes were killed (see output above)")
	default:
		return result, fmt.Errorf("partially successful: killed %d/%d processes", result.Killed, len(targets))
	}
}

// expandTargets optionally widens each match to its whole family. Families
// are killed deepest-first so children do not get reparented mid-sweep.
func (a *App) expandTargets(matches []proc.Match, family bool) []proc.Process {
	idx := a.Index()
	seen := make(map[int]bool)
	var out []proc.Process
	add := func(pid int) {
		if seen[pid] {
			return
		}
		seen[pid] = true
		if p, ok := idx.Get(pid); ok {
			out = append(out, p)
		}
	}
	for _, m := range matches {
		if !family {
			add(m.Process.PID)
			continue
		}
		fam := proc.Descendants(idx, m.Process.PID)
		for i := len(fam) - 1; i >= 0; i-- {
			add(fam[i])
		}
	}
	return out
}

func joinPidSample(matches []proc.Match) string {
	limit := 5
	pids := make([]string, 0, limit+1)
	for i := 0; i < len(matches) && i < limit; i++ {
		pids = append(pids, fmt.Sprintf("%d", matches[i].Process.PID))
	}
	if len(matches) > limit {
		pids = append(pids, "...")
	}
	return strings.Join(pids, ", ")
}
