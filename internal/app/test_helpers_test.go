package app

import (
	"context"
	"path/filepath"
	"testing"

	"preap/internal/proc"
)

type fakeSource struct {
	snap proc.Snapshot
	err  error
}

func (f *fakeSource) Snapshot(ctx context.Context) (proc.Snapshot, error) {
	return f.snap, f.err
}

func sampleTree() []proc.Process {
	return []proc.Process{
		{PID: 1, Name: "init"},
		{PID: 10, ParentPID: 1, Name: "shell"},
		{PID: 20, ParentPID: 10, Name: "editor"},
		{PID: 21, ParentPID: 10, Name: "compiler"},
	}
}

// newTestApp wires an App over a fake source and performs the first
// refresh. The config path points at a missing file so host configuration
// cannot leak into tests.
func newTestApp(t *testing.T, procs []proc.Process) *App {
	t.Helper()
	off := false
	a, err := New(Options{
		ConfigPath:       filepath.Join(t.TempDir(), "missing.toml"),
		IgnoreThreads:    &off,
		IgnoreOtherUsers: &off,
		Source:           &fakeSource{snap: proc.Snapshot{Procs: procs}},
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return a
}

type killCall struct {
	pid  int
	kind proc.SignalKind
}

// stubKill replaces signal delivery, recording calls and answering with
// outcome(pid). The live index is not mutated by the stub.
func stubKill(t *testing.T, outcome func(pid int) proc.OutcomeStatus) *[]killCall {
	t.Helper()
	orig := killProcess
	var calls []killCall
	killProcess = func(c *proc.Coordinator, pid int, kind proc.SignalKind) proc.Outcome {
		calls = append(calls, killCall{pid: pid, kind: kind})
		return proc.Outcome{Status: outcome(pid), Requested: kind}
	}
	t.Cleanup(func() { killProcess = orig })
	return &calls
}
