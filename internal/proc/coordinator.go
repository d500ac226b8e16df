package proc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
)

// SignalKind is the termination request kind. Terminate asks nicely,
// ForceKill does not; they map to distinct platform signals and the
// coordinator never substitutes one for the other.
type SignalKind int

const (
	Terminate SignalKind = iota
	ForceKill
)

func (k SignalKind) String() string {
	if k == ForceKill {
		return "force-kill"
	}
	return "terminate"
}

func (k SignalKind) signal() syscall.Signal {
	if k == ForceKill {
		return syscall.SIGKILL
	}
	return syscall.SIGTERM
}

// OutcomeStatus categorizes a kill attempt.
type OutcomeStatus int

const (
	Killed OutcomeStatus = iota
	AlreadyGone
	PermissionDenied
	Unsupported
	Unknown
)

func (s OutcomeStatus) String() string {
	switch s {
	case Killed:
		return "killed"
	case AlreadyGone:
		return "already gone"
	case PermissionDenied:
		return "permission denied"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Outcome reports what a Kill did. Err is set for Unknown and carries the
// underlying cause; Requested is the signal kind the caller asked for.
type Outcome struct {
	Status    OutcomeStatus
	Requested SignalKind
	Err       error
}

// sendSignal delivers sig to pid. Package variable so tests can stub
// signal delivery without touching real processes.
var sendSignal = func(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

// Coordinator owns the single live Index. Refresh replaces it wholesale;
// Kill removes one pid from it optimistically after a successful signal.
// Readers obtain a reference through Current and can keep using it after a
// swap: every Index value is immutable.
type Coordinator struct {
	source Source
	rules  IgnoreRules

	// mu serializes the swap sections of Refresh and Kill so an optimistic
	// removal cannot interleave with a refresh and resurrect a stale view.
	// Refresh's result is always authoritative: removals are never
	// re-applied to a fresh Index.
	mu      sync.Mutex
	current atomic.Pointer[Index]
}

// NewCoordinator starts with an empty Index so queries before the first
// refresh degrade to empty results.
func NewCoordinator(source Source, rules IgnoreRules) *Coordinator {
	c := &Coordinator{source: source, rules: rules}
	c.current.Store(BuildIndex(nil, rules, ""))
	return c
}

// Current returns the live Index. The returned value stays valid and
// consistent for as long as the caller holds it.
func (c *Coordinator) Current() *Index {
	return c.current.Load()
}

// Refresh re-enumerates the process source, builds a fresh Index and swaps
// it in. On source failure the previous Index stays live and the error is
// returned.
func (c *Coordinator) Refresh(ctx context.Context) (*Index, error) {
	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	idx := BuildIndex(snap.Procs, c.rules, snap.CurrentUser)
	c.mu.Lock()
	c.current.Store(idx)
	c.mu.Unlock()
	return idx, nil
}

// Kill signals pid and, on success, removes it from the live Index so the
// operator sees the process disappear without waiting for a refresh. A pid
// no longer in the Index is reported as already gone, not as an error, and
// a failed kill leaves the Index untouched.
func (c *Coordinator) Kill(pid int, kind SignalKind) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.current.Load()
	if !idx.Contains(pid) {
		return Outcome{Status: AlreadyGone, Requested: kind}
	}

	err := sendSignal(pid, kind.signal())
	switch {
	case err == nil:
		c.current.Store(idx.Remove(pid))
		return Outcome{Status: Killed, Requested: kind}
	case errors.Is(err, syscall.ESRCH):
		// The OS beat us to it; drop the stale record.
		c.current.Store(idx.Remove(pid))
		return Outcome{Status: AlreadyGone, Requested: kind}
	case errors.Is(err, syscall.EPERM):
		return Outcome{Status: PermissionDenied, Requested: kind, Err: err}
	case errors.Is(err, syscall.EINVAL):
		return Outcome{Status: Unsupported, Requested: kind, Err: err}
	default:
		return Outcome{Status: Unknown, Requested: kind, Err: err}
	}
}
