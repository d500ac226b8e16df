package proc

import (
	"strconv"
	"strings"
	"time"
)

// Process is one OS process as seen at the last refresh. Records are
// immutable once built; a changed process shows up as a new record on the
// next refresh, never as an in-place update.
type Process struct {
	PID       int
	ParentPID int // 0 when the parent is unknown
	Name      string
	Path      string // executable path, may be empty without privileges
	Args      []string
	Owner     string
	StartTime time.Time
	Ports     []uint32 // listening ports, sorted ascending
	IsThread  bool
}

// CommandLine joins the argument vector for display and args search.
// argv[0] is skipped when it repeats the executable path or the process
// name (some processes carry their binary as the first argument, and some
// have a name that differs from the binary, e.g. firefox). A source that
// delivers the whole command line as one concatenated string is kept as-is;
// joining never re-splits arguments.
func (p Process) CommandLine() string {
	args := p.Args
	if len(args) > 0 && (args[0] == p.Path || (p.Name != "" && strings.HasSuffix(args[0], p.Name))) {
		args = args[1:]
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

// PortList renders the listening ports as a comma separated string, sorted
// so the rendering is stable across refreshes.
func (p Process) PortList() string {
	if len(p.Ports) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.Ports))
	for _, port := range p.Ports {
		parts = append(parts, strconv.FormatUint(uint64(port), 10))
	}
	return strings.Join(parts, ", ")
}
