package proc

import (
	"context"
	"fmt"
	"os/user"
	"sort"
	"time"

	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is one raw enumeration of the host's process table, before
// ignore rules are applied.
type Snapshot struct {
	Procs       []Process
	CurrentUser string
}

// Source produces process snapshots. Enumeration can be slow and partially
// privileged; implementations degrade unreadable fields to zero values
// rather than dropping the process.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// SystemSource enumerates the local host via gopsutil.
type SystemSource struct{}

// Snapshot reads the full process table plus the listening-socket table.
// Only a failed enumeration is an error; per-process attribute reads that
// fail (typically other users' processes under restricted privilege) leave
// the affected field empty.
func (SystemSource) Snapshot(ctx context.Context) (Snapshot, error) {
	list, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("enumerate processes: %w", err)
	}
	ports := listeningPorts(ctx)

	snap := Snapshot{Procs: make([]Process, 0, len(list))}
	for _, p := range list {
		rec := Process{PID: int(p.Pid)}
		if name, err := p.NameWithContext(ctx); err == nil {
			rec.Name = name
		}
		if exe, err := p.ExeWithContext(ctx); err == nil {
			rec.Path = exe
		}
		if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
			rec.Args = args
		}
		if ppid, err := p.PpidWithContext(ctx); err == nil {
			rec.ParentPID = int(ppid)
		}
		if owner, err := p.UsernameWithContext(ctx); err == nil {
			rec.Owner = owner
		}
		if created, err := p.CreateTimeWithContext(ctx); err == nil && created > 0 {
			rec.StartTime = time.UnixMilli(created)
		}
		rec.Ports = ports[rec.PID]
		snap.Procs = append(snap.Procs, rec)
	}

	if u, err := user.Current(); err == nil {
		snap.CurrentUser = u.Username
	}
	return snap, nil
}

// listeningPorts maps pid to its sorted set of listening ports. Socket
// table errors are ignored: ports are an enrichment, not a requirement,
// and reading them often needs more privilege than the process table.
func listeningPorts(ctx context.Context) map[int][]uint32 {
	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil
	}
	seen := make(map[int]map[uint32]bool)
	for _, conn := range conns {
		if conn.Status != "LISTEN" || conn.Pid <= 0 {
			continue
		}
		pid := int(conn.Pid)
		if seen[pid] == nil {
			seen[pid] = make(map[uint32]bool)
		}
		seen[pid][conn.Laddr.Port] = true
	}
	out := make(map[int][]uint32, len(seen))
	for pid, set := range seen {
		ports := make([]uint32, 0, len(set))
		for port := range set {
			ports = append(ports, port)
		}
		sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
		out[pid] = ports
	}
	return out
}
