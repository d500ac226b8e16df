package proc

import (
	"regexp"
	"sort"
)

// IgnoreRules are applied once, while building an Index. Filtered processes
// never appear as query candidates or family members, though a surviving
// child may still reference one through its ParentPID.
type IgnoreRules struct {
	// Threads drops records flagged as threads. On Linux threads can be
	// listed as processes and need filtering.
	Threads bool
	// OtherUsers drops records whose owner differs from the current user.
	OtherUsers bool
	// Paths drops records whose executable path matches any pattern.
	Paths []*regexp.Regexp
}

func (r IgnoreRules) accept(p Process, currentUser string) bool {
	if r.Threads && p.IsThread {
		return false
	}
	if r.OtherUsers && p.Owner != currentUser {
		return false
	}
	if p.Path != "" {
		for _, re := range r.Paths {
			if re.MatchString(p.Path) {
				return false
			}
		}
	}
	return true
}

// Index is one immutable snapshot of the process table: pid to record, plus
// the parent to children adjacency derived from the surviving records.
// An Index is replaced wholesale on refresh and never mutated, so readers
// holding a reference can never observe a torn state.
type Index struct {
	procs    map[int]Process
	children map[int][]int
}

// BuildIndex ingests a raw snapshot, applies the ignore rules and derives
// the children adjacency. It is total: an empty or partially readable
// snapshot yields a valid (possibly empty) Index, never an error.
// A record whose parent was filtered out or never existed keeps its
// ParentPID but becomes an effective root in the adjacency view.
func BuildIndex(snapshot []Process, rules IgnoreRules, currentUser string) *Index {
	idx := &Index{
		procs:    make(map[int]Process, len(snapshot)),
		children: make(map[int][]int),
	}
	for _, p := range snapshot {
		if p.PID <= 0 {
			continue
		}
		if !rules.accept(p, currentUser) {
			continue
		}
		idx.procs[p.PID] = p
	}
	for pid, p := range idx.procs {
		if p.ParentPID <= 0 {
			continue
		}
		if _, ok := idx.procs[p.ParentPID]; !ok {
			continue
		}
		idx.children[p.ParentPID] = append(idx.children[p.ParentPID], pid)
	}
	for _, kids := range idx.children {
		sort.Ints(kids)
	}
	return idx
}

// Remove returns a new Index without the given pid. The pid disappears from
// its parent's child list, but its own former children stay in the Index as
// effective roots, matching how the OS reparents or orphans them. Removal
// is a map deletion, not a list compaction.
func (idx *Index) Remove(pid int) *Index {
	victim, ok := idx.procs[pid]
	if !ok {
		return idx
	}
	next := &Index{
		procs:    make(map[int]Process, len(idx.procs)),
		children: make(map[int][]int, len(idx.children)),
	}
	for id, p := range idx.procs {
		if id == pid {
			continue
		}
		next.procs[id] = p
	}
	for parent, kids := range idx.children {
		if parent == pid {
			continue
		}
		if parent == victim.ParentPID {
			trimmed := make([]int, 0, len(kids))
			for _, kid := range kids {
				if kid != pid {
					trimmed = append(trimmed, kid)
				}
			}
			if len(trimmed) > 0 {
				next.children[parent] = trimmed
			}
			continue
		}
		next.children[parent] = kids
	}
	return next
}

// Get returns the record for pid, if present.
func (idx *Index) Get(pid int) (Process, bool) {
	p, ok := idx.procs[pid]
	return p, ok
}

// Contains reports whether pid survived ingestion.
func (idx *Index) Contains(pid int) bool {
	_, ok := idx.procs[pid]
	return ok
}

// Len returns the number of surviving records.
func (idx *Index) Len() int {
	return len(idx.procs)
}

// Children returns the pids whose parent is pid, sorted ascending.
func (idx *Index) Children(pid int) []int {
	return idx.children[pid]
}

// Pids returns every surviving pid sorted ascending.
func (idx *Index) Pids() []int {
	pids := make([]int, 0, len(idx.procs))
	for pid := range idx.procs {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// Processes returns every surviving record sorted by pid ascending.
func (idx *Index) Processes() []Process {
	out := make([]Process, 0, len(idx.procs))
	for _, pid := range idx.Pids() {
		out = append(out, idx.procs[pid])
	}
	return out
}
