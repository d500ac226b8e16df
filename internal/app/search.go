package app

import "preap/internal/proc"

// Search evaluates a raw query string against the live index. It is pure
// and cheap enough to run on every keystroke.
func (a *App) Search(raw string) []proc.Match {
	return proc.Evaluate(proc.ParseQuery(raw), a.Index())
}

// Parent returns the nearest surviving ancestor of pid, if any.
func (a *App) Parent(pid int) (proc.Process, bool) {
	chain := proc.Ancestors(a.Index(), pid)
	if len(chain) == 0 {
		return proc.Process{}, false
	}
	return a.Index().Get(chain[0])
}

// Siblings returns the records sharing pid's parent, sorted by pid.
func (a *App) Siblings(pid int) []proc.Process {
	idx := a.Index()
	var out []proc.Process
	for _, id := range proc.Siblings(idx, pid) {
		if p, ok := idx.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}
