package proc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is one scored query result.
type Match struct {
	Process Process
	Score   int
}

// Evaluate applies a parsed query against an Index and returns the results
// ordered by descending score, ties broken by ascending pid so re-running
// the same query over the same Index is reproducible. An empty result is a
// normal outcome, never an error.
func Evaluate(q Query, idx *Index) []Match {
	switch q.Mode {
	case ModePid:
		pid, ok := q.PID()
		if !ok {
			return nil
		}
		if p, found := idx.Get(pid); found {
			return []Match{{Process: p}}
		}
		return nil
	case ModeFamily:
		pid, ok := q.PID()
		if !ok {
			return nil
		}
		family := Descendants(idx, pid)
		out := make([]Match, 0, len(family))
		for _, id := range family {
			if p, found := idx.Get(id); found {
				out = append(out, Match{Process: p})
			}
		}
		return out
	}

	procs := idx.Processes()
	if q.Pattern == "" {
		// A bare prefix shows the whole surviving list in that mode.
		out := make([]Match, 0, len(procs))
		for _, p := range procs {
			out = append(out, Match{Process: p})
		}
		return out
	}

	var out []Match
	switch q.Mode {
	case ModeName:
		out = fuzzyMatches(q.Pattern, procs, func(p Process) string { return p.Name })
	case ModePath:
		out = fuzzyMatches(q.Pattern, procs, func(p Process) string { return p.Path })
	case ModeArgs:
		for _, p := range procs {
			if strings.Contains(strings.ToLower(p.CommandLine()), q.Pattern) {
				out = append(out, Match{Process: p})
			}
		}
	case ModePort:
		if !allDigits(q.Pattern) {
			return nil
		}
		for _, p := range procs {
			if matchesPort(p.Ports, q.Pattern) {
				out = append(out, Match{Process: p})
			}
		}
	case ModeEverywhere:
		out = bestOfFields(q.Pattern, procs,
			func(p Process) string { return p.Name },
			func(p Process) string { return p.Path },
			func(p Process) string { return p.CommandLine() },
		)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Process.PID < out[j].Process.PID
	})
	return out
}

// fuzzyMatches runs the ordered-subsequence matcher over one field of every
// candidate. The matcher rewards contiguous runs and matches near the start
// of the target and penalizes gaps, so "ffx" ranks "firefox" above a target
// with the same letters scattered through a long name.
func fuzzyMatches(pattern string, procs []Process, field func(Process) string) []Match {
	targets := make([]string, len(procs))
	for i, p := range procs {
		targets[i] = field(p)
	}
	var out []Match
	for _, m := range fuzzy.Find(pattern, targets) {
		out = append(out, Match{Process: procs[m.Index], Score: m.Score})
	}
	return out
}

// bestOfFields keeps, per candidate, the highest score over the given
// fields; a candidate missing from every field's results is dropped.
func bestOfFields(pattern string, procs []Process, fields ...func(Process) string) []Match {
	best := make(map[int]int)
	for _, field := range fields {
		targets := make([]string, len(procs))
		for i, p := range procs {
			targets[i] = field(p)
		}
		for _, m := range fuzzy.Find(pattern, targets) {
			if score, seen := best[m.Index]; !seen || m.Score > score {
				best[m.Index] = m.Score
			}
		}
	}
	var out []Match
	for i, p := range procs {
		if score, ok := best[i]; ok {
			out = append(out, Match{Process: p, Score: score})
		}
	}
	return out
}

// matchesPort accepts a port equal to the pattern or whose decimal form
// starts with it, so ":80" finds 80, 8080 and 8000.
func matchesPort(ports []uint32, pattern string) bool {
	for _, port := range ports {
		s := strconv.FormatUint(uint64(port), 10)
		if s == pattern || strings.HasPrefix(s, pattern) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
