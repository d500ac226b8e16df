package proc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func matchedPids(matches []Match) []int {
	pids := make([]int, 0, len(matches))
	for _, m := range matches {
		pids = append(pids, m.Process.PID)
	}
	return pids
}

func evaluateRaw(raw string, idx *Index) []Match {
	return Evaluate(ParseQuery(raw), idx)
}

func TestEvaluateEmptyPatternReturnsEveryCandidateOnce(t *testing.T) {
	idx := BuildIndex(sampleTree(), IgnoreRules{}, "")
	for _, raw := range []string{"", "/", "-", ":", "~"} {
		if diff := cmp.Diff([]int{1, 10, 20, 21}, matchedPids(evaluateRaw(raw, idx))); diff != "" {
			t.Fatalf("query %q result mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestEvaluateFuzzyRanking(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "firefox"},
		{PID: 2, Name: "xterm"},
		{PID: 3, Name: "ffxiv"},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")

	got := matchedPids(evaluateRaw("ffx", idx))
	if len(got) != 2 {
		t.Fatalf("expected firefox and ffxiv to match, got pids %v", got)
	}
	for _, pid := range got {
		if pid == 2 {
			t.Fatal("xterm must not match pattern ffx")
		}
	}
	// The contiguous run at the start wins.
	if got[0] != 3 {
		t.Fatalf("ffxiv should outrank firefox, got order %v", got)
	}

	got = matchedPids(evaluateRaw("fire", idx))
	if len(got) == 0 || got[0] != 1 {
		t.Fatalf("firefox should rank first for pattern fire, got %v", got)
	}
}

func TestEvaluateFuzzyIsCaseInsensitive(t *testing.T) {
	idx := BuildIndex([]Process{{PID: 1, Name: "FireFox"}}, IgnoreRules{}, "")
	if got := matchedPids(evaluateRaw("FIREFOX", idx)); len(got) != 1 {
		t.Fatalf("case-insensitive name match failed, got %v", got)
	}
}

func TestEvaluateTiesBreakByAscendingPid(t *testing.T) {
	snap := []Process{
		{PID: 30, Name: "worker"},
		{PID: 4, Name: "worker"},
		{PID: 17, Name: "worker"},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")
	want := []int{4, 17, 30}
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(want, matchedPids(evaluateRaw("worker", idx))); diff != "" {
			t.Fatalf("tie order not deterministic (-want +got):\n%s", diff)
		}
	}
}

func TestEvaluatePathMode(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "a", Path: "/usr/bin/firefox"},
		{PID: 2, Name: "b", Path: "/opt/tool"},
		{PID: 3, Name: "c"},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")
	if diff := cmp.Diff([]int{1}, matchedPids(evaluateRaw("/ffx", idx))); diff != "" {
		t.Fatalf("path match mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateArgsModeUsesContainmentNotFuzzy(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "one", Args: []string{"one", "--foo=1"}},
		{PID: 2, Name: "two", Args: []string{"two", "for", "-o", "out"}},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")

	got := matchedPids(evaluateRaw("-foo", idx))
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		// pid 2's command line contains f..o..o as a subsequence, which
		// must not be enough in args mode.
		t.Fatalf("args containment mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateArgsModeToleratesConcatenatedArgv(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "svc", Args: []string{"svc --listen 80 --foo"}},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")
	if got := matchedPids(evaluateRaw("-listen 80", idx)); len(got) != 1 {
		t.Fatalf("concatenated argv should match by substring, got %v", got)
	}
}

func TestEvaluatePortMode(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "web", Ports: []uint32{80, 8080}},
		{PID: 2, Name: "db", Ports: []uint32{5432}},
		{PID: 3, Name: "idle"},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")

	if diff := cmp.Diff([]int{1}, matchedPids(evaluateRaw(":80", idx))); diff != "" {
		t.Fatalf("exact/prefix port mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{2}, matchedPids(evaluateRaw(":54", idx))); diff != "" {
		t.Fatalf("prefix port mismatch (-want +got):\n%s", diff)
	}
	if got := evaluateRaw(":9", idx); len(got) != 0 {
		t.Fatalf("no port starts with 9, got %v", matchedPids(got))
	}
	if got := evaluateRaw(":abc", idx); len(got) != 0 {
		t.Fatalf("non-numeric port pattern must match nothing, got %v", matchedPids(got))
	}
}

func TestEvaluateEverywhereMode(t *testing.T) {
	snap := []Process{
		{PID: 1, Name: "aaa", Path: "/opt/tool"},
		{PID: 2, Name: "bbb", Args: []string{"bbb", "--tool"}},
		{PID: 3, Name: "tool"},
		{PID: 4, Name: "zzz"},
	}
	idx := BuildIndex(snap, IgnoreRules{}, "")
	got := matchedPids(evaluateRaw("~tool", idx))
	if len(got) != 3 {
		t.Fatalf("expected matches via path, args and name, got %v", got)
	}
	for _, pid := range got {
		if pid == 4 {
			t.Fatal("pid 4 matches nowhere and must be absent")
		}
	}
}

func TestEvaluatePidMode(t *testing.T) {
	idx := BuildIndex(sampleTree(), IgnoreRules{}, "")

	if diff := cmp.Diff([]int{20}, matchedPids(evaluateRaw("!20", idx))); diff != "" {
		t.Fatalf("pid lookup mismatch (-want +got):\n%s", diff)
	}
	if got := evaluateRaw("!999", idx); len(got) != 0 {
		t.Fatalf("unknown pid must match nothing, got %v", matchedPids(got))
	}
	if got := evaluateRaw("!abc", idx); len(got) != 0 {
		t.Fatalf("invalid pid pattern must match nothing, got %v", matchedPids(got))
	}
}

func TestEvaluateFamilyMode(t *testing.T) {
	idx := BuildIndex(sampleTree(), IgnoreRules{}, "")

	if diff := cmp.Diff([]int{10, 20, 21}, matchedPids(evaluateRaw("@10", idx))); diff != "" {
		t.Fatalf("family mismatch (-want +got):\n%s", diff)
	}
	if got := evaluateRaw("@999", idx); len(got) != 0 {
		t.Fatalf("family of unknown pid must be empty, got %v", matchedPids(got))
	}
	if got := evaluateRaw("@oops", idx); len(got) != 0 {
		t.Fatalf("invalid family pattern must match nothing, got %v", matchedPids(got))
	}
}
