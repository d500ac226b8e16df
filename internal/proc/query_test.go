package proc

import (
	"fmt"
	"testing"
)

func TestParseQueryModes(t *testing.T) {
	tests := []struct {
		raw     string
		mode    Mode
		pattern string
	}{
		{"FOO", ModeName, "foo"},
		{"/Foo", ModePath, "foo"},
		{"-fOo", ModeArgs, "foo"},
		{":8080", ModePort, "8080"},
		{"~fOO", ModeEverywhere, "foo"},
		{"!1234", ModePid, "1234"},
		{"@1234", ModeFamily, "1234"},
		{"", ModeName, ""},
		{"/", ModePath, ""},
		{"-", ModeArgs, ""},
		{":", ModePort, ""},
		{"~", ModeEverywhere, ""},
	}
	for _, tt := range tests {
		q := ParseQuery(tt.raw)
		if q.Mode != tt.mode {
			t.Errorf("ParseQuery(%q) mode = %s, want %s", tt.raw, q.Mode, tt.mode)
		}
		if q.Pattern != tt.pattern {
			t.Errorf("ParseQuery(%q) pattern = %q, want %q", tt.raw, q.Pattern, tt.pattern)
		}
	}
}

func TestParseQueryRoundTrip(t *testing.T) {
	prefixes := map[string]Mode{
		"":  ModeName,
		"/": ModePath,
		"-": ModeArgs,
		":": ModePort,
		"~": ModeEverywhere,
		"!": ModePid,
		"@": ModeFamily,
	}
	patterns := []string{"", "foo", "123", "a b c"}
	for prefix, mode := range prefixes {
		for _, pattern := range patterns {
			q := ParseQuery(prefix + pattern)
			if q.Mode != mode {
				t.Errorf("prefix %q pattern %q: mode = %s, want %s", prefix, pattern, q.Mode, mode)
			}
			if q.Pattern != pattern {
				t.Errorf("prefix %q pattern %q: pattern = %q", prefix, pattern, q.Pattern)
			}
		}
	}
}

func TestParseQueryPidValidation(t *testing.T) {
	for _, raw := range []string{"!1234", "@77"} {
		q := ParseQuery(raw)
		pid, ok := q.PID()
		if !ok {
			t.Fatalf("ParseQuery(%q) should carry a valid pid", raw)
		}
		if want := fmt.Sprintf("%d", pid); want != q.Pattern {
			t.Fatalf("ParseQuery(%q) pid %d does not match pattern %q", raw, pid, q.Pattern)
		}
	}
	for _, raw := range []string{"!", "!abc", "!-5", "@", "@x1"} {
		if _, ok := ParseQuery(raw).PID(); ok {
			t.Errorf("ParseQuery(%q) should not carry a valid pid", raw)
		}
	}
}
