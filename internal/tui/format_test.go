package tui

import (
	"testing"
	"time"
)

func TestRunTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "0s"},
		{5 * time.Second, "5s"},
		{30*time.Minute + 5*time.Second, "30m 5s"},
		{59 * time.Minute, "59m 0s"},
		{3 * time.Hour, "3h 0m 0s"},
		{3*time.Hour + 45*time.Minute + 15*time.Second, "3h 45m 15s"},
	}
	for _, tt := range tests {
		if got := runTime(base, base.Add(tt.elapsed)); got != tt.want {
			t.Errorf("runTime(%v) = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

func TestRunTimeZeroStart(t *testing.T) {
	if got := runTime(time.Time{}, time.Now()); got != "-" {
		t.Fatalf("zero start = %q, want -", got)
	}
}

func TestRunTimeClockSkew(t *testing.T) {
	now := time.Now()
	if got := runTime(now.Add(time.Minute), now); got != "0s" {
		t.Fatalf("future start = %q, want 0s", got)
	}
}
