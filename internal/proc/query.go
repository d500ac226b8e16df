package proc

import (
	"strconv"
	"strings"
)

// Mode selects the matching strategy for a query.
type Mode int

const (
	// ModeName fuzzy-matches the process name. Default for unprefixed input.
	ModeName Mode = iota
	// ModePath fuzzy-matches the executable path. Prefix '/'.
	ModePath
	// ModeArgs matches the joined command line by substring containment,
	// not fuzzily: fuzzy matching over a possibly concatenated argument
	// string produces too many false positives. Prefix '-'.
	ModeArgs
	// ModePort matches listening ports exactly or by numeric prefix.
	// Prefix ':'.
	ModePort
	// ModeEverywhere fuzzy-matches name, path and command line. Prefix '~'.
	ModeEverywhere
	// ModePid looks up one pid. Prefix '!'.
	ModePid
	// ModeFamily selects a pid plus all its descendants. Prefix '@'.
	ModeFamily
)

func (m Mode) String() string {
	switch m {
	case ModeName:
		return "name"
	case ModePath:
		return "path"
	case ModeArgs:
		return "args"
	case ModePort:
		return "port"
	case ModeEverywhere:
		return "everywhere"
	case ModePid:
		return "pid"
	case ModeFamily:
		return "family"
	default:
		return "unknown"
	}
}

// Query is a parsed operator input: a mode plus the pattern it applies.
type Query struct {
	Mode    Mode
	Pattern string

	// pid carries the parsed pattern for ModePid and ModeFamily. pidOK is
	// false when the remainder was not a valid non-negative integer; such
	// a query matches nothing rather than failing.
	pid   int
	pidOK bool
}

// ParseQuery derives the search mode from the first character of the raw
// input and lowercases the remainder. It is total: every input maps to
// exactly one mode.
func ParseQuery(raw string) Query {
	mode := ModeName
	pattern := raw
	if raw != "" {
		switch raw[0] {
		case '!':
			mode, pattern = ModePid, raw[1:]
		case '@':
			mode, pattern = ModeFamily, raw[1:]
		case '/':
			mode, pattern = ModePath, raw[1:]
		case '-':
			mode, pattern = ModeArgs, raw[1:]
		case ':':
			mode, pattern = ModePort, raw[1:]
		case '~':
			mode, pattern = ModeEverywhere, raw[1:]
		}
	}
	q := Query{Mode: mode, Pattern: strings.ToLower(pattern)}
	if mode == ModePid || mode == ModeFamily {
		if pid, err := strconv.Atoi(q.Pattern); err == nil && pid >= 0 {
			q.pid = pid
			q.pidOK = true
		}
	}
	return q
}

// PID returns the parsed pid for ModePid/ModeFamily queries and whether the
// pattern was a valid one.
func (q Query) PID() (int, bool) {
	return q.pid, q.pidOK
}
