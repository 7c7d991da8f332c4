package ui

import "fmt"

// LoopMode decides what happens when the playhead reaches the end of a take.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopTake
	LoopAll
)

// ParseLoopMode parses a loop mode name as written in config files.
func ParseLoopMode(s string) (LoopMode, error) {
	switch s {
	case "", "off":
		return LoopOff, nil
	case "take":
		return LoopTake, nil
	case "all":
		return LoopAll, nil
	}
	return LoopOff, fmt.Errorf("unknown loop mode %q", s)
}

// Next cycles to the next loop mode.
func (l LoopMode) Next() LoopMode {
	switch l {
	case LoopOff:
		return LoopTake
	case LoopTake:
		return LoopAll
	default:
		return LoopOff
	}
}

// String returns the name of the loop mode.
func (l LoopMode) String() string {
	switch l {
	case LoopTake:
		return "take"
	case LoopAll:
		return "all"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the loop mode.
func (l LoopMode) Icon() string {
	switch l {
	case LoopTake:
		return "[loop take]"
	case LoopAll:
		return "[loop all]"
	default:
		return ""
	}
}
