// Package takes keeps the ordered list of recordings the viewer can switch
// between. Each take owns its own sample buffer.
package takes

import "github.com/olivier-w/wavetrack/internal/meter"

// Take is one recording's loudness data.
type Take struct {
	Title   string
	Source  string // where the samples were read from, "-" for stdin
	Samples meter.Buffer
	// Live is set for a take still being recorded. Samples is then replaced
	// with a fresh snapshot on every refresh.
	Live *meter.Live
}

// Refresh replaces a live take's samples with a snapshot of everything
// recorded so far. It reports whether the sample count changed.
func (t *Take) Refresh() bool {
	if t.Live == nil {
		return false
	}
	if t.Live.Len() == len(t.Samples) {
		return false
	}
	t.Samples = t.Live.Snapshot()
	return true
}

// List is an ordered set of takes with a current position.
// It is only mutated from Bubbletea's single-threaded Update loop.
type List struct {
	takes   []Take
	current int
}

// New creates a List positioned on the first take.
func New(takes []Take) *List {
	return &List{takes: takes}
}

// Current returns the current take, or nil if the list is empty.
func (l *List) Current() *Take {
	return l.Take(l.current)
}

// Take returns the take at index i, or nil if out of range.
func (l *List) Take(i int) *Take {
	if i < 0 || i >= len(l.takes) {
		return nil
	}
	return &l.takes[i]
}

// Advance moves to the next take. Returns false if already at the end.
func (l *List) Advance() bool {
	if l.current+1 >= len(l.takes) {
		return false
	}
	l.current++
	return true
}

// Previous moves to the previous take. Returns false if already at the start.
func (l *List) Previous() bool {
	if l.current <= 0 {
		return false
	}
	l.current--
	return true
}

// Peek returns up to n takes after the current one.
func (l *List) Peek(n int) []Take {
	start := l.current + 1
	if start >= len(l.takes) || n <= 0 {
		return nil
	}
	end := min(start+n, len(l.takes))
	out := make([]Take, end-start)
	copy(out, l.takes[start:end])
	return out
}

// Append adds a take at the end of the list and returns its index.
func (l *List) Append(t Take) int {
	l.takes = append(l.takes, t)
	return len(l.takes) - 1
}

// Len returns the number of takes.
func (l *List) Len() int {
	return len(l.takes)
}

// CurrentIndex returns the zero-based index of the current take.
func (l *List) CurrentIndex() int {
	return l.current
}

// SetCurrentIndex jumps to take i. Out of range indices are ignored.
func (l *List) SetCurrentIndex(i int) {
	if i >= 0 && i < len(l.takes) {
		l.current = i
	}
}
