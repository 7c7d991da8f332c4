package meter

import "sync"

// Live is an append-only sample buffer fed by a metering source while a take
// is being recorded. Readers take snapshots and re-render from them; nothing
// derived from an earlier snapshot should be reused after more samples land.
type Live struct {
	mu      sync.Mutex
	samples Buffer
}

// NewLive creates a live buffer with room for capacity samples before it
// has to grow.
func NewLive(capacity int) *Live {
	if capacity < 0 {
		capacity = 0
	}
	return &Live{samples: make(Buffer, 0, capacity)}
}

// Append adds samples in chronological order.
func (l *Live) Append(samples ...float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = append(l.samples, samples...)
}

// Len returns the number of samples appended so far.
func (l *Live) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}

// Snapshot returns a copy of every sample appended so far.
func (l *Live) Snapshot() Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(Buffer, len(l.samples))
	copy(out, l.samples)
	return out
}

// Reset starts a new take. Snapshots taken earlier are unaffected.
func (l *Live) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.samples = make(Buffer, 0, cap(l.samples))
}
