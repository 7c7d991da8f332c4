// Package meter holds loudness sample buffers: ordered decibel measurements,
// one per fixed time-slice of audio.
package meter

import (
	"math"
	"time"
)

// Buffer is an ordered sequence of loudness samples in dB. Index i is the
// i-th time-slice of the take. A Buffer is not mutated once handed to a
// renderer; a new take gets a new Buffer.
type Buffer []float64

// Len returns the number of samples.
func (b Buffer) Len() int { return len(b) }

// At returns sample i, or -Inf when i is out of range.
func (b Buffer) At(i int) float64 {
	if i < 0 || i >= len(b) {
		return math.Inf(-1)
	}
	return b[i]
}

// Duration is the playback length of the buffer when each sample covers
// frame of audio.
func (b Buffer) Duration(frame time.Duration) time.Duration {
	return time.Duration(len(b)) * frame
}

// Peak returns the index and value of the loudest sample, or (-1, -Inf) for
// an empty buffer.
func (b Buffer) Peak() (int, float64) {
	idx, peak := -1, math.Inf(-1)
	for i, v := range b {
		if v > peak {
			idx, peak = i, v
		}
	}
	return idx, peak
}
