package visualizer

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Follower eases a displayed scroll offset toward a target offset with a
// critically damped spring. It only smooths what is shown; the target is
// always reachable exactly through Snap.
type Follower struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

// NewFollower creates a follower stepped fps times per second.
func NewFollower(fps int, frequency, damping float64) *Follower {
	return &Follower{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

// Step advances one frame toward target and returns the new offset. Once
// within settle of the target it lands exactly on it.
func (f *Follower) Step(target float64) float64 {
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, target)
	if math.Abs(f.pos-target) < settle && math.Abs(f.vel) < settle {
		f.pos, f.vel = target, 0
	}
	return f.pos
}

// Snap jumps straight to offset.
func (f *Follower) Snap(offset float64) {
	f.pos, f.vel = offset, 0
}

// Offset returns the current displayed offset.
func (f *Follower) Offset() float64 { return f.pos }

// Settled reports whether the follower rests on target.
func (f *Follower) Settled(target float64) bool {
	return f.pos == target && f.vel == 0
}

const settle = 0.01
