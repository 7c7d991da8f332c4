package waveform

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfiguration is returned when the visual constants cannot
// produce a valid waveform.
var ErrInvalidConfiguration = errors.New("invalid waveform configuration")

// Curve selects how a clamped decibel value is mapped onto [0,1].
type Curve int

const (
	// CurveLinear interpolates linearly between the floor and 0 dB.
	CurveLinear Curve = iota
	// CurvePerceptual interpolates on the amplitude ratio 10^(dB/20).
	CurvePerceptual
)

func (c Curve) String() string {
	switch c {
	case CurveLinear:
		return "linear"
	case CurvePerceptual:
		return "perceptual"
	}
	return fmt.Sprintf("curve(%d)", int(c))
}

// ParseCurve parses a curve name as written in config files.
func ParseCurve(s string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return CurveLinear, nil
	case "perceptual", "amplitude":
		return CurvePerceptual, nil
	}
	return 0, fmt.Errorf("%w: unknown curve %q", ErrInvalidConfiguration, s)
}

// Config holds the visual constants for a waveform. All lengths share one
// unit (pixels, cells, whatever the backend draws in).
type Config struct {
	BarWidth     float64
	BarGap       float64
	MinBarHeight float64 // floor so near-silent samples stay visible
	MaxBarHeight float64 // height of a 0 dB sample
	TrackHeight  float64
	FloorDB      float64 // samples at or below this clamp to MinBarHeight
	Curve        Curve
}

// DefaultConfig returns the stock configuration: 2-wide bars, 1 gap, heights
// 2..100 on a 100-high track, -60 dB floor, linear curve.
func DefaultConfig() Config {
	return Config{
		BarWidth:     2,
		BarGap:       1,
		MinBarHeight: 2,
		MaxBarHeight: 100,
		TrackHeight:  100,
		FloorDB:      -60,
		Curve:        CurveLinear,
	}
}

// Validate reports whether c can be rendered. The returned error wraps
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{
		{"bar width", c.BarWidth},
		{"bar gap", c.BarGap},
		{"min bar height", c.MinBarHeight},
		{"max bar height", c.MaxBarHeight},
		{"track height", c.TrackHeight},
	}
	for _, d := range dims {
		if !finite(d.v) || d.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfiguration, d.name, d.v)
		}
	}
	if c.MaxBarHeight < c.MinBarHeight {
		return fmt.Errorf("%w: max bar height %v is below min bar height %v",
			ErrInvalidConfiguration, c.MaxBarHeight, c.MinBarHeight)
	}
	if c.MaxBarHeight > c.TrackHeight {
		return fmt.Errorf("%w: max bar height %v exceeds track height %v",
			ErrInvalidConfiguration, c.MaxBarHeight, c.TrackHeight)
	}
	if !finite(c.FloorDB) || c.FloorDB >= 0 {
		return fmt.Errorf("%w: floor must be a negative dB value, got %v", ErrInvalidConfiguration, c.FloorDB)
	}
	if c.Curve != CurveLinear && c.Curve != CurvePerceptual {
		return fmt.Errorf("%w: unknown curve %d", ErrInvalidConfiguration, int(c.Curve))
	}
	return nil
}

// Stride is the horizontal distance between the left edges of two
// neighbouring bars.
func (c Config) Stride() float64 {
	return c.BarWidth + c.BarGap
}

// ContentWidth is the total width of n bars laid out end to end.
func (c Config) ContentWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) * c.Stride()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
