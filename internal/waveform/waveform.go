// Package waveform maps loudness samples onto bar geometry for a horizontal,
// scrollable waveform. Everything here is a pure function of its arguments.
package waveform

import "math"

// Bar is the geometry of one sample. X is the left edge in content space;
// Y is the top edge, chosen so the bar is centred on the track midline.
type Bar struct {
	Index  int
	X      float64
	Width  float64
	Height float64
	Y      float64
	DB     float64
	Level  float64 // normalized loudness in [0,1], for colouring
}

// Center returns the horizontal centre of the bar in content space.
func (b Bar) Center() float64 {
	return b.X + b.Width/2
}

// Render returns one Bar per sample, in sample order. An empty input yields
// an empty slice. On an invalid configuration no bars are returned.
func Render(samples []float64, cfg Config) ([]Bar, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bars := make([]Bar, len(samples))
	stride := cfg.Stride()
	mid := cfg.TrackHeight / 2
	for i, db := range samples {
		level := Level(db, cfg)
		h := heightForLevel(level, cfg)
		bars[i] = Bar{
			Index:  i,
			X:      float64(i) * stride,
			Width:  cfg.BarWidth,
			Height: h,
			Y:      mid - h/2,
			DB:     db,
			Level:  level,
		}
	}
	return bars, nil
}

// Level maps a decibel value onto [0,1] using cfg's floor and curve. Values at
// or below the floor map to 0, values at or above 0 dB map to 1. NaN is
// treated as silence.
func Level(db float64, cfg Config) float64 {
	floor := cfg.FloorDB
	if math.IsNaN(db) || db <= floor {
		return 0
	}
	if db >= 0 {
		return 1
	}

	switch cfg.Curve {
	case CurvePerceptual:
		lo := dbToAmp(floor)
		return clamp01((dbToAmp(db) - lo) / (1 - lo))
	default:
		return clamp01((db - floor) / -floor)
	}
}

// Height returns the bar height for a decibel value, always within
// [MinBarHeight, MaxBarHeight].
func Height(db float64, cfg Config) float64 {
	return heightForLevel(Level(db, cfg), cfg)
}

func heightForLevel(level float64, cfg Config) float64 {
	h := cfg.MinBarHeight + level*(cfg.MaxBarHeight-cfg.MinBarHeight)
	return math.Min(math.Max(h, cfg.MinBarHeight), cfg.MaxBarHeight)
}

// Downsample averages consecutive groups of factor samples in the power
// domain, which keeps short loud transients from being washed out the way a
// plain dB average would. A factor below 2 returns a copy.
func Downsample(samples []float64, factor int) []float64 {
	if factor < 2 {
		out := make([]float64, len(samples))
		copy(out, samples)
		return out
	}

	n := (len(samples) + factor - 1) / factor
	out := make([]float64, n)
	for c := range n {
		lo := c * factor
		hi := min(lo+factor, len(samples))

		var power float64
		count := 0
		for _, db := range samples[lo:hi] {
			if math.IsNaN(db) {
				continue
			}
			power += math.Pow(10, db/10)
			count++
		}
		if count == 0 || power == 0 {
			out[c] = math.Inf(-1)
			continue
		}
		out[c] = 10 * math.Log10(power/float64(count))
	}
	return out
}

func dbToAmp(db float64) float64 {
	return math.Pow(10, db/20)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
