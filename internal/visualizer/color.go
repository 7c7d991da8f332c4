package visualizer

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

var (
	profileOnce sync.Once
	profile     colorProfile
	seqCache    sync.Map
)

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		profile = detectProfile(os.Getenv)
	})
	return profile
}

func detectProfile(getenv func(string) string) colorProfile {
	if getenv("NO_COLOR") != "" {
		return colorNone
	}
	term := strings.ToLower(getenv("TERM"))
	colorTerm := strings.ToLower(getenv("COLORTERM"))
	switch {
	case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
		return colorTrueColor
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "", term == "dumb":
		return colorNone
	}
	return colorANSI16
}

// gradient is a list of evenly spaced colour stops.
type gradient []colorful.Color

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	// bars ahead of the playhead
	upcomingGradient = gradient{mustHex("#23306b"), mustHex("#3d6fd6"), mustHex("#7fb8ff")}
	// bars already played
	playedGradient = gradient{mustHex("#5b2a86"), mustHex("#d6409f"), mustHex("#ffb86b")}
	// the centerline fades in from both ends
	centerGradient = gradient{mustHex("#2a2a40"), mustHex("#fff4c2"), mustHex("#2a2a40")}
	backdropColor  = mustHex("#3a3f58")
)

// at samples the gradient at t in [0,1], blending in HCL so mid tones stay
// saturated.
func (g gradient) at(t float64) colorful.Color {
	switch len(g) {
	case 0:
		return colorful.Color{}
	case 1:
		return g[0]
	}
	t = clamp01(t)
	pos := t * float64(len(g)-1)
	i := int(math.Floor(pos))
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	frac := pos - float64(i)
	if frac == 0 {
		return g[i]
	}
	return g[i].BlendHcl(g[i+1], frac).Clamped()
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

// ansiState writes colour escapes only when the colour changes.
type ansiState struct {
	profile colorProfile
	current uint32
}

const noColor = ^uint32(0)

func newANSIState(p colorProfile) ansiState {
	return ansiState{profile: p, current: noColor}
}

func (s *ansiState) set(sb *strings.Builder, c colorful.Color) {
	if s.profile == colorNone {
		return
	}
	r, g, b := c.RGB255()
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if key == s.current {
		return
	}
	sb.WriteString(colorSequence(s.profile, r, g, b))
	s.current = key
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == colorNone || s.current == noColor {
		return
	}
	sb.WriteString("\x1b[0m")
	s.current = noColor
}

var ansi16 = []colorful.Color{
	{R: 0, G: 0, B: 0},
	{R: 205. / 255, G: 49. / 255, B: 49. / 255},
	{R: 13. / 255, G: 188. / 255, B: 121. / 255},
	{R: 229. / 255, G: 229. / 255, B: 16. / 255},
	{R: 36. / 255, G: 114. / 255, B: 200. / 255},
	{R: 188. / 255, G: 63. / 255, B: 188. / 255},
	{R: 17. / 255, G: 168. / 255, B: 205. / 255},
	{R: 229. / 255, G: 229. / 255, B: 229. / 255},
	// bright variants, SGR 90-97
	{R: 102. / 255, G: 102. / 255, B: 102. / 255},
	{R: 241. / 255, G: 76. / 255, B: 76. / 255},
	{R: 35. / 255, G: 209. / 255, B: 139. / 255},
	{R: 245. / 255, G: 245. / 255, B: 67. / 255},
	{R: 59. / 255, G: 142. / 255, B: 234. / 255},
	{R: 214. / 255, G: 112. / 255, B: 214. / 255},
	{R: 41. / 255, G: 184. / 255, B: 219. / 255},
	{R: 255. / 255, G: 255. / 255, B: 255. / 255},
}

func colorSequence(p colorProfile, r, g, b uint8) string {
	key := uint32(p)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch p {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	case colorANSI256:
		idx := 16 + 36*(int(r)*5/255) + 6*(int(g)*5/255) + int(b)*5/255
		seq = fmt.Sprintf("\x1b[38;5;%dm", idx)
	case colorANSI16:
		c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
		best, bestDist := 0, math.MaxFloat64
		for i, pc := range ansi16 {
			if d := c.DistanceRgb(pc); d < bestDist {
				best, bestDist = i, d
			}
		}
		code := 30 + best
		if best >= 8 {
			code = 90 + best - 8
		}
		seq = fmt.Sprintf("\x1b[%dm", code)
	}

	seqCache.Store(key, seq)
	return seq
}
