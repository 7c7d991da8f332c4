// Package scene describes what to draw for a waveform view as an ordered
// list of layers, independent of any drawing backend.
package scene

import (
	"math"
	"sort"

	"github.com/olivier-w/wavetrack/internal/waveform"
)

// Viewport is the visible window onto the waveform content. Offset is the
// content x shown at the viewport's left edge; it is owned by the caller.
type Viewport struct {
	Width  float64
	Height float64
	Offset float64
}

// Image is an opaque handle to background art. The scene never looks at
// pixels, only at the handle.
type Image struct {
	Name   string
	Width  int
	Height int
}

// ImageProvider resolves background art by name.
type ImageProvider interface {
	Image(name string) (Image, bool)
}

// LayerKind identifies what a layer draws.
type LayerKind int

const (
	LayerBackground LayerKind = iota
	LayerBars
	LayerCenterMarker
)

func (k LayerKind) String() string {
	switch k {
	case LayerBackground:
		return "background"
	case LayerBars:
		return "bars"
	case LayerCenterMarker:
		return "center"
	}
	return "unknown"
}

// Layer is one draw step. Only the fields relevant to Kind are set.
type Layer struct {
	Kind  LayerKind
	Image Image          // background, center marker
	Bars  []waveform.Bar // bars, in content coordinates
	X     float64        // center marker, in viewport coordinates
}

// Scene is a complete frame description, back to front.
type Scene struct {
	Viewport     Viewport
	Track        waveform.Config
	ContentWidth float64
	Layers       []Layer
}

// Art names the images Compose asks the provider for.
type Art struct {
	Background string
	CenterLine string
}

// Compose builds the layers for one frame: background art, the bars, and the
// fixed center marker. Bars are passed through from waveform.Render untouched
// whatever the viewport offset. Art the provider does not know is left out.
func Compose(samples []float64, cfg waveform.Config, vp Viewport, images ImageProvider, art Art) (Scene, error) {
	bars, err := waveform.Render(samples, cfg)
	if err != nil {
		return Scene{}, err
	}

	sc := Scene{
		Viewport:     vp,
		Track:        cfg,
		ContentWidth: cfg.ContentWidth(len(samples)),
		Layers:       make([]Layer, 0, 3),
	}

	if img, ok := lookup(images, art.Background); ok {
		sc.Layers = append(sc.Layers, Layer{Kind: LayerBackground, Image: img})
	}
	sc.Layers = append(sc.Layers, Layer{Kind: LayerBars, Bars: bars})

	center := Layer{Kind: LayerCenterMarker, X: CenterX(vp)}
	if img, ok := lookup(images, art.CenterLine); ok {
		center.Image = img
	}
	sc.Layers = append(sc.Layers, center)

	return sc, nil
}

// Layer returns the first layer of kind k.
func (s Scene) Layer(k LayerKind) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Kind == k {
			return l, true
		}
	}
	return Layer{}, false
}

func lookup(images ImageProvider, name string) (Image, bool) {
	if images == nil || name == "" {
		return Image{}, false
	}
	return images.Image(name)
}

// CenterX is the viewport x of the playback marker.
func CenterX(vp Viewport) float64 {
	return vp.Width / 2
}

// OffsetForIndex returns the viewport offset that puts the centre of bar i
// under the marker.
func OffsetForIndex(i int, cfg waveform.Config, vp Viewport) float64 {
	bar := waveform.Bar{X: float64(i) * cfg.Stride(), Width: cfg.BarWidth}
	return bar.Center() - CenterX(vp)
}

// IndexAtCenter returns the index of the bar under the marker for the
// viewport's offset, clamped to [0, n-1]. It returns -1 when n is zero.
func IndexAtCenter(vp Viewport, cfg waveform.Config, n int) int {
	if n <= 0 {
		return -1
	}
	stride := cfg.Stride()
	if stride <= 0 {
		return 0
	}
	x := vp.Offset + CenterX(vp)
	i := int(math.Floor(x / stride))
	return max(0, min(i, n-1))
}

// Visible returns the bars that intersect the viewport, preserving their
// content coordinates. bars must be in render order.
func Visible(bars []waveform.Bar, vp Viewport) []waveform.Bar {
	lo, hi := vp.Offset, vp.Offset+vp.Width
	start := sort.Search(len(bars), func(i int) bool { return bars[i].X+bars[i].Width > lo })
	end := sort.Search(len(bars), func(i int) bool { return bars[i].X >= hi })
	if end < start {
		end = start
	}
	return bars[start:end]
}
