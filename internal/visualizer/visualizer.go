// Package visualizer draws composed waveform scenes as terminal text.
package visualizer

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/wavetrack/internal/scene"
	"github.com/olivier-w/wavetrack/internal/waveform"
)

// Visualizer renders a scene as ASCII art.
type Visualizer interface {
	Name() string
	Update(sc scene.Scene, cols, rows int)
	View() string
}

// Modes returns all available visualizers.
func Modes() []Visualizer {
	return []Visualizer{
		NewBlocks(),
		NewDense(),
		NewBraille(),
	}
}

// Lookup returns a fresh visualizer by name.
func Lookup(name string) (Visualizer, error) {
	for _, v := range Modes() {
		if v.Name() == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown visualizer %q", name)
}

// column is what one terminal column shows of the bars layer. top and bottom
// are in row units, fractional.
type column struct {
	bar    *waveform.Bar
	top    float64
	bottom float64
	played bool
}

// frame is the cell-space projection of a scene shared by every mode. Each
// terminal column is split into sub projected columns.
type frame struct {
	cols, rows int
	sub        int
	columns    []column
	backdrop   *tile
	center     *tile
	centerCol  int
}

func project(sc scene.Scene, cols, rows, sub int) frame {
	sub = max(sub, 1)
	n := max(cols, 0) * sub
	f := frame{cols: cols, rows: rows, sub: sub, columns: make([]column, n), centerCol: -1}
	vp := sc.Viewport
	if cols < 1 || rows < 1 || vp.Width <= 0 {
		return f
	}
	sx := vp.Width / float64(n)
	sy := sc.Track.TrackHeight / float64(rows)

	if bg, ok := sc.Layer(scene.LayerBackground); ok {
		if t, ok := builtinArt[bg.Image.Name]; ok {
			f.backdrop = &t
		}
	}

	if bl, ok := sc.Layer(scene.LayerBars); ok && sy > 0 {
		playhead := scene.IndexAtCenter(vp, sc.Track, len(bl.Bars))
		for c := range n {
			slice := scene.Visible(bl.Bars, scene.Viewport{Offset: vp.Offset + float64(c)*sx, Width: sx})
			if len(slice) == 0 {
				continue
			}
			// zoomed out, several bars share a column; keep the peak
			peak := &slice[0]
			for i := range slice {
				if slice[i].Height > peak.Height {
					peak = &slice[i]
				}
			}
			f.columns[c] = column{
				bar:    peak,
				top:    peak.Y / sy,
				bottom: (peak.Y + peak.Height) / sy,
				played: peak.Index < playhead,
			}
		}
	}

	if cl, ok := sc.Layer(scene.LayerCenterMarker); ok {
		f.centerCol = min(max(int(cl.X/(sx*float64(sub))), 0), cols-1)
		t := builtinArt[CenterGradient]
		if art, ok := builtinArt[cl.Image.Name]; ok {
			t = art
		}
		f.center = &t
	}
	return f
}

// glyphFunc picks the glyph for a cell from its projected columns, or 0 for
// an empty cell.
type glyphFunc func(cells []column, row, rows int) rune

func (f frame) draw(p colorProfile, glyph glyphFunc) string {
	var out strings.Builder
	color := newANSIState(p)
	den := float64(max(f.rows-1, 1))

	for r := range f.rows {
		if r > 0 {
			out.WriteByte('\n')
		}
		for c := range f.cols {
			cells := f.columns[c*f.sub : (c+1)*f.sub]
			lead := loudest(cells)
			var ch rune
			if lead != nil {
				ch = glyph(cells, r, f.rows)
			}
			isCenter := c == f.centerCol && f.center != nil

			switch {
			case ch != 0 && isCenter:
				color.set(&out, centerGradient.at(0.5))
			case ch != 0:
				color.set(&out, barColor(*lead))
			case isCenter:
				color.set(&out, centerGradient.at(float64(r)/den))
				ch = f.center.glyph(0, r)
			case f.backdrop != nil:
				ch = f.backdrop.glyph(c, r)
				if ch != ' ' {
					color.set(&out, backdropColor)
				}
			default:
				ch = ' '
			}
			out.WriteRune(ch)
		}
		color.reset(&out)
	}
	return out.String()
}

func loudest(cells []column) *column {
	var lead *column
	for i := range cells {
		if cells[i].bar != nil && (lead == nil || cells[i].bar.Height > lead.bar.Height) {
			lead = &cells[i]
		}
	}
	return lead
}

func barColor(col column) colorful.Color {
	if col.played {
		return playedGradient.at(col.bar.Level)
	}
	return upcomingGradient.at(col.bar.Level)
}
