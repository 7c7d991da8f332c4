package visualizer

import (
	"math"

	"github.com/olivier-w/wavetrack/internal/scene"
)

var densityRamp = []rune(" .:-=+*#%@")

// Dense draws bars with ASCII density characters: cells fully inside a bar
// are solid, cells on its edges fade with partial coverage. It needs no
// Unicode block glyphs.
type Dense struct {
	output  string
	profile colorProfile
}

func NewDense() *Dense {
	return &Dense{profile: currentColorProfile()}
}

func (d *Dense) Name() string { return "dense" }

func (d *Dense) Update(sc scene.Scene, cols, rows int) {
	if cols < 1 || rows < 1 {
		d.output = ""
		return
	}
	d.output = project(sc, cols, rows, 1).draw(d.profile, densityGlyph)
}

func (d *Dense) View() string {
	return d.output
}

func densityGlyph(cells []column, row, _ int) rune {
	col := cells[0]
	top := math.Max(col.top, float64(row))
	bottom := math.Min(col.bottom, float64(row+1))
	cover := bottom - top

	if cover <= 0 {
		return 0
	}

	// rounding up keeps near-silent bars visible
	idx := int(math.Ceil(cover * float64(len(densityRamp)-1)))
	idx = min(max(idx, 1), len(densityRamp)-1)
	return densityRamp[idx]
}
