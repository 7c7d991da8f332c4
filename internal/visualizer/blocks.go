package visualizer

import (
	"math"

	"github.com/olivier-w/wavetrack/internal/scene"
)

// Blocks draws each bar with half-block glyphs, giving two vertical steps per
// row.
type Blocks struct {
	output  string
	profile colorProfile
}

// NewBlocks creates a half-block visualizer.
func NewBlocks() *Blocks {
	return &Blocks{profile: currentColorProfile()}
}

func (b *Blocks) Name() string { return "blocks" }

func (b *Blocks) Update(sc scene.Scene, cols, rows int) {
	if cols < 1 || rows < 1 {
		b.output = ""
		return
	}
	b.output = project(sc, cols, rows, 1).draw(b.profile, halfBlock)
}

func (b *Blocks) View() string {
	return b.output
}

func halfBlock(cells []column, row, rows int) rune {
	col := cells[0]
	upper := covers(col, float64(row)+0.25)
	lower := covers(col, float64(row)+0.75)

	// a bar thinner than half a row still shows on the half holding the midline
	if !anyHalf(col, rows) {
		mid := rows // half-row index of the midline
		if mid == row*2 {
			upper = true
		} else if mid == row*2+1 {
			lower = true
		}
	}

	switch {
	case upper && lower:
		return '█'
	case upper:
		return '▀'
	case lower:
		return '▄'
	}
	return 0
}

func covers(col column, y float64) bool {
	return y >= col.top && y <= col.bottom
}

func anyHalf(col column, rows int) bool {
	first := int(math.Floor(col.top*2 - 0.5))
	last := int(math.Ceil(col.bottom*2 + 0.5))
	for h := max(first, 0); h <= min(last, rows*2-1); h++ {
		if covers(col, float64(h)/2+0.25) {
			return true
		}
	}
	return false
}
