package visualizer

import (
	"math"

	"github.com/olivier-w/wavetrack/internal/scene"
)

// Braille draws bars with Unicode Braille characters. Each cell is a 2x4 dot
// grid, giving twice the horizontal and four times the vertical resolution
// of a plain cell.
type Braille struct {
	output  string
	profile colorProfile
}

func NewBraille() *Braille {
	return &Braille{profile: currentColorProfile()}
}

func (b *Braille) Name() string { return "braille" }

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

func (b *Braille) Update(sc scene.Scene, cols, rows int) {
	if cols < 1 || rows < 1 {
		b.output = ""
		return
	}
	b.output = project(sc, cols, rows, 2).draw(b.profile, brailleGlyph)
}

func (b *Braille) View() string {
	return b.output
}

func brailleGlyph(cells []column, row, rows int) rune {
	var pattern rune
	for dx, col := range cells[:min(len(cells), 2)] {
		if col.bar == nil {
			continue
		}
		for dy := range 4 {
			if covers(col, float64(row)+(float64(dy)+0.5)/4) {
				pattern |= 1 << brailleBits[dx][dy]
			}
		}
		// a bar between two dot rows lights the dot nearest its centre
		if !anyDot(col, rows) {
			d := int(math.Floor((col.top + col.bottom) / 2 * 4))
			d = min(max(d, 0), rows*4-1)
			if d/4 == row {
				pattern |= 1 << brailleBits[dx][d%4]
			}
		}
	}
	if pattern == 0 {
		return 0
	}
	return 0x2800 + pattern
}

// anyDot reports whether col covers the centre of any dot row.
func anyDot(col column, rows int) bool {
	first := max(int(math.Ceil(col.top*4-0.5)), 0)
	last := min(int(math.Floor(col.bottom*4-0.5)), rows*4-1)
	return first <= last
}
