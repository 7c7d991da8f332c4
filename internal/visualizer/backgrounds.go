package visualizer

import (
	"sort"

	"github.com/olivier-w/wavetrack/internal/scene"
)

// Built-in art names.
const (
	PlayerBackground = "player-background"
	CenterGradient   = "gradient"
)

// tile is a repeating glyph pattern used as background art.
type tile struct {
	rows []string
}

func (t tile) glyph(col, row int) rune {
	if len(t.rows) == 0 {
		return ' '
	}
	line := []rune(t.rows[row%len(t.rows)])
	if len(line) == 0 {
		return ' '
	}
	return line[col%len(line)]
}

var builtinArt = map[string]tile{
	PlayerBackground: {rows: []string{
		"·           ",
		"      ˙     ",
		"            ",
		"   ·      ˙ ",
		"            ",
		"         ·  ",
	}},
	CenterGradient: {rows: []string{"│"}},
}

// Backgrounds resolves the built-in art by name. It is the image provider
// handed to scene.Compose.
type Backgrounds struct{}

// Image implements scene.ImageProvider.
func (Backgrounds) Image(name string) (scene.Image, bool) {
	t, ok := builtinArt[name]
	if !ok {
		return scene.Image{}, false
	}
	w := 0
	for _, r := range t.rows {
		w = max(w, len([]rune(r)))
	}
	return scene.Image{Name: name, Width: w, Height: len(t.rows)}, true
}

// Names lists the built-in art, sorted.
func (Backgrounds) Names() []string {
	names := make([]string, 0, len(builtinArt))
	for n := range builtinArt {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
