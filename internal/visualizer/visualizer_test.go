package visualizer

import (
	"strings"
	"testing"

	"github.com/olivier-w/wavetrack/internal/scene"
	"github.com/olivier-w/wavetrack/internal/waveform"
)

// one content unit per column: bar i sits in column 2i
var cellConfig = waveform.Config{
	BarWidth:     1,
	BarGap:       1,
	MinBarHeight: 2,
	MaxBarHeight: 100,
	TrackHeight:  100,
	FloorDB:      -60,
}

func compose(t *testing.T, samples []float64, offset float64, art scene.Art) scene.Scene {
	t.Helper()
	sc, err := scene.Compose(samples, cellConfig, scene.Viewport{Width: 20, Height: 10, Offset: offset}, Backgrounds{}, art)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	return sc
}

func plain(v Visualizer, sc scene.Scene, cols, rows int) [][]rune {
	switch m := v.(type) {
	case *Blocks:
		m.profile = colorNone
	case *Dense:
		m.profile = colorNone
	case *Braille:
		m.profile = colorNone
	}
	v.Update(sc, cols, rows)
	lines := strings.Split(v.View(), "\n")
	grid := make([][]rune, len(lines))
	for i, l := range lines {
		grid[i] = []rune(l)
	}
	return grid
}

func columnOf(grid [][]rune, c int) string {
	var sb strings.Builder
	for _, row := range grid {
		sb.WriteRune(row[c])
	}
	return sb.String()
}

func repeat(db float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = db
	}
	return out
}

func TestBlocksFrameSize(t *testing.T) {
	grid := plain(NewBlocks(), compose(t, repeat(-20, 10), 0, scene.Art{}), 20, 10)
	if len(grid) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(grid))
	}
	for i, row := range grid {
		if len(row) != 20 {
			t.Fatalf("row %d: expected 20 columns, got %d", i, len(row))
		}
	}
}

func TestBlocksFullScaleFillsColumn(t *testing.T) {
	grid := plain(NewBlocks(), compose(t, repeat(0, 10), 0, scene.Art{}), 20, 10)
	if got := columnOf(grid, 0); got != strings.Repeat("█", 10) {
		t.Fatalf("expected a full column, got %q", got)
	}
	if got := columnOf(grid, 1); got != strings.Repeat(" ", 10) {
		t.Fatalf("expected the gap column to be empty, got %q", got)
	}
}

func TestBlocksSilenceStaysVisible(t *testing.T) {
	grid := plain(NewBlocks(), compose(t, repeat(-90, 10), 0, scene.Art{}), 20, 10)
	got := columnOf(grid, 0)
	if strings.TrimSpace(got) == "" {
		t.Fatal("expected silent bar to remain visible")
	}
	if got != "     ▀    " {
		t.Fatalf("expected a sliver on the midline, got %q", got)
	}
}

func TestCenterMarkerWithoutBars(t *testing.T) {
	grid := plain(NewBlocks(), compose(t, nil, 0, scene.Art{CenterLine: CenterGradient}), 20, 10)
	if got := columnOf(grid, 10); got != strings.Repeat("│", 10) {
		t.Fatalf("expected the marker in column 10, got %q", got)
	}
	if got := columnOf(grid, 3); got != strings.Repeat(" ", 10) {
		t.Fatalf("expected empty column, got %q", got)
	}
}

func TestBackgroundFillsEmptyCells(t *testing.T) {
	grid := plain(NewBlocks(), compose(t, nil, 0, scene.Art{Background: PlayerBackground}), 20, 10)
	if grid[0][0] != '·' {
		t.Fatalf("expected background art in the top-left cell, got %q", grid[0][0])
	}

	// bars draw over the art
	grid = plain(NewBlocks(), compose(t, repeat(0, 10), 0, scene.Art{Background: PlayerBackground}), 20, 10)
	if grid[0][0] != '█' {
		t.Fatalf("expected bar over background art, got %q", grid[0][0])
	}
}

func TestScrollShiftsColumns(t *testing.T) {
	samples := []float64{0, -60, -30, -12, -6, -45, -3, -20, -50, -1}
	still := plain(NewBlocks(), compose(t, samples, 0, scene.Art{}), 20, 10)
	moved := plain(NewBlocks(), compose(t, samples, 2, scene.Art{}), 20, 10)

	for c := 0; c+2 < 8; c++ {
		if columnOf(moved, c) != columnOf(still, c+2) {
			t.Fatalf("column %d after scrolling one bar does not match column %d before", c, c+2)
		}
	}
}

func TestDenseFullScale(t *testing.T) {
	grid := plain(NewDense(), compose(t, repeat(0, 10), 0, scene.Art{}), 20, 10)
	if got := columnOf(grid, 0); got != strings.Repeat("@", 10) {
		t.Fatalf("expected a solid column, got %q", got)
	}
	grid = plain(NewDense(), compose(t, repeat(-90, 10), 0, scene.Art{}), 20, 10)
	if strings.TrimSpace(columnOf(grid, 0)) == "" {
		t.Fatal("expected silent bar to remain visible")
	}
}

func TestBrailleFullScaleAndSilence(t *testing.T) {
	grid := plain(NewBraille(), compose(t, repeat(0, 10), 0, scene.Art{}), 20, 10)
	if got := columnOf(grid, 0); got != strings.Repeat("⣿", 10) {
		t.Fatalf("expected a full braille column, got %q", got)
	}
	if got := columnOf(grid, 1); got != strings.Repeat(" ", 10) {
		t.Fatalf("expected the gap column to be empty, got %q", got)
	}

	grid = plain(NewBraille(), compose(t, repeat(-90, 10), 0, scene.Art{}), 20, 10)
	if got := columnOf(grid, 0); got != "     ⠉    " {
		t.Fatalf("expected one dot row on the midline, got %q", got)
	}
}

func TestBrailleSplitsCellBetweenBars(t *testing.T) {
	// half-unit bars and gaps: each bar fills only the left dot column
	cfg := cellConfig
	cfg.BarGap = 0.5
	cfg.BarWidth = 0.5
	sc, err := scene.Compose([]float64{0, -90}, cfg, scene.Viewport{Width: 20, Height: 4}, Backgrounds{}, scene.Art{})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	grid := plain(NewBraille(), sc, 20, 4)
	if got := columnOf(grid, 0); got != strings.Repeat("⡇", 4) {
		t.Fatalf("expected the left dot column filled, got %q", got)
	}
}

func TestModesHaveDistinctNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Modes() {
		if seen[m.Name()] {
			t.Fatalf("duplicate mode %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected at least two modes, got %d", len(seen))
	}
}

func TestLookup(t *testing.T) {
	v, err := Lookup("dense")
	if err != nil || v.Name() != "dense" {
		t.Fatalf("expected dense visualizer, got %v, %v", v, err)
	}
	if _, err := Lookup("spectrum"); err == nil {
		t.Fatal("expected error for unknown visualizer")
	}
}

func TestUpdateWithNoRoom(t *testing.T) {
	v := NewBlocks()
	v.Update(compose(t, repeat(0, 4), 0, scene.Art{}), 0, 5)
	if v.View() != "" {
		t.Fatalf("expected empty view, got %q", v.View())
	}
}

func TestBackgroundsProvider(t *testing.T) {
	var b Backgrounds
	img, ok := b.Image(PlayerBackground)
	if !ok || img.Name != PlayerBackground || img.Height != 6 || img.Width != 12 {
		t.Fatalf("unexpected image %+v, %v", img, ok)
	}
	if _, ok := b.Image("nope"); ok {
		t.Fatal("expected unknown art to be missing")
	}
	if names := b.Names(); len(names) != 2 || names[0] != CenterGradient {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDetectProfile(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want colorProfile
	}{
		{map[string]string{"NO_COLOR": "1", "COLORTERM": "truecolor"}, colorNone},
		{map[string]string{"COLORTERM": "truecolor", "TERM": "xterm"}, colorTrueColor},
		{map[string]string{"TERM": "xterm-256color"}, colorANSI256},
		{map[string]string{"TERM": "dumb"}, colorNone},
		{map[string]string{"TERM": "xterm"}, colorANSI16},
	}
	for _, tt := range tests {
		got := detectProfile(func(k string) string { return tt.env[k] })
		if got != tt.want {
			t.Fatalf("env %v: expected profile %d, got %d", tt.env, tt.want, got)
		}
	}
}

func TestColouredOutputResetsEachRow(t *testing.T) {
	b := &Blocks{profile: colorTrueColor}
	b.Update(compose(t, repeat(-10, 10), 0, scene.Art{CenterLine: CenterGradient}), 20, 4)
	for i, line := range strings.Split(b.View(), "\n") {
		if !strings.HasSuffix(line, "\x1b[0m") {
			t.Fatalf("row %d does not reset colour: %q", i, line)
		}
	}
}

func TestGradientEndpoints(t *testing.T) {
	g := gradient{mustHex("#000000"), mustHex("#ffffff")}
	if g.at(0).Hex() != "#000000" || g.at(1).Hex() != "#ffffff" || g.at(2).Hex() != "#ffffff" {
		t.Fatalf("unexpected endpoints %s %s", g.at(0).Hex(), g.at(1).Hex())
	}
}

func TestFollowerSettlesOnTarget(t *testing.T) {
	f := NewFollower(60, 8, 1)
	for range 600 {
		f.Step(42)
	}
	if !f.Settled(42) || f.Offset() != 42 {
		t.Fatalf("expected to settle on 42, got %v", f.Offset())
	}
	f.Snap(-3)
	if f.Offset() != -3 || !f.Settled(-3) {
		t.Fatalf("expected snap to -3, got %v", f.Offset())
	}
}

func TestANSI16KeepsBackdropVisible(t *testing.T) {
	r, g, b := backdropColor.RGB255()
	if got := colorSequence(colorANSI16, r, g, b); got != "\x1b[90m" {
		t.Fatalf("expected bright black for the backdrop, got %q", got)
	}
	if got := colorSequence(colorANSI16, 0, 0, 0); got != "\x1b[30m" {
		t.Fatalf("expected black to stay 30, got %q", got)
	}
	if got := colorSequence(colorANSI16, 255, 255, 255); got != "\x1b[97m" {
		t.Fatalf("expected white to map to 97, got %q", got)
	}
}
