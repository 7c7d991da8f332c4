package ui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/meter"
	"github.com/olivier-w/wavetrack/internal/scene"
	"github.com/olivier-w/wavetrack/internal/takes"
	"github.com/olivier-w/wavetrack/internal/util"
	"github.com/olivier-w/wavetrack/internal/visualizer"
)

// lines around the waveform: header, title, source, borders, progress,
// status, help and spacing
const chromeLines = 13

// Model is the Bubbletea model for the waveform viewer. One terminal column
// is one unit of waveform content; one row is TrackHeight/rows units.
type Model struct {
	takes  *takes.List
	cfg    config.Config
	logger *slog.Logger

	modes    []visualizer.Visualizer
	mode     int
	follower *visualizer.Follower
	keys     keyMap
	help     help.Model
	progress progress.Model

	playhead int // sample index under the center marker
	playing  bool
	loop     LoopMode
	lastTick time.Time
	carry    time.Duration // played time not yet worth a whole frame

	width    int
	height   int
	quitting bool
	err      error
}

// New creates a viewer over list. cfg must already be validated.
func New(list *takes.List, cfg config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	loop, err := ParseLoopMode(cfg.Playback.Loop)
	if err != nil {
		logger.Warn("falling back to loop off", "err", err)
	}

	m := Model{
		takes:    list,
		cfg:      cfg,
		logger:   logger,
		modes:    visualizer.Modes(),
		follower: visualizer.NewFollower(cfg.Playback.FPS, 6.0, 1.0),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(
			progress.WithScaledGradient("#5B2A86", "#FFB86B"),
			progress.WithoutPercentage(),
		),
		playing: cfg.Playback.Autoplay,
		loop:    loop,
	}
	for i, v := range m.modes {
		if v.Name() == cfg.Theme.Mode {
			m.mode = i
		}
	}
	m.follower.Snap(m.targetOffset())
	m.redraw()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.cfg.Playback.FPS), tea.SetWindowTitle(m.windowTitle()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	next.redraw()
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		now := time.Time(msg)
		if t := m.takes.Current(); t != nil && t.Refresh() {
			m.logger.Debug("live take grew", "take", t.Title, "samples", len(t.Samples))
		}
		if m.playing && !m.lastTick.IsZero() {
			m.advance(now.Sub(m.lastTick))
		}
		m.lastTick = now
		if target := m.targetOffset(); !m.follower.Settled(target) {
			m.follower.Step(target)
		}
		return m, tickCmd(m.cfg.Playback.FPS)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.follower.Snap(m.targetOffset())
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.samples())

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Play):
		if !m.playing && !m.isLive() && n == 0 {
			// nothing to play
			return m, nil
		}
		if !m.playing && !m.isLive() && n > 0 && m.playhead >= n-1 {
			m.playhead = 0
			m.follower.Snap(m.targetOffset())
		}
		m.playing = !m.playing
		m.carry = 0
		return m, tea.SetWindowTitle(m.windowTitle())

	case key.Matches(msg, m.keys.Back):
		m.seekTo(m.playhead - 1)
	case key.Matches(msg, m.keys.Forward):
		m.seekTo(m.playhead + 1)
	case key.Matches(msg, m.keys.PageBack):
		m.seekTo(m.playhead - m.pageSize())
	case key.Matches(msg, m.keys.PageFwd):
		m.seekTo(m.playhead + m.pageSize())
	case key.Matches(msg, m.keys.Start):
		m.seekTo(0)
	case key.Matches(msg, m.keys.End):
		m.seekTo(n - 1)

	case key.Matches(msg, m.keys.NextTake):
		if m.takes.Advance() {
			m.startTake()
			return m, tea.SetWindowTitle(m.windowTitle())
		}
	case key.Matches(msg, m.keys.PrevTake):
		if m.takes.Previous() {
			m.startTake()
			return m, tea.SetWindowTitle(m.windowTitle())
		}

	case key.Matches(msg, m.keys.Loop):
		m.loop = m.loop.Next()
	case key.Matches(msg, m.keys.Mode):
		m.mode = (m.mode + 1) % len(m.modes)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// advance moves the playhead by the number of whole frames in dt.
func (m *Model) advance(dt time.Duration) {
	n := len(m.samples())
	if m.isLive() {
		m.playhead = max(n-1, 0)
		return
	}

	// an empty take is over as soon as it starts
	next := 0
	if n > 0 {
		m.carry += dt
		frame := m.cfg.Playback.Frame
		steps := int(m.carry / frame)
		m.carry -= time.Duration(steps) * frame
		next = m.playhead + steps
		if next < n {
			m.playhead = next
			return
		}
	}

	switch {
	case m.loop == LoopTake && n > 0:
		m.playhead = next % n
		m.follower.Snap(m.targetOffset())
	case m.loop == LoopAll && m.nextPlayable():
		m.startTake()
		m.playing = true
	default:
		m.playhead = max(n-1, 0)
		m.playing = false
		m.carry = 0
	}
}

// nextPlayable moves to the next take, wrapping, that has samples or is
// live. It makes at most one pass and reports false if none qualifies.
func (m *Model) nextPlayable() bool {
	total := m.takes.Len()
	cur := m.takes.CurrentIndex()
	for i := 1; i <= total; i++ {
		idx := (cur + i) % total
		if t := m.takes.Take(idx); t != nil && (len(t.Samples) > 0 || t.Live != nil) {
			m.takes.SetCurrentIndex(idx)
			return true
		}
	}
	return false
}

func (m *Model) seekTo(i int) {
	n := len(m.samples())
	m.playhead = max(0, min(i, n-1))
	m.carry = 0
}

func (m *Model) startTake() {
	m.playhead = 0
	m.carry = 0
	if t := m.takes.Current(); t != nil {
		t.Refresh()
		m.logger.Debug("showing take", "index", m.takes.CurrentIndex(), "title", t.Title, "samples", len(t.Samples))
	}
	m.follower.Snap(m.targetOffset())
}

func (m Model) samples() meter.Buffer {
	if t := m.takes.Current(); t != nil {
		return t.Samples
	}
	return nil
}

func (m Model) isLive() bool {
	t := m.takes.Current()
	return t != nil && t.Live != nil
}

// waveArea is the size in cells of the waveform.
func (m Model) waveArea() (cols, rows int) {
	w := m.width
	if w < 30 {
		w = 64
	}
	h := m.height
	if h == 0 {
		h = 24
	}
	chrome := chromeLines
	if m.help.ShowAll {
		chrome += 2
	}
	return w - 4, max(h-chrome, 4)
}

func (m Model) viewport() scene.Viewport {
	cols, rows := m.waveArea()
	return scene.Viewport{Width: float64(cols), Height: float64(rows), Offset: m.follower.Offset()}
}

func (m Model) targetOffset() float64 {
	return scene.OffsetForIndex(max(m.playhead, 0), m.cfg.Waveform, m.viewport())
}

func (m Model) pageSize() int {
	cols, _ := m.waveArea()
	return max(int(float64(cols)/m.cfg.Waveform.Stride()), 1)
}

// redraw composes the current frame into the active visualizer.
func (m *Model) redraw() {
	if m.quitting || len(m.modes) == 0 {
		return
	}
	cols, rows := m.waveArea()
	sc, err := scene.Compose(m.samples(), m.cfg.Waveform, m.viewport(), visualizer.Backgrounds{}, scene.Art{
		Background: m.cfg.Theme.Background,
		CenterLine: m.cfg.Theme.CenterLine,
	})
	m.err = err
	if err != nil {
		return
	}
	m.modes[m.mode].Update(sc, cols, rows)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cols, _ := m.waveArea()
	samples := m.samples()

	var b strings.Builder
	b.WriteString("\n")
	header := headerStyle.Render("wavetrack")
	if n := m.takes.Len(); n > 1 {
		counter := fmt.Sprintf("take %d/%d", m.takes.CurrentIndex()+1, n)
		if next := m.takes.Peek(1); len(next) > 0 {
			counter += "  next: " + next[0].Title
		}
		header += spaces(cols-len("wavetrack")-lipgloss.Width(counter)) + statusStyle.Render(counter)
	}
	b.WriteString("  " + header + "\n\n")

	title, source := "no take", ""
	if t := m.takes.Current(); t != nil {
		title, source = t.Title, t.Source
		if t.Live != nil {
			source += "  (live)"
		}
	}
	b.WriteString("  " + titleStyle.Render(title) + "\n")
	b.WriteString("  " + sourceStyle.Render(source) + "\n")

	if m.err != nil {
		b.WriteString("\n  " + errorStyle.Render(m.err.Error()) + "\n\n")
	} else {
		wave := trackStyle.Render(m.modes[m.mode].View())
		b.WriteString(indent(wave, "  ") + "\n")
	}

	frame := m.cfg.Playback.Frame
	elapsed := time.Duration(max(m.playhead, 0)) * frame
	total := samples.Duration(frame)
	elapsedStr := util.FormatDuration(elapsed)
	totalStr := util.FormatDuration(total)
	m.progress.Width = max(cols-len(elapsedStr)-len(totalStr)-2, 10)
	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		timeStyle.Render(elapsedStr),
		m.progress.ViewAs(progressRatio(m.playhead, len(samples))),
		timeStyle.Render(totalStr)))

	b.WriteString("  " + m.statusLine(cols) + "\n\n")
	b.WriteString("  " + m.help.View(m.keys) + "\n")

	view := b.String()
	if pad := m.height - lipgloss.Height(view); pad > 0 {
		view += strings.Repeat("\n", pad)
	}
	return view
}

func (m Model) statusLine(width int) string {
	icon, text := "❚❚", "paused"
	if m.playing {
		icon, text = "▶", "playing"
	}
	left := fmt.Sprintf("%s  %s", icon, text)
	if l := m.loop.Icon(); l != "" {
		left += "  " + l
	}
	samples := m.samples()
	_, peak := samples.Peak()
	right := fmt.Sprintf("%s  peak %s  %s", util.FormatDB(samples.At(m.playhead)), util.FormatDB(peak), m.modes[m.mode].Name())
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 2)
	return statusStyle.Render(left) + spaces(gap) + statusStyle.Render(right)
}

func (m Model) windowTitle() string {
	title := "wavetrack"
	if t := m.takes.Current(); t != nil && t.Title != "" {
		title = t.Title + " — wavetrack"
	}
	if m.playing {
		return "▶ " + title
	}
	return "⏸ " + title
}

func progressRatio(playhead, n int) float64 {
	if n <= 1 || playhead <= 0 {
		return 0
	}
	return min(float64(playhead)/float64(n-1), 1)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
