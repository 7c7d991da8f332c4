package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavetrack/internal/config"
	"github.com/olivier-w/wavetrack/internal/meter"
	"github.com/olivier-w/wavetrack/internal/scene"
	"github.com/olivier-w/wavetrack/internal/takes"
	"github.com/olivier-w/wavetrack/internal/ui"
	"github.com/olivier-w/wavetrack/internal/visualizer"
	"github.com/olivier-w/wavetrack/internal/waveform"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	configPath  = "wavetrack.toml"
	verbose     = false
	dump        = false
	printFrame  = false
	printConfig = false
	live        = false
	fit         = false
	width       = 80
	height      = 16
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVar(&dump, "dump", dump, "print bar geometry as YAML and exit")
	pflag.BoolVar(&printFrame, "print", printFrame, "print one frame of the first take and exit")
	pflag.BoolVar(&printConfig, "print-config", printConfig, "print the effective configuration as TOML and exit")
	pflag.BoolVar(&live, "live", live, "read one dB value per line from stdin as a live take")
	pflag.BoolVar(&fit, "fit", fit, "with --print, downsample the take so all of it fits the frame")
	pflag.IntVar(&width, "width", width, "frame width in columns for --print")
	pflag.IntVar(&height, "height", height, "frame height in rows for --print")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	args := pflag.Args()
	if err := checkArgs(args); err != nil {
		return err
	}

	if len(args) == 0 && !live && !printConfig {
		path, ok, err := pickFile()
		if err != nil || !ok {
			return err
		}
		args = []string{path}
	}

	cfg, list, err := load(args)
	if err != nil {
		return err
	}
	logger.Debug("loaded", "config", configPath, "takes", list.Len())
	warnUnknownArt(logger, cfg.Theme)

	switch {
	case printConfig:
		return cfg.Encode(os.Stdout)
	case dump:
		return dumpGeometry(os.Stdout, list, cfg)
	case printFrame:
		return printScene(os.Stdout, list, cfg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if live || slices.Contains(args, "-") {
		// stdin carries samples, so keys come from the terminal
		opts = append(opts, tea.WithInputTTY())
	}

	if live {
		buf := meter.NewLive(4096)
		list.SetCurrentIndex(list.Append(takes.Take{Title: "live", Source: "stdin", Live: buf}))
		go func() {
			err := meter.Stream(ctx, os.Stdin, buf)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("live input stopped", "err", err)
			}
		}()
	}

	_, err = tea.NewProgram(ui.New(list, cfg, logger), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// checkArgs rejects flag and argument combinations that would read stdin
// twice or drop the live take.
func checkArgs(args []string) error {
	stdin := 0
	for _, arg := range args {
		if arg == "-" {
			stdin++
		}
	}
	switch {
	case stdin > 1:
		return errors.New("stdin can only be read once; pass - at most one time")
	case live && stdin > 0:
		return errors.New("--live reads stdin; it cannot also be a sample file")
	case live && (dump || printFrame):
		return errors.New("--live cannot be combined with --dump or --print")
	}
	return nil
}

// pickFile runs the file browser and returns the chosen path.
func pickFile() (string, bool, error) {
	finalModel, err := tea.NewProgram(ui.NewBrowser(), tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, err
	}
	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", false, errors.New("unexpected model type from browser")
	}
	if err := bm.Error(); err != nil {
		return "", false, err
	}
	result := bm.Result()
	if result.Cancelled {
		return "", false, nil
	}
	return result.Path, true, nil
}

// load reads the configuration and every take concurrently.
func load(args []string) (config.Config, *takes.List, error) {
	var (
		g   errgroup.Group
		cfg config.Config
	)

	g.Go(func() error {
		c, err := config.Load(configPath, !pflag.CommandLine.Changed("config"))
		cfg = c
		return err
	})

	loaded := make([]takes.Take, len(args))
	for i, arg := range args {
		g.Go(func() error {
			t, err := loadTake(arg)
			loaded[i] = t
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, takes.New(loaded), nil
}

func loadTake(arg string) (takes.Take, error) {
	if arg == "-" {
		samples, err := meter.Decode(os.Stdin)
		if err != nil {
			return takes.Take{}, fmt.Errorf("stdin: %w", err)
		}
		return takes.Take{Title: "stdin", Source: "-", Samples: samples}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return takes.Take{}, err
	}
	if info.IsDir() {
		return takes.Take{}, fmt.Errorf("%s is a directory", arg)
	}

	f, err := os.Open(arg)
	if err != nil {
		return takes.Take{}, err
	}
	defer f.Close()

	samples, err := meter.Decode(f)
	if err != nil {
		return takes.Take{}, fmt.Errorf("%s: %w", arg, err)
	}
	return takes.Take{
		Title:   strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg)),
		Source:  arg,
		Samples: samples,
	}, nil
}

type takeGeometry struct {
	Title string         `yaml:"title"`
	Bars  []waveform.Bar `yaml:"bars"`
}

func dumpGeometry(w io.Writer, list *takes.List, cfg config.Config) error {
	out := make([]takeGeometry, 0, list.Len())
	for i := range list.Len() {
		t := list.Take(i)
		bars, err := waveform.Render(t.Samples, cfg.Waveform)
		if err != nil {
			return err
		}
		out = append(out, takeGeometry{Title: t.Title, Bars: bars})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func printScene(w io.Writer, list *takes.List, cfg config.Config) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("frame size must be positive, got %dx%d", width, height)
	}
	var samples meter.Buffer
	if t := list.Current(); t != nil {
		samples = t.Samples
	}

	if fit {
		samples = fitSamples(samples, cfg.Waveform, width)
	}

	vp := scene.Viewport{Width: float64(width), Height: float64(height)}
	sc, err := scene.Compose(samples, cfg.Waveform, vp, visualizer.Backgrounds{}, scene.Art{
		Background: cfg.Theme.Background,
		CenterLine: cfg.Theme.CenterLine,
	})
	if err != nil {
		return err
	}

	v, err := visualizer.Lookup(cfg.Theme.Mode)
	if err != nil {
		return err
	}
	v.Update(sc, width, height)
	_, err = fmt.Fprintln(w, v.View())
	return err
}

// fitSamples downsamples so the content is no wider than cols.
func fitSamples(samples []float64, cfg waveform.Config, cols int) []float64 {
	factor := int(math.Ceil(cfg.ContentWidth(len(samples)) / float64(cols)))
	return waveform.Downsample(samples, factor)
}

// warnUnknownArt logs art names the built-in backgrounds do not provide.
// Those layers are left out of the scene.
func warnUnknownArt(logger *slog.Logger, theme config.Theme) {
	known := visualizer.Backgrounds{}.Names()
	for _, name := range []string{theme.Background, theme.CenterLine} {
		if name != "" && name != "none" && !slices.Contains(known, name) {
			logger.Warn("unknown art, layer left out", "name", name, "known", known)
		}
	}
}
