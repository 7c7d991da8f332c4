// Package config reads the wavetrack TOML configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/olivier-w/wavetrack/internal/visualizer"
	"github.com/olivier-w/wavetrack/internal/waveform"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the complete viewer configuration.
type Config struct {
	Waveform waveform.Config
	Playback Playback
	Theme    Theme
}

// Playback controls how the playhead moves over a take.
type Playback struct {
	// Frame is the length of audio one sample covers.
	Frame time.Duration
	// Autoplay starts moving the playhead as soon as a take is shown.
	Autoplay bool
	// FPS is the redraw rate of the viewer.
	FPS int
	// Loop is the initial loop mode: "off", "take" or "all".
	Loop string
}

// Theme picks the art and drawing mode.
type Theme struct {
	Background string
	CenterLine string
	Mode       string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Waveform: waveform.DefaultConfig(),
		Playback: Playback{
			Frame: 50 * time.Millisecond,
			FPS:   20,
			Loop:  "off",
		},
		Theme: Theme{
			Background: "player-background",
			CenterLine: "gradient",
			Mode:       "blocks",
		},
	}
}

var knownKeys = map[string]bool{
	"waveform.bar_width":      true,
	"waveform.bar_gap":        true,
	"waveform.min_bar_height": true,
	"waveform.max_bar_height": true,
	"waveform.track_height":   true,
	"waveform.floor_db":       true,
	"waveform.curve":          true,
	"playback.frame":          true,
	"playback.autoplay":       true,
	"playback.fps":            true,
	"playback.loop":           true,
	"theme.background":        true,
	"theme.centerline":        true,
	"theme.mode":              true,
}

// Parse reads a configuration from r. Keys that are absent keep their
// defaults; keys that are present are taken as written, even if invalid, so
// Validate can reject them.
func Parse(r io.Reader) (Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}

	for _, key := range flatKeys(tree, "") {
		if !knownKeys[key] {
			return Config{}, fmt.Errorf("unknown config key %q at %s", key, tree.GetPosition(key))
		}
	}

	cfg := Default()
	w := &cfg.Waveform
	fields := []struct {
		key string
		dst *float64
	}{
		{"waveform.bar_width", &w.BarWidth},
		{"waveform.bar_gap", &w.BarGap},
		{"waveform.min_bar_height", &w.MinBarHeight},
		{"waveform.max_bar_height", &w.MaxBarHeight},
		{"waveform.track_height", &w.TrackHeight},
		{"waveform.floor_db", &w.FloorDB},
	}
	for _, f := range fields {
		if err := getFloat(tree, f.key, f.dst); err != nil {
			return Config{}, err
		}
	}

	var curve string
	if err := getString(tree, "waveform.curve", &curve); err != nil {
		return Config{}, err
	}
	if curve != "" {
		if w.Curve, err = waveform.ParseCurve(curve); err != nil {
			return Config{}, err
		}
	}

	var frame string
	if err := getString(tree, "playback.frame", &frame); err != nil {
		return Config{}, err
	}
	if frame != "" {
		d, err := time.ParseDuration(frame)
		if err != nil {
			return Config{}, errors.Wrap(err, "playback.frame")
		}
		cfg.Playback.Frame = d
	}

	if v := tree.Get("playback.autoplay"); v != nil {
		b, ok := v.(bool)
		if !ok {
			return Config{}, typeError(tree, "playback.autoplay", "a boolean", v)
		}
		cfg.Playback.Autoplay = b
	}
	if v := tree.Get("playback.fps"); v != nil {
		n, ok := v.(int64)
		if !ok {
			return Config{}, typeError(tree, "playback.fps", "an integer", v)
		}
		cfg.Playback.FPS = int(n)
	}

	for key, dst := range map[string]*string{
		"playback.loop":    &cfg.Playback.Loop,
		"theme.background": &cfg.Theme.Background,
		"theme.centerline": &cfg.Theme.CenterLine,
		"theme.mode":       &cfg.Theme.Mode,
	} {
		if err := getString(tree, key, dst); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// Load reads the configuration at path. If optional is set and the file does
// not exist, the defaults are returned.
func Load(path string, optional bool) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if err := c.Waveform.Validate(); err != nil {
		return errors.WithMessage(err, "[waveform]")
	}
	if c.Playback.Frame <= 0 {
		return errors.Errorf("[playback] frame must be positive, got %v", c.Playback.Frame)
	}
	if c.Playback.FPS < 1 || c.Playback.FPS > 120 {
		return errors.Errorf("[playback] fps must be between 1 and 120, got %d", c.Playback.FPS)
	}
	switch c.Playback.Loop {
	case "off", "take", "all":
	default:
		return errors.Errorf("[playback] unknown loop mode %q", c.Playback.Loop)
	}
	if _, err := visualizer.Lookup(c.Theme.Mode); err != nil {
		return errors.WithMessage(err, "[theme]")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	tree, err := toml.TreeFromMap(map[string]interface{}{
		"waveform": map[string]interface{}{
			"bar_width":      c.Waveform.BarWidth,
			"bar_gap":        c.Waveform.BarGap,
			"min_bar_height": c.Waveform.MinBarHeight,
			"max_bar_height": c.Waveform.MaxBarHeight,
			"track_height":   c.Waveform.TrackHeight,
			"floor_db":       c.Waveform.FloorDB,
			"curve":          c.Waveform.Curve.String(),
		},
		"playback": map[string]interface{}{
			"frame":    c.Playback.Frame.String(),
			"autoplay": c.Playback.Autoplay,
			"fps":      int64(c.Playback.FPS),
			"loop":     c.Playback.Loop,
		},
		"theme": map[string]interface{}{
			"background": c.Theme.Background,
			"centerline": c.Theme.CenterLine,
			"mode":       c.Theme.Mode,
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to build config tree")
	}
	_, err = tree.WriteTo(w)
	return err
}

func flatKeys(tree *toml.Tree, prefix string) []string {
	var keys []string
	for _, k := range tree.Keys() {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		if sub, ok := tree.Get(k).(*toml.Tree); ok {
			keys = append(keys, flatKeys(sub, full)...)
			continue
		}
		keys = append(keys, full)
	}
	sort.Strings(keys)
	return keys
}

func getFloat(tree *toml.Tree, key string, dst *float64) error {
	switch v := tree.Get(key).(type) {
	case nil:
	case float64:
		*dst = v
	case int64:
		*dst = float64(v)
	default:
		return typeError(tree, key, "a number", v)
	}
	return nil
}

func getString(tree *toml.Tree, key string, dst *string) error {
	switch v := tree.Get(key).(type) {
	case nil:
	case string:
		*dst = v
	default:
		return typeError(tree, key, "a string", v)
	}
	return nil
}

func typeError(tree *toml.Tree, key, want string, got interface{}) error {
	return fmt.Errorf("%s at %s must be %s, got %T", key, tree.GetPosition(key), want, got)
}
