// Package config holds the viewer's tunables and loads/saves them as an ini file.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/ini.v1"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/tween"
	"cubefield/pkg/game/colors"
)

// ErrUnknownEase is returned when the configured ease name is not recognised.
var ErrUnknownEase = tween.ErrUnknownEase

// Loader kinds
const (
	LoaderCube  = "cube"
	LoaderHoney = "honey"
	LoaderNone  = "none"
)

// Config is the full configuration surface. Zero values are never used directly;
// start from Default.
type Config struct {
	GridSize int
	ColGap   float64 // fraction of container width
	RowGap   float64 // fraction of container height
	Border   string
	Face     string

	Radius        float64
	MaxAngle      float64
	Ease          string
	EnterDuration time.Duration
	LeaveDuration time.Duration
	Perspective   float64 // multiples of a cell's size

	AutoAnimate bool
	IdleTimeout time.Duration
	AutoStep    float64
	AutoSnap    float64

	Ripple         bool
	RippleColor    string
	RippleSpeed    float64
	RingDelay      time.Duration
	RippleDuration time.Duration
	RippleHold     time.Duration

	Loader        string
	LoaderMinView time.Duration
	LoaderFade    time.Duration
	HoneyFill     time.Duration
	HoneyTick     time.Duration
	HoneyReveal   time.Duration

	ScrollDuration time.Duration
	ScrollEase     string
	Sections       int

	WindowWidth  int
	WindowHeight int
	Title        string

	Sound          bool
	ChimeFrequency float64
	ChimeLength    time.Duration
}

// Default returns the observed constants of the original effect.
func Default() *Config {
	return &Config{
		GridSize: 15,
		ColGap:   0.02,
		RowGap:   0.02,
		Border:   "1px solid rgba(255, 255, 255, 0.2)",
		Face:     "rgba(90, 74, 58, 0.15)",

		Radius:        4,
		MaxAngle:      30,
		Ease:          "power3.out",
		EnterDuration: 300 * time.Millisecond,
		LeaveDuration: 600 * time.Millisecond,
		Perspective:   10,

		AutoAnimate: true,
		IdleTimeout: 3 * time.Second,
		AutoStep:    0.02,
		AutoSnap:    0.1,

		Ripple:         true,
		RippleColor:    "rgba(163, 92, 56, 0.4)",
		RippleSpeed:    2,
		RingDelay:      150 * time.Millisecond,
		RippleDuration: 300 * time.Millisecond,
		RippleHold:     600 * time.Millisecond,

		Loader:        LoaderCube,
		LoaderMinView: 2500 * time.Millisecond,
		LoaderFade:    time.Second,
		HoneyFill:     2 * time.Second,
		HoneyTick:     16 * time.Millisecond,
		HoneyReveal:   300 * time.Millisecond,

		ScrollDuration: 600 * time.Millisecond,
		ScrollEase:     "power2.inOut",
		Sections:       3,

		WindowWidth:  960,
		WindowHeight: 720,
		Title:        "Cubefield",

		Sound:          false,
		ChimeFrequency: 880,
		ChimeLength:    50 * time.Millisecond,
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Current returns the active configuration
func Current() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrent replaces the active configuration. A nil config restores defaults.
func SetCurrent(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	if c == nil {
		c = Default()
	}
	current = c
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
		Insensitive:             true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := c.apply(f); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse reads ini text over the defaults. Used by tests and the config dialog preview.
func Parse(data []byte) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, data)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c := Default()
	if err := c.apply(f); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// reader collects the first bad key so apply reads like a flat list
type reader struct {
	f   *ini.File
	err error
}

func (r *reader) key(section, name string) *ini.Key {
	s := r.f.Section(section)
	if !s.HasKey(name) {
		return nil
	}
	return s.Key(name)
}

func (r *reader) fail(section, name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("[%s] %s: %w", section, name, err)
	}
}

func (r *reader) intKey(section, name string, dst *int) {
	if k := r.key(section, name); k != nil {
		v, err := k.Int()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) floatKey(section, name string, dst *float64) {
	if k := r.key(section, name); k != nil {
		v, err := k.Float64()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) boolKey(section, name string, dst *bool) {
	if k := r.key(section, name); k != nil {
		v, err := k.Bool()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) durationKey(section, name string, dst *time.Duration) {
	if k := r.key(section, name); k != nil {
		v, err := k.Duration()
		if err != nil {
			r.fail(section, name, err)
			return
		}
		*dst = v
	}
}

func (r *reader) stringKey(section, name string, dst *string) {
	if k := r.key(section, name); k != nil {
		*dst = k.String()
	}
}

func (c *Config) apply(f *ini.File) error {
	r := &reader{f: f}

	r.intKey("grid", "size", &c.GridSize)
	r.floatKey("grid", "col_gap", &c.ColGap)
	r.floatKey("grid", "row_gap", &c.RowGap)
	r.stringKey("grid", "border", &c.Border)
	r.stringKey("grid", "face", &c.Face)

	r.floatKey("tilt", "radius", &c.Radius)
	r.floatKey("tilt", "max_angle", &c.MaxAngle)
	r.stringKey("tilt", "ease", &c.Ease)
	r.durationKey("tilt", "enter", &c.EnterDuration)
	r.durationKey("tilt", "leave", &c.LeaveDuration)
	r.floatKey("tilt", "perspective", &c.Perspective)

	r.boolKey("idle", "auto_animate", &c.AutoAnimate)
	r.durationKey("idle", "timeout", &c.IdleTimeout)
	r.floatKey("idle", "step", &c.AutoStep)
	r.floatKey("idle", "snap", &c.AutoSnap)

	r.boolKey("ripple", "enabled", &c.Ripple)
	r.stringKey("ripple", "color", &c.RippleColor)
	r.floatKey("ripple", "speed", &c.RippleSpeed)
	r.durationKey("ripple", "ring_delay", &c.RingDelay)
	r.durationKey("ripple", "duration", &c.RippleDuration)
	r.durationKey("ripple", "hold", &c.RippleHold)

	r.stringKey("loader", "kind", &c.Loader)
	r.durationKey("loader", "min_view", &c.LoaderMinView)
	r.durationKey("loader", "fade", &c.LoaderFade)
	r.durationKey("loader", "honey_fill", &c.HoneyFill)
	r.durationKey("loader", "honey_tick", &c.HoneyTick)
	r.durationKey("loader", "honey_reveal", &c.HoneyReveal)

	r.durationKey("scroll", "duration", &c.ScrollDuration)
	r.stringKey("scroll", "ease", &c.ScrollEase)
	r.intKey("scroll", "sections", &c.Sections)

	r.intKey("window", "width", &c.WindowWidth)
	r.intKey("window", "height", &c.WindowHeight)
	r.stringKey("window", "title", &c.Title)

	r.boolKey("sound", "enabled", &c.Sound)
	r.floatKey("sound", "frequency", &c.ChimeFrequency)
	r.durationKey("sound", "length", &c.ChimeLength)

	return r.err
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.GridSize < 0 {
		return fmt.Errorf("[grid] size: must not be negative, got %d", c.GridSize)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("[tilt] radius: must be positive, got %v", c.Radius)
	}
	if c.RippleSpeed <= 0 {
		return fmt.Errorf("[ripple] speed: must be positive, got %v", c.RippleSpeed)
	}
	if _, err := tween.ParseEase(c.Ease); err != nil {
		return fmt.Errorf("[tilt] ease: %w", err)
	}
	if _, err := tween.ParseEase(c.ScrollEase); err != nil {
		return fmt.Errorf("[scroll] ease: %w", err)
	}
	if _, err := colors.ParseBorder(c.Border); err != nil {
		return fmt.Errorf("[grid] border: %w", err)
	}
	if _, err := colors.Parse(c.Face); err != nil {
		return fmt.Errorf("[grid] face: %w", err)
	}
	if _, err := colors.Parse(c.RippleColor); err != nil {
		return fmt.Errorf("[ripple] color: %w", err)
	}
	switch c.Loader {
	case LoaderCube, LoaderHoney, LoaderNone:
	default:
		return fmt.Errorf("[loader] kind: unknown loader %q", c.Loader)
	}
	return nil
}

// GridStyle resolves the colour strings into the grid's styling contract.
// Call Validate first; unparsable colours fall back to the defaults.
func (c *Config) GridStyle() grid.Style {
	def := Default()
	border, err := colors.ParseBorder(c.Border)
	if err != nil {
		border, _ = colors.ParseBorder(def.Border)
	}
	face, err := colors.Parse(c.Face)
	if err != nil {
		face = colors.MustParse(def.Face)
	}
	return grid.Style{
		BorderWidth: border.Width,
		BorderColor: border.Color,
		FaceColor:   face,
		Gap:         grid.Gap{Col: c.ColGap, Row: c.RowGap},
	}
}

// TiltEase returns the parsed tilt ease, falling back to power3.out
func (c *Config) TiltEase() tween.Ease {
	if e, err := tween.ParseEase(c.Ease); err == nil {
		return e
	}
	return tween.MustEase("power3.out")
}

// RippleRGBA returns the parsed ripple colour
func (c *Config) RippleRGBA() grid.Color {
	if col, err := colors.Parse(c.RippleColor); err == nil {
		return col
	}
	return colors.MustParse(Default().RippleColor)
}

// Save writes the configuration as ini to path.
func (c *Config) Save(path string) error {
	f := ini.Empty()
	set := func(section, key, value string) {
		f.Section(section).Key(key).SetValue(value)
	}
	itoa := func(v int) string { return fmt.Sprint(v) }
	ftoa := func(v float64) string { return fmt.Sprint(v) }
	btoa := func(v bool) string { return fmt.Sprint(v) }
	dtoa := func(v time.Duration) string { return v.String() }

	set("grid", "size", itoa(c.GridSize))
	set("grid", "col_gap", ftoa(c.ColGap))
	set("grid", "row_gap", ftoa(c.RowGap))
	set("grid", "border", c.Border)
	set("grid", "face", c.Face)

	set("tilt", "radius", ftoa(c.Radius))
	set("tilt", "max_angle", ftoa(c.MaxAngle))
	set("tilt", "ease", c.Ease)
	set("tilt", "enter", dtoa(c.EnterDuration))
	set("tilt", "leave", dtoa(c.LeaveDuration))
	set("tilt", "perspective", ftoa(c.Perspective))

	set("idle", "auto_animate", btoa(c.AutoAnimate))
	set("idle", "timeout", dtoa(c.IdleTimeout))
	set("idle", "step", ftoa(c.AutoStep))
	set("idle", "snap", ftoa(c.AutoSnap))

	set("ripple", "enabled", btoa(c.Ripple))
	set("ripple", "color", c.RippleColor)
	set("ripple", "speed", ftoa(c.RippleSpeed))
	set("ripple", "ring_delay", dtoa(c.RingDelay))
	set("ripple", "duration", dtoa(c.RippleDuration))
	set("ripple", "hold", dtoa(c.RippleHold))

	set("loader", "kind", c.Loader)
	set("loader", "min_view", dtoa(c.LoaderMinView))
	set("loader", "fade", dtoa(c.LoaderFade))
	set("loader", "honey_fill", dtoa(c.HoneyFill))
	set("loader", "honey_tick", dtoa(c.HoneyTick))
	set("loader", "honey_reveal", dtoa(c.HoneyReveal))

	set("scroll", "duration", dtoa(c.ScrollDuration))
	set("scroll", "ease", c.ScrollEase)
	set("scroll", "sections", itoa(c.Sections))

	set("window", "width", itoa(c.WindowWidth))
	set("window", "height", itoa(c.WindowHeight))
	set("window", "title", c.Title)

	set("sound", "enabled", btoa(c.Sound))
	set("sound", "frequency", ftoa(c.ChimeFrequency))
	set("sound", "length", dtoa(c.ChimeLength))

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return nil
}
