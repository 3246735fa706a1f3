// Package cubes is the pointer-reactive cube field: a grid of tilted cubes that
// lean towards the pointer, wander on their own when the viewer is idle and ripple
// colour outwards on click.
//
// An Effect owns all of its state (focus point, activity flag, pending frame and
// timer handles) and is driven entirely by callbacks from a loop.Loop, so it needs
// no locking as long as its handlers are called from the goroutine that advances
// the loop.
package cubes

import (
	"log"
	"math/rand"
	"time"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/loop"
	"cubefield/pkg/engine/tween"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/page"
)

// Options are the effect's tunables
type Options struct {
	GridSize int
	Style    grid.Style

	Radius   float64
	MaxAngle float64
	Ease     tween.Ease
	Enter    time.Duration
	Leave    time.Duration

	AutoAnimate bool
	IdleTimeout time.Duration
	AutoStep    float64
	AutoSnap    float64

	Ripple         bool
	RippleColor    grid.Color
	RippleSpeed    float64
	RingDelay      time.Duration
	RippleDuration time.Duration
	RippleHold     time.Duration
}

// OptionsFrom maps a validated configuration onto effect options.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		GridSize: cfg.GridSize,
		Style:    cfg.GridStyle(),

		Radius:   cfg.Radius,
		MaxAngle: cfg.MaxAngle,
		Ease:     cfg.TiltEase(),
		Enter:    cfg.EnterDuration,
		Leave:    cfg.LeaveDuration,

		AutoAnimate: cfg.AutoAnimate,
		IdleTimeout: cfg.IdleTimeout,
		AutoStep:    cfg.AutoStep,
		AutoSnap:    cfg.AutoSnap,

		Ripple:         cfg.Ripple,
		RippleColor:    cfg.RippleRGBA(),
		RippleSpeed:    cfg.RippleSpeed,
		RingDelay:      cfg.RingDelay,
		RippleDuration: cfg.RippleDuration,
		RippleHold:     cfg.RippleHold,
	}
}

// leaveEase is used for every return to neutral regardless of the tilt ease
var leaveEase = tween.MustEase("power3.out")

// Focus is a fractional grid coordinate
type Focus struct {
	Row, Col float64
}

// Effect is one mounted cube field.
type Effect struct {
	opts      Options
	grid      *grid.Grid
	container *page.Element
	doc       *page.Document
	loop      *loop.Loop
	tweens    *tween.Manager
	rng       *rand.Rand

	userActive   bool
	idleTimer    loop.TimerID
	pendingFrame loop.FrameID
	focus        Focus
	hasFocus     bool

	autoPos    Focus
	autoTarget Focus
	autoFrame  loop.FrameID
	autoOn     bool
	faceBase   []float64
	rippleRGBA []float64
	ripples    uint64

	// OnRipple, when set, is called once per accepted click with the hit cell.
	OnRipple func(row, col int)

	// Debug enables per-event log lines
	Debug bool
}

// Mount builds the grid inside the document's cube background element and starts
// the auto-pilot when enabled. Returns nil when the container is absent; every
// method on a nil *Effect is a no-op.
func Mount(doc *page.Document, l *loop.Loop, tw *tween.Manager, rng *rand.Rand, opts Options) *Effect {
	if doc == nil {
		return nil
	}
	container := doc.ElementByID(page.IDCubesBackground)
	if container == nil {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Ease == nil {
		opts.Ease = leaveEase
	}
	if opts.RippleSpeed <= 0 {
		opts.RippleSpeed = 1
	}
	e := &Effect{
		opts:       opts,
		grid:       grid.New(opts.GridSize, opts.Style),
		container:  container,
		doc:        doc,
		loop:       l,
		tweens:     tw,
		rng:        rng,
		faceBase:   colors.Components(opts.Style.FaceColor),
		rippleRGBA: colors.Components(opts.RippleColor),
	}
	if opts.AutoAnimate {
		e.startAutoPilot()
	}
	return e
}

// Grid returns the cube grid
func (e *Effect) Grid() *grid.Grid {
	if e == nil {
		return nil
	}
	return e.grid
}

// Options returns the options the effect was mounted with
func (e *Effect) Options() Options {
	if e == nil {
		return Options{}
	}
	return e.opts
}

// UserActive reports whether user input currently drives the focus point
func (e *Effect) UserActive() bool {
	return e != nil && e.userActive
}

// Focus returns the most recent focus point passed to the tilt engine
func (e *Effect) Focus() (Focus, bool) {
	if e == nil {
		return Focus{}, false
	}
	return e.focus, e.hasFocus
}

// Bounds returns the container rectangle in viewport coordinates
func (e *Effect) Bounds() page.Rect {
	if e == nil {
		return page.Rect{}
	}
	return e.doc.ViewRect(e.container)
}

// cellSize is the container size divided evenly between cells, gaps included
func (e *Effect) cellSize() (w, h float64, ok bool) {
	n := e.grid.Size()
	r := e.Bounds()
	if n == 0 || r.W <= 0 || r.H <= 0 {
		return 0, 0, false
	}
	return r.W / float64(n), r.H / float64(n), true
}

// toGrid converts device coordinates to a fractional (row, col)
func (e *Effect) toGrid(x, y float64) (Focus, bool) {
	cw, ch, ok := e.cellSize()
	if !ok {
		return Focus{}, false
	}
	r := e.Bounds()
	return Focus{Row: (y - r.Y) / ch, Col: (x - r.X) / cw}, true
}

// CellRect returns the on-screen rectangle of the cell at (row, col), gaps removed.
func (e *Effect) CellRect(row, col int) page.Rect {
	cw, ch, ok := e.cellSize()
	if !ok {
		return page.Rect{}
	}
	b := e.Bounds()
	gapW := b.W * e.opts.Style.Gap.Col
	gapH := b.H * e.opts.Style.Gap.Row
	n := float64(e.grid.Size())
	w := (b.W - gapW*(n-1)) / n
	h := (b.H - gapH*(n-1)) / n
	if w <= 0 || h <= 0 {
		w, h = cw, ch
		gapW, gapH = 0, 0
	}
	return page.Rect{
		X: b.X + float64(col)*(w+gapW),
		Y: b.Y + float64(row)*(h+gapH),
		W: w,
		H: h,
	}
}

func (e *Effect) debugf(format string, args ...any) {
	if e.Debug {
		log.Printf("cubes: "+format, args...)
	}
}
