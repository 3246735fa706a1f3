package loader

import (
	"time"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/loop"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/page"
)

// HoneyOptions control the fill speed
type HoneyOptions struct {
	Fill   time.Duration // time to reach 100%
	Tick   time.Duration // interval between increments
	Reveal time.Duration // pause between full and showing the content
}

// Honey is the progress loader: a bar that fills in fixed increments on an
// interval, then swaps itself for the main content.
type Honey struct {
	loader  *page.Element
	content *page.Element
	loop    *loop.Loop
	opts    HoneyOptions

	// Level is the fill percentage in [0, 100]
	Level float64

	increment float64
	interval  loop.TimerID
	done      bool

	// OnFinished runs once the content has been revealed
	OnFinished func()
}

// NewHoney wires the loader to the document. Returns nil when the loader element is absent.
func NewHoney(doc *page.Document, l *loop.Loop, opts HoneyOptions) *Honey {
	if doc == nil {
		return nil
	}
	ld := doc.ElementByID(page.IDLoader)
	if ld == nil {
		return nil
	}
	if opts.Tick <= 0 {
		opts.Tick = 16 * time.Millisecond
	}
	if opts.Fill < opts.Tick {
		opts.Fill = opts.Tick
	}
	return &Honey{
		loader:    ld,
		content:   doc.ElementByID(page.IDMainContent),
		loop:      l,
		opts:      opts,
		increment: 100 / (float64(opts.Fill) / float64(opts.Tick)),
	}
}

// Increment is the fill added per tick
func (h *Honey) Increment() float64 {
	return h.increment
}

// Start hides the content and begins filling.
func (h *Honey) Start() {
	if h == nil || h.interval != 0 || h.done {
		return
	}
	if h.content != nil {
		h.content.Hidden = true
	}
	h.interval = h.loop.SetInterval(h.opts.Tick, h.tick)
}

func (h *Honey) tick() {
	h.Level += h.increment
	if h.Level < 100 {
		return
	}
	h.Level = 100
	h.loop.ClearTimer(h.interval)
	h.interval = 0
	h.loop.SetTimeout(h.opts.Reveal, func() {
		h.loader.Hidden = true
		if h.content != nil {
			h.content.Hidden = false
		}
		h.done = true
		if h.OnFinished != nil {
			h.OnFinished()
		}
	})
}

// Finished reports whether the content has been revealed
func (h *Honey) Finished() bool {
	return h == nil || h.done
}

// Bounds returns the bar rectangle
func (h *Honey) Bounds() page.Rect {
	if h == nil {
		return page.Rect{}
	}
	return h.loader.Bounds
}

// Color returns the fill colour for the current level: a dark amber that
// brightens and warms towards gold as the bar fills.
func (h *Honey) Color() grid.Color {
	t := 0.0
	if h != nil {
		t = h.Level / 100
	}
	c, err := colors.FromHSV(28+14*t, 0.85, 0.55+0.4*t, 1)
	if err != nil {
		return grid.Color{R: 0.64, G: 0.36, B: 0.22, A: 1}
	}
	return c
}
