// Package page models the document the effects are mounted into: a registry of
// elements by id with bounds, visibility, opacity and a smoothly scrolled viewport.
package page

import (
	"fmt"
	"strings"
	"time"

	"cubefield/pkg/engine/tween"
)

// Well-known element ids
const (
	IDTop             = "top"
	IDCubesBackground = "cubesBackground"
	IDLoaderContainer = "loader-container"
	IDLoader          = "loader"
	IDMainContent     = "main-content"
)

// SectionID returns the id of the i-th (zero-based) content section
func SectionID(i int) string {
	return fmt.Sprintf("section-%d", i+1)
}

// Rect is an axis-aligned box in device units (pixels or terminal cells).
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Element is one addressable node of the document.
// Bounds of content elements are in document coordinates; Fixed elements ignore scroll.
type Element struct {
	ID      string
	Bounds  Rect
	Fixed   bool
	Hidden  bool
	Opacity float64

	// Title is an i18n key for sections, empty otherwise.
	Title string
}

// Options configure a document
type Options struct {
	Sections       int
	ScrollDuration time.Duration
	ScrollEase     tween.Ease
}

// Document owns the elements and the scroll offset.
type Document struct {
	elements map[string]*Element
	order    []*Element
	sections []*Element

	tweens *tween.Manager
	opts   Options

	width, height float64

	// Scroll is the document offset of the viewport top. Tweened by ScrollTo.
	Scroll float64
}

// New builds a document with the background, both loader elements, the main
// content and opts.Sections sections. Call Layout before use.
func New(tw *tween.Manager, opts Options) *Document {
	if opts.Sections < 0 {
		opts.Sections = 0
	}
	if opts.ScrollEase == nil {
		opts.ScrollEase = tween.MustEase("power2.inOut")
	}
	d := &Document{
		elements: make(map[string]*Element),
		tweens:   tw,
		opts:     opts,
	}
	d.add(&Element{ID: IDCubesBackground, Fixed: true, Opacity: 1})
	d.add(&Element{ID: IDTop, Opacity: 1, Title: "HERO_TITLE"})
	d.add(&Element{ID: IDMainContent, Opacity: 1})
	for i := 0; i < opts.Sections; i++ {
		s := &Element{ID: SectionID(i), Opacity: 1, Title: fmt.Sprintf("SECTION_%d", i+1)}
		d.add(s)
		d.sections = append(d.sections, s)
	}
	d.add(&Element{ID: IDLoaderContainer, Fixed: true, Opacity: 1})
	d.add(&Element{ID: IDLoader, Fixed: true, Opacity: 1})
	return d
}

func (d *Document) add(e *Element) {
	d.elements[e.ID] = e
	d.order = append(d.order, e)
}

// ElementByID returns the element with the given id, or nil when absent
func (d *Document) ElementByID(id string) *Element {
	return d.elements[id]
}

// Remove detaches an element. Effects looking it up afterwards become no-ops.
func (d *Document) Remove(id string) {
	e, ok := d.elements[id]
	if !ok {
		return
	}
	delete(d.elements, id)
	for i, o := range d.order {
		if o == e {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	for i, s := range d.sections {
		if s == e {
			d.sections = append(d.sections[:i], d.sections[i+1:]...)
			break
		}
	}
}

// Elements returns the elements in paint order
func (d *Document) Elements() []*Element {
	return d.order
}

// Sections returns the content sections top to bottom
func (d *Document) Sections() []*Element {
	return d.sections
}

// Viewport returns the current viewport size
func (d *Document) Viewport() (w, h float64) {
	return d.width, d.height
}

// ContentHeight is the height of the scrollable document
func (d *Document) ContentHeight() float64 {
	return d.height * float64(1+len(d.sections))
}

// MaxScroll is the largest valid scroll offset
func (d *Document) MaxScroll() float64 {
	m := d.ContentHeight() - d.height
	if m < 0 {
		return 0
	}
	return m
}

// Layout recomputes every element's bounds for a viewport of w x h.
// The hero fills the first screen and each section one further screen.
func (d *Document) Layout(w, h float64) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	d.width, d.height = w, h
	full := Rect{W: w, H: h}

	if e := d.elements[IDCubesBackground]; e != nil {
		e.Bounds = full
	}
	if e := d.elements[IDLoaderContainer]; e != nil {
		e.Bounds = full
	}
	if e := d.elements[IDLoader]; e != nil {
		bw := w * 0.4
		bh := h * 0.02
		if bh < 1 {
			bh = 1
		}
		e.Bounds = Rect{X: (w - bw) / 2, Y: (h - bh) / 2, W: bw, H: bh}
	}
	if e := d.elements[IDTop]; e != nil {
		e.Bounds = full
	}
	if e := d.elements[IDMainContent]; e != nil {
		e.Bounds = Rect{W: w, H: d.ContentHeight()}
	}
	for i, s := range d.sections {
		s.Bounds = Rect{Y: h * float64(i+1), W: w, H: h}
	}
	d.Scroll = clamp(d.Scroll, 0, d.MaxScroll())
}

// ViewRect returns e's bounds in viewport coordinates
func (d *Document) ViewRect(e *Element) Rect {
	r := e.Bounds
	if !e.Fixed {
		r.Y -= d.Scroll
	}
	return r
}

// ScrollTo smoothly scrolls so the element named by anchor ("#id") sits at the
// top of the viewport. Unknown or malformed anchors are ignored.
// Returns whether a scroll was started.
func (d *Document) ScrollTo(anchor string) bool {
	id, ok := strings.CutPrefix(anchor, "#")
	if !ok || id == "" {
		return false
	}
	e := d.elements[id]
	if e == nil || e.Fixed {
		return false
	}
	target := clamp(e.Bounds.Y, 0, d.MaxScroll())
	d.tweens.To(&d.Scroll, []*float64{&d.Scroll}, []float64{target}, tween.Options{
		Duration:  d.opts.ScrollDuration,
		Ease:      d.opts.ScrollEase,
		Overwrite: true,
	})
	return true
}

// ScrollToSection scrolls to the i-th (zero-based) section, ignoring out-of-range indices.
func (d *Document) ScrollToSection(i int) bool {
	if i < 0 || i >= len(d.sections) {
		return false
	}
	return d.ScrollTo("#" + d.sections[i].ID)
}

// ScrollBy jumps the scroll offset by delta, clamped. Wheel input uses this.
func (d *Document) ScrollBy(delta float64) {
	d.tweens.Kill(&d.Scroll)
	d.Scroll = clamp(d.Scroll+delta, 0, d.MaxScroll())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
