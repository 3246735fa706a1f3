// Package tui renders the cube field in a terminal with tcell. Every terminal cell
// is one device unit: the page is laid out in cells and mouse input arrives in cells.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/input"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/page"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/state"
)

const (
	wheelStep = 3 // rows per wheel notch
	maxStep   = 100 * time.Millisecond
)

// cell is one character of the back buffer
type cell struct {
	ch rune
	fg grid.Color
	bg grid.Color
}

// Renderer is the terminal backend
type Renderer struct {
	screen tcell.Screen
	hz     int

	width, height int
	buf           []cell

	pointer   input.PointerTracker
	mouseDown bool
}

// New creates a terminal renderer drawing at hz frames per second. A nil screen
// opens the real terminal when Run starts.
func New(screen tcell.Screen, hz int) *Renderer {
	if hz <= 0 {
		hz = 30
	}
	return &Renderer{screen: screen, hz: hz}
}

// Name returns the -renderer value for this backend
func (r *Renderer) Name() string { return "tui" }

// Run takes over the terminal until the viewer quits or ctx is cancelled.
func (r *Renderer) Run(ctx context.Context, s *state.Session) error {
	if r.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		r.screen = screen
	}
	if err := r.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer r.screen.Fini()
	r.screen.EnableMouse(tcell.MouseMotionEvents)
	r.screen.EnableFocus()
	r.screen.HideCursor()

	w, h := r.screen.Size()
	r.resize(s, w, h)

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	t := time.NewTicker(time.Second / time.Duration(r.hz))
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			r.HandleEvent(s, ev)
		case now := <-t.C:
			dt := now.Sub(last)
			last = now
			if dt > maxStep {
				dt = maxStep
			}
			s.Step(dt)
			r.Draw(s)
			r.flush()
		}
		if s.Quit {
			return nil
		}
	}
}

// HandleEvent applies one terminal event to the session
func (r *Renderer) HandleEvent(s *state.Session, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		r.resize(s, w, h)
	case *tcell.EventKey:
		code := keyCode(ev.Key(), ev.Rune())
		if code == "" {
			return
		}
		intent := input.MapToIntent(input.NewDebouncedInput(input.RawInput{
			Device:    input.DeviceTerminal,
			Code:      code,
			Timestamp: ev.When(),
		}))
		// The config dialog needs a window.
		if intent.Action != input.ActionOpenConfig {
			s.HandleIntent(intent)
		}
	case *tcell.EventMouse:
		r.handleMouse(s, ev)
	case *tcell.EventFocus:
		if !ev.Focused {
			s.HandlePointer(input.PointerEvent{Kind: input.PointerLeave, Device: input.DeviceTerminal})
		}
	}
}

func (r *Renderer) handleMouse(s *state.Session, ev *tcell.EventMouse) {
	btn := ev.Buttons()
	if btn&tcell.WheelUp != 0 {
		s.Page.ScrollBy(-wheelStep)
	}
	if btn&tcell.WheelDown != 0 {
		s.Page.ScrollBy(wheelStep)
	}

	cx, cy := ev.Position()
	x, y := float64(cx)+0.5, float64(cy)+0.5
	inside := s.Cubes.Bounds().Contains(x, y)
	for _, pe := range r.pointer.Poll(x, y, inside) {
		pe.Device = input.DeviceTerminal
		s.HandlePointer(pe)
	}

	down := btn&tcell.Button1 != 0
	if down && !r.mouseDown {
		s.HandlePointer(input.PointerEvent{Kind: input.PointerClick, Device: input.DeviceTerminal, X: x, Y: y, HasPoint: true})
	}
	r.mouseDown = down
}

// keyCode maps a tcell key to the binding codes of the input layer
func keyCode(k tcell.Key, ch rune) string {
	switch k {
	case tcell.KeyRune:
		return strings.ToLower(string(ch))
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyHome:
		return "home"
	}
	return ""
}

func (r *Renderer) resize(s *state.Session, w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.width, r.height = w, h
	r.buf = make([]cell, w*h)
	s.Resize(float64(w), float64(h))
}

// Draw paints the session into the back buffer
func (r *Renderer) Draw(s *state.Session) {
	f := renderer.Snapshot(s)
	for i := range r.buf {
		r.buf[i] = cell{ch: ' ', fg: renderer.TextColor, bg: renderer.PageBackground}
	}

	for _, q := range f.Faces {
		r.fillQuad(q.Points, func(c *cell) { c.bg = q.Fill })
	}
	for _, l := range f.Labels {
		r.drawLabel(l)
	}
	if f.LoaderVisible {
		veil := renderer.LoaderBackground
		veil.A = f.LoaderOpacity
		for i := range r.buf {
			r.buf[i] = cell{ch: ' ', fg: renderer.TextColor, bg: colors.Over(r.buf[i].bg, veil)}
		}
		for _, q := range f.Loader {
			lit := q.Color.Clamp()
			c := grid.Color{R: lit.R, G: lit.G, B: lit.B, A: f.LoaderOpacity}
			r.fillQuad(q.Points, func(dst *cell) { dst.bg = colors.Over(dst.bg, c) })
		}
	}
	if f.Honey != nil {
		r.drawHoney(f.Honey)
	}

	row := r.height - 1
	r.text(1, row, f.Hint, renderer.SubtleText)
	for i := len(f.Messages) - 1; i >= 0; i-- {
		row--
		r.text(1, row, f.Messages[i], renderer.TextColor)
	}
}

// fillQuad calls paint for every cell whose centre lies inside pts
func (r *Renderer) fillQuad(pts [4]geom.Vec2, paint func(*cell)) {
	b := renderer.QuadBounds(pts)
	x0 := max(0, int(math.Floor(b.X)))
	y0 := max(0, int(math.Floor(b.Y)))
	x1 := min(r.width, int(math.Ceil(b.X+b.W)))
	y1 := min(r.height, int(math.Ceil(b.Y+b.H)))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if renderer.InsideQuad(pts, float64(x)+0.5, float64(y)+0.5) {
				paint(&r.buf[y*r.width+x])
			}
		}
	}
}

func (r *Renderer) drawLabel(l renderer.Label) {
	y := int(l.Rect.Y + l.Rect.H/3)
	r.centred(l.Rect, y, strings.ToUpper(l.Title), renderer.TextColor)
	if l.Subtitle != "" {
		r.centred(l.Rect, y+2, l.Subtitle, renderer.SubtleText)
	}
}

func (r *Renderer) drawHoney(h *renderer.HoneyBar) {
	b := h.Bounds
	y := int(b.Y + b.H/2)
	x0 := int(math.Round(b.X))
	w := int(math.Round(b.W))
	filled := int(math.Round(float64(w) * h.Level / 100))
	for i := 0; i < w; i++ {
		if c := r.at(x0+i, y); c != nil {
			if i < filled {
				c.bg = colors.Over(c.bg, h.Fill)
			} else {
				c.bg = colors.Over(c.bg, renderer.HoneyTrack)
			}
		}
	}
	r.centred(page.Rect{X: b.X, W: b.W}, y+2, h.Caption, renderer.TextColor)
}

func (r *Renderer) centred(area page.Rect, y int, s string, fg grid.Color) {
	x := int(area.X + (area.W-float64(len([]rune(s))))/2)
	r.text(x, y, s, fg)
}

// text writes s from (x, y); foreground alpha blends over the cell background
func (r *Renderer) text(x, y int, s string, fg grid.Color) {
	for _, ch := range s {
		if c := r.at(x, y); c != nil {
			c.ch = ch
			c.fg = colors.Over(c.bg, fg)
		}
		x++
	}
}

func (r *Renderer) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return nil
	}
	return &r.buf[y*r.width+x]
}

// flush copies the back buffer to the screen
func (r *Renderer) flush() {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			c := r.buf[y*r.width+x]
			style := tcell.StyleDefault.Foreground(tcellColor(c.fg)).Background(tcellColor(c.bg))
			r.screen.SetContent(x, y, c.ch, nil, style)
		}
	}
	r.screen.Show()
}

func tcellColor(c grid.Color) tcell.Color {
	n := colors.NRGBA(c)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

// Row returns the characters of one buffer row, for tests and dumps
func (r *Renderer) Row(y int) string {
	if y < 0 || y >= r.height {
		return ""
	}
	var b strings.Builder
	for x := 0; x < r.width; x++ {
		b.WriteRune(r.buf[y*r.width+x].ch)
	}
	return b.String()
}
