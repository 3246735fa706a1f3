package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/state"
)

func setup(t *testing.T, loaderKind string) (*Renderer, *state.Session) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(60, 30)

	cfg := config.Default()
	cfg.Loader = loaderKind
	s := state.New(cfg, state.Options{Seed: 5, Width: 10, Height: 10})
	r := New(screen, 30)
	r.HandleEvent(s, tcell.NewEventResize(60, 30))
	return r, s
}

func contains(r *Renderer, want string) bool {
	for y := 0; y < r.height; y++ {
		if strings.Contains(r.Row(y), want) {
			return true
		}
	}
	return false
}

func TestResize_LaysOutPageInCells(t *testing.T) {
	_, s := setup(t, config.LoaderNone)
	if w, h := s.Page.Viewport(); w != 60 || h != 30 {
		t.Errorf("viewport = %vx%v, want 60x30", w, h)
	}
}

func TestDraw_HeroAndHint(t *testing.T) {
	r, s := setup(t, config.LoaderNone)
	r.Draw(s)
	if !contains(r, "CUBEFIELD") {
		t.Error("hero title not drawn")
	}
	if !strings.HasPrefix(strings.TrimSpace(r.Row(29)), "A auto") {
		t.Errorf("last row = %q, want the key hint", r.Row(29))
	}
	r.flush()
}

func TestDraw_HoneyLoaderCaption(t *testing.T) {
	r, s := setup(t, config.LoaderHoney)
	r.Draw(s)
	if !contains(r, "Loading 0%") {
		t.Error("loader caption missing")
	}
	if contains(r, "CUBEFIELD") {
		t.Error("content drawn while loading")
	}
}

func TestDraw_FacesUseFieldColours(t *testing.T) {
	r, s := setup(t, config.LoaderNone)
	r.Draw(s)
	// Cell (0, 0) of the field covers the top-left corner of the screen.
	c := r.buf[0]
	if c.bg == renderer.PageBackground {
		t.Error("corner cell shows the page, want the cube face")
	}
	if c.bg.A != 1 {
		t.Errorf("face colour %+v should be opaque", c.bg)
	}
}

func TestMouse_MoveActivatesTracker(t *testing.T) {
	r, s := setup(t, config.LoaderNone)
	r.HandleEvent(s, tcell.NewEventMouse(30, 15, tcell.ButtonNone, tcell.ModNone))
	if !s.Cubes.UserActive() {
		t.Error("move should mark the viewer active")
	}
	if s.Cubes.PendingFrame() == 0 {
		t.Error("move should schedule a tilt frame")
	}
	s.Step(16 * time.Millisecond)
	f, ok := s.Cubes.Focus()
	if !ok || int(f.Col) != 7 || int(f.Row) != 7 {
		t.Errorf("focus = %+v, %v; want cell (7, 7)", f, ok)
	}
}

func TestMouse_ClickRipplesOnPressEdge(t *testing.T) {
	r, s := setup(t, config.LoaderNone)
	base := s.Cubes.Grid().Style().FaceColor
	r.HandleEvent(s, tcell.NewEventMouse(30, 15, tcell.Button1, tcell.ModNone))
	s.Step(100 * time.Millisecond)
	hit := s.Cubes.Grid().GetCell(7, 7).Face(grid.FaceFront).Background
	if hit == base {
		t.Error("click should flash the hit cell")
	}
	if !r.mouseDown {
		t.Error("button state not tracked")
	}
	r.HandleEvent(s, tcell.NewEventMouse(30, 15, tcell.ButtonNone, tcell.ModNone))
	if r.mouseDown {
		t.Error("release not tracked")
	}
}

func TestMouse_WheelScrolls(t *testing.T) {
	r, s := setup(t, config.LoaderNone)
	r.HandleEvent(s, tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	r.HandleEvent(s, tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if s.Page.Scroll != 2*wheelStep {
		t.Errorf("Scroll = %v, want %v", s.Page.Scroll, 2*wheelStep)
	}
	r.HandleEvent(s, tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if s.Page.Scroll != wheelStep {
		t.Errorf("Scroll = %v, want %v", s.Page.Scroll, wheelStep)
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		ch   rune
		want string
	}{
		{tcell.KeyRune, 'A', "a"},
		{tcell.KeyRune, '3', "3"},
		{tcell.KeyEscape, 0, "escape"},
		{tcell.KeyCtrlC, 0, "ctrl+c"},
		{tcell.KeyHome, 0, "home"},
		{tcell.KeyEnter, 0, ""},
	}
	for _, tt := range tests {
		if got := keyCode(tt.key, tt.ch); got != tt.want {
			t.Errorf("keyCode(%v, %q) = %q, want %q", tt.key, tt.ch, got, tt.want)
		}
	}
}

func TestRun_ReturnsWhenContextEnds(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	cfg := config.Default()
	cfg.Loader = config.LoaderNone
	s := state.New(cfg, state.Options{Seed: 1})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := New(screen, 200).Run(ctx, s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Loop.Now() == 0 {
		t.Error("session was never stepped")
	}
}
