package renderer

import (
	"context"
	"testing"
	"time"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/cubes"
	"cubefield/pkg/game/state"
)

func newSession(t *testing.T, loaderKind string) *state.Session {
	t.Helper()
	cfg := config.Default()
	cfg.Loader = loaderKind
	return state.New(cfg, state.Options{Seed: 1, Width: 300, Height: 300})
}

func TestSnapshot_NeutralFieldShowsFrontFaces(t *testing.T) {
	s := newSession(t, config.LoaderNone)
	f := Snapshot(s)
	if f.Width != 300 || f.Height != 300 {
		t.Fatalf("frame size = %vx%v", f.Width, f.Height)
	}
	if len(f.Faces) != 15*15 {
		t.Fatalf("len(Faces) = %d, want one face per cell", len(f.Faces))
	}
	for _, q := range f.Faces {
		if q.Fill.A != 1 || q.Border.A != 1 {
			t.Fatalf("face colours must be opaque: %+v", q)
		}
	}
	if f.LoaderVisible || f.Honey != nil {
		t.Error("no loader expected")
	}
	if f.Hint == "" {
		t.Error("hint missing")
	}
}

func TestSnapshot_TiltRevealsSideFaces(t *testing.T) {
	s := newSession(t, config.LoaderNone)
	s.Cubes.TiltAt(cubes.Focus{Row: 7, Col: 7})
	s.Step(time.Second)
	f := Snapshot(s)
	if len(f.Faces) <= 15*15 {
		t.Errorf("len(Faces) = %d, tilted cells should show more than their front", len(f.Faces))
	}
}

func TestSnapshot_LabelsFollowScroll(t *testing.T) {
	s := newSession(t, config.LoaderNone)
	f := Snapshot(s)
	if len(f.Labels) != 1 || f.Labels[0].Title != "Cubefield" {
		t.Fatalf("labels at top = %+v", f.Labels)
	}
	if f.Labels[0].Subtitle == "" {
		t.Error("hero subtitle missing")
	}

	s.Page.ScrollBy(150)
	f = Snapshot(s)
	if len(f.Labels) != 2 {
		t.Fatalf("labels half way = %+v", f.Labels)
	}
	if got := f.Labels[1]; got.Title != "About" || got.Rect.Y != 150 {
		t.Errorf("section label = %+v", got)
	}
}

func TestSnapshot_Loaders(t *testing.T) {
	t.Run("cube", func(t *testing.T) {
		s := newSession(t, config.LoaderCube)
		f := Snapshot(s)
		if !f.LoaderVisible || len(f.Loader) == 0 || f.LoaderOpacity != 1 {
			t.Errorf("cube loader = visible %v, %d quads, opacity %v", f.LoaderVisible, len(f.Loader), f.LoaderOpacity)
		}
	})
	t.Run("honey", func(t *testing.T) {
		s := newSession(t, config.LoaderHoney)
		f := Snapshot(s)
		if f.Honey == nil {
			t.Fatal("honey bar missing")
		}
		if f.Honey.Caption != "Loading 0%" {
			t.Errorf("caption = %q", f.Honey.Caption)
		}
		if len(f.Labels) != 0 {
			t.Error("content labels drawn while main content is hidden")
		}
	})
}

func TestInsideQuad(t *testing.T) {
	sq := [4]geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	rev := [4]geom.Vec2{sq[3], sq[2], sq[1], sq[0]}
	tests := []struct {
		x, y float64
		want bool
	}{
		{5, 5, true},
		{0, 0, true},
		{10.5, 5, false},
		{-1, -1, false},
	}
	for _, tt := range tests {
		if got := InsideQuad(sq, tt.x, tt.y); got != tt.want {
			t.Errorf("InsideQuad(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
		if got := InsideQuad(rev, tt.x, tt.y); got != tt.want {
			t.Errorf("reversed InsideQuad(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	b := QuadBounds(sq)
	if b.W != 10 || b.H != 10 {
		t.Errorf("QuadBounds = %+v", b)
	}
}

type stubRenderer struct{ runs int }

func (r *stubRenderer) Run(ctx context.Context, s *state.Session) error { r.runs++; return nil }
func (r *stubRenderer) Name() string                                    { return "stub" }

func TestRun_UsesCurrentRenderer(t *testing.T) {
	defer SetRenderer(nil)
	SetRenderer(nil)
	if err := Run(context.Background(), nil); err != nil {
		t.Fatalf("Run without renderer: %v", err)
	}
	r := &stubRenderer{}
	SetRenderer(r)
	if err := Run(context.Background(), nil); err != nil || r.runs != 1 {
		t.Errorf("Run = %v, runs = %d", err, r.runs)
	}
}
