// Package renderer turns a session into a backend-independent Frame and defines
// the interface every display backend implements.
package renderer

import (
	"math"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/grid"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/i18n"
	"cubefield/pkg/game/loader"
	"cubefield/pkg/game/page"
	"cubefield/pkg/game/state"
)

// Shared palette
var (
	PageBackground   = colors.MustParse("#16120e")
	TextColor        = colors.MustParse("#f0e6d8")
	SubtleText       = colors.MustParse("rgba(240, 230, 216, 0.6)")
	PanelBackground  = colors.MustParse("rgba(20, 16, 12, 0.8)")
	HoneyTrack       = colors.MustParse("rgba(255, 255, 255, 0.1)")
	LoaderBackground = grid.Color{A: 1}
)

// FaceQuad is one visible face of a grid cell, projected and shaded
type FaceQuad struct {
	Row, Col    int
	Side        grid.FaceSide
	Points      [4]geom.Vec2
	Depth       float64
	Fill        grid.Color // opaque, already composited over the page
	Border      grid.Color
	BorderWidth float64
}

// Label is a title drawn at the top of a page element
type Label struct {
	Title    string
	Subtitle string
	Rect     page.Rect // viewport coordinates
}

// HoneyBar is the progress loader
type HoneyBar struct {
	Bounds  page.Rect
	Level   float64 // 0..100
	Fill    grid.Color
	Caption string
}

// Frame holds a consistent picture of a session for drawing. Backends build one
// per draw call and never reach into the session themselves.
type Frame struct {
	Width, Height float64

	// Faces of the cube field, back to front
	Faces []FaceQuad

	// Labels of the hero and every on-screen section
	Labels []Label

	// Cube loader overlay; Loader is empty once it has finished
	LoaderVisible bool
	LoaderOpacity float64
	Loader        []loader.Quad

	// Honey loader, nil when absent or finished
	Honey *HoneyBar

	Messages []string
	Hint     string
}

// Snapshot captures s for drawing
func Snapshot(s *state.Session) Frame {
	w, h := s.Page.Viewport()
	f := Frame{Width: w, Height: h}

	if bg := s.Page.ElementByID(page.IDCubesBackground); bg != nil && !bg.Hidden {
		f.Faces = cubeFaces(s)
	}

	content := s.Page.ElementByID(page.IDMainContent)
	if content == nil || !content.Hidden {
		f.Labels = labels(s.Page, h)
	}

	if s.Cube != nil && !s.Cube.Finished() {
		f.LoaderVisible = true
		f.LoaderOpacity = s.Cube.Opacity()
		f.Loader = s.Cube.Quads(w, h)
	}
	if s.Honey != nil && !s.Honey.Finished() {
		f.Honey = &HoneyBar{
			Bounds:  s.Honey.Bounds(),
			Level:   s.Honey.Level,
			Fill:    s.Honey.Color(),
			Caption: i18n.T("LOADING", int(s.Honey.Level)),
		}
	}

	f.Messages = append([]string(nil), s.Messages...)
	f.Hint = i18n.T("HINT_KEYS")
	return f
}

// cubeFaces projects every cell of the field with its own perspective, the way
// each cube carries its own CSS perspective about its centre.
func cubeFaces(s *state.Session) []FaceQuad {
	if s.Cubes == nil {
		return nil
	}
	g := s.Cubes.Grid()
	style := g.Style()
	out := make([]FaceQuad, 0, g.Len()*3)
	g.ForEachCell(func(row, col int, c *grid.Cell) {
		r := s.Cubes.CellRect(row, col)
		if r.W <= 0 || r.H <= 0 {
			return
		}
		half := math.Min(r.W, r.H) / 2
		cx, cy := r.X+r.W/2, r.Y+r.H/2
		d := s.Config.Perspective * half * 2
		for _, p := range geom.TiltedBox(cx, cy, half, c.RotateX, c.RotateY, d, geom.Vec2{X: cx, Y: cy}) {
			face := c.Faces[p.Index]
			fill := colors.Over(PageBackground, shadeFace(face.Background, p.Normal))
			out = append(out, FaceQuad{
				Row:         row,
				Col:         col,
				Side:        face.Side,
				Points:      p.Points,
				Depth:       p.Depth,
				Fill:        fill,
				Border:      colors.Over(fill, style.BorderColor),
				BorderWidth: style.BorderWidth,
			})
		}
	})
	return out
}

// shadeFace darkens faces that turn away from the viewer
func shadeFace(c grid.Color, normal geom.Vec3) grid.Color {
	k := 0.7 + 0.3*math.Max(0, math.Min(1, normal.Z))
	return grid.Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

func labels(doc *page.Document, viewH float64) []Label {
	var out []Label
	if top := doc.ElementByID(page.IDTop); top != nil && !top.Hidden {
		r := doc.ViewRect(top)
		if visible(r, viewH) {
			out = append(out, Label{Title: i18n.T(top.Title), Subtitle: i18n.T("HERO_SUBTITLE"), Rect: r})
		}
	}
	for _, sec := range doc.Sections() {
		if sec.Hidden {
			continue
		}
		r := doc.ViewRect(sec)
		if visible(r, viewH) {
			out = append(out, Label{Title: i18n.T(sec.Title), Rect: r})
		}
	}
	return out
}

func visible(r page.Rect, viewH float64) bool {
	return r.Y+r.H > 0 && r.Y < viewH
}

// InsideQuad reports whether (x, y) lies inside the convex quad pts, in either winding.
func InsideQuad(pts [4]geom.Vec2, x, y float64) bool {
	var pos, neg bool
	for i := 0; i < 4; i++ {
		a, b := pts[i], pts[(i+1)%4]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// QuadBounds returns the axis-aligned bounds of a quad
func QuadBounds(pts [4]geom.Vec2) page.Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return page.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
