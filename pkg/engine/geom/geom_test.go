package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBox_NormalsPointOutwardThroughFaceCentres(t *testing.T) {
	for i, f := range Box(0.5) {
		var c Vec3
		for _, p := range f.Corners {
			c = c.Add(p)
		}
		c = c.Scale(0.25)
		if !near(c.Dot(f.Normal), 0.5) {
			t.Errorf("face %d centre %+v not 0.5 along normal %+v", i, c, f.Normal)
		}
	}
}

func TestTiltedBox_NeutralShowsOnlyFront(t *testing.T) {
	faces := TiltedBox(10, 20, 2, 0, 0, 0, Vec2{})
	if len(faces) != 1 {
		t.Fatalf("visible faces = %d, want 1", len(faces))
	}
	f := faces[0]
	if f.Index != 4 {
		t.Errorf("visible face index = %d, want 4 (front)", f.Index)
	}
	want := [4]Vec2{{8, 18}, {12, 18}, {12, 22}, {8, 22}}
	for i := range want {
		if !near(f.Points[i].X, want[i].X) || !near(f.Points[i].Y, want[i].Y) {
			t.Errorf("point %d = %+v, want %+v", i, f.Points[i], want[i])
		}
	}
}

func TestTiltedBox_TiltRevealsTopAndLeft(t *testing.T) {
	faces := TiltedBox(0, 0, 1, -30, 30, 0, Vec2{})
	got := map[int]bool{}
	for _, f := range faces {
		got[f.Index] = true
	}
	for _, idx := range []int{0, 2, 4} {
		if !got[idx] {
			t.Errorf("face %d not visible, visible = %v", idx, got)
		}
	}
	if len(faces) != 3 {
		t.Errorf("visible faces = %d, want 3", len(faces))
	}
	for i := 1; i < len(faces); i++ {
		if faces[i-1].Depth < faces[i].Depth {
			t.Errorf("faces not sorted back to front: %v then %v", faces[i-1].Depth, faces[i].Depth)
		}
	}
}

func TestTiltedBox_PerspectiveEnlargesNearFace(t *testing.T) {
	flat := TiltedBox(0, 0, 1, 0, 0, 0, Vec2{})
	persp := TiltedBox(0, 0, 1, 0, 0, 10, Vec2{})
	wFlat := flat[0].Points[1].X - flat[0].Points[0].X
	wPersp := persp[0].Points[1].X - persp[0].Points[0].X
	if !(wPersp > wFlat) {
		t.Errorf("perspective width %v not larger than flat width %v", wPersp, wFlat)
	}
}

func TestCamera_ProjectsTargetToCentre(t *testing.T) {
	cam := NewPerspective(45, 2, 0.1, 100, V3(0, 0, 5))
	p, depth, ok := cam.Project(V3(0, 0, 0), 200, 100)
	if !ok {
		t.Fatal("origin not projected")
	}
	if !near(p.X, 100) || !near(p.Y, 50) {
		t.Errorf("origin projected to %+v, want (100,50)", p)
	}
	if !near(depth, 5) {
		t.Errorf("depth = %v, want 5", depth)
	}

	above, _, _ := cam.Project(V3(0, 1, 0), 200, 100)
	if above.Y >= 50 {
		t.Errorf("point above origin projected to y=%v, want < 50", above.Y)
	}
	right, _, _ := cam.Project(V3(1, 0, 0), 200, 100)
	if right.X <= 100 {
		t.Errorf("point right of origin projected to x=%v, want > 100", right.X)
	}

	if _, _, ok := cam.Project(V3(0, 0, 10), 200, 100); ok {
		t.Error("point behind camera reported visible")
	}
}

func TestCamera_SetAspectIgnoresDegenerate(t *testing.T) {
	cam := NewPerspective(45, 1, 0.1, 100, V3(0, 0, 5))
	cam.SetAspect(0, 100)
	if cam.Aspect != 1 {
		t.Errorf("Aspect = %v after degenerate resize, want 1", cam.Aspect)
	}
	cam.SetAspect(1920, 1080)
	if !near(cam.Aspect, 1920.0/1080.0) {
		t.Errorf("Aspect = %v", cam.Aspect)
	}
}

func TestShade_FacingLightIsBrighter(t *testing.T) {
	l := Lighting{
		Ambient: Hex(0x222222),
		Points:  []PointLight{{Position: V3(0, 10, 0), Color: Hex(0xffffff), Intensity: 1}},
	}
	m := Material{Color: Hex(0x808080), Roughness: 0.5}
	eye := V3(0, 5, 5)
	lit := l.Shade(m, V3(0, 0, 0), V3(0, 1, 0), eye)
	dark := l.Shade(m, V3(0, 0, 0), V3(0, -1, 0), eye)
	if !(lit.R > dark.R) {
		t.Errorf("lit %+v not brighter than dark %+v", lit, dark)
	}
	amb := Hex(0x222222).Mul(m.Color)
	if !near(dark.R, amb.R) {
		t.Errorf("face away from light = %+v, want ambient only %+v", dark, amb)
	}
}

func TestShade_SpotConeExcludesOutsidePoints(t *testing.T) {
	l := Lighting{Spots: []SpotLight{{
		Position: V3(0, 10, 0), Target: V3(0, 0, 0),
		Color: Hex(0xffffff), Intensity: 1, Angle: math.Pi / 8,
	}}}
	m := Material{Color: Hex(0xffffff), Roughness: 1}
	inside := l.Shade(m, V3(0, 0, 0), V3(0, 1, 0), V3(0, 5, 5))
	outside := l.Shade(m, V3(50, 0, 0), V3(0, 1, 0), V3(0, 5, 5))
	if inside.R == 0 {
		t.Error("point inside the cone is unlit")
	}
	if outside.R != 0 {
		t.Errorf("point outside the cone lit: %+v", outside)
	}
}

func TestHexAndBytes(t *testing.T) {
	r, g, b := Hex(0x4444ff).Bytes()
	if r != 0x44 || g != 0x44 || b != 0xff {
		t.Errorf("Bytes() = %x %x %x", r, g, b)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, -5, 6)
	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale = %+v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
}

func TestRGBLerp(t *testing.T) {
	c := RGB{R: 0, G: 0.5, B: 1}.Lerp(RGB{R: 1, G: 0.5, B: 0}, 0.5)
	if !near(c.R, 0.5) || !near(c.G, 0.5) || !near(c.B, 0.5) {
		t.Errorf("Lerp = %+v, want grey", c)
	}
	if got := (RGB{R: 1, G: 0.5, B: 0.25}).Mul(RGB{R: 0.5, G: 0.5, B: 1}); got != (RGB{R: 0.5, G: 0.25, B: 0.25}) {
		t.Errorf("Mul = %+v", got)
	}
}
