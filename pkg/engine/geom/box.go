package geom

import "sort"

// BoxFace is one side of an axis-aligned cube in local space. Corners are cyclic.
type BoxFace struct {
	Corners [4]Vec3
	Normal  Vec3
}

// Projected is a face after transformation and projection to the screen.
type Projected struct {
	Index  int // position of the face in the source box
	Points [4]Vec2
	Depth  float64 // larger is further from the viewer
	Normal Vec3    // transformed normal
	Center Vec3    // transformed face centre
}

// Box returns the six faces of a cube with the given half extent, in the order
// top, bottom, left, right, front, back. The frame is screen oriented:
// +X right, +Y down, +Z towards the viewer.
func Box(half float64) [6]BoxFace {
	h := half
	return [6]BoxFace{
		{Corners: [4]Vec3{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}, Normal: Vec3{0, -1, 0}},
		{Corners: [4]Vec3{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}, Normal: Vec3{0, 1, 0}},
		{Corners: [4]Vec3{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}, Normal: Vec3{-1, 0, 0}},
		{Corners: [4]Vec3{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}, Normal: Vec3{1, 0, 0}},
		{Corners: [4]Vec3{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}, Normal: Vec3{0, 0, 1}},
		{Corners: [4]Vec3{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}, Normal: Vec3{0, 0, -1}},
	}
}

// TiltMatrix is the rotation a cell applies for rotateX/rotateY given in degrees.
// Y is applied after X, matching "rotateY(b) rotateX(a)".
func TiltMatrix(rotateXDeg, rotateYDeg float64) Mat3 {
	return RotationY(Radians(rotateYDeg)).Mul(RotationX(Radians(rotateXDeg)))
}

// TiltedBox rotates a cube of the given half extent centred on screen at (cx, cy)
// and projects it with a CSS-style perspective distance about origin.
// Only faces pointing at the viewer are returned, sorted back to front.
func TiltedBox(cx, cy, half, rotateXDeg, rotateYDeg, perspective float64, origin Vec2) []Projected {
	m := TiltMatrix(rotateXDeg, rotateYDeg)
	faces := Box(half)
	out := make([]Projected, 0, 3)
	for i, f := range faces {
		n := m.Apply(f.Normal)
		if n.Z <= 1e-9 {
			continue
		}
		p := Projected{Index: i, Normal: n}
		var sumZ float64
		for j, c := range f.Corners {
			v := m.Apply(c)
			sumZ += v.Z
			p.Points[j] = cssProject(Vec3{cx + v.X, cy + v.Y, v.Z}, perspective, origin)
		}
		p.Depth = -sumZ / 4
		p.Center = m.Apply(f.Normal.Scale(half)).Add(Vec3{cx, cy, 0})
		out = append(out, p)
	}
	SortBackToFront(out)
	return out
}

// cssProject scales a point about origin by d/(d-z). A non-positive d disables perspective.
func cssProject(v Vec3, d float64, origin Vec2) Vec2 {
	if d <= 0 || v.Z >= d {
		return Vec2{v.X, v.Y}
	}
	s := d / (d - v.Z)
	return Vec2{
		X: origin.X + (v.X-origin.X)*s,
		Y: origin.Y + (v.Y-origin.Y)*s,
	}
}

// SortBackToFront orders faces for painter's-algorithm drawing
func SortBackToFront(faces []Projected) {
	sort.SliceStable(faces, func(i, j int) bool {
		return faces[i].Depth > faces[j].Depth
	})
}
