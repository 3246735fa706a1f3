// Package grid provides the fixed square grid of cube cells the background effect animates.
package grid

// FaceSide names one of the six faces of a cube cell.
type FaceSide int

// Face sides, in the order faces are created on every cell.
const (
	FaceTop FaceSide = iota
	FaceBottom
	FaceLeft
	FaceRight
	FaceFront
	FaceBack
)

// FaceCount is the number of faces every cell owns.
const FaceCount = 6

var faceNames = [FaceCount]string{"top", "bottom", "left", "right", "front", "back"}

// String returns the face name ("top", "front", ...)
func (s FaceSide) String() string {
	if s < 0 || int(s) >= FaceCount {
		return "unknown"
	}
	return faceNames[s]
}

// Color is a straight-alpha colour with float channels in [0,1].
// Channels are plain fields so the animation facility can tween them in place.
type Color struct {
	R, G, B, A float64
}

// Face is one visual face of a cube. Only its background colour changes at runtime.
type Face struct {
	Side       FaceSide
	Background Color
}

// Channels returns pointers to the four colour channels, for tweening.
func (f *Face) Channels() []*float64 {
	return []*float64{&f.Background.R, &f.Background.G, &f.Background.B, &f.Background.A}
}

// Cell is a single cube in the grid. Row and Col never change after Build.
type Cell struct {
	Row int
	Col int

	// Rotation in degrees around the X and Y axes. Written only by tweens.
	RotateX float64
	RotateY float64

	Faces [FaceCount]Face
}

// newCell creates a cell with all faces painted in the base colour
func newCell(row, col int, base Color) *Cell {
	c := &Cell{Row: row, Col: col}
	for i := range c.Faces {
		c.Faces[i] = Face{Side: FaceSide(i), Background: base}
	}
	return c
}

// Rotation returns pointers to the two tilt angles, for tweening.
func (c *Cell) Rotation() []*float64 {
	return []*float64{&c.RotateX, &c.RotateY}
}

// Face returns the face on the given side
func (c *Cell) Face(side FaceSide) *Face {
	if side < 0 || int(side) >= FaceCount {
		return nil
	}
	return &c.Faces[side]
}

// IsNeutral reports whether the cell is untilted
func (c *Cell) IsNeutral() bool {
	return c.RotateX == 0 && c.RotateY == 0
}
