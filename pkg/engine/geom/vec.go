// Package geom holds the small amount of 3D math the renderers share: vectors,
// rotation matrices, box faces, perspective projection and flat shading.
package geom

import "math"

// Vec2 is a screen-space point.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a + b
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale multiplies every component by s
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Dot returns the dot product a · b
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns a x b
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the Euclidean length
func (a Vec3) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector, or the zero vector for zero input
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Mat3 is a row-major 3x3 matrix.
type Mat3 [3][3]float64

// Identity returns the identity matrix
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotationX rotates by rad radians around the X axis
func RotationX(rad float64) Mat3 {
	s, c := math.Sincos(rad)
	return Mat3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

// RotationY rotates by rad radians around the Y axis
func RotationY(rad float64) Mat3 {
	s, c := math.Sincos(rad)
	return Mat3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// Mul returns m * n (n is applied first)
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * n[k][j]
			}
		}
	}
	return r
}

// Apply transforms v by m
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
