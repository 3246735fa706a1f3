package geom

import "math"

// Camera is a Y-up perspective look-at camera.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	FovY     float64 // vertical field of view in degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewPerspective returns a camera at position looking at the origin.
func NewPerspective(fovY, aspect, near, far float64, position Vec3) Camera {
	return Camera{
		Position: position,
		Up:       Vec3{0, 1, 0},
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// SetAspect updates the aspect ratio after a viewport resize. Degenerate sizes are ignored.
func (c *Camera) SetAspect(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = width / height
}

func (c Camera) basis() (right, up, forward Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Project maps a world point to screen pixels in a width x height viewport.
// depth is the distance along the view direction. ok is false for points
// outside the near/far range.
func (c Camera) Project(p Vec3, width, height float64) (screen Vec2, depth float64, ok bool) {
	right, up, forward := c.basis()
	rel := p.Sub(c.Position)
	z := rel.Dot(forward)
	if z < c.Near || (c.Far > 0 && z > c.Far) {
		return Vec2{}, z, false
	}
	t := math.Tan(Radians(c.FovY) / 2)
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	ndcX := rel.Dot(right) / (z * t * aspect)
	ndcY := rel.Dot(up) / (z * t)
	return Vec2{
		X: (ndcX + 1) / 2 * width,
		Y: (1 - ndcY) / 2 * height,
	}, z, true
}
