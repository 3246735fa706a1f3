package geom

import "math"

// RGB is a linear colour with channels nominally in [0,1].
type RGB struct {
	R, G, B float64
}

// Hex converts 0xRRGGBB to RGB
func Hex(h uint32) RGB {
	return RGB{
		R: float64((h>>16)&0xff) / 255,
		G: float64((h>>8)&0xff) / 255,
		B: float64(h&0xff) / 255,
	}
}

// Add sums two colours channel by channel
func (c RGB) Add(o RGB) RGB { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }

// Sub subtracts o from c channel by channel
func (c RGB) Sub(o RGB) RGB { return RGB{c.R - o.R, c.G - o.G, c.B - o.B} }

// Mul filters c through o, as a light colour through a material colour
func (c RGB) Mul(o RGB) RGB { return RGB{c.R * o.R, c.G * o.G, c.B * o.B} }

// Scale multiplies every channel by s
func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }

// Lerp blends from c at t=0 to o at t=1
func (c RGB) Lerp(o RGB, t float64) RGB { return c.Add(o.Sub(c).Scale(t)) }

// Clamp limits every channel to [0,1]
func (c RGB) Clamp() RGB {
	return RGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// Bytes returns the clamped colour as 8-bit channels
func (c RGB) Bytes() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(c.R*255 + 0.5), uint8(c.G*255 + 0.5), uint8(c.B*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Material describes a surface for Shade.
type Material struct {
	Color              RGB
	Metalness          float64
	Roughness          float64
	Clearcoat          float64
	ClearcoatRoughness float64
}

// PointLight shines equally in every direction.
type PointLight struct {
	Position  Vec3
	Color     RGB
	Intensity float64
}

// SpotLight shines in a cone from Position towards Target. Angle is the cone
// half-angle in radians; Penumbra in [0,1] softens its edge.
type SpotLight struct {
	Position  Vec3
	Target    Vec3
	Color     RGB
	Intensity float64
	Angle     float64
	Penumbra  float64
}

// Lighting is the set of lights in a scene.
type Lighting struct {
	Ambient RGB
	Points  []PointLight
	Spots   []SpotLight
}

// Shade returns the flat-shaded colour of a surface point p with normal n seen from eye.
func (l Lighting) Shade(m Material, p, n, eye Vec3) RGB {
	n = n.Normalize()
	view := eye.Sub(p).Normalize()
	out := l.Ambient.Mul(m.Color)

	add := func(dir Vec3, radiance RGB) {
		ndl := n.Dot(dir)
		if ndl <= 0 {
			return
		}
		diffuse := m.Color.Scale((1 - m.Metalness) * ndl)
		out = out.Add(diffuse.Mul(radiance))

		half := dir.Add(view).Normalize()
		ndh := math.Max(0, n.Dot(half))
		specColor := RGB{0.04, 0.04, 0.04}.Lerp(m.Color, m.Metalness)
		out = out.Add(specColor.Mul(radiance).Scale(math.Pow(ndh, shininess(m.Roughness))))
		if m.Clearcoat > 0 {
			cc := 0.04 * m.Clearcoat * math.Pow(ndh, shininess(m.ClearcoatRoughness))
			out = out.Add(radiance.Scale(cc))
		}
	}

	for _, pl := range l.Points {
		add(pl.Position.Sub(p).Normalize(), pl.Color.Scale(pl.Intensity))
	}
	for _, sl := range l.Spots {
		dir := sl.Position.Sub(p).Normalize()
		axis := sl.Target.Sub(sl.Position).Normalize()
		cosTheta := dir.Scale(-1).Dot(axis)
		outer := math.Cos(sl.Angle)
		inner := math.Cos(sl.Angle * (1 - sl.Penumbra))
		cone := smoothstep(outer, inner, cosTheta)
		if cone <= 0 {
			continue
		}
		add(dir, sl.Color.Scale(sl.Intensity*cone))
	}
	return out.Clamp()
}

// shininess converts roughness to a Blinn-Phong exponent
func shininess(roughness float64) float64 {
	r := math.Max(roughness, 0.05)
	return 2/(r*r) - 2 + 1
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge1 == edge0 {
		if x >= edge1 {
			return 1
		}
		return 0
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
