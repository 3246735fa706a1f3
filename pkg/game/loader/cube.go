// Package loader holds the two loading screens shown before the cube field: a
// slowly turning 3x3x3 block of dark cubies and a honey-fill progress bar.
package loader

import (
	"log"
	"math"
	"math/rand"
	"sort"
	"time"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/loop"
	"cubefield/pkg/engine/tween"
	"cubefield/pkg/game/page"
)

const (
	cubieSize    = 0.95
	cubieSpacing = 1.0
	spinX        = 0.005
	spinY        = 0.01
)

// Materials a cubie may be given
var Materials = []geom.Material{
	{Color: geom.Hex(0x111111), Metalness: 0.1, Roughness: 0.1, Clearcoat: 1, ClearcoatRoughness: 0.1},
	{Color: geom.Hex(0x050505), Metalness: 0, Roughness: 0.9},
	{Color: geom.Hex(0x222222), Metalness: 0.8, Roughness: 0.4},
}

// Background is the scene's clear colour
var Background = geom.Hex(0x000000)

// Cubie is one block of the group
type Cubie struct {
	Offset   geom.Vec3
	Material geom.Material
}

// Quad is a shaded, projected face ready to fill
type Quad struct {
	Points [4]geom.Vec2
	Depth  float64
	Color  geom.RGB
}

// CubeOptions control the scene's exit
type CubeOptions struct {
	MinView time.Duration
	Fade    time.Duration
}

// CubeScene is the rotating block shown in the loader container.
type CubeScene struct {
	cubies    []Cubie
	camera    geom.Camera
	lights    geom.Lighting
	container *page.Element
	loop      *loop.Loop
	tweens    *tween.Manager
	opts      CubeOptions

	// Group rotation in radians, advanced every frame
	RotX, RotY float64

	frame    loop.FrameID
	started  bool
	finished bool

	// OnFinished runs once the container has been hidden
	OnFinished func()
}

// NewCubeScene builds the block inside the loader container. Returns nil when
// the document has no loader container.
func NewCubeScene(doc *page.Document, l *loop.Loop, tw *tween.Manager, rng *rand.Rand, opts CubeOptions) *CubeScene {
	if doc == nil {
		return nil
	}
	container := doc.ElementByID(page.IDLoaderContainer)
	if container == nil {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &CubeScene{
		container: container,
		loop:      l,
		tweens:    tw,
		opts:      opts,
		camera:    geom.NewPerspective(45, 1, 0.1, 1000, geom.V3(0, 2, 8)),
		lights: geom.Lighting{
			Ambient: geom.Hex(0x222222),
			Points: []geom.PointLight{
				{Position: geom.V3(-10, 0, -10), Color: geom.Hex(0x4444ff), Intensity: 0.5},
			},
			Spots: []geom.SpotLight{
				{Position: geom.V3(10, 20, 10), Color: geom.Hex(0xffffff), Intensity: 1.5, Angle: math.Pi / 4, Penumbra: 0.1},
			},
		},
	}
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				s.cubies = append(s.cubies, Cubie{
					Offset:   geom.V3(float64(x), float64(y), float64(z)).Scale(cubieSpacing),
					Material: Materials[rng.Intn(len(Materials))],
				})
			}
		}
	}
	s.camera.SetAspect(container.Bounds.W, container.Bounds.H)
	return s
}

// Cubies returns the blocks of the group
func (s *CubeScene) Cubies() []Cubie {
	if s == nil {
		return nil
	}
	return s.cubies
}

// Camera returns the scene camera
func (s *CubeScene) Camera() geom.Camera {
	return s.camera
}

// Resize updates the camera aspect after the viewport changed
func (s *CubeScene) Resize(w, h float64) {
	if s == nil {
		return
	}
	s.camera.SetAspect(w, h)
}

// Start begins the per-frame rotation.
func (s *CubeScene) Start() {
	if s == nil || s.started {
		return
	}
	s.started = true
	s.frame = s.loop.RequestFrame(s.animate)
}

func (s *CubeScene) animate() {
	if s.finished {
		return
	}
	s.RotX += spinX
	s.RotY += spinY
	s.frame = s.loop.RequestFrame(s.animate)
}

// PageLoaded starts the exit: after the minimum view time the container fades
// out, then is hidden and the rotation stops.
func (s *CubeScene) PageLoaded() {
	if s == nil {
		return
	}
	s.loop.SetTimeout(s.opts.MinView, func() {
		s.tweens.To(s.container, []*float64{&s.container.Opacity}, []float64{0}, tween.Options{
			Duration:  s.opts.Fade,
			Ease:      tween.MustEase("sine.inOut"),
			Overwrite: true,
		})
		s.loop.SetTimeout(s.opts.Fade, func() {
			s.container.Hidden = true
			s.finished = true
			s.loop.CancelFrame(s.frame)
			s.frame = 0
			log.Printf("Loader finished")
			if s.OnFinished != nil {
				s.OnFinished()
			}
		})
	})
}

// Finished reports whether the loader has been hidden
func (s *CubeScene) Finished() bool {
	return s == nil || s.finished
}

// Opacity returns the container opacity
func (s *CubeScene) Opacity() float64 {
	if s == nil {
		return 0
	}
	return s.container.Opacity
}

// Quads projects the visible faces of every cubie into a w x h viewport,
// shaded and sorted back to front.
func (s *CubeScene) Quads(w, h float64) []Quad {
	if s == nil || w <= 0 || h <= 0 {
		return nil
	}
	rot := geom.RotationX(s.RotX).Mul(geom.RotationY(s.RotY))
	box := geom.Box(cubieSize / 2)
	eye := s.camera.Position
	out := make([]Quad, 0, len(s.cubies)*3)

	for _, c := range s.cubies {
		for _, f := range box {
			normal := rot.Apply(f.Normal)
			centre := rot.Apply(c.Offset.Add(f.Normal.Scale(cubieSize / 2)))
			if normal.Dot(eye.Sub(centre)) <= 0 {
				continue
			}
			var q Quad
			visible := true
			for i, corner := range f.Corners {
				p := rot.Apply(c.Offset.Add(corner))
				sp, depth, ok := s.camera.Project(p, w, h)
				if !ok {
					visible = false
					break
				}
				q.Points[i] = sp
				q.Depth += depth / 4
			}
			if !visible {
				continue
			}
			q.Color = s.lights.Shade(c.Material, centre, normal, eye)
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}
