package state

import (
	"log"
	"math/rand"
	"time"

	"cubefield/pkg/engine/input"
	"cubefield/pkg/engine/loop"
	"cubefield/pkg/engine/tween"
	"cubefield/pkg/game/config"
	"cubefield/pkg/game/cubes"
	"cubefield/pkg/game/i18n"
	"cubefield/pkg/game/loader"
	"cubefield/pkg/game/page"
)

// messageLifetime is how long a status message stays on screen
const messageLifetime = 2 * time.Second

// Chime is the ripple sound. *sound.Chime satisfies it.
type Chime interface {
	Initialize() error
	Enabled() bool
	SetEnabled(on bool)
	Play()
}

// Options are per-run settings that are not part of the config file
type Options struct {
	Seed   int64
	Width  float64
	Height float64
	Debug  bool
	Chime  Chime
}

// Session is everything one page view owns: the scheduler, tweens, the document
// and the effects mounted into it. All methods must be called from the goroutine
// that calls Step.
type Session struct {
	Config *config.Config
	Loop   *loop.Loop
	Tweens *tween.Manager
	Page   *page.Document
	Cubes  *cubes.Effect
	Cube   *loader.CubeScene
	Honey  *loader.Honey

	// Messages are short-lived status lines, newest last
	Messages []string

	// Quit is set once the viewer asked to leave
	Quit bool

	opts Options
	rng  *rand.Rand
}

// New builds a session for cfg and lays it out for the options' viewport.
func New(cfg *config.Config, opts Options) *Session {
	if cfg == nil {
		c := *config.Current()
		cfg = &c
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	s := &Session{
		Config: cfg,
		Loop:   loop.New(),
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
	s.Tweens = tween.NewManager(s.Loop)

	scrollEase, _ := tween.ParseEase(cfg.ScrollEase)
	s.Page = page.New(s.Tweens, page.Options{
		Sections:       cfg.Sections,
		ScrollDuration: cfg.ScrollDuration,
		ScrollEase:     scrollEase,
	})
	s.Page.Layout(opts.Width, opts.Height)

	s.Cubes = cubes.Mount(s.Page, s.Loop, s.Tweens, s.rng, cubes.OptionsFrom(cfg))
	if s.Cubes != nil {
		s.Cubes.Debug = opts.Debug
		s.Cubes.OnRipple = s.onRipple
	}

	switch cfg.Loader {
	case config.LoaderCube:
		s.Page.Remove(page.IDLoader)
		s.Cube = loader.NewCubeScene(s.Page, s.Loop, s.Tweens, s.rng, loader.CubeOptions{
			MinView: cfg.LoaderMinView,
			Fade:    cfg.LoaderFade,
		})
		s.Cube.Start()
		s.Cube.PageLoaded()
	case config.LoaderHoney:
		s.Page.Remove(page.IDLoaderContainer)
		s.Honey = loader.NewHoney(s.Page, s.Loop, loader.HoneyOptions{
			Fill:   cfg.HoneyFill,
			Tick:   cfg.HoneyTick,
			Reveal: cfg.HoneyReveal,
		})
		s.Honey.Start()
	default:
		s.Page.Remove(page.IDLoader)
		s.Page.Remove(page.IDLoaderContainer)
	}
	return s
}

// Rebuild returns a fresh session for the active configuration (config.Current)
// with the same viewport and sound, without a loader.
func (s *Session) Rebuild() *Session {
	c := *config.Current()
	c.Loader = config.LoaderNone
	opts := s.opts
	opts.Width, opts.Height = s.Page.Viewport()
	opts.Seed = s.rng.Int63()
	return New(&c, opts)
}

// Step advances the session by one frame of dt: timers and frame callbacks run
// first, then every tween is written for the new time.
func (s *Session) Step(dt time.Duration) {
	s.Loop.Advance(dt)
	s.Tweens.Update()
}

// Resize lays the document out for a new viewport
func (s *Session) Resize(w, h float64) {
	pw, ph := s.Page.Viewport()
	if pw == w && ph == h {
		return
	}
	s.Page.Layout(w, h)
	s.Cube.Resize(w, h)
}

// LoaderVisible reports whether a loader still covers the page
func (s *Session) LoaderVisible() bool {
	if s.Cube != nil && !s.Cube.Finished() {
		return true
	}
	return s.Honey != nil && !s.Honey.Finished()
}

// HandlePointer forwards pointer and touch input to the cube field. The cube
// loader overlay swallows input while it is on screen.
func (s *Session) HandlePointer(ev input.PointerEvent) {
	if s.Cube != nil && !s.Cube.Finished() {
		return
	}
	s.Cubes.HandlePointer(ev)
}

// HandleIntent applies a keyboard intent. OpenConfig is left to the renderer,
// which owns the dialog; it reports false for intents it did not handle.
func (s *Session) HandleIntent(intent input.Intent) bool {
	switch intent.Action {
	case input.ActionQuit:
		s.Quit = true
	case input.ActionToggleAutoAnimate:
		on := !s.Cubes.AutoAnimating()
		s.Cubes.SetAutoAnimate(on)
		s.AddMessage(onOff(on, "AUTO_ON", "AUTO_OFF"))
	case input.ActionToggleRipple:
		s.Config.Ripple = !s.Config.Ripple
		s.Cubes.SetRipple(s.Config.Ripple)
		s.AddMessage(onOff(s.Config.Ripple, "RIPPLE_ON", "RIPPLE_OFF"))
	case input.ActionToggleSound:
		s.toggleSound()
	case input.ActionScrollTop:
		s.Page.ScrollTo("#" + page.IDTop)
	default:
		if i := input.SectionIndex(intent.Action); i >= 0 {
			s.Page.ScrollToSection(i)
			return true
		}
		return false
	}
	return true
}

func (s *Session) toggleSound() {
	c := s.opts.Chime
	if c == nil {
		s.AddMessage(i18n.T("SOUND_UNAVAILABLE"))
		return
	}
	if c.Enabled() {
		c.SetEnabled(false)
		s.Config.Sound = false
		s.AddMessage(i18n.T("SOUND_OFF"))
		return
	}
	if err := c.Initialize(); err != nil {
		s.AddMessage(i18n.T("SOUND_UNAVAILABLE"))
		return
	}
	c.SetEnabled(true)
	s.Config.Sound = true
	s.AddMessage(i18n.T("SOUND_ON"))
}

func (s *Session) onRipple(row, col int) {
	if s.opts.Debug {
		log.Printf("ripple at cell (%d, %d)", row, col)
	}
	if c := s.opts.Chime; c != nil && c.Enabled() {
		c.Play()
	}
}

// AddMessage shows a status line for a couple of seconds
func (s *Session) AddMessage(msg string) {
	const maxMessages = 3
	s.Messages = append(s.Messages, msg)
	if len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
	s.Loop.SetTimeout(messageLifetime, func() {
		if len(s.Messages) > 0 && s.Messages[0] == msg {
			s.Messages = s.Messages[1:]
		}
	})
}

func onOff(on bool, onKey, offKey string) string {
	if on {
		return i18n.T(onKey)
	}
	return i18n.T(offKey)
}
