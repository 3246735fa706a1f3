package ebiten

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/zyedidia/generic/mapset"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"cubefield/pkg/game/state"
)

// New creates a new Ebiten renderer for a window of the given size
func New(width, height int, title string) *EbitenRenderer {
	if width <= 0 {
		width = 960
	}
	if height <= 0 {
		height = 720
	}
	return &EbitenRenderer{
		windowWidth:  width,
		windowHeight: height,
		title:        title,
		touches:      mapset.New[ebiten.TouchID](),
		dialogResult: make(chan dialogResult, 1),
	}
}

// Name returns the -renderer value for this backend
func (e *EbitenRenderer) Name() string { return "ebiten" }

// Init loads the fonts. Run calls it; it is safe to call twice.
func (e *EbitenRenderer) Init() error {
	if e.sansFontSource != nil {
		return nil
	}
	sans, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return fmt.Errorf("load bold font: %w", err)
	}
	e.sansFontSource = sans
	e.sansBoldFontSource = bold
	return nil
}

// Session returns the session being shown
func (e *EbitenRenderer) Session() *state.Session {
	return e.session
}

// Run opens the window and blocks until it is closed, the viewer quits or ctx ends.
func (e *EbitenRenderer) Run(ctx context.Context, s *state.Session) error {
	if err := e.Init(); err != nil {
		return err
	}
	e.ctx = ctx
	e.session = s
	s.Resize(float64(e.windowWidth), float64(e.windowHeight))

	ebiten.SetWindowSize(e.windowWidth, e.windowHeight)
	ebiten.SetWindowTitle(e.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(e); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
