// Package ebiten provides the Ebiten-based window renderer for the cube field.
package ebiten

import (
	"context"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/zyedidia/generic/mapset"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/input"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/state"
)

// dialogResult is what the config file dialog returns to the game loop
type dialogResult struct {
	path string
	err  error
}

// EbitenRenderer is the Ebiten-based graphical renderer
type EbitenRenderer struct {
	ctx context.Context

	// Window dimensions
	windowWidth  int
	windowHeight int
	title        string

	// Current session. Replaced when a config file is opened.
	session *state.Session

	// Font sources for text rendering
	sansFontSource     *text.GoTextFaceSource // UI text
	sansBoldFontSource *text.GoTextFaceSource // titles

	// Cached font faces (recreated when the window height changes)
	cachedUIFontSize    float64
	cachedTitleFontSize float64
	cachedSansFace      *text.GoTextFace
	cachedTitleFace     *text.GoTextFace
	cachedSubtitleFace  *text.GoTextFace

	// Frame captured at the end of Update, drawn by Draw
	snapshot      renderer.Frame
	snapshotValid bool
	snapshotMutex sync.RWMutex

	// Mouse edge tracking
	pointer input.PointerTracker

	// Active touches and the primary touch position
	touches     mapset.Set[ebiten.TouchID]
	touchStart  geom.Vec2
	touchLast   geom.Vec2
	touchMoved  bool
	touchActive bool

	// Config dialog runs on its own goroutine and reports here
	dialogOpen   bool
	dialogResult chan dialogResult

	// Flag to track if we've logged window opening
	windowOpenedLogged bool
}
