package renderer

import (
	"context"

	"cubefield/pkg/game/state"
)

// Renderer defines the interface for display backends.
// Implementations include the ebiten window, the tcell terminal and a headless runner.
type Renderer interface {
	// Run drives the session until the viewer quits, ctx is cancelled or the
	// backend fails. It owns the session for the duration of the call.
	Run(ctx context.Context, s *state.Session) error

	// Name is the value of the -renderer flag that selects this backend
	Name() string
}

// Current holds the active renderer instance
var Current Renderer

// SetRenderer sets the active renderer
func SetRenderer(r Renderer) {
	Current = r
}

// Run runs the session on the current renderer. Without one it returns at once.
func Run(ctx context.Context, s *state.Session) error {
	if Current == nil {
		return nil
	}
	return Current.Run(ctx, s)
}
