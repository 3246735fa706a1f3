package cubes

import (
	"cubefield/pkg/engine/input"
	"cubefield/pkg/engine/loop"
)

// HandlePointer dispatches a pointer or touch event to the matching handler.
// Coordinates are in viewport units.
func (e *Effect) HandlePointer(ev input.PointerEvent) {
	if e == nil {
		return
	}
	switch ev.Kind {
	case input.PointerMove, input.TouchMove:
		if !ev.HasPoint {
			return
		}
		e.OnMove(ev.X, ev.Y)
	case input.PointerLeave:
		e.ResetAll()
	case input.TouchStart:
		e.OnTouchStart()
	case input.TouchEnd:
		e.ResetAll()
	case input.PointerClick:
		if !ev.HasPoint {
			return
		}
		e.Ripple(ev.X, ev.Y)
	}
}

// OnMove marks the viewer active, coalesces tilt updates to one per frame and
// restarts the idle countdown.
func (e *Effect) OnMove(x, y float64) {
	if e == nil {
		return
	}
	focus, ok := e.toGrid(x, y)
	if !ok {
		return
	}
	e.userActive = true

	e.loop.CancelFrame(e.pendingFrame)
	e.pendingFrame = e.loop.RequestFrame(func() {
		e.pendingFrame = 0
		e.TiltAt(focus)
	})

	e.restartIdle()
	e.debugf("move (%.2f, %.2f) -> row %.2f col %.2f", x, y, focus.Row, focus.Col)
}

// OnTouchStart marks the viewer active. The idle countdown is (re)started too, so
// a tap that never moves still hands control back to the auto-pilot.
func (e *Effect) OnTouchStart() {
	if e == nil {
		return
	}
	e.userActive = true
	e.restartIdle()
}

func (e *Effect) restartIdle() {
	e.loop.ClearTimer(e.idleTimer)
	e.idleTimer = e.loop.SetTimeout(e.opts.IdleTimeout, func() {
		e.idleTimer = 0
		e.userActive = false
		e.debugf("idle, auto-pilot resumes")
	})
}

// PendingFrame returns the token of the queued tilt update, or zero
func (e *Effect) PendingFrame() loop.FrameID {
	if e == nil {
		return 0
	}
	return e.pendingFrame
}
