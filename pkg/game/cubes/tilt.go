package cubes

import (
	"math"

	"cubefield/pkg/engine/tween"
)

// TiltTarget is the absolute rotation a cell should animate towards.
type TiltTarget struct {
	RotateX float64
	RotateY float64

	// Inside is true when the cell is within the radius (enter tween),
	// false when it returns to neutral (leave tween).
	Inside bool
}

// TiltFor computes the target rotation of the cell at (row, col) for a focus point.
// Cells within radius lean by (1 - dist/radius) * maxAngle; all others are neutral.
func TiltFor(row, col int, focus Focus, radius, maxAngle float64) TiltTarget {
	dist := math.Hypot(float64(row)-focus.Row, float64(col)-focus.Col)
	if dist <= radius {
		angle := (1 - dist/radius) * maxAngle
		return TiltTarget{RotateX: -angle, RotateY: angle, Inside: true}
	}
	return TiltTarget{}
}

// TiltPlan returns the target for every cell in row-major order. It is a pure
// function of the focus point and the grid size.
func TiltPlan(size int, focus Focus, radius, maxAngle float64) []TiltTarget {
	if size <= 0 {
		return nil
	}
	plan := make([]TiltTarget, 0, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			plan = append(plan, TiltFor(r, c, focus, radius, maxAngle))
		}
	}
	return plan
}

// TiltAt retargets every cell towards the rotation implied by focus, overwriting
// any in-flight rotation tween on the cell.
func (e *Effect) TiltAt(focus Focus) {
	if e == nil {
		return
	}
	e.focus, e.hasFocus = focus, true
	plan := TiltPlan(e.grid.Size(), focus, e.opts.Radius, e.opts.MaxAngle)
	for i, cell := range e.grid.Cells() {
		t := plan[i]
		opts := tween.Options{Duration: e.opts.Enter, Ease: e.opts.Ease, Overwrite: true}
		if !t.Inside {
			opts = tween.Options{Duration: e.opts.Leave, Ease: leaveEase, Overwrite: true}
		}
		e.tweens.To(cell, cell.Rotation(), []float64{t.RotateX, t.RotateY}, opts)
	}
}

// ResetAll returns every cell to neutral over the leave duration. Unlike TiltAt
// it does not overwrite in-flight tweens; being newer, it wins while they overlap.
func (e *Effect) ResetAll() {
	if e == nil {
		return
	}
	for _, cell := range e.grid.Cells() {
		e.tweens.To(cell, cell.Rotation(), []float64{0, 0}, tween.Options{
			Duration: e.opts.Leave,
			Ease:     leaveEase,
		})
	}
}
