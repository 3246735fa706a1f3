package cubes

import "math"

// AutoPilot returns the simulated focus position and its current target
func (e *Effect) AutoPilot() (pos, target Focus) {
	if e == nil {
		return Focus{}, Focus{}
	}
	return e.autoPos, e.autoTarget
}

// AutoAnimating reports whether the auto-pilot schedule is running
func (e *Effect) AutoAnimating() bool {
	return e != nil && e.autoOn
}

// SetAutoAnimate starts or stops the auto-pilot schedule.
func (e *Effect) SetAutoAnimate(on bool) {
	if e == nil || on == e.autoOn {
		return
	}
	if on {
		e.startAutoPilot()
		return
	}
	e.autoOn = false
	e.loop.CancelFrame(e.autoFrame)
	e.autoFrame = 0
}

// SetRipple enables or disables click ripples
func (e *Effect) SetRipple(on bool) {
	if e == nil {
		return
	}
	e.opts.Ripple = on
}

func (e *Effect) randomFocus() Focus {
	n := float64(e.grid.Size())
	return Focus{Row: e.rng.Float64() * n, Col: e.rng.Float64() * n}
}

func (e *Effect) startAutoPilot() {
	e.autoOn = true
	e.autoPos = e.randomFocus()
	e.autoTarget = e.randomFocus()
	e.autoFrame = e.loop.RequestFrame(e.autoStep)
}

// autoStep runs once per frame for as long as the auto-pilot is on. It always
// reschedules itself; the interpolation is skipped while the viewer is active.
func (e *Effect) autoStep() {
	if !e.autoOn {
		return
	}
	if !e.userActive {
		e.autoPos = StepToward(e.autoPos, e.autoTarget, e.opts.AutoStep)
		e.TiltAt(e.autoPos)
		if distance(e.autoPos, e.autoTarget) < e.opts.AutoSnap {
			e.autoTarget = e.randomFocus()
		}
	}
	e.autoFrame = e.loop.RequestFrame(e.autoStep)
}

// StepToward moves pos a fraction of the way to target
func StepToward(pos, target Focus, fraction float64) Focus {
	return Focus{
		Row: pos.Row + (target.Row-pos.Row)*fraction,
		Col: pos.Col + (target.Col-pos.Col)*fraction,
	}
}

// StepsToConverge returns how many StepToward calls bring pos within snap of
// target, or -1 if it takes more than limit.
func StepsToConverge(pos, target Focus, fraction, snap float64, limit int) int {
	for i := 0; i <= limit; i++ {
		if distance(pos, target) < snap {
			return i
		}
		pos = StepToward(pos, target, fraction)
	}
	return -1
}

func distance(a, b Focus) float64 {
	return math.Hypot(a.Row-b.Row, a.Col-b.Col)
}
