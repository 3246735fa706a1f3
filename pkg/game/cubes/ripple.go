package cubes

import (
	"math"
	"time"

	g "github.com/zyedidia/generic"
	"github.com/zyedidia/generic/avl"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/engine/tween"
)

// RingMap groups cells by rounded distance from a hit cell, ordered by ring.
type RingMap = avl.Tree[int, []*grid.Cell]

// Rings buckets every cell of gr by round(hypot(row-hitRow, col-hitCol)).
// Rounding is half away from zero; distances are never negative so this is the
// familiar round-half-up.
func Rings(gr *grid.Grid, hitRow, hitCol int) *RingMap {
	rings := avl.New[int, []*grid.Cell](g.Less[int])
	gr.ForEachCell(func(row, col int, cell *grid.Cell) {
		ring := int(math.Round(math.Hypot(float64(row-hitRow), float64(col-hitCol))))
		cells, _ := rings.Get(ring)
		rings.Put(ring, append(cells, cell))
	})
	return rings
}

// RippleTiming is the schedule of one ring
type RippleTiming struct {
	FlashDelay time.Duration
	FadeDelay  time.Duration
	Duration   time.Duration
}

// RingTiming computes when ring k flashes and fades back. All base durations are
// divided by speed.
func RingTiming(k int, ringDelay, anim, hold time.Duration, speed float64) RippleTiming {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) / speed)
	}
	delay := time.Duration(k) * scale(ringDelay)
	dur := scale(anim)
	return RippleTiming{
		FlashDelay: delay,
		FadeDelay:  delay + dur + scale(hold),
		Duration:   dur,
	}
}

// rippleKey identifies the tweens of one ring of one ripple
type rippleKey struct {
	ripple uint64
	ring   int
}

// Ripple flashes rings of cells outwards from the cell under (x, y).
// No-op when ripples are disabled.
func (e *Effect) Ripple(x, y float64) {
	if e == nil || !e.opts.Ripple {
		return
	}
	focus, ok := e.toGrid(x, y)
	if !ok {
		return
	}
	hitRow, hitCol := int(math.Floor(focus.Row)), int(math.Floor(focus.Col))
	e.RippleAt(hitRow, hitCol)
}

// RippleAt schedules the ripple tweens for a hit at cell (hitRow, hitCol).
func (e *Effect) RippleAt(hitRow, hitCol int) {
	if e == nil || !e.opts.Ripple {
		return
	}
	e.ripples++
	id := e.ripples
	count := 0
	Rings(e.grid, hitRow, hitCol).Each(func(ring int, cells []*grid.Cell) {
		timing := RingTiming(ring, e.opts.RingDelay, e.opts.RippleDuration, e.opts.RippleHold, e.opts.RippleSpeed)
		var fields []*float64
		for _, cell := range cells {
			for i := range cell.Faces {
				fields = append(fields, cell.Faces[i].Channels()...)
			}
		}
		key := rippleKey{ripple: id, ring: ring}
		e.tweens.To(key, fields, e.rippleRGBA, tween.Options{
			Duration: timing.Duration,
			Delay:    timing.FlashDelay,
			Ease:     leaveEase,
		})
		e.tweens.To(key, fields, e.faceBase, tween.Options{
			Duration: timing.Duration,
			Delay:    timing.FadeDelay,
			Ease:     leaveEase,
		})
		count++
	})
	e.debugf("ripple at (%d, %d), %d rings", hitRow, hitCol, count)
	if e.OnRipple != nil {
		e.OnRipple(hitRow, hitCol)
	}
}
