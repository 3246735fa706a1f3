package ebiten

import (
	"image/color"
	"math"
	"time"
)

// pulse returns a value oscillating smoothly between lo and hi with the given period
func pulse(now, period time.Duration, lo, hi float64) float64 {
	if period <= 0 {
		return hi
	}
	phase := float64(now%period) / float64(period)
	v := (math.Sin(phase*2*math.Pi) + 1.0) / 2.0 // 0.0 to 1.0
	return lo + (hi-lo)*v
}

// getPulsingCaptionColor returns the honey loader caption colour, breathing
// between 60% and 100% brightness every 1.2 seconds of session time.
func (e *EbitenRenderer) getPulsingCaptionColor() color.Color {
	var now time.Duration
	if e.session != nil {
		now = e.session.Loop.Now()
	}
	brightness := pulse(now, 1200*time.Millisecond, 0.6, 1.0)

	base := colorHoneyCaption
	return color.NRGBA{
		R: uint8(float64(base.R) * brightness),
		G: uint8(float64(base.G) * brightness),
		B: uint8(float64(base.B) * brightness),
		A: base.A,
	}
}

// fade scales a colour's alpha by opacity
func fade(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}
