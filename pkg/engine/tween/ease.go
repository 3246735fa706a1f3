package tween

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/fogleman/ease"
)

// Ease maps linear progress in [0,1] to eased progress. Ease(0) == 0 and Ease(1) == 1.
type Ease func(p float64) float64

// ErrUnknownEase is returned by ParseEase for names it does not recognise.
var ErrUnknownEase = errors.New("unknown ease")

// Linear is the identity ease.
func Linear(p float64) float64 { return p }

// curves holds the three variants of one ease family
type curves struct {
	in, out, inOut Ease
}

// families maps a family name to its curves. powerN follows the usual
// animation-library convention: power1 is quadratic, power3 quartic.
var families = map[string]curves{
	"power0":  {Linear, Linear, Linear},
	"power1":  {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"power2":  {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"power3":  {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"power4":  {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"quad":    {ease.InQuad, ease.OutQuad, ease.InOutQuad},
	"cubic":   {ease.InCubic, ease.OutCubic, ease.InOutCubic},
	"quart":   {ease.InQuart, ease.OutQuart, ease.InOutQuart},
	"quint":   {ease.InQuint, ease.OutQuint, ease.InOutQuint},
	"sine":    {ease.InSine, ease.OutSine, ease.InOutSine},
	"expo":    {ease.InExpo, ease.OutExpo, ease.InOutExpo},
	"circ":    {ease.InCirc, ease.OutCirc, ease.InOutCirc},
	"back":    {ease.InBack, ease.OutBack, ease.InOutBack},
	"elastic": {ease.InElastic, ease.OutElastic, ease.InOutElastic},
	"bounce":  {ease.InBounce, ease.OutBounce, ease.InOutBounce},
}

// ParseEase resolves names like "power3.out", "sine.inOut", "linear", "none" or
// "spring". A family without a suffix defaults to ".out".
func ParseEase(name string) (Ease, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "none", "linear":
		return Linear, nil
	case "spring":
		return Spring, nil
	}

	family, variant, found := strings.Cut(n, ".")
	if !found {
		variant = "out"
	}
	c, ok := families[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	switch variant {
	case "in":
		return c.in, nil
	case "out":
		return c.out, nil
	case "inout":
		return c.inOut, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}

// MustEase is ParseEase for names known at compile time.
func MustEase(name string) Ease {
	e, err := ParseEase(name)
	if err != nil {
		panic(err)
	}
	return e
}

const springSamples = 120

// springCurve is a damped spring sampled over unit time, settling on 1.
var springCurve = buildSpringCurve()

func buildSpringCurve() []float64 {
	s := harmonica.NewSpring(harmonica.FPS(springSamples), 12.0, 0.45)
	curve := make([]float64, springSamples+1)
	pos, vel := 0.0, 0.0
	for i := 1; i <= springSamples; i++ {
		pos, vel = s.Update(pos, vel, 1.0)
		curve[i] = pos
	}
	curve[springSamples] = 1
	return curve
}

// Spring is an overshooting ease backed by a damped harmonic oscillator.
func Spring(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	f := p * springSamples
	i := int(f)
	frac := f - float64(i)
	return springCurve[i] + (springCurve[i+1]-springCurve[i])*frac
}
