package ebiten

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// appendRoundedRect adds a rounded rectangle to the path. (x, y) is top-left; w, h are size; r is corner radius.
// Uses clockwise arcs so the path winds correctly for fill.
func appendRoundedRect(p *vector.Path, x, y, w, h, r float32) {
	appendRoundedRectDir(p, x, y, w, h, r, vector.Clockwise)
}

// appendRoundedRectDir adds a rounded rectangle with the given winding direction.
// CounterClockwise creates a hole when combined with an outer clockwise rect.
func appendRoundedRectDir(p *vector.Path, x, y, w, h, r float32, dir vector.Direction) {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	if r <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x, y+h)
		p.LineTo(x+w, y+h)
		p.LineTo(x+w, y)
		p.Close()
		return
	}
	halfPi := float32(math.Pi / 2)
	pi := float32(math.Pi)
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, 3*halfPi, 0, dir)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, halfPi, dir)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, halfPi, pi, dir)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, pi, 3*halfPi, dir)
	p.Close()
}

// drawRoundedRect fills a rounded rectangle
func drawRoundedRect(screen *ebiten.Image, x, y, w, h, r float32, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	var path vector.Path
	appendRoundedRect(&path, x, y, w, h, r)
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(c)
	vector.FillPath(screen, &path, nil, opts)
}

// drawRoundedRectWithShadow draws a rounded rectangle with drop shadow, fill, and border.
// alpha scales shadow opacity. Shadow colour is derived from borderColor (darkened to ~15% brightness).
func drawRoundedRectWithShadow(screen *ebiten.Image, x, y, w, h, cornerRadius, borderWidth float32, bgColor, borderColor color.Color, alpha float32) {
	const shadowSpread = 8
	bor, bog, bob, _ := borderColor.RGBA()
	shadowR := max(uint8((bor>>8)*15/255), 8)
	shadowG := max(uint8((bog>>8)*15/255), 8)
	shadowB := max(uint8((bob>>8)*15/255), 8)

	var path vector.Path
	for i := shadowSpread; i >= 1; i-- {
		ringAlpha := uint8(float32(min(12+i*8, 55)) * alpha)
		path.Reset()
		appendRoundedRect(&path,
			x-float32(i), y-float32(i),
			w+float32(i*2), h+float32(i*2),
			cornerRadius+float32(i))
		appendRoundedRectDir(&path,
			x-float32(i-1), y-float32(i-1),
			w+float32((i-1)*2), h+float32((i-1)*2),
			cornerRadius+float32(i-1), vector.CounterClockwise)
		drawOpts := &vector.DrawPathOptions{AntiAlias: true}
		drawOpts.ColorScale.ScaleWithColor(color.RGBA{shadowR, shadowG, shadowB, ringAlpha})
		vector.FillPath(screen, &path, nil, drawOpts)
	}

	drawRoundedRect(screen, x, y, w, h, cornerRadius, bgColor)

	path.Reset()
	appendRoundedRect(&path, x, y, w, h, cornerRadius)
	strokeOpts := &vector.StrokeOptions{Width: borderWidth, MiterLimit: 10}
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(borderColor)
	vector.StrokePath(screen, &path, strokeOpts, drawOpts)
}
