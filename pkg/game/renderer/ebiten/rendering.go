package ebiten

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/renderer"
)

// captureSnapshot freezes the session for the next Draw
func (e *EbitenRenderer) captureSnapshot() {
	f := renderer.Snapshot(e.session)
	e.snapshotMutex.Lock()
	e.snapshot = f
	e.snapshotValid = true
	e.snapshotMutex.Unlock()
}

// Draw renders the last captured frame to the screen (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	e.snapshotMutex.RLock()
	snap := e.snapshot
	valid := e.snapshotValid
	e.snapshotMutex.RUnlock()

	if !valid || e.sansFontSource == nil {
		// Can't draw without a frame or fonts
		return
	}

	for _, q := range snap.Faces {
		fillQuad(screen, q.Points, colors.NRGBA(q.Fill))
		if q.BorderWidth > 0 {
			strokeQuad(screen, q.Points, float32(q.BorderWidth), colors.NRGBA(q.Border))
		}
	}

	for _, l := range snap.Labels {
		e.drawLabel(screen, l)
	}

	if snap.LoaderVisible {
		e.drawCubeLoader(screen, &snap)
	}
	if snap.Honey != nil {
		e.drawHoney(screen, snap.Honey)
	}

	e.drawHUD(screen, &snap)
}

// quadPath appends a closed quad to p
func quadPath(p *vector.Path, pts [4]geom.Vec2) {
	p.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, pt := range pts[1:] {
		p.LineTo(float32(pt.X), float32(pt.Y))
	}
	p.Close()
}

func fillQuad(screen *ebiten.Image, pts [4]geom.Vec2, c color.Color) {
	var path vector.Path
	quadPath(&path, pts)
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(c)
	vector.FillPath(screen, &path, nil, opts)
}

func strokeQuad(screen *ebiten.Image, pts [4]geom.Vec2, width float32, c color.Color) {
	var path vector.Path
	quadPath(&path, pts)
	opts := &vector.DrawPathOptions{AntiAlias: true}
	opts.ColorScale.ScaleWithColor(c)
	vector.StrokePath(screen, &path, &vector.StrokeOptions{Width: width, MiterLimit: 10}, opts)
}

// drawLabel draws a section title a third of the way down its section
func (e *EbitenRenderer) drawLabel(screen *ebiten.Image, l renderer.Label) {
	titleFace := e.getTitleFontFace()
	y := l.Rect.Y + l.Rect.H/3
	e.drawCentred(screen, strings.ToUpper(l.Title), l.Rect.X, l.Rect.W, y, titleFace, colorText)
	if l.Subtitle != "" {
		e.drawCentred(screen, l.Subtitle, l.Rect.X, l.Rect.W, y+titleFace.Size*1.4, e.getSubtitleFontFace(), colorSubtle)
	}
}

// drawCubeLoader veils the page and draws the turning block over it
func (e *EbitenRenderer) drawCubeLoader(screen *ebiten.Image, snap *renderer.Frame) {
	veil := colors.NRGBA(renderer.LoaderBackground)
	vector.DrawFilledRect(screen, 0, 0, float32(snap.Width), float32(snap.Height), fade(veil, snap.LoaderOpacity), false)
	for _, q := range snap.Loader {
		r, g, b := q.Color.Clamp().Bytes()
		fillQuad(screen, q.Points, fade(color.NRGBA{r, g, b, 255}, snap.LoaderOpacity))
	}
}

// drawHoney draws the progress track, its amber fill and the caption under it
func (e *EbitenRenderer) drawHoney(screen *ebiten.Image, h *renderer.HoneyBar) {
	b := h.Bounds
	radius := float32(b.H / 2)
	drawRoundedRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), radius, colorHoneyTrack)
	if w := b.W * h.Level / 100; w > 0 {
		drawRoundedRect(screen, float32(b.X), float32(b.Y), float32(w), float32(b.H), radius, colors.NRGBA(h.Fill))
	}
	face := e.getSansFontFace()
	e.drawCentred(screen, h.Caption, b.X, b.W, b.Y+b.H+face.Size, face, e.getPulsingCaptionColor())
}

// drawHUD draws status messages in a panel above the key hint
func (e *EbitenRenderer) drawHUD(screen *ebiten.Image, snap *renderer.Frame) {
	face := e.getSansFontFace()
	line := face.Size * 1.4
	y := snap.Height - panelPadding - line
	e.drawText(screen, snap.Hint, panelPadding, y, face, colorSubtle)

	if len(snap.Messages) == 0 {
		return
	}
	var width float64
	for _, m := range snap.Messages {
		w, _ := text.Measure(m, face, 0)
		width = max(width, w)
	}
	height := line * float64(len(snap.Messages))
	top := y - panelPadding*2 - height
	drawRoundedRectWithShadow(screen,
		float32(panelPadding), float32(top-panelPadding),
		float32(width+panelPadding*2), float32(height+panelPadding*2),
		panelRadius, 1, colorPanelBackground, colorPanelBorder, 1)
	for i, m := range snap.Messages {
		e.drawText(screen, m, panelPadding*2, top+float64(i)*line, face, colorText)
	}
}

func (e *EbitenRenderer) drawCentred(screen *ebiten.Image, s string, x, w, y float64, face *text.GoTextFace, col color.Color) {
	tw, _ := text.Measure(s, face, 0)
	e.drawText(screen, s, x+(w-tw)/2, y, face, col)
}

// drawText draws s with its top-left corner at (x, y)
func (e *EbitenRenderer) drawText(screen *ebiten.Image, s string, x, y float64, face *text.GoTextFace, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, face, op)
}
