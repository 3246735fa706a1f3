package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// getUIFontSize returns the font size for HUD text, scaled to the window height
func (e *EbitenRenderer) getUIFontSize() float64 {
	size := float64(e.windowHeight) / 40
	if size < 12 {
		size = 12
	}
	if size > 24 {
		size = 24
	}
	return size
}

// getTitleFontSize returns the font size for hero and section titles
func (e *EbitenRenderer) getTitleFontSize() float64 {
	return e.getUIFontSize() * 3
}

// getSansFontFace returns a cached sans-serif font face for UI text
func (e *EbitenRenderer) getSansFontFace() *text.GoTextFace {
	size := e.getUIFontSize()
	if e.cachedSansFace == nil || e.cachedUIFontSize != size {
		e.cachedUIFontSize = size
		e.cachedSansFace = &text.GoTextFace{
			Source: e.sansFontSource,
			Size:   size,
		}
		e.cachedSubtitleFace = &text.GoTextFace{
			Source: e.sansFontSource,
			Size:   size * 1.25,
		}
	}
	return e.cachedSansFace
}

// getSubtitleFontFace returns the face used under the hero title
func (e *EbitenRenderer) getSubtitleFontFace() *text.GoTextFace {
	e.getSansFontFace()
	return e.cachedSubtitleFace
}

// getTitleFontFace returns a cached bold face for titles
func (e *EbitenRenderer) getTitleFontFace() *text.GoTextFace {
	size := e.getTitleFontSize()
	if e.cachedTitleFace == nil || e.cachedTitleFontSize != size {
		e.cachedTitleFontSize = size
		e.cachedTitleFace = &text.GoTextFace{
			Source: e.sansBoldFontSource,
			Size:   size,
		}
	}
	return e.cachedTitleFace
}

// invalidateFontCache clears cached font faces (call when the window size changes)
func (e *EbitenRenderer) invalidateFontCache() {
	e.cachedSansFace = nil
	e.cachedTitleFace = nil
	e.cachedSubtitleFace = nil
}
