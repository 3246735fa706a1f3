package ebiten

import (
	"image/color"

	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/renderer"
)

// Window palette, derived from the shared one where the terminal draws the same thing
var (
	colorBackground      = colors.NRGBA(renderer.PageBackground)
	colorText            = colors.NRGBA(renderer.TextColor)
	colorSubtle          = colors.NRGBA(renderer.SubtleText)
	colorPanelBackground = colors.NRGBA(renderer.PanelBackground)
	colorHoneyTrack      = colors.NRGBA(renderer.HoneyTrack)
	colorPanelBorder     = color.NRGBA{163, 92, 56, 200} // ripple amber
	colorHoneyCaption    = color.NRGBA{255, 214, 140, 255}
)

const (
	wheelPixels  = 40 // scroll per wheel notch
	panelPadding = 10
	panelRadius  = 8
	tapSlop      = 10 // pixels a touch may travel and still count as a tap
)
