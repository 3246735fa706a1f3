// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gookit/color"

	"cubefield/pkg/engine/grid"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/state"
)

const tiltDumpFilename = "tilt.txt"

// tiltRamp runs from untilted to fully tilted
var tiltRamp = []rune(" .:+*#")

const flashSymbol = 'o'

var (
	colorHeading = color.Style{color.FgCyan, color.OpBold}
	colorLegend  = color.Style{color.FgGray}
)

// TiltSymbol returns the ramp character for a cell's combined tilt, scaled
// against the largest tilt the effect can produce.
func TiltSymbol(c *grid.Cell, maxAngle float64) rune {
	if c == nil || c.IsNeutral() || maxAngle <= 0 {
		return tiltRamp[0]
	}
	m := math.Hypot(c.RotateX, c.RotateY) / (maxAngle * math.Sqrt2)
	i := int(math.Ceil(m * float64(len(tiltRamp)-1)))
	return tiltRamp[max(1, min(i, len(tiltRamp)-1))]
}

// flashed reports whether a ripple has changed the cell's colour
func flashed(c *grid.Cell, base grid.Color) bool {
	return c.Faces[grid.FaceFront].Background != base
}

// symbolColour is what the symbol is printed in: the ripple colour for flashed
// cells, a grey-to-amber ramp by tilt otherwise.
func symbolColour(c *grid.Cell, base grid.Color, maxAngle float64) color.RGBColor {
	var col grid.Color
	if flashed(c, base) {
		col = colors.Over(renderer.PageBackground, c.Faces[grid.FaceFront].Background)
		col = colors.Lerp(col, renderer.TextColor, 0.3)
	} else {
		m := 0.0
		if maxAngle > 0 {
			m = math.Hypot(c.RotateX, c.RotateY) / (maxAngle * math.Sqrt2)
		}
		col = colors.Lerp(grid.Color{R: 0.35, G: 0.33, B: 0.3, A: 1}, grid.Color{R: 1, G: 0.7, B: 0.35, A: 1}, m)
	}
	n := colors.NRGBA(col)
	return color.RGB(n.R, n.G, n.B)
}

// writeTiltGrid writes one line per grid row
func writeTiltGrid(w io.Writer, s *state.Session, colour bool) {
	g := s.Cubes.Grid()
	opts := s.Cubes.Options()
	base := g.Style().FaceColor
	for row := 0; row < g.Size(); row++ {
		for col := 0; col < g.Size(); col++ {
			c := g.GetCell(row, col)
			sym := TiltSymbol(c, opts.MaxAngle)
			if flashed(c, base) {
				sym = flashSymbol
			}
			if colour {
				fmt.Fprint(w, symbolColour(c, base, opts.MaxAngle).Sprint(string(sym)))
				continue
			}
			fmt.Fprintf(w, "%c", sym)
		}
		fmt.Fprintln(w)
	}
}

// WriteTiltDump writes metadata, a legend and the tilt grid of the session's
// cube field. With colour set, headings and symbols carry terminal colours.
func WriteTiltDump(w io.Writer, s *state.Session, colour bool) error {
	if s == nil || s.Cubes == nil {
		return errors.New("no cube field")
	}
	heading := func(text string) {
		if colour {
			text = colorHeading.Sprint(text)
		}
		fmt.Fprintln(w, text)
	}

	opts := s.Cubes.Options()
	pos, target := s.Cubes.AutoPilot()

	heading("=== TILT DUMP (cube field state) ===")
	fmt.Fprintln(w, "")
	heading("--- Metadata ---")
	fmt.Fprintf(w, "clock: %v\n", s.Loop.Now())
	fmt.Fprintf(w, "frames: %d\n", s.Loop.Frames())
	fmt.Fprintf(w, "grid_size: %d\n", s.Cubes.Grid().Size())
	fmt.Fprintf(w, "coordinate_system: row,col (0-based, row=vertical, col=horizontal)\n")
	fmt.Fprintf(w, "radius: %g\n", opts.Radius)
	fmt.Fprintf(w, "max_angle: %g\n", opts.MaxAngle)
	fmt.Fprintf(w, "user_active: %v\n", s.Cubes.UserActive())
	if f, ok := s.Cubes.Focus(); ok {
		fmt.Fprintf(w, "focus: %.2f,%.2f\n", f.Row, f.Col)
	} else {
		fmt.Fprintln(w, "focus: none")
	}
	fmt.Fprintf(w, "auto_animate: %v\n", s.Cubes.AutoAnimating())
	fmt.Fprintf(w, "autopilot_pos: %.2f,%.2f\n", pos.Row, pos.Col)
	fmt.Fprintf(w, "autopilot_target: %.2f,%.2f\n", target.Row, target.Col)
	fmt.Fprintf(w, "ripple: %v\n", opts.Ripple)
	fmt.Fprintf(w, "active_tweens: %d\n", s.Tweens.Active())
	fmt.Fprintf(w, "pending_frames: %d\n", s.Loop.PendingFrames())
	fmt.Fprintf(w, "active_timers: %d\n", s.Loop.ActiveTimers())
	fmt.Fprintf(w, "scroll: %.1f\n", s.Page.Scroll)
	fmt.Fprintf(w, "loader_visible: %v\n", s.LoaderVisible())
	fmt.Fprintln(w, "")

	heading("--- Legend (cell symbols) ---")
	legend := fmt.Sprintf("' ' = neutral  %s = increasing tilt  %c = ripple colour on the front face",
		string(tiltRamp[1:]), flashSymbol)
	if colour {
		legend = colorLegend.Sprint(legend)
	}
	fmt.Fprintln(w, legend)
	fmt.Fprintln(w, "")

	heading("--- Grid ---")
	writeTiltGrid(w, s, colour)
	return nil
}

// DumpTiltToFile writes a plain tilt dump to tilt.txt in the working directory
// and returns the absolute path written.
func DumpTiltToFile(s *state.Session) (string, error) {
	absPath, err := filepath.Abs(tiltDumpFilename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteTiltDump(f, s, false); err != nil {
		return "", err
	}
	return absPath, nil
}
