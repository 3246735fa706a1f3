package devtools

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"cubefield/pkg/engine/geom"
	"cubefield/pkg/engine/grid"
	"cubefield/pkg/game/colors"
	"cubefield/pkg/game/renderer"
	"cubefield/pkg/game/state"
)

// hexColour renders the colour channels as #rrggbb; opacity is written separately
func hexColour(c grid.Color) string {
	n := colors.NRGBA(c)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func polygonPoints(pts [4]geom.Vec2) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// WriteScreenshotHTML writes f as a standalone HTML page holding one SVG
func WriteScreenshotHTML(w io.Writer, f renderer.Frame) error {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Cubefield - Screenshot</title>
    <style>
        body {
            background-color: #0b0907;
            color: #f0e6d8;
            font-family: sans-serif;
            padding: 20px;
        }
        .header {
            color: #d8a070;
            font-size: 18px;
            margin-bottom: 10px;
        }
        .frame {
            border-radius: 8px;
            display: inline-block;
            margin: 20px 0;
        }
        .title { font-size: 48px; font-weight: bold; text-anchor: middle; }
        .subtitle { font-size: 18px; text-anchor: middle; }
        .hint { font-size: 13px; }
        .messages {
            margin-top: 20px;
            border-top: 1px solid #333;
            padding-top: 10px;
        }
        .message { color: #ccc; margin: 5px 0; }
    </style>
</head>
<body>
`)
	fmt.Fprintf(&b, `    <div class="header">%.0fx%.0f, %d faces</div>`+"\n", f.Width, f.Height, len(f.Faces))
	fmt.Fprintf(&b, `    <svg class="frame" xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	fmt.Fprintf(&b, `        <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hexColour(renderer.PageBackground))

	for _, q := range f.Faces {
		fmt.Fprintf(&b, `        <polygon points="%s" fill="%s"`, polygonPoints(q.Points), hexColour(q.Fill))
		if q.BorderWidth > 0 {
			fmt.Fprintf(&b, ` stroke="%s" stroke-width="%g"`, hexColour(q.Border), q.BorderWidth)
		}
		b.WriteString("/>\n")
	}

	for _, l := range f.Labels {
		x := l.Rect.X + l.Rect.W/2
		y := l.Rect.Y + l.Rect.H/3
		fmt.Fprintf(&b, `        <text class="title" x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
			x, y, hexColour(renderer.TextColor), html.EscapeString(strings.ToUpper(l.Title)))
		if l.Subtitle != "" {
			fmt.Fprintf(&b, `        <text class="subtitle" x="%.1f" y="%.1f" fill="%s" fill-opacity="%g">%s</text>`+"\n",
				x, y+40, hexColour(renderer.SubtleText), renderer.SubtleText.A, html.EscapeString(l.Subtitle))
		}
	}

	if f.LoaderVisible {
		fmt.Fprintf(&b, `        <rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3f"/>`+"\n",
			hexColour(renderer.LoaderBackground), f.LoaderOpacity)
		for _, q := range f.Loader {
			r, g, bl := q.Color.Clamp().Bytes()
			fmt.Fprintf(&b, `        <polygon points="%s" fill="#%02x%02x%02x" fill-opacity="%.3f"/>`+"\n",
				polygonPoints(q.Points), r, g, bl, f.LoaderOpacity)
		}
	}

	if h := f.Honey; h != nil {
		r := h.Bounds
		fmt.Fprintf(&b, `        <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" fill-opacity="%g"/>`+"\n",
			r.X, r.Y, r.W, r.H, r.H/2, hexColour(renderer.HoneyTrack), renderer.HoneyTrack.A)
		fmt.Fprintf(&b, `        <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>`+"\n",
			r.X, r.Y, r.W*h.Level/100, r.H, r.H/2, hexColour(h.Fill))
		fmt.Fprintf(&b, `        <text class="subtitle" x="%.1f" y="%.1f" fill="%s">%s</text>`+"\n",
			r.X+r.W/2, r.Y+r.H+24, hexColour(renderer.TextColor), html.EscapeString(h.Caption))
	}

	fmt.Fprintf(&b, `        <text class="hint" x="10" y="%.1f" fill="%s">%s</text>`+"\n",
		f.Height-10, hexColour(renderer.SubtleText), html.EscapeString(f.Hint))
	b.WriteString("    </svg>\n")

	if len(f.Messages) > 0 {
		b.WriteString(`    <div class="messages">` + "\n")
		for _, msg := range f.Messages {
			fmt.Fprintf(&b, `        <div class="message">%s</div>`+"\n", html.EscapeString(msg))
		}
		b.WriteString("    </div>\n")
	}

	b.WriteString(`</body>
</html>
`)
	_, err := io.WriteString(w, b.String())
	return err
}

// SaveScreenshotHTML saves the session's current frame as an HTML file in the
// working directory and returns its name.
func SaveScreenshotHTML(s *state.Session) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("screenshot-%s.html", timestamp)

	var b strings.Builder
	if err := WriteScreenshotHTML(&b, renderer.Snapshot(s)); err != nil {
		return "", err
	}
	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return filename, nil
}
