package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

// Scene is what a still frame of the swarm needs. Positions are in world
// units and are scaled by PixelsPerUnit, with y growing downward as on screen.
type Scene struct {
	Particles     []sim.ParticleSnapshot
	Attractor     sim.AttractorSnapshot
	Bounds        physics.Bounds
	PixelsPerUnit float64
	Background    physics.Color
	// Trail is an optional attractor path drawn under the swarm.
	Trail []dynamo.Vec2
}

const (
	attractColor = "#ffd166"
	repelColor   = "#ef476f"
	trailColor   = "#8d99ae"
)

func rgbOpacity(c physics.Color) (string, float64) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), float64(c.A) / 255
}

// SceneToSVG renders the scene as a standalone SVG document.
func SceneToSVG(s Scene, dotRadius float64) string {
	width := s.Bounds.Width * s.PixelsPerUnit
	height := s.Bounds.Height * s.PixelsPerUnit
	bg, bgOpacity := rgbOpacity(s.Background)

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s" fill-opacity="%.3f"/>
`, width, height, width, height, bg, bgOpacity)

	if len(s.Trail) > 1 {
		sb.WriteString(trailPath(s.Trail, s.PixelsPerUnit, trailColor))
	}

	sb.WriteString("<g>\n")
	for _, p := range s.Particles {
		pos := p.Screen(s.PixelsPerUnit)
		fill, opacity := rgbOpacity(p.Color)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.3f"/>
`, pos.X, pos.Y, dotRadius, fill, opacity)
	}
	sb.WriteString("</g>\n")

	marker := attractColor
	if s.Attractor.ForceSign < 0 {
		marker = repelColor
	}
	a := s.Attractor.Screen(s.PixelsPerUnit)
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>
`, a.X, a.Y, dotRadius*4, marker)

	sb.WriteString("</svg>")
	return sb.String()
}

func trailPath(points []dynamo.Vec2, pixelsPerUnit float64, stroke string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		x, y := p.X*pixelsPerUnit, p.Y*pixelsPerUnit
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
`)
	return sb.String()
}

// TrajectoryToSVG draws only the attractor trail on the scene's background.
func TrajectoryToSVG(points []dynamo.Vec2, bounds physics.Bounds, pixelsPerUnit float64, stroke string) string {
	if len(points) < 2 {
		return ""
	}
	width := bounds.Width * pixelsPerUnit
	height := bounds.Height * pixelsPerUnit

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
	sb.WriteString(trailPath(points, pixelsPerUnit, stroke))
	sb.WriteString("</svg>")
	return sb.String()
}
