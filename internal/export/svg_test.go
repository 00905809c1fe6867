package export

import (
	"strings"
	"testing"

	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

func scene() Scene {
	return Scene{
		Particles: []sim.ParticleSnapshot{
			{Position: dynamo.V(1, 2), Color: physics.Color{R: 0, G: 255, B: 255, A: 200}},
			{Position: dynamo.V(3, 0.5), Color: physics.Color{R: 255, G: 0, B: 255, A: 255}},
		},
		Attractor:     sim.AttractorSnapshot{Position: dynamo.V(4, 3), Mass: 250, ForceSign: 1},
		Bounds:        physics.Bounds{Width: 8, Height: 6},
		PixelsPerUnit: 100,
		Background:    physics.Color{A: 255},
	}
}

func TestSceneToSVG(t *testing.T) {
	svg := SceneToSVG(scene(), 1.5)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not a complete svg document")
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("viewport not scaled by pixels per unit")
	}
	checks := []string{
		`<circle cx="100.0" cy="200.0" r="1.5" fill="#00ffff" fill-opacity="0.784"/>`,
		`<circle cx="300.0" cy="50.0" r="1.5" fill="#ff00ff" fill-opacity="1.000"/>`,
		`cx="400.0" cy="300.0" r="6.0" fill="none" stroke="` + attractColor + `"`,
	}
	for _, c := range checks {
		if !strings.Contains(svg, c) {
			t.Errorf("missing %s in\n%s", c, svg)
		}
	}
	if strings.Contains(svg, "<path") {
		t.Error("trail drawn without points")
	}
}

func TestSceneToSVG_RepelAndTrail(t *testing.T) {
	s := scene()
	s.Attractor.ForceSign = -1
	s.Trail = []dynamo.Vec2{dynamo.V(0, 0), dynamo.V(1, 1), dynamo.V(2, 1)}

	svg := SceneToSVG(s, 1)
	if !strings.Contains(svg, repelColor) {
		t.Error("repelling attractor not marked")
	}
	if !strings.Contains(svg, `d="M0.0,0.0 L100.0,100.0 L200.0,100.0"`) {
		t.Errorf("trail path wrong in\n%s", svg)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]dynamo.Vec2{dynamo.V(1, 1)}, physics.Bounds{Width: 1, Height: 1}, 10, "#fff") != "" {
		t.Error("single point should render nothing")
	}
	svg := TrajectoryToSVG([]dynamo.Vec2{dynamo.V(0, 0), dynamo.V(1, 1)}, physics.Bounds{Width: 2, Height: 2}, 10, "#fff")
	if !strings.Contains(svg, `d="M0.0,0.0 L10.0,10.0"`) || !strings.Contains(svg, `width="20"`) {
		t.Errorf("unexpected svg:\n%s", svg)
	}
}
