package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/gravswarm/internal/sim"
)

// DefaultContainmentRadius is in world units.
const DefaultContainmentRadius = 1.0

var registry = map[string]func() sim.Metric{
	"mean_speed":       func() sim.Metric { return NewMeanSpeed() },
	"mean_distance":    func() sim.Metric { return NewMeanDistance() },
	"kinetic_energy":   func() sim.Metric { return NewKineticEnergy() },
	"energy_drift":     func() sim.Metric { return NewEnergyDrift() },
	"momentum":         func() sim.Metric { return NewMomentum() },
	"color_saturation": func() sim.Metric { return NewColorSaturation() },
	"containment":      func() sim.Metric { return NewContainment(DefaultContainmentRadius) },
	"attractor_travel": func() sim.Metric { return NewAttractorTravel() },
}

// DefaultNames are the metrics a run records when none are requested.
var DefaultNames = []string{"mean_speed", "mean_distance", "kinetic_energy", "color_saturation"}

func New(name string) (sim.Metric, error) {
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Parse builds metrics from a comma separated list; empty means DefaultNames.
func Parse(list string) ([]sim.Metric, error) {
	names := DefaultNames
	if strings.TrimSpace(list) != "" {
		names = strings.Split(list, ",")
	}
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		m, err := New(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
