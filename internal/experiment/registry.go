package experiment

import (
	"fmt"
	"sort"
)

type Registry struct {
	paths map[string]func(params map[string]float64) Path
}

func NewRegistry() *Registry {
	r := &Registry{
		paths: make(map[string]func(map[string]float64) Path),
	}

	r.paths["static"] = func(params map[string]float64) Path {
		return Static{
			FX: param(params, "x", 0.5),
			FY: param(params, "y", 0.5),
		}
	}
	r.paths["circle"] = func(params map[string]float64) Path {
		return Circle{
			Radius: param(params, "radius", 0.25),
			Period: positive(params, "period", 4),
		}
	}
	r.paths["lissajous"] = func(params map[string]float64) Path {
		return Lissajous{
			A:         param(params, "a", 3),
			B:         param(params, "b", 2),
			Phase:     param(params, "phase", 0),
			Period:    positive(params, "period", 8),
			Amplitude: param(params, "amplitude", 0.8),
		}
	}
	r.paths["sweep"] = func(params map[string]float64) Path {
		return Sweep{Period: positive(params, "period", 6)}
	}

	return r
}

func (r *Registry) GetPath(name string, params map[string]float64) (Path, error) {
	fn, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("unknown pointer path: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) ListPaths() []string {
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

func positive(params map[string]float64, key string, def float64) float64 {
	if v := param(params, key, def); v > 0 {
		return v
	}
	return def
}
