package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run        RunMetadata          `json:"run"`
	Times      []float64            `json:"times"`
	Attractor  [][2]float64         `json:"attractor"`
	ForceSigns []float64            `json:"force_signs"`
	Series     map[string][]float64 `json:"series"`
	Particles  []ParticleRecord     `json:"particles,omitempty"`
}

type ParticleRecord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Color string  `json:"color"`
}

// Export gathers a stored run into one document. The particle snapshot is
// only included when withParticles is set.
func (s *Store) Export(runID string, withParticles bool) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Run:        *meta,
		Times:      series.Times,
		Attractor:  make([][2]float64, len(series.Attractor)),
		ForceSigns: series.ForceSigns,
		Series:     series.Columns,
	}
	for i, a := range series.Attractor {
		data.Attractor[i] = [2]float64{a.X, a.Y}
	}

	if withParticles {
		particles, err := s.LoadParticles(runID)
		if err != nil {
			return nil, err
		}
		data.Particles = make([]ParticleRecord, len(particles))
		for i, p := range particles {
			data.Particles[i] = ParticleRecord{
				X: p.Position.X, Y: p.Position.Y,
				VX: p.Velocity.X, VY: p.Velocity.Y,
				Color: p.Color.Hex(),
			}
		}
	}
	return data, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSON writes data to path, or to stdout when path is "-".
func ExportJSON(path string, data *ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, data)
}

// WriteCSV writes the series of data as one table: time, attractor trace,
// force sign and every metric column.
func WriteCSV(w io.Writer, data *ExportData, names []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, seriesPrefix...), names...)); err != nil {
		return err
	}
	for i, t := range data.Times {
		row := []string{
			formatFloat(t),
			formatFloat(data.Attractor[i][0]),
			formatFloat(data.Attractor[i][1]),
			formatFloat(data.ForceSigns[i]),
		}
		for _, name := range names {
			if col := data.Series[name]; i < len(col) {
				row = append(row, formatFloat(col[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
