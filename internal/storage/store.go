package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravswarm/internal/config"
	"github.com/san-kum/gravswarm/internal/dynamo"
	"github.com/san-kum/gravswarm/internal/physics"
	"github.com/san-kum/gravswarm/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	seriesFile    = "series.csv"
	particlesFile = "particles.csv"
)

var seriesPrefix = []string{"time", "attractor_x", "attractor_y", "force_sign"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Preset         string             `json:"preset,omitempty"`
	Path           string             `json:"path"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	Particles      int                `json:"particles"`
	FixedDeltaTime float64            `json:"fixed_delta_time"`
	Duration       float64            `json:"duration"`
	ToggleEvery    float64            `json:"toggle_every,omitempty"`
	RecordEvery    int                `json:"record_every"`
	Steps          int                `json:"steps"`
	Metrics        map[string]float64 `json:"metrics"`
}

// SampleInterval is the simulated time between two series rows.
func (m *RunMetadata) SampleInterval() float64 {
	every := m.RecordEvery
	if every < 1 {
		every = 1
	}
	return float64(every) * m.FixedDeltaTime
}

// Save writes a run directory holding the metadata, the swarm config, the
// sampled series and the final particle snapshot. The caller fills the
// descriptive fields of meta; the rest comes from cfg and result.
func (s *Store) Save(meta RunMetadata, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	label := meta.Preset
	if label == "" {
		label = "run"
	}
	meta.ID = fmt.Sprintf("%s_%d", label, now.UnixNano())
	meta.Timestamp = now
	meta.Seed = cfg.Seed
	meta.Particles = len(result.Final)
	meta.FixedDeltaTime = cfg.FixedDeltaTime()
	meta.Duration = cfg.Duration
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), result.Final); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	w := csv.NewWriter(f)
	if err := w.Write(append(append([]string{}, seriesPrefix...), names...)); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{formatFloat(t), "", "", ""}
		if i < len(result.Attractor) {
			row[1] = formatFloat(result.Attractor[i].X)
			row[2] = formatFloat(result.Attractor[i].Y)
		}
		if i < len(result.ForceSigns) {
			row[3] = formatFloat(result.ForceSigns[i])
		}
		for _, name := range names {
			col := result.Series[name]
			if i < len(col) {
				row = append(row, formatFloat(col[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeParticles(path string, particles []sim.ParticleSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "vx", "vy", "r", "g", "b", "a"}); err != nil {
		return err
	}
	for _, p := range particles {
		row := []string{
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(p.Velocity.X),
			formatFloat(p.Velocity.Y),
			strconv.Itoa(int(p.Color.R)),
			strconv.Itoa(int(p.Color.G)),
			strconv.Itoa(int(p.Color.B)),
			strconv.Itoa(int(p.Color.A)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// Series is the sampled trace of a stored run.
type Series struct {
	Times      []float64
	Attractor  []dynamo.Vec2
	ForceSigns []float64
	// Names lists the metric columns in file order.
	Names   []string
	Columns map[string][]float64
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < len(seriesPrefix) {
		return nil, fmt.Errorf("run %s: malformed %s", runID, seriesFile)
	}

	header := records[0]
	series := &Series{
		Times:      make([]float64, 0, len(records)-1),
		Attractor:  make([]dynamo.Vec2, 0, len(records)-1),
		ForceSigns: make([]float64, 0, len(records)-1),
		Names:      header[len(seriesPrefix):],
		Columns:    make(map[string][]float64),
	}

	for _, record := range records[1:] {
		vals := make([]float64, len(header))
		for j := range header {
			if j < len(record) {
				vals[j], _ = strconv.ParseFloat(record[j], 64)
			}
		}
		series.Times = append(series.Times, vals[0])
		series.Attractor = append(series.Attractor, dynamo.V(vals[1], vals[2]))
		series.ForceSigns = append(series.ForceSigns, vals[3])
		for j, name := range series.Names {
			series.Columns[name] = append(series.Columns[name], vals[len(seriesPrefix)+j])
		}
	}
	return series, nil
}

func (s *Store) LoadParticles(runID string) ([]sim.ParticleSnapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.ParticleSnapshot{}, nil
	}

	out := make([]sim.ParticleSnapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 8 {
			return nil, fmt.Errorf("run %s: %s row %d has %d fields", runID, particlesFile, i+1, len(record))
		}
		var f [4]float64
		for j := range f {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: %s row %d: %w", runID, particlesFile, i+1, err)
			}
			f[j] = v
		}
		var c [4]uint8
		for j := range c {
			v, err := strconv.ParseUint(record[4+j], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("run %s: %s row %d: %w", runID, particlesFile, i+1, err)
			}
			c[j] = uint8(v)
		}
		out = append(out, sim.ParticleSnapshot{
			Position: dynamo.V(f[0], f[1]),
			Velocity: dynamo.V(f[2], f[3]),
			Color:    physics.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
		})
	}
	return out, nil
}
