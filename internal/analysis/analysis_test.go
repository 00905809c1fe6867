package analysis

import (
	"math"
	"strings"
	"testing"
)

func TestDominantFrequency(t *testing.T) {
	const dt = 1.0 / 60
	tests := []struct {
		name string
		n    int
		freq float64
	}{
		{"power of two", 512, 1.875},
		{"arbitrary length", 600, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*dt)
			}

			freq, power := DominantFrequency(data, dt)
			binWidth := 1 / (float64(tt.n) * dt)
			if math.Abs(freq-tt.freq) > binWidth {
				t.Errorf("dominant frequency = %v, want %v", freq, tt.freq)
			}
			if power <= 0 {
				t.Error("expected positive peak power")
			}
		})
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f, p := DominantFrequency([]float64{1}, 0.1); f != 0 || p != 0 {
		t.Errorf("single sample gave %v, %v", f, p)
	}
	if f, _ := DominantFrequency([]float64{2, 2, 2, 2, 2, 2}, 0.1); f != 0 {
		t.Errorf("flat series gave frequency %v", f)
	}
	if f, _ := DominantFrequency([]float64{1, 2, 1, 2}, 0); f != 0 {
		t.Errorf("zero sample interval gave frequency %v", f)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5, 5, 5, 5, 5})
	if len(ps) != 4 {
		t.Fatalf("len = %d, want 4", len(ps))
	}
	for i, v := range ps {
		if v > 1e-9 {
			t.Errorf("bin %d = %v, want 0", i, v)
		}
	}
}

func TestPortraitASCII(t *testing.T) {
	xs := []float64{-1, 0, 1, 2}
	ys := []float64{-1, 0, 1}
	p := NewPortrait(xs, ys)
	if len(p.Points) != 3 {
		t.Fatalf("points = %d, want 3", len(p.Points))
	}

	art := p.ASCII(20, 10)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("rows = %d, want 10", len(lines))
	}
	if strings.Count(art, "•") != 3 {
		t.Errorf("expected 3 points in:\n%s", art)
	}
	if !strings.Contains(art, "│") || !strings.Contains(art, "─") {
		t.Errorf("expected both axes in:\n%s", art)
	}

	if (&Portrait{}).ASCII(20, 10) != "" {
		t.Error("empty portrait should render nothing")
	}
}
