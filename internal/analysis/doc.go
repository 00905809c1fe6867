// Package analysis inspects recorded swarm series.
//
// The package includes:
//
//   - [PowerSpectrum]: one-sided amplitude spectrum of a metric series
//   - [DominantFrequency]: strongest non-DC oscillation, e.g. how often the
//     swarm collapses onto the attractor and rebounds
//   - [NewPortrait]: two series plotted against each other as ASCII art
//
// # Breathing Frequency
//
// A swarm under a still attractor without friction oscillates through it.
// The mean distance series shows that as a clear spectral peak:
//
//	freq, _ := analysis.DominantFrequency(series["mean_distance"], dt)
//	period := 1 / freq
package analysis
