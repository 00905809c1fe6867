// Package viz renders a live swarm in the terminal.
//
// [Model] is a Bubble Tea program: particles are drawn on a braille [Canvas]
// where every cell takes the average color of the particles inside it, and a
// side panel shows run statistics and a mean speed chart.
//
// # Controls
//
//	Mouse   - Move the attractor
//	Click/F - Flip between attraction and repulsion
//	Space   - Pause/Resume
//	R       - Respawn the swarm
//	S       - Save an SVG snapshot
//	T       - Cycle color themes
//	?       - Show help overlay
//
// The terminal needs mouse motion reporting; [Run] enables it.
package viz
