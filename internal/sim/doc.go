// Package sim runs the attractor swarm: a World owns the attractor and its
// particles, a Clock turns host frame times into fixed steps, and a Runner
// drives the world headlessly for experiments.
package sim
