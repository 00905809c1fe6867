// Package dynamo provides the numeric primitives shared by the swarm simulation.
//
// The package defines:
//
//   - [Vec2]: 2D value vector used for every position, velocity and force
//   - [ConfigError] and [SimError]: typed errors for bad parameters and diverged steps
//   - [ParallelFor]: chunked fan-out used to update particles inside one fixed step
//
// # Example
//
//	to := target.Sub(pos)
//	dir := to.Normalize() // zero vector when target == pos
//	force := dir.Scale(magnitude)
//
// # Aliasing
//
// Vec2 is a plain value. Assigning or passing it copies both components, so two
// particles can never observe each other's vectors.
package dynamo
