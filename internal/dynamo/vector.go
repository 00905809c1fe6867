package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector in simulation units.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2(r2.Add(r2.Vec(v), r2.Vec(o)))
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o)))
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2(r2.Scale(f, r2.Vec(v)))
}

// Div divides both components by f. Division by zero follows IEEE rules.
func (v Vec2) Div(f float64) Vec2 {
	return Vec2{X: v.X / f, Y: v.Y / f}
}

// Mag returns the Euclidean norm.
func (v Vec2) Mag() float64 {
	return r2.Norm(r2.Vec(v))
}

// MagSq returns the squared norm without the square root.
func (v Vec2) MagSq() float64 {
	return r2.Norm2(r2.Vec(v))
}

// Normalize returns the unit vector with the same direction as v.
// The zero vector normalizes to the zero vector; it never yields NaN.
func (v Vec2) Normalize() Vec2 {
	mag := v.Mag()
	if mag == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

// Dist returns the distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Mag()
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsValid reports whether both components are finite.
func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}
