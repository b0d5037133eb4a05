// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// TruncScale is the fixed precision applied to floating point results so that
// comparisons come out identically on every platform.
const TruncScale = 16384.0

// minSlopeDelta is the smallest coordinate delta treated as a real slope.
const minSlopeDelta = 0.5

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInt represents a 2D point with integer coordinates.
type PointInt struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ToFloat converts to Point2D.
func (p PointInt) ToFloat() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns the sum of two points.
func (p PointInt) Add(other PointInt) PointInt {
	return PointInt{X: p.X + other.X, Y: p.Y + other.Y}
}

// Mid returns the integer midpoint of p and other, rounding toward the
// upper-left like a right shift.
func (p PointInt) Mid(other PointInt) PointInt {
	return PointInt{X: (p.X + other.X) >> 1, Y: (p.Y + other.Y) >> 1}
}

// SquaredDistance returns the squared Euclidean distance between two points.
func SquaredDistance(a, b PointInt) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return dx*dx + dy*dy
}

// Distance returns the Euclidean distance between two integer points.
func Distance(a, b PointInt) float64 {
	return math.Sqrt(SquaredDistance(a, b))
}

// TruncPrecision snaps v to the TruncScale grid.
func TruncPrecision(v float64) float64 {
	return Round(v*TruncScale) / TruncScale
}

// Round rounds half away from zero.
func Round(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v + 0.5)
	}
	return math.Floor(v + 0.5)
}

// RoundInt rounds v after snapping it to the TruncScale grid.
func RoundInt(v float64) int {
	return int(Round(TruncPrecision(v)))
}

// AngleToLine returns the angle in radians of the ray from 'from' to 'to',
// measured counter-clockwise from the positive x axis with y pointing up.
func AngleToLine(from, to PointInt) float64 {
	dx := float64(to.X - from.X)
	dy := float64(from.Y - to.Y)
	if math.Abs(dx) < minSlopeDelta && math.Abs(dy) < minSlopeDelta {
		return 0
	}
	return TruncPrecision(math.Atan2(dy, dx))
}
