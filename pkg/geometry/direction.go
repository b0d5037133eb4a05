package geometry

import "math"

// InvalidDir marks a missing or unusable direction.
const InvalidDir = -1

// LineToDirection returns the direction code of the ray from 'from' to 'to'
// on a full circle split into 2*ndirs steps. Code 0 points north (toward
// smaller y) and codes increase clockwise.
func LineToDirection(from, to PointInt, ndirs int) int {
	full := ndirs << 1
	dx := float64(to.X - from.X)
	dy := float64(to.Y - from.Y)
	if math.Abs(dx) < minSlopeDelta && math.Abs(dy) < minSlopeDelta {
		return 0
	}
	theta := TruncPrecision(math.Atan2(dx, -dy))
	if theta < 0 {
		theta += 2 * math.Pi
	}
	idir := RoundInt(theta * float64(full) / (2 * math.Pi))
	return idir % full
}

// DirectionAngle converts a full-circle direction code to radians, clockwise
// from north.
func DirectionAngle(dir, ndirs int) float64 {
	return float64(dir) * math.Pi / float64(ndirs)
}

// DirectionVector returns the unit step of a full-circle direction code in
// image coordinates (y grows downward).
func DirectionVector(dir, ndirs int) (dx, dy float64) {
	theta := DirectionAngle(dir, ndirs)
	return TruncPrecision(math.Sin(theta)), TruncPrecision(-math.Cos(theta))
}

// OppositeDirection returns the code pointing the other way.
func OppositeDirection(dir, ndirs int) int {
	full := ndirs << 1
	return (dir + ndirs) % full
}

// DirectionDist returns the shorter arc between two direction codes on a
// circle of fullDirs steps, or InvalidDir if either code is invalid.
func DirectionDist(d1, d2, fullDirs int) int {
	if d1 < 0 || d2 < 0 {
		return InvalidDir
	}
	d := d1 - d2
	if d < 0 {
		d = -d
	}
	if fullDirs-d < d {
		d = fullDirs - d
	}
	return d
}
