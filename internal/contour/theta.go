package contour

import (
	"math"

	"mindetect/pkg/geometry"
)

// MinTheta slides a left/center/right window of spacing edge along c and
// returns the center index with the sharpest turn, together with the turn
// angle in radians. A perfectly straight contour yields its middle index
// and an angle of pi. Ignore is returned when c is shorter than 2*edge+1.
func MinTheta(c Contour, edge int) (int, float64, Status) {
	if edge <= 0 || len(c) < 2*edge+1 {
		return 0, 0, Ignore
	}

	minTheta := math.Pi
	minIdx := -1
	for l, m, r := 0, edge, 2*edge; r < len(c); l, m, r = l+1, m+1, r+1 {
		center := c[m].Feature()
		t1 := geometry.AngleToLine(center, c[l].Feature())
		t2 := geometry.AngleToLine(center, c[r].Feature())

		dtheta := math.Abs(t2 - t1)
		dtheta = math.Min(dtheta, 2*math.Pi-dtheta)
		dtheta = geometry.TruncPrecision(dtheta)

		if dtheta < minTheta {
			minTheta = dtheta
			minIdx = m
		}
	}

	if minIdx == -1 {
		minIdx = len(c) >> 1
	}
	return minIdx, minTheta, OK
}
