package prune

import (
	"math"

	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// RemovePores removes minutiae in low-flow or high-curvature blocks that
// look like the rim of a pore. From a point behind the minutia, the
// nearest boundaries to its right and left are found, and each is traced
// forward and backward. If the forward pair and the backward pair of trace
// ends are similarly far apart, the feature simply continues past the
// minutia and it is removed.
func RemovePores(l *minutia.List, img *raster.Image, maps *blockmap.Maps, p config.Params) (int, error) {
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		if !maps.LowFlowAt(m.X, m.Y) && !maps.HighCurveAt(m.X, m.Y) {
			return false, nil
		}
		return isPore(img, m, p)
	})
}

func isPore(img *raster.Image, m *minutia.Minutia, p config.Params) (bool, error) {
	behind := backward(m, p.PoresTransR, p.NumDirections)
	if !img.Contains(behind) {
		return false, nil
	}

	ux, uy := geometry.DirectionVector(m.Direction, p.NumDirections)
	right, ok := findTransition(img, behind, -uy, ux, p.PoresPerpSteps)
	if !ok {
		return false, nil
	}
	left, ok := findTransition(img, behind, uy, -ux, p.PoresPerpSteps)
	if !ok {
		return false, nil
	}

	// With the edge on the right, counter-clockwise runs with the minutia
	ends := []struct {
		from  contour.Point
		rot   contour.Rotation
		steps int
	}{
		{right, contour.CounterClockwise, p.PoresStepsFwd},
		{right, contour.Clockwise, p.PoresStepsBwd},
		{left, contour.Clockwise, p.PoresStepsFwd},
		{left, contour.CounterClockwise, p.PoresStepsBwd},
	}
	var pts [4]geometry.PointInt
	for i, e := range ends {
		pt, ok, err := traceEnd(img, e.from, e.rot, e.steps)
		if err != nil || !ok {
			return false, err
		}
		pts[i] = pt
	}
	rf, rb, lf, lb := pts[0], pts[1], pts[2], pts[3]

	fwd := geometry.SquaredDistance(rf, lf)
	bwd := geometry.SquaredDistance(rb, lb)
	lo, hi := math.Min(fwd, bwd), math.Max(fwd, bwd)
	if lo <= p.PoresMinDist2 {
		return false, nil
	}
	return hi/lo <= p.PoresMaxRatio, nil
}

// findTransition steps from start along (vx, vy) for at most steps pixels
// and returns the first feature/edge pair where the color changes.
func findTransition(img *raster.Image, start geometry.PointInt, vx, vy float64, steps int) (contour.Point, bool) {
	startPix := img.AtPoint(start)
	prev := start
	for i := 1; i <= steps; i++ {
		cur := geometry.PointInt{
			X: start.X + geometry.RoundInt(vx*float64(i)),
			Y: start.Y + geometry.RoundInt(vy*float64(i)),
		}
		if !img.Contains(cur) {
			return contour.Point{}, false
		}
		if cur == prev {
			continue
		}
		if img.AtPoint(cur) != startPix {
			pair := contour.Point{X: prev.X, Y: prev.Y, EX: cur.X, EY: cur.Y}
			return contour.FixEdgePair(img, pair), true
		}
		prev = cur
	}
	return contour.Point{}, false
}

// traceEnd returns the feature pixel steps moves along the contour from
// start, or false if the trace cannot go that far.
func traceEnd(img *raster.Image, start contour.Point, rot contour.Rotation, steps int) (geometry.PointInt, bool, error) {
	res, err := contour.Trace(img, steps, start.Feature(), start, rot)
	if err != nil {
		return geometry.PointInt{}, false, err
	}
	if res.Status != contour.OK || len(res.Contour) < steps {
		return geometry.PointInt{}, false, nil
	}
	return res.Contour[steps-1].Feature(), true, nil
}
