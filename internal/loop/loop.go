// Package loop detects closed contours around minutiae and either turns
// them into a pair of synthetic endings or erases them from the raster.
package loop

import (
	"errors"
	"fmt"

	"mindetect/internal/contour"
	"mindetect/internal/raster"
)

// ErrEmptyContour is returned when an operation needs at least one point.
var ErrEmptyContour = errors.New("empty loop contour")

// OnLoop reports LoopFound when a counter-clockwise trace from m returns to
// m within maxLen steps. Ignore means m's pixels are no longer
// complementary; OK means no loop was found.
func OnLoop(img *raster.Image, m contour.Point, maxLen int) (contour.Status, error) {
	res, err := contour.Trace(img, maxLen, m.Feature(), m, contour.CounterClockwise)
	if err != nil {
		return contour.Ignore, fmt.Errorf("loop: on loop: %w", err)
	}
	return res.Status, nil
}

// OnIslandLake checks whether m1 and m2 sit on the same small closed
// contour: a trace from m1 must reach m2 and a trace from m2 must return to
// m1, each within maxHalf steps. On success the merged loop runs m1, the
// first half, m2, then the second half.
func OnIslandLake(img *raster.Image, m1, m2 contour.Point, maxHalf int) (contour.Contour, contour.Status, error) {
	first, err := contour.Trace(img, maxHalf, m2.Feature(), m1, contour.CounterClockwise)
	if err != nil {
		return nil, contour.Ignore, fmt.Errorf("loop: island/lake first half: %w", err)
	}
	if first.Status != contour.LoopFound {
		return nil, first.Status, nil
	}

	second, err := contour.Trace(img, maxHalf, m1.Feature(), m2, contour.CounterClockwise)
	if err != nil {
		return nil, contour.Ignore, fmt.Errorf("loop: island/lake second half: %w", err)
	}
	if second.Status != contour.LoopFound {
		return nil, second.Status, nil
	}

	merged := make(contour.Contour, 0, len(first.Contour)+len(second.Contour)+2)
	merged = append(merged, m1)
	merged = append(merged, first.Contour...)
	merged = append(merged, m2)
	merged = append(merged, second.Contour...)
	return merged, contour.LoopFound, nil
}

// OnHook reports LoopFound when m2 lies within maxLen steps of m1 along the
// contour in either rotational sense.
func OnHook(img *raster.Image, m1, m2 contour.Point, maxLen int) (contour.Status, error) {
	for _, rot := range []contour.Rotation{contour.CounterClockwise, contour.Clockwise} {
		res, err := contour.Trace(img, maxLen, m2.Feature(), m1, rot)
		if err != nil {
			return contour.Ignore, fmt.Errorf("loop: on hook %s: %w", rot, err)
		}
		if res.Status == contour.LoopFound || res.Status == contour.Ignore {
			return res.Status, nil
		}
	}
	return contour.OK, nil
}

// IsClockwise reports whether the closed contour c turns clockwise on
// screen. Contours too short or too broken to chain-code, and contours with
// no net turn, return defaultRet.
func IsClockwise(c contour.Contour, defaultRet bool) bool {
	n := len(c)
	if n < 3 {
		return defaultRet
	}

	chain := make([]int, n)
	for i := 0; i < n; i++ {
		next := c[(i+1)%n]
		code := contour.NeighborIndex(next.X-c[i].X, next.Y-c[i].Y)
		if code < 0 {
			return defaultRet
		}
		chain[i] = code
	}

	sum := 0
	for i := 0; i < n; i++ {
		d := chain[(i+1)%n] - chain[i]
		switch {
		case d > 4:
			d -= 8
		case d < -4:
			d += 8
		}
		sum += d
	}

	if sum == 0 {
		return defaultRet
	}
	return sum > 0
}
