package contour

import (
	"fmt"

	"mindetect/internal/raster"
)

// HighCurvature traces up to half steps each way from start, clockwise
// first. The clockwise half may close on start, in which case the loop is
// returned with start prepended. The counter-clockwise half stops if it
// reaches the end of the clockwise half, which also yields LoopFound.
// Otherwise the halves are joined around start and returned as OK; either
// half may be short.
func HighCurvature(img *raster.Image, half int, start Point) (Result, error) {
	cw, err := Trace(img, half, start.Feature(), start, Clockwise)
	if err != nil {
		return Result{}, fmt.Errorf("contour: high curvature: %w", err)
	}

	switch cw.Status {
	case Ignore:
		return Result{Status: Ignore}, nil
	case LoopFound:
		loop := make(Contour, 0, len(cw.Contour)+1)
		loop = append(loop, start)
		loop = append(loop, cw.Contour...)
		return Result{Contour: loop, Status: LoopFound, Steps: len(loop)}, nil
	}

	if len(cw.Contour) == 0 {
		return Result{Contour: Contour{start}, Status: OK, Steps: 1}, nil
	}

	ccw, err := Trace(img, half, cw.Contour[len(cw.Contour)-1].Feature(), start, CounterClockwise)
	if err != nil {
		return Result{}, fmt.Errorf("contour: high curvature: %w", err)
	}

	joined := join(cw.Contour, start, ccw.Contour)
	status := OK
	if ccw.Status == LoopFound {
		status = LoopFound
	}
	return Result{Contour: joined, Status: status, Steps: len(joined)}, nil
}

// Centered returns a contour of exactly 2*half+1 points with start in the
// middle, or a non-OK status when either half loops, is ignored, or falls
// short.
func Centered(img *raster.Image, half int, start Point) (Result, error) {
	if half <= 0 {
		return Result{}, fmt.Errorf("contour: centered half %d: %w", half, ErrInvalidSteps)
	}

	cw, err := Trace(img, half, start.Feature(), start, Clockwise)
	if err != nil {
		return Result{}, fmt.Errorf("contour: centered: %w", err)
	}
	if cw.Status != OK {
		return Result{Status: cw.Status}, nil
	}
	if len(cw.Contour) < half {
		return Result{Status: Incomplete}, nil
	}

	ccw, err := Trace(img, half, cw.Contour[half-1].Feature(), start, CounterClockwise)
	if err != nil {
		return Result{}, fmt.Errorf("contour: centered: %w", err)
	}
	if ccw.Status != OK {
		return Result{Status: ccw.Status}, nil
	}
	if len(ccw.Contour) < half {
		return Result{Status: Incomplete}, nil
	}

	joined := join(cw.Contour, start, ccw.Contour)
	return Result{Contour: joined, Status: OK, Steps: len(joined)}, nil
}

// join orders the clockwise half backwards, then start, then the
// counter-clockwise half, so the result runs continuously through start.
func join(cw Contour, start Point, ccw Contour) Contour {
	out := make(Contour, 0, len(cw)+len(ccw)+1)
	out = append(out, reverse(cw)...)
	out = append(out, start)
	out = append(out, ccw...)
	return out
}
