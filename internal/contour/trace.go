package contour

import (
	"fmt"

	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// Trace walks the boundary from start for at most maxSteps moves in the
// given rotational sense.
//
// The walk stops with LoopFound when the next feature pixel is loop; the
// returned contour then holds only the pixels visited before that move.
// A walk that runs out of valid neighbors returns OK with fewer than
// maxSteps points. Ignore is returned when start's feature and edge pixels
// are not complementary or not inside the image.
func Trace(img *raster.Image, maxSteps int, loop geometry.PointInt, start Point, rot Rotation) (Result, error) {
	if maxSteps < 0 {
		return Result{}, fmt.Errorf("contour: trace %d steps: %w", maxSteps, ErrInvalidSteps)
	}
	if !complementary(img, start) {
		return Result{Status: Ignore}, nil
	}

	contour := make(Contour, 0, maxSteps)
	cur := start
	for i := 0; i < maxSteps; i++ {
		next, ok := NextPixel(img, cur, rot)
		if !ok {
			break
		}
		if next.X == loop.X && next.Y == loop.Y {
			return Result{Contour: contour, Status: LoopFound, Steps: len(contour) + 1}, nil
		}
		contour = append(contour, next)
		cur = next
	}
	return Result{Contour: contour, Status: OK, Steps: len(contour)}, nil
}

// Search walks at most steps moves from start and reports Found as soon as
// the walk lands on target. No contour is kept.
func Search(img *raster.Image, target geometry.PointInt, steps int, start Point, rot Rotation) Status {
	if !complementary(img, start) {
		return NotFound
	}
	cur := start
	for i := 0; i < steps; i++ {
		next, ok := NextPixel(img, cur, rot)
		if !ok {
			return NotFound
		}
		if next.X == target.X && next.Y == target.Y {
			return Found
		}
		cur = next
	}
	return NotFound
}

// NextPixel takes one boundary step from cur.
//
// Neighbors of the feature pixel are scanned starting one past the edge
// pixel. The first feature-colored neighbor preceded by an edge-colored one
// is taken. A corner neighbor is only taken when the neighbor after it is
// also feature-colored; an exposed corner is skipped and scanning continues
// from it. Returns false when all 8 neighbors are exhausted or the scan
// leaves the image.
func NextPixel(img *raster.Image, cur Point, rot Rotation) (Point, bool) {
	if !img.InBounds(cur.X, cur.Y) || !img.InBounds(cur.EX, cur.EY) {
		return Point{}, false
	}
	featurePix := img.At(cur.X, cur.Y)
	edgePix := img.At(cur.EX, cur.EY)

	nbr := startScanIndex(cur)
	if nbr < 0 {
		return Point{}, false
	}

	prevPix := edgePix
	prevX, prevY := cur.EX, cur.EY

	for i := 0; i < 8; i++ {
		nbr = nextScanIndex(nbr, rot)
		nx, ny := cur.X+nbr8DX[nbr], cur.Y+nbr8DY[nbr]
		if !img.InBounds(nx, ny) {
			return Point{}, false
		}
		pix := img.At(nx, ny)

		if pix == featurePix && prevPix == edgePix {
			if nbr%2 == 0 {
				return Point{X: nx, Y: ny, EX: prevX, EY: prevY}, true
			}

			// Corner: probe the following neighbor
			probe := nextScanIndex(nbr, rot)
			px, py := cur.X+nbr8DX[probe], cur.Y+nbr8DY[probe]
			if !img.InBounds(px, py) {
				return Point{}, false
			}
			if img.At(px, py) == featurePix {
				return Point{X: nx, Y: ny, EX: prevX, EY: prevY}, true
			}
		}

		prevPix = pix
		prevX, prevY = nx, ny
	}
	return Point{}, false
}

// FixEdgePair turns a diagonal feature/edge pair into a 4-adjacent one by
// looking at the pixel beside the feature in the edge's column. If that
// pixel has the feature color it becomes the feature pixel, otherwise it
// becomes the edge pixel. Non-diagonal pairs are returned unchanged.
func FixEdgePair(img *raster.Image, p Point) Point {
	dx := p.EX - p.X
	dy := p.EY - p.Y
	if (dx != 1 && dx != -1) || (dy != 1 && dy != -1) {
		return p
	}
	if !img.InBounds(p.X, p.Y) {
		return p
	}

	hx, hy := p.X+dx, p.Y
	if !img.InBounds(hx, hy) {
		return p
	}
	if img.At(hx, hy) == img.At(p.X, p.Y) {
		p.X, p.Y = hx, hy
	} else {
		p.EX, p.EY = hx, hy
	}
	return p
}

// complementary reports whether the feature and edge pixels of p are inside
// the image and of opposite colors.
func complementary(img *raster.Image, p Point) bool {
	if !img.InBounds(p.X, p.Y) || !img.InBounds(p.EX, p.EY) {
		return false
	}
	return img.At(p.X, p.Y) != img.At(p.EX, p.EY)
}

// startScanIndex returns the neighbor index of the edge pixel relative to
// the feature pixel, or -1 unless it is a 4-neighbor.
func startScanIndex(p Point) int {
	idx := neighborIndex(p.EX-p.X, p.EY-p.Y)
	if idx < 0 || idx%2 != 0 {
		return -1
	}
	return idx
}

func nextScanIndex(i int, rot Rotation) int {
	if rot == Clockwise {
		return (i + 1) % 8
	}
	return (i + 7) % 8
}
