package minutia

import (
	"fmt"

	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/loop"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// FlowMaps is the block map view admission needs.
type FlowMaps interface {
	DirectionLookup
	LowFlowAt(x, y int) bool
	HighCurveAt(x, y int) bool
}

// Candidate is a provisional minutia as reported by the pixel-pattern
// scan.
type Candidate struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	EX        int     `json:"ex"`
	EY        int     `json:"ey"`
	Type      Type    `json:"type"`
	Appearing bool    `json:"appearing"`
	FeatureID int     `json:"feature_id"`
	Scan      ScanDir `json:"scan"`
}

// Point returns the candidate's feature/edge pair.
func (c Candidate) Point() contour.Point {
	return contour.Point{X: c.X, Y: c.Y, EX: c.EX, EY: c.EY}
}

// Adjusted is a high-curvature candidate moved to its sharpest contour
// point.
type Adjusted struct {
	Point     contour.Point
	Direction int
}

// Admit scores a candidate and adds it to the list. Candidates in blocks
// without a direction are dropped. In high-curvature blocks the candidate
// is moved to the sharpest point of its contour; elsewhere its direction
// comes from the block orientation. The result goes through UpdateV2.
func Admit(l *List, c Candidate, img *raster.Image, maps FlowMaps, p config.Params) (contour.Status, error) {
	dmap := maps.DirectionAt(c.X, c.Y)
	if dmap == geometry.InvalidDir {
		return contour.Ignore, nil
	}

	pt := c.Point()
	var dir int
	if maps.HighCurveAt(c.X, c.Y) {
		adj, status, err := AdjustHighCurvature(l, pt, img, maps, p)
		if err != nil {
			return contour.Ignore, fmt.Errorf("minutia: admit (%d,%d): %w", c.X, c.Y, err)
		}
		if status != contour.OK {
			return contour.Ignore, nil
		}
		pt = adj.Point
		dir = adj.Direction
	} else {
		dir = lowCurvatureDirection(c.Scan, c.Appearing, dmap, p.NumDirections)
	}

	rel := config.HighReliability
	if maps.LowFlowAt(c.X, c.Y) {
		rel = config.MediumReliability
	}

	m := New(pt, dir, rel, c.Type, c.Appearing, c.FeatureID)
	return UpdateV2(l, m, c.Scan, maps, img, p)
}

// lowCurvatureDirection picks which of the two senses of block orientation
// dmap points into the minutia's body. An appearing feature starts at the
// scan position, so its body lies toward increasing x (horizontal scan) or
// y (vertical scan).
func lowCurvatureDirection(scan ScanDir, appearing bool, dmap, ndirs int) int {
	dx, dy := geometry.DirectionVector(dmap, ndirs)
	along := dx
	if scan == ScanVertical {
		along = dy
	}
	if (appearing && along < 0) || (!appearing && along > 0) {
		return geometry.OppositeDirection(dmap, ndirs)
	}
	return dmap
}

// AdjustHighCurvature moves a candidate in a high-curvature block onto the
// sharpest point of the contour around it. A contour that closes on itself
// is handed to loop processing; any endings that yields are added to l with
// Update, and the candidate itself is dropped. Ignore is also returned when
// the sharpest turn is too shallow or its inside is not feature-colored.
func AdjustHighCurvature(l *List, start contour.Point, img *raster.Image, maps FlowMaps, p config.Params) (Adjusted, contour.Status, error) {
	half := p.HighCurveHalfContour
	edge := half >> 1

	res, err := contour.HighCurvature(img, half, start)
	if err != nil {
		return Adjusted{}, contour.Ignore, err
	}

	switch res.Status {
	case contour.Ignore:
		return Adjusted{}, contour.Ignore, nil
	case contour.LoopFound:
		if err := processLoop(l, res.Contour, img, maps, p); err != nil {
			return Adjusted{}, contour.Ignore, err
		}
		return Adjusted{}, contour.Ignore, nil
	}

	c := res.Contour
	idx, theta, status := contour.MinTheta(c, edge)
	if status != contour.OK || theta >= p.MaxHighCurveTheta {
		return Adjusted{}, contour.Ignore, nil
	}

	sharp := c[idx]
	mid := c[idx-edge].Feature().Mid(c[idx+edge].Feature())
	if img.AtPoint(mid) != img.AtPoint(sharp.Feature()) {
		return Adjusted{}, contour.Ignore, nil
	}

	return Adjusted{
		Point:     sharp,
		Direction: geometry.LineToDirection(sharp.Feature(), mid, p.NumDirections),
	}, contour.OK, nil
}

// processLoop resolves a closed contour and admits any endings it yields.
func processLoop(l *List, c contour.Contour, img *raster.Image, maps FlowMaps, p config.Params) error {
	out, err := loop.Process(img, c, maps, p)
	if err != nil {
		return err
	}
	for _, e := range out.Endings {
		m := New(e.Point, e.Direction, e.Reliability, TypeOf(e.Color), e.Appearing, e.FeatureID)
		Update(l, m, img, p)
	}
	return nil
}
