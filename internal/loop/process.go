package loop

import (
	"fmt"
	"math"

	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// LoopFeatureID tags endings synthesized from an elongated loop.
const LoopFeatureID = 10

// FlowLookup answers whether a pixel lies in a low-flow block.
type FlowLookup interface {
	LowFlowAt(x, y int) bool
}

// AspectResult holds the shortest and longest chords between antipodal
// contour points, with the indices of each pair.
type AspectResult struct {
	MinDist, MaxDist float64
	MinFrom, MinTo   int
	MaxFrom, MaxTo   int
}

// Ratio returns MaxDist / MinDist, or +Inf when MinDist is zero.
func (a AspectResult) Ratio() float64 {
	if a.MinDist == 0 {
		return math.Inf(1)
	}
	return a.MaxDist / a.MinDist
}

// Aspect pairs each point with the one halfway around the loop and returns
// the shortest and longest such chords. Even-length loops only need the
// first half of the pairs since the rest repeat.
func Aspect(c contour.Contour) AspectResult {
	n := len(c)
	if n == 0 {
		return AspectResult{}
	}
	halfway := n >> 1
	limit := n
	if n%2 == 0 {
		limit = halfway
	}

	minD := math.MaxFloat64
	maxD := -1.0
	var res AspectResult
	for i := 0; i < limit; i++ {
		j := (i + halfway) % n
		d := geometry.SquaredDistance(c[i].Feature(), c[j].Feature())
		if d < minD {
			minD = d
			res.MinFrom, res.MinTo = i, j
		}
		if d > maxD {
			maxD = d
			res.MaxFrom, res.MaxTo = i, j
		}
	}
	res.MinDist = math.Sqrt(minD)
	res.MaxDist = math.Sqrt(maxD)
	return res
}

// Ending is a minutia synthesized at one end of an elongated loop.
type Ending struct {
	Point       contour.Point
	Direction   int
	Reliability float64
	Color       uint8 // Feature pixel color; Ridge means ridge ending
	Appearing   bool
	FeatureID   int
}

// Outcome reports what Process did with a loop.
type Outcome struct {
	Endings []Ending
	Filled  bool
}

// Process decides what a closed contour represents. A long, narrow loop
// whose widest chord runs through its own feature color becomes two
// endings at the ends of that chord, each pointing across the loop.
// Any other loop is noise and is erased with Fill; a loop around a hole
// loses only its rim pixels.
func Process(img *raster.Image, c contour.Contour, flow FlowLookup, p config.Params) (Outcome, error) {
	if len(c) == 0 {
		return Outcome{}, fmt.Errorf("loop: process: %w", ErrEmptyContour)
	}
	featurePix := img.AtPoint(c[0].Feature())

	if len(c) > p.MinLoopLen {
		a := Aspect(c)
		if a.MinDist < p.MinLoopAspectDist || a.Ratio() >= p.MinLoopAspectRatio {
			from, to := c[a.MaxFrom], c[a.MaxTo]
			mid := from.Feature().Mid(to.Feature())
			if img.AtPoint(mid) == featurePix {
				return Outcome{Endings: []Ending{
					ending(img, from, to, flow, p),
					ending(img, to, from, flow, p),
				}}, nil
			}
		}
	}

	if err := Fill(img, c); err != nil {
		return Outcome{}, err
	}
	return Outcome{Filled: true}, nil
}

func ending(img *raster.Image, at, toward contour.Point, flow FlowLookup, p config.Params) Ending {
	rel := config.HighReliability
	if flow.LowFlowAt(at.X, at.Y) {
		rel = config.MediumReliability
	}
	return Ending{
		Point:       at,
		Direction:   geometry.LineToDirection(at.Feature(), toward.Feature(), p.NumDirections),
		Reliability: rel,
		Color:       img.AtPoint(at.Feature()),
		Appearing:   at.EX < at.X || at.EY < at.Y,
		FeatureID:   LoopFeatureID,
	}
}
