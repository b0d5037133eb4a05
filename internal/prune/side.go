package prune

import (
	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// extremum is a turning point in a sequence, located at the middle of any
// plateau it sits on.
type extremum struct {
	idx   int
	value int
	min   bool
}

// extrema returns the local minima and maxima of v in order.
func extrema(v []int) []extremum {
	var out []extremum
	if len(v) < 3 {
		return out
	}

	state := 0 // -1 descending, +1 ascending
	start := 0 // First index of the current run's last level
	for i := 1; i < len(v); i++ {
		d := v[i] - v[i-1]
		switch {
		case d > 0:
			if state < 0 {
				loc := (start + i - 1) / 2
				out = append(out, extremum{idx: loc, value: v[loc], min: true})
			}
			state = 1
			start = i
		case d < 0:
			if state > 0 {
				loc := (start + i - 1) / 2
				out = append(out, extremum{idx: loc, value: v[loc], min: false})
			}
			state = -1
			start = i
		}
	}
	return out
}

// sideSettlePasses caps how many times a side minutia is re-centered on
// its chosen minimum before it is given up on.
const sideSettlePasses = 4

// RemoveOrAdjustSideMinutiae checks that each minutia sits at the tip of
// its feature. The contour around the minutia is projected onto the
// minutia's direction; a tip shows a single minimum, or two minima with a
// maximum between them where the deeper minimum wins. The contour is
// re-centered on that minimum until the minimum is its own center, and the
// minutia moves there. Anything else, a minimum that never settles, or one
// in a block without direction, is removed.
func RemoveOrAdjustSideMinutiae(l *minutia.List, img *raster.Image, maps *blockmap.Maps, p config.Params) (int, error) {
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		at := m.Point()
		for pass := 0; pass < sideSettlePasses; pass++ {
			c, loc, err := sideMinimum(img, at, m.Direction, p)
			if err != nil {
				return false, err
			}
			if loc < 0 {
				return true, nil
			}
			at = c[loc]
			if loc != p.SideHalfContour {
				continue
			}
			if maps.DirectionAt(at.X, at.Y) == geometry.InvalidDir {
				return true, nil
			}
			m.MoveTo(at)
			return false, nil
		}
		return true, nil
	})
}

// sideMinimum traces the centered contour around at and returns it with
// the index of the tip minimum along dir, or -1 when the profile has no
// usable minimum.
func sideMinimum(img *raster.Image, at contour.Point, dir int, p config.Params) (contour.Contour, int, error) {
	res, err := contour.Centered(img, p.SideHalfContour, at)
	if err != nil {
		return nil, -1, err
	}
	if res.Status != contour.OK {
		return nil, -1, nil
	}

	ux, uy := geometry.DirectionVector(dir, p.NumDirections)
	proj := make([]int, len(res.Contour))
	for i, pt := range res.Contour {
		dx := float64(pt.X - at.X)
		dy := float64(pt.Y - at.Y)
		proj[i] = geometry.RoundInt(dx*ux + dy*uy)
	}

	ext := extrema(proj)
	switch {
	case len(ext) == 1 && ext[0].min:
		return res.Contour, ext[0].idx, nil
	case len(ext) == 3 && ext[0].min && !ext[1].min && ext[2].min:
		if ext[0].value < ext[2].value {
			return res.Contour, ext[0].idx, nil
		}
		return res.Contour, ext[2].idx, nil
	}
	return res.Contour, -1, nil
}
