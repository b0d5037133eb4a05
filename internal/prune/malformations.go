package prune

import (
	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// RemoveMalformations removes minutiae whose feature does not narrow to a
// clean tip. Points MalformationSteps1 and MalformationSteps2 along the
// contour are taken on each side; the far pair must not be much wider
// apart than the near pair and must be joined by a line of the feature
// color. In low-flow blocks the far pair must also be close.
func RemoveMalformations(l *minutia.List, img *raster.Image, maps *blockmap.Maps, p config.Params) (int, error) {
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		a1, b1, ok, err := malformationPoints(img, m, contour.CounterClockwise, p)
		if err != nil || !ok {
			return !ok, err
		}
		a2, b2, ok, err := malformationPoints(img, m, contour.Clockwise, p)
		if err != nil || !ok {
			return !ok, err
		}

		aDist := geometry.Distance(a1, a2)
		if aDist == 0 {
			return true, nil
		}
		bDist := geometry.Distance(b1, b2)
		if bDist/aDist > p.MinMalformationRatio {
			return true, nil
		}

		featurePix := img.AtPoint(m.Feature())
		for _, pt := range geometry.LinePoints(b1, b2) {
			if !img.Contains(pt) || img.AtPoint(pt) != featurePix {
				return true, nil
			}
		}

		if maps.LowFlowAt(m.X, m.Y) && bDist > float64(p.MaxMalformationDist) {
			return true, nil
		}
		return false, nil
	})
}

// malformationPoints traces MalformationSteps2 steps from m and returns the
// feature pixels at the near and far sample steps. ok is false when the
// trace loops, is ignored or falls short.
func malformationPoints(img *raster.Image, m *minutia.Minutia, rot contour.Rotation, p config.Params) (near, far geometry.PointInt, ok bool, err error) {
	res, err := contour.Trace(img, p.MalformationSteps2, m.Feature(), m.Point(), rot)
	if err != nil {
		return near, far, false, err
	}
	if res.Status != contour.OK || len(res.Contour) < p.MalformationSteps2 {
		return near, far, false, nil
	}
	return res.Contour[p.MalformationSteps1-1].Feature(), res.Contour[p.MalformationSteps2-1].Feature(), true, nil
}
