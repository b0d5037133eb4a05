package minutia

import (
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// ScanDir is the raster scan orientation a candidate was detected in.
type ScanDir int

const (
	ScanHorizontal ScanDir = iota
	ScanVertical
)

func (s ScanDir) String() string {
	if s == ScanVertical {
		return "vertical"
	}
	return "horizontal"
}

// DirectionLookup answers the block direction at a pixel.
type DirectionLookup interface {
	DirectionAt(x, y int) int
}

// ChooseScanDir returns the scan that cuts across ridges of block
// orientation dir: ridges within 45 degrees of vertical are crossed by a
// horizontal scan.
func ChooseScanDir(dir, ndirs int) ScanDir {
	qtr := ndirs >> 2
	if dir <= qtr || dir > qtr*3 {
		return ScanHorizontal
	}
	return ScanVertical
}

// Update adds m unless an existing entry already describes it, in which
// case Ignore is returned and the list is unchanged.
func Update(l *List, m *Minutia, img *raster.Image, p config.Params) contour.Status {
	for _, e := range l.items {
		if duplicates(e, m, img, p) {
			return contour.Ignore
		}
	}
	l.Append(m)
	return contour.OK
}

// UpdateV2 is Update with a tie-break for duplicates. The first entry that
// m duplicates is replaced by m when the block direction at that entry
// favors m's scan orientation; otherwise m is dropped.
func UpdateV2(l *List, m *Minutia, scan ScanDir, dirs DirectionLookup, img *raster.Image, p config.Params) (contour.Status, error) {
	for i, e := range l.items {
		if !duplicates(e, m, img, p) {
			continue
		}

		dmap := dirs.DirectionAt(e.X, e.Y)
		if dmap != geometry.InvalidDir && ChooseScanDir(dmap, p.NumDirections) == scan {
			if err := l.Remove(i); err != nil {
				return contour.Ignore, err
			}
			l.Append(m)
			return contour.OK, nil
		}
		return contour.Ignore, nil
	}
	l.Append(m)
	return contour.OK, nil
}

// duplicates reports whether m describes the same feature as e: close in x
// and y, same type, similar direction, and either at the same pixel or
// reachable from m along the contour within MaxMinutiaDelta steps.
func duplicates(e, m *Minutia, img *raster.Image, p config.Params) bool {
	dx := abs(e.X - m.X)
	if dx >= p.MaxMinutiaDelta {
		return false
	}
	dy := abs(e.Y - m.Y)
	if dy >= p.MaxMinutiaDelta {
		return false
	}
	if e.Type != m.Type {
		return false
	}

	delta := geometry.DirectionDist(e.Direction, m.Direction, p.FullDirections())
	if delta == geometry.InvalidDir || delta > p.QuarterDirections() {
		return false
	}

	if dx == 0 && dy == 0 {
		return true
	}

	target := e.Feature()
	for _, rot := range []contour.Rotation{contour.Clockwise, contour.CounterClockwise} {
		if contour.Search(img, target, p.MaxMinutiaDelta, m.Point(), rot) == contour.Found {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
