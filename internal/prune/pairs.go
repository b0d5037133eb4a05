package prune

import (
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/loop"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// pairVerdict is what a pair test decides about (first, second).
type pairVerdict int

const (
	keepPair pairVerdict = iota
	removeBoth
	removeFirst
)

// scanPairs runs test over each unmarked pair (f, s) with s after f and
// within yLimit rows below it, and removes everything marked. The list must
// be sorted by y. Once first is marked, its remaining pairs are skipped.
func scanPairs(l *minutia.List, yLimit int, test func(first, second *minutia.Minutia) (pairVerdict, error)) (int, error) {
	n := l.Len()
	marks := make([]bool, n)

	for f := 0; f < n-1; f++ {
		if marks[f] {
			continue
		}
		first := l.At(f)
		for s := f + 1; s < n; s++ {
			second := l.At(s)
			if second.Y-first.Y > yLimit {
				break
			}
			if marks[s] {
				continue
			}

			verdict, err := test(first, second)
			if err != nil {
				return 0, err
			}
			if verdict == removeBoth {
				marks[f], marks[s] = true, true
			}
			if verdict == removeFirst {
				marks[f] = true
			}
			if marks[f] {
				break
			}
		}
	}
	return l.RemoveMarked(marks)
}

// opposed reports whether two minutiae point roughly away from each other.
func opposed(a, b *minutia.Minutia, p config.Params) bool {
	delta := geometry.DirectionDist(a.Direction, b.Direction, p.FullDirections())
	return delta != geometry.InvalidDir && p.NearOpposite(delta)
}

// RemoveIslandsAndLakes finds pairs of like minutiae at opposite ends of a
// small closed contour, erases the contour from img and removes both.
func RemoveIslandsAndLakes(l *minutia.List, img *raster.Image, p config.Params) (int, error) {
	dist := float64(p.MaxRmTestDist)
	return scanPairs(l, p.MaxRmTestDist, func(first, second *minutia.Minutia) (pairVerdict, error) {
		if first.Type != second.Type {
			return keepPair, nil
		}
		if geometry.Distance(first.Feature(), second.Feature()) > dist || !opposed(first, second, p) {
			return keepPair, nil
		}

		c, status, err := loop.OnIslandLake(img, first.Point(), second.Point(), p.MaxHalfLoop)
		if err != nil {
			return keepPair, err
		}
		if status != contour.LoopFound {
			return keepPair, nil
		}
		if err := loop.Fill(img, c); err != nil {
			return keepPair, err
		}
		return removeBoth, nil
	})
}

// RemoveHooks removes pairs of unlike minutiae joined by a short stretch
// of contour. A first minutia whose pixels are no longer complementary is
// removed on its own.
func RemoveHooks(l *minutia.List, img *raster.Image, p config.Params) (int, error) {
	dist := float64(p.MaxRmTestDist)
	return scanPairs(l, p.MaxRmTestDist, func(first, second *minutia.Minutia) (pairVerdict, error) {
		if first.Type == second.Type {
			return keepPair, nil
		}
		if geometry.Distance(first.Feature(), second.Feature()) > dist || !opposed(first, second, p) {
			return keepPair, nil
		}

		status, err := loop.OnHook(img, first.Point(), second.Point(), p.MaxHookLen)
		if err != nil {
			return keepPair, err
		}
		switch status {
		case contour.LoopFound:
			return removeBoth, nil
		case contour.Ignore:
			return removeFirst, nil
		}
		return keepPair, nil
	})
}

// RemoveOverlaps removes pairs of like minutiae facing each other across a
// small break in a ridge or valley. Close pairs go unconditionally; farther
// ones must lie along a clean line in the first minutia's reverse
// direction. With JoinOverlaps set the break is also painted over.
func RemoveOverlaps(l *minutia.List, img *raster.Image, p config.Params) (int, error) {
	maxDist := float64(p.MaxOverlapDist)
	joinDist := float64(p.MaxOverlapJoinDist)
	return scanPairs(l, p.MaxOverlapDist, func(first, second *minutia.Minutia) (pairVerdict, error) {
		if first.Type != second.Type {
			return keepPair, nil
		}
		d := geometry.Distance(first.Feature(), second.Feature())
		if d > maxDist || !opposed(first, second, p) {
			return keepPair, nil
		}

		joined := d <= joinDist
		if !joined {
			joinDir := geometry.LineToDirection(first.Feature(), second.Feature(), p.NumDirections)
			delta := geometry.DirectionDist(first.Direction, joinDir, p.FullDirections())
			joined = delta != geometry.InvalidDir && p.NearOpposite(delta) &&
				transitions(img, first.Feature(), second.Feature()) <= p.MaxTrans
		}
		if !joined {
			return keepPair, nil
		}

		if p.JoinOverlaps {
			joinLine(img, first.Feature(), second.Feature(), img.AtPoint(first.Feature()), p.JoinLineRadius)
		}
		return removeBoth, nil
	})
}

// transitions counts color changes along the straight line from a to b.
func transitions(img *raster.Image, a, b geometry.PointInt) int {
	pts := geometry.LinePoints(a, b)
	n := 0
	for i := 1; i < len(pts); i++ {
		if !img.Contains(pts[i]) || !img.Contains(pts[i-1]) {
			n++
			continue
		}
		if img.AtPoint(pts[i]) != img.AtPoint(pts[i-1]) {
			n++
		}
	}
	return n
}

// joinLine paints a square brush of the given radius along the line from a
// to b.
func joinLine(img *raster.Image, a, b geometry.PointInt, v uint8, radius int) {
	for _, pt := range geometry.LinePoints(a, b) {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				img.Set(pt.X+dx, pt.Y+dy, v)
			}
		}
	}
}
