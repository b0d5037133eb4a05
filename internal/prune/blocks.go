package prune

import (
	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/loop"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// filter removes, in order, every entry drop reports true for.
func filter(l *minutia.List, drop func(m *minutia.Minutia) (bool, error)) (int, error) {
	removed := 0
	for i := 0; i < l.Len(); {
		gone, err := drop(l.At(i))
		if err != nil {
			return removed, err
		}
		if !gone {
			i++
			continue
		}
		if err := l.Remove(i); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// RemoveHoles removes bifurcations that sit on a small closed valley
// contour, and any whose pixels are no longer complementary.
func RemoveHoles(l *minutia.List, img *raster.Image, p config.Params) (int, error) {
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		if m.Type != minutia.Bifurcation {
			return false, nil
		}
		status, err := loop.OnLoop(img, m.Point(), p.SmallLoopLen)
		if err != nil {
			return false, err
		}
		return status == contour.LoopFound || status == contour.Ignore, nil
	})
}

// backward steps dist pixels from m against its direction.
func backward(m *minutia.Minutia, dist int, ndirs int) geometry.PointInt {
	dx, dy := geometry.DirectionVector(m.Direction, ndirs)
	return geometry.PointInt{
		X: m.X - geometry.RoundInt(dx*float64(dist)),
		Y: m.Y - geometry.RoundInt(dy*float64(dist)),
	}
}

// RemovePointingInvalidBlock removes minutiae whose backward projection
// lands in a block without a direction or off the map.
func RemovePointingInvalidBlock(l *minutia.List, maps *blockmap.Maps, p config.Params) (int, error) {
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		behind := backward(m, p.TransDirPix, p.NumDirections)
		return maps.DirectionAt(behind.X, behind.Y) == geometry.InvalidDir, nil
	})
}

// RemoveNearInvalidBlock removes minutiae within InvBlockMargin pixels of a
// block side or corner where the neighboring block is off the map, or is
// invalid and surrounded by fewer than RmValidNbrMin valid blocks.
func RemoveNearInvalidBlock(l *minutia.List, maps *blockmap.Maps, p config.Params) (int, error) {
	bs := maps.BlockSize
	margin := p.InvBlockMargin
	return filter(l, func(m *minutia.Minutia) (bool, error) {
		bx, by := maps.BlockOf(m.X, m.Y)
		px := m.X - bx*bs
		py := m.Y - by*bs

		xs := nearSides(px, bs, margin)
		ys := nearSides(py, bs, margin)
		for _, oy := range ys {
			for _, ox := range xs {
				if ox == 0 && oy == 0 {
					continue
				}
				nbx, nby := bx+ox, by+oy
				if !maps.InBlocks(nbx, nby) {
					return true, nil
				}
				if maps.Dir(nbx, nby) == geometry.InvalidDir && maps.ValidNeighbors(nbx, nby) < p.RmValidNbrMin {
					return true, nil
				}
			}
		}
		return false, nil
	})
}

// nearSides returns the block offsets to examine along one axis: always 0,
// plus -1 and/or +1 when the pixel offset is within margin of that side.
func nearSides(off, bs, margin int) []int {
	sides := []int{0}
	if off < margin {
		sides = append(sides, -1)
	}
	if off > bs-1-margin {
		sides = append(sides, 1)
	}
	return sides
}
