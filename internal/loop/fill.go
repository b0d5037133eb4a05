package loop

import (
	"fmt"
	"sort"

	"mindetect/internal/contour"
	"mindetect/internal/raster"
)

// Fill erases the region bounded by c, painting it in the complement of
// the contour's feature color. Each row is filled between successive
// contour columns. When the pixel right of a left column already has the
// fill color the span is a concavity between two lobes and is skipped.
// Fill only uses the contour's own row spans, so it never leaks through
// diagonal gaps the way a flood fill would.
func Fill(img *raster.Image, c contour.Contour) error {
	if len(c) == 0 {
		return fmt.Errorf("loop: fill: %w", ErrEmptyContour)
	}
	fillPix := raster.Complement(img.AtPoint(c[0].Feature()))

	rows := shapeRows(c)
	ys := make([]int, 0, len(rows))
	for y := range rows {
		ys = append(ys, y)
	}
	sort.Ints(ys)

	for _, y := range ys {
		xs := rows[y]
		for i := 0; i < len(xs); i++ {
			lx := xs[i]
			img.Set(lx, y, fillPix)
			if i+1 >= len(xs) {
				continue
			}
			if img.InBounds(lx+1, y) && img.At(lx+1, y) == fillPix {
				continue
			}
			rx := xs[i+1]
			for x := lx + 1; x <= rx; x++ {
				img.Set(x, y, fillPix)
			}
			i++
		}
	}
	return nil
}

// shapeRows groups the contour's feature columns by row, sorted and
// deduplicated.
func shapeRows(c contour.Contour) map[int][]int {
	rows := make(map[int][]int)
	for _, p := range c {
		rows[p.Y] = append(rows[p.Y], p.X)
	}
	for y, xs := range rows {
		sort.Ints(xs)
		uniq := xs[:0]
		for _, x := range xs {
			if len(uniq) == 0 || x != uniq[len(uniq)-1] {
				uniq = append(uniq, x)
			}
		}
		rows[y] = uniq
	}
	return rows
}
