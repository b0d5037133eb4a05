package prune

import (
	"strings"
	"testing"

	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/contour"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(x, y, ex, ey, dir int, t minutia.Type) *minutia.Minutia {
	return minutia.New(contour.Point{X: x, Y: y, EX: ex, EY: ey}, dir, config.HighReliability, t, true, 0)
}

func listOf(ms ...*minutia.Minutia) *minutia.List {
	l := minutia.NewList(len(ms), 8)
	for _, m := range ms {
		l.Append(m)
	}
	return l
}

// bars draws two pixel thick horizontal ridges on rows y and y+1, one per
// [from, to] column span.
func bars(width, height, y int, spans ...[2]int) *raster.Image {
	rows := make([]string, height)
	for r := range rows {
		row := []byte(strings.Repeat(".", width))
		if r == y || r == y+1 {
			for _, s := range spans {
				for x := s[0]; x <= s[1]; x++ {
					row[x] = '#'
				}
			}
		}
		rows[r] = string(row)
	}
	return raster.MustFromRows(rows...)
}

func TestExtrema(t *testing.T) {
	ext := extrema([]int{3, 2, 1, 0, 0, 1, 2})
	require.Len(t, ext, 1)
	assert.Equal(t, extremum{idx: 3, value: 0, min: true}, ext[0])

	ext = extrema([]int{2, 1, 2, 3, 3, 3, 2, 0, 1})
	require.Len(t, ext, 3)
	assert.True(t, ext[0].min)
	assert.Equal(t, 1, ext[0].idx)
	assert.False(t, ext[1].min)
	assert.Equal(t, 4, ext[1].idx)
	assert.Equal(t, 7, ext[2].idx)

	assert.Empty(t, extrema([]int{0, 0, 0, 0}))
	assert.Empty(t, extrema([]int{1, 2}))
}

func TestRemoveIslandsAndLakes(t *testing.T) {
	img := raster.MustFromRows(
		"........",
		"..####..",
		"..####..",
		"........",
		"........",
	)
	p := config.DefaultParams()
	l := listOf(
		mk(2, 1, 1, 1, 8, minutia.RidgeEnding),
		mk(5, 2, 6, 2, 24, minutia.RidgeEnding),
	)

	n, err := RemoveIslandsAndLakes(l, img, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, l.Len())
	assert.True(t, img.Equal(raster.New(8, 5)), "island should be erased:\n%s", img)
}

func TestRemoveIslandsKeepsUnlikePairs(t *testing.T) {
	img := raster.MustFromRows(
		"........",
		"..####..",
		"..####..",
		"........",
		"........",
	)
	before := img.Clone()
	l := listOf(
		mk(2, 1, 1, 1, 8, minutia.RidgeEnding),
		mk(5, 2, 6, 2, 24, minutia.Bifurcation),
	)

	n, err := RemoveIslandsAndLakes(l, img, config.DefaultParams())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, l.Len())
	assert.True(t, img.Equal(before))
}

func TestRemoveHoles(t *testing.T) {
	img := raster.MustFromRows(
		"########",
		"########",
		"###..###",
		"###..###",
		"########",
		"########",
	)
	l := listOf(
		mk(3, 2, 2, 2, 8, minutia.Bifurcation),
		mk(0, 0, 1, 0, 8, minutia.Bifurcation), // Both ridge, no longer complementary
		mk(3, 2, 2, 2, 8, minutia.RidgeEnding),
	)

	n, err := RemoveHoles(l, img, config.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, minutia.RidgeEnding, l.At(0).Type)
}

func TestRemovePointingInvalidBlock(t *testing.T) {
	p := config.DefaultParams()
	maps := blockmap.Uniform(16, 16, 8, 0)
	maps.Direction[0] = geometry.InvalidDir

	l := listOf(
		mk(12, 4, 11, 4, 8, minutia.RidgeEnding),   // Behind is (6,4), block (0,0)
		mk(12, 12, 11, 12, 8, minutia.RidgeEnding), // Behind is (6,12), block (0,1)
		mk(2, 12, 1, 12, 8, minutia.RidgeEnding),   // Behind is off the map
	)

	n, err := RemovePointingInvalidBlock(l, maps, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, 12, l.At(0).Y)
}

func TestRemoveNearInvalidBlock(t *testing.T) {
	p := config.DefaultParams()
	p.InvBlockMargin = 2
	maps := blockmap.Uniform(24, 24, 8, 0)
	maps.Direction[1*maps.Width+0] = geometry.InvalidDir

	l := listOf(
		mk(11, 4, 11, 3, 0, minutia.RidgeEnding),   // Interior of block (1,0)
		mk(8, 11, 8, 10, 0, minutia.RidgeEnding),   // Left margin, beside invalid (0,1)
		mk(11, 11, 11, 10, 0, minutia.RidgeEnding), // Interior of block (1,1)
		mk(17, 17, 17, 16, 0, minutia.RidgeEnding), // Corner margin, all neighbors valid
		mk(1, 20, 1, 19, 0, minutia.RidgeEnding),   // Left margin at the map edge
	)

	n, err := RemoveNearInvalidBlock(l, maps, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var kept [][2]int
	for _, m := range l.Items() {
		kept = append(kept, [2]int{m.X, m.Y})
	}
	assert.Equal(t, [][2]int{{11, 4}, {11, 11}, {17, 17}}, kept)
}

func TestRemoveOrAdjustSideMinutiae(t *testing.T) {
	img := bars(24, 6, 2, [2]int{2, 21})
	p := config.DefaultParams()
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 4)

	tip := mk(2, 2, 1, 2, 8, minutia.RidgeEnding)
	side := mk(6, 2, 6, 1, 16, minutia.RidgeEnding)
	l := listOf(tip, side)

	n, err := RemoveOrAdjustSideMinutiae(l, img, maps, p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, l.Len())
	assert.Same(t, tip, l.At(0))
	assert.Equal(t, contour.Point{X: 2, Y: 2, EX: 1, EY: 2}, tip.Point())
}

func TestRemoveOrAdjustSideMinutiaeSettles(t *testing.T) {
	img := bars(24, 6, 2, [2]int{2, 21})
	p := config.DefaultParams()
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 4)

	// Lower pixel of the tip column; the plateau midpoint is the upper one
	m := mk(2, 3, 1, 3, 8, minutia.RidgeEnding)
	l := listOf(m)

	n, err := RemoveOrAdjustSideMinutiae(l, img, maps, p)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, contour.Point{X: 2, Y: 2, EX: 1, EY: 2}, m.Point())

	n, err = RemoveOrAdjustSideMinutiae(l, img, maps, p)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, contour.Point{X: 2, Y: 2, EX: 1, EY: 2}, m.Point())
}

func TestRemoveHooks(t *testing.T) {
	img := bars(16, 6, 2, [2]int{2, 13})
	p := config.DefaultParams()

	l := listOf(
		mk(4, 2, 4, 1, 16, minutia.RidgeEnding),
		mk(8, 2, 8, 1, 0, minutia.Bifurcation),
	)
	n, err := RemoveHooks(l, img, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, l.Len())

	// A first minutia on a same-colored pair is dropped alone
	l = listOf(
		mk(4, 2, 5, 2, 16, minutia.RidgeEnding),
		mk(8, 2, 8, 1, 0, minutia.Bifurcation),
	)
	n, err = RemoveHooks(l, img, p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, minutia.Bifurcation, l.At(0).Type)
}

func TestRemoveOverlaps(t *testing.T) {
	p := config.DefaultParams()

	// Close pair across a 3 pixel gap
	img := bars(22, 6, 2, [2]int{2, 8}, [2]int{12, 18})
	l := listOf(
		mk(8, 2, 9, 2, 24, minutia.RidgeEnding),
		mk(12, 2, 11, 2, 8, minutia.RidgeEnding),
	)
	n, err := RemoveOverlaps(l, img, p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, raster.Valley, img.At(10, 2), "no join unless asked")

	// Farther pair along a clean line, joined on the raster
	img = bars(24, 6, 2, [2]int{2, 8}, [2]int{15, 20})
	l = listOf(
		mk(8, 2, 9, 2, 24, minutia.RidgeEnding),
		mk(15, 2, 14, 2, 8, minutia.RidgeEnding),
	)
	n, err = RemoveOverlaps(l, img, p.WithOverlapJoin(true, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for x := 9; x <= 14; x++ {
		assert.Equal(t, raster.Ridge, img.At(x, 2), "x=%d", x)
	}
	assert.Equal(t, raster.Valley, img.At(10, 3))

	// Same facing is not an overlap
	img = bars(22, 6, 2, [2]int{2, 8}, [2]int{12, 18})
	l = listOf(
		mk(8, 2, 9, 2, 24, minutia.RidgeEnding),
		mk(12, 2, 11, 2, 24, minutia.RidgeEnding),
	)
	n, err = RemoveOverlaps(l, img, p)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, l.Len())
}

func TestRemoveMalformations(t *testing.T) {
	p := config.DefaultParams()
	img := bars(34, 6, 2, [2]int{2, 31})
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 8)

	blob := raster.MustFromRows(
		"......",
		"..##..",
		"..##..",
		"......",
	)

	l := listOf(mk(2, 2, 1, 2, 8, minutia.RidgeEnding))
	n, err := RemoveMalformations(l, img, maps, p)
	require.NoError(t, err)
	assert.Zero(t, n, "clean tip is kept")

	l = listOf(mk(2, 1, 1, 1, 8, minutia.RidgeEnding))
	n, err = RemoveMalformations(l, blob, blockmap.Uniform(6, 4, p.BlockSize, 8), p)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "contour closes before the far sample")
}

func TestRemovePores(t *testing.T) {
	p := config.DefaultParams()
	rows := make([]string, 9)
	for y := range rows {
		if y >= 2 && y <= 6 {
			rows[y] = "." + strings.Repeat("#", 28) + "."
		} else {
			rows[y] = strings.Repeat(".", 30)
		}
	}
	img := raster.MustFromRows(rows...)
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 8)
	maps.LowFlow[1] = 1

	l := listOf(
		mk(14, 4, 13, 4, 8, minutia.RidgeEnding), // Low flow, ridge continues on both sides
		mk(26, 4, 25, 4, 8, minutia.RidgeEnding), // Ordinary block
	)

	n, err := RemovePores(l, img, maps, p)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, 26, l.At(0).X)
}

func TestRemovePoresReportsTraceErrors(t *testing.T) {
	p := config.DefaultParams()
	p.PoresStepsBwd = -1
	rows := make([]string, 9)
	for y := range rows {
		if y >= 2 && y <= 6 {
			rows[y] = "." + strings.Repeat("#", 28) + "."
		} else {
			rows[y] = strings.Repeat(".", 30)
		}
	}
	img := raster.MustFromRows(rows...)
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 8)
	maps.LowFlow[1] = 1

	l := listOf(mk(14, 4, 13, 4, 8, minutia.RidgeEnding))
	_, err := RemovePores(l, img, maps, p)
	assert.ErrorIs(t, err, contour.ErrInvalidSteps)
	assert.Equal(t, 1, l.Len())
}

func TestStagesAreIdempotent(t *testing.T) {
	p := config.DefaultParams()
	fixture := func() (*minutia.List, *raster.Image, *blockmap.Maps) {
		img := bars(40, 24, 11, [2]int{10, 35})
		maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 4)
		maps.LowFlow[maps.Width+4] = 1 // Block under the right tip
		l := listOf(
			mk(10, 12, 9, 12, 8, minutia.RidgeEnding),
			mk(20, 11, 20, 10, 16, minutia.RidgeEnding),
			mk(35, 12, 36, 12, 24, minutia.RidgeEnding),
			mk(27, 12, 27, 13, 0, minutia.RidgeEnding),
		)
		l.SortYX()
		return l, img, maps
	}

	for _, s := range stages {
		t.Run(s.name, func(t *testing.T) {
			l, img, maps := fixture()
			_, err := s.run(l, img, maps, p)
			require.NoError(t, err)

			var before []minutia.Minutia
			for _, m := range l.Items() {
				before = append(before, *m)
			}
			imgBefore := img.Clone()

			n, err := s.run(l, img, maps, p)
			require.NoError(t, err)
			assert.Zero(t, n)
			var after []minutia.Minutia
			for _, m := range l.Items() {
				after = append(after, *m)
			}
			assert.Equal(t, before, after)
			assert.True(t, img.Equal(imgBefore), "got:\n%s", img)
		})
	}
}

func TestRunKeepsCleanTipAndIsIdempotent(t *testing.T) {
	p := config.DefaultParams()
	img := bars(40, 24, 11, [2]int{10, 35})
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 4)

	l := listOf(
		mk(20, 11, 20, 10, 16, minutia.RidgeEnding),
		mk(10, 11, 9, 11, 8, minutia.RidgeEnding),
	)

	rep, err := Run(l, img, maps, p)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Before)
	assert.Equal(t, 1, rep.After)
	require.Len(t, rep.Stages, len(StageNames()))
	for i, s := range rep.Stages {
		assert.Equal(t, StageNames()[i], s.Name)
		if s.Name == "side_minutiae" {
			assert.Equal(t, 1, s.Removed)
		} else {
			assert.Zero(t, s.Removed, s.Name)
		}
	}
	require.Equal(t, 1, l.Len())
	assert.Equal(t, 10, l.At(0).X)
	assert.InDelta(t, config.HighReliability, rep.MeanReliability, 1e-9)
	assert.Zero(t, rep.StdReliability)

	snapshot := *l.At(0)
	imgBefore := img.Clone()
	rep, err = Run(l, img, maps, p)
	require.NoError(t, err)
	assert.Equal(t, rep.Before, rep.After)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, snapshot, *l.At(0))
	assert.True(t, img.Equal(imgBefore))
}

func TestRunRejectsInvalidParams(t *testing.T) {
	p := config.DefaultParams()
	p.MalformationSteps1 = 0
	img := bars(24, 6, 2, [2]int{2, 21})
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 4)
	l := listOf(mk(2, 2, 1, 2, 8, minutia.RidgeEnding))

	rep, err := Run(l, img, maps, p)
	assert.ErrorIs(t, err, config.ErrInvalidParams)
	assert.Empty(t, rep.Stages)
	assert.Equal(t, 1, l.Len())
}

func TestRunNeverGrows(t *testing.T) {
	p := config.DefaultParams()
	img := raster.MustFromRows(
		"........",
		"..####..",
		"..####..",
		"........",
		"........",
	)
	maps := blockmap.Uniform(img.Width, img.Height, p.BlockSize, 0)

	rep, err := Run(minutia.NewList(0, 1), img, maps, p)
	require.NoError(t, err)
	assert.Zero(t, rep.Before)
	assert.Zero(t, rep.After)

	l := listOf(
		mk(5, 2, 6, 2, 24, minutia.RidgeEnding),
		mk(2, 1, 1, 1, 8, minutia.RidgeEnding),
	)
	rep, err = Run(l, img, maps, p)
	require.NoError(t, err)
	assert.LessOrEqual(t, rep.After, rep.Before)
	assert.Equal(t, 2, rep.Stages[1].Removed, "sorted pair is erased as an island")
}
