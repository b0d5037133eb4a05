package raster

import (
	"image"
	"image/color"
	"testing"

	"mindetect/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	img, err := FromRows(
		"#.1",
		"0##",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, Ridge, img.At(0, 0))
	assert.Equal(t, Valley, img.At(1, 0))
	assert.Equal(t, Ridge, img.At(2, 0))
	assert.Equal(t, Valley, img.AtPoint(geometry.PointInt{X: 0, Y: 1}))
	assert.Equal(t, "#.#\n.##\n", img.String())

	_, err = FromRows("##", "#")
	assert.ErrorIs(t, err, ErrBadFixture)
	_, err = FromRows("#x")
	assert.ErrorIs(t, err, ErrBadFixture)
}

func TestBoundsAndSet(t *testing.T) {
	img := New(3, 2)
	assert.True(t, img.InBounds(2, 1))
	assert.False(t, img.InBounds(3, 1))
	assert.False(t, img.Contains(geometry.PointInt{X: -1, Y: 0}))

	img.Set(1, 1, Ridge)
	img.Set(5, 5, Ridge) // Ignored
	assert.Equal(t, Ridge, img.At(1, 1))

	c := img.Clone()
	assert.True(t, c.Equal(img))
	c.Set(0, 0, Ridge)
	assert.False(t, c.Equal(img))

	assert.Equal(t, Ridge, Complement(Valley))
	assert.Equal(t, Valley, Complement(Ridge))
}

func TestPad(t *testing.T) {
	img := MustFromRows("#.", ".#")
	padded := img.Pad(1, Valley)
	want := MustFromRows(
		"....",
		".#..",
		"..#.",
		"....",
	)
	assert.True(t, padded.Equal(want), "got:\n%s", padded)
}

func TestBinarizeBilevel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})
	src.SetGray(2, 0, color.Gray{Y: 0})

	img, err := Binarize(src)
	require.NoError(t, err)
	assert.True(t, img.Equal(MustFromRows("#.#")), "got:\n%s", img)
}

func TestBinarizeBilevelPolarityAgrees(t *testing.T) {
	for _, light := range []uint8{1, 255} {
		src := image.NewGray(image.Rect(0, 0, 3, 1))
		src.SetGray(1, 0, color.Gray{Y: light})

		img, err := Binarize(src)
		require.NoError(t, err)
		assert.True(t, img.Equal(MustFromRows("#.#")), "light level %d got:\n%s", light, img)
	}

	black, err := Binarize(image.NewGray(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	assert.True(t, black.Equal(MustFromRows("##", "##")), "got:\n%s", black)
}

func TestBinarizeOtsu(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	for x, g := range []uint8{20, 30, 220, 230} {
		src.SetGray(x, 0, color.Gray{Y: g})
	}

	img, err := Binarize(src)
	require.NoError(t, err)
	assert.True(t, img.Equal(MustFromRows("##..")), "got:\n%s", img)

	_, err = Binarize(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}
