// Package raster provides the binary pixel grid that contours are traced on,
// plus loading, binarization and overlay helpers around it.
package raster

import (
	"errors"
	"fmt"
	"strings"

	"mindetect/pkg/geometry"
)

// Pixel colors of a binarized fingerprint.
const (
	Valley uint8 = 0 // White background between ridges
	Ridge  uint8 = 1 // Black ridge pixel
)

// ErrBadFixture is returned by FromRows for ragged or unknown input.
var ErrBadFixture = errors.New("malformed raster rows")

// Image is a row-major binary raster of Ridge/Valley pixels.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New creates a Valley-filled image.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// FromRows builds an image from text rows where '#' or '1' is Ridge and
// '.' or '0' is Valley.
func FromRows(rows ...string) (*Image, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	w := len(rows[0])
	img := New(w, len(rows))
	for y, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrBadFixture, y, len(row), w)
		}
		for x, c := range row {
			switch c {
			case '#', '1':
				img.Pix[y*w+x] = Ridge
			case '.', '0':
				img.Pix[y*w+x] = Valley
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrBadFixture, c, x, y)
			}
		}
	}
	return img, nil
}

// MustFromRows is FromRows for fixed, known-good input.
func MustFromRows(rows ...string) *Image {
	img, err := FromRows(rows...)
	if err != nil {
		panic(err)
	}
	return img
}

// String renders the image in the FromRows format.
func (im *Image) String() string {
	var sb strings.Builder
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			if im.Pix[y*im.Width+x] == Ridge {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// InBounds reports whether (x, y) lies inside the image.
func (im *Image) InBounds(x, y int) bool {
	return x >= 0 && x < im.Width && y >= 0 && y < im.Height
}

// Contains reports whether p lies inside the image.
func (im *Image) Contains(p geometry.PointInt) bool {
	return im.InBounds(p.X, p.Y)
}

// At returns the pixel at (x, y). The caller guarantees bounds.
func (im *Image) At(x, y int) uint8 {
	return im.Pix[y*im.Width+x]
}

// AtPoint returns the pixel at p. The caller guarantees bounds.
func (im *Image) AtPoint(p geometry.PointInt) uint8 {
	return im.Pix[p.Y*im.Width+p.X]
}

// Set assigns the pixel at (x, y) if it is inside the image.
func (im *Image) Set(x, y int, v uint8) {
	if im.InBounds(x, y) {
		im.Pix[y*im.Width+x] = v
	}
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := &Image{Width: im.Width, Height: im.Height, Pix: make([]uint8, len(im.Pix))}
	copy(out.Pix, im.Pix)
	return out
}

// Equal reports whether two images have identical size and pixels.
func (im *Image) Equal(other *Image) bool {
	if im.Width != other.Width || im.Height != other.Height {
		return false
	}
	for i := range im.Pix {
		if im.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// Pad returns a copy surrounded by a border of n pixels of the given color.
func (im *Image) Pad(n int, value uint8) *Image {
	out := New(im.Width+2*n, im.Height+2*n)
	for i := range out.Pix {
		out.Pix[i] = value
	}
	for y := 0; y < im.Height; y++ {
		copy(out.Pix[(y+n)*out.Width+n:(y+n)*out.Width+n+im.Width], im.Pix[y*im.Width:(y+1)*im.Width])
	}
	return out
}

// Complement returns the opposite pixel color.
func Complement(v uint8) uint8 {
	if v == Ridge {
		return Valley
	}
	return Ridge
}
