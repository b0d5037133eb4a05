package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load decodes a fingerprint image from disk (PNG, JPEG, TIFF, BMP or TGA).
func Load(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Binarize converts a grayscale or color scan into a Ridge/Valley raster.
// Dark pixels are Ridge throughout. Images that hold only 0/1 or 0/255 gray
// levels are mapped directly, gray 0 to Ridge and anything else to Valley,
// so a uniformly black image is all Ridge. Everything else goes through an
// Otsu threshold.
func Binarize(img image.Image) (*Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	gray := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	defer gray.Close()

	levels := make(map[uint8]bool)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray).Y
			gray.SetUCharAt(y, x, g)
			if len(levels) <= 2 {
				levels[g] = true
			}
		}
	}

	out := New(w, h)
	if subsetOf(levels, 0, 1) || subsetOf(levels, 0, 255) {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if gray.GetUCharAt(y, x) == 0 {
					out.Pix[y*w+x] = Ridge
				}
			}
		}
		return out, nil
	}

	// Dark ridges become 1 after the inverted threshold
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 1, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = binary.GetUCharAt(y, x)
		}
	}
	return out, nil
}

// subsetOf reports whether every observed gray level is one of allowed.
func subsetOf(levels map[uint8]bool, allowed ...uint8) bool {
	if len(levels) > len(allowed) {
		return false
	}
	for g := range levels {
		ok := false
		for _, a := range allowed {
			if g == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
