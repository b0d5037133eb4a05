package raster

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"mindetect/pkg/colorutil"

	"github.com/HugoSmits86/nativewebp"
	"gocv.io/x/gocv"
)

// Mark is a minutia as drawn on an overlay.
type Mark struct {
	X, Y        int
	Angle       float64 // Radians, clockwise from north
	Bifurcate   bool
	Reliability float64 // Dims the mark when below 1
}

// RenderOverlay draws the raster in gray with each mark as a circle and a
// direction tick. The caller owns the returned Mat.
func RenderOverlay(im *Image, marks []Mark, scale int) gocv.Mat {
	if scale < 1 {
		scale = 1
	}

	gray := gocv.NewMatWithSize(im.Height, im.Width, gocv.MatTypeCV8U)
	defer gray.Close()
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			if im.At(x, y) == Ridge {
				gray.SetUCharAt(y, x, 96)
			} else {
				gray.SetUCharAt(y, x, 255)
			}
		}
	}

	if scale > 1 {
		gocv.Resize(gray, &gray, image.Point{X: im.Width * scale, Y: im.Height * scale}, 0, 0, gocv.InterpolationNearestNeighbor)
	}

	bgr := gocv.NewMat()
	gocv.CvtColor(gray, &bgr, gocv.ColorGrayToBGR)

	radius := 2 * scale
	tick := 6 * scale
	for _, m := range marks {
		col := colorutil.RidgeEnding
		if m.Bifurcate {
			col = colorutil.Bifurcation
		}
		if m.Reliability >= 0 {
			col = colorutil.Shade(col, 0.4+0.6*m.Reliability)
		}
		c := image.Point{X: m.X*scale + scale/2, Y: m.Y*scale + scale/2}
		end := image.Point{
			X: c.X + int(math.Round(float64(tick)*math.Sin(m.Angle))),
			Y: c.Y - int(math.Round(float64(tick)*math.Cos(m.Angle))),
		}
		gocv.Circle(&bgr, c, radius, col, 1)
		gocv.Line(&bgr, c, end, col, 1)
	}
	return bgr
}

// WriteOverlay encodes an overlay Mat to path. WebP output goes through the
// native encoder; any other extension is left to OpenCV.
func WriteOverlay(path string, mat gocv.Mat) error {
	if strings.ToLower(filepath.Ext(path)) != ".webp" {
		if !gocv.IMWrite(path, mat) {
			return fmt.Errorf("failed to write overlay %s", path)
		}
		return nil
	}

	img, err := mat.ToImage()
	if err != nil {
		return fmt.Errorf("failed to convert overlay: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overlay: %w", err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}
