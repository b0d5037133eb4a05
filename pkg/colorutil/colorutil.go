// Package colorutil provides shared overlay colors for minutia rendering.
package colorutil

import (
	"image/color"
)

// Overlay colors.
var (
	RidgeEnding = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Bifurcation = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// Shade blends c toward white by (1 - weight). weight is clamped to [0,1];
// a weight of 1 returns c unchanged.
func Shade(c color.RGBA, weight float64) color.RGBA {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}
	mix := func(v uint8) uint8 {
		return uint8(float64(v)*weight + 255*(1-weight) + 0.5)
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
