// Command contourtest traces one contour on a fingerprint image and prints
// the walk.
package main

import (
	"flag"
	"fmt"
	"os"

	"mindetect/internal/contour"
	"mindetect/internal/raster"
	"mindetect/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to fingerprint image")
	x := flag.Int("x", -1, "Feature pixel X")
	y := flag.Int("y", -1, "Feature pixel Y")
	ex := flag.Int("ex", -1, "Edge pixel X")
	ey := flag.Int("ey", -1, "Edge pixel Y")
	steps := flag.Int("steps", 30, "Maximum steps (half length for high/centered)")
	rot := flag.String("rot", "cw", "Rotation for plain traces: cw or ccw")
	mode := flag.String("mode", "trace", "trace, high or centered")
	pad := flag.Int("pad", 0, "Pad the raster with this many valley pixels first")
	edge := flag.Int("edge", 0, "If set, report the sharpest turn using this window spacing")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("contourtest"))
		return
	}

	if *imagePath == "" || *x < 0 || *y < 0 {
		fmt.Println("Usage: contourtest -image <path> -x X -y Y -ex EX -ey EY [-steps 30] [-rot cw|ccw] [-mode trace|high|centered] [-pad N] [-edge N]")
		os.Exit(1)
	}

	src, err := raster.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	img, err := raster.Binarize(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to binarize image: %v\n", err)
		os.Exit(1)
	}
	if *pad > 0 {
		img = img.Pad(*pad, raster.Valley)
	}
	fmt.Printf("Raster: %dx%d pixels (pad %d)\n", img.Width, img.Height, *pad)

	start := contour.Point{X: *x + *pad, Y: *y + *pad, EX: *ex + *pad, EY: *ey + *pad}
	rotation := contour.Clockwise
	if *rot == "ccw" {
		rotation = contour.CounterClockwise
	}

	var res contour.Result
	switch *mode {
	case "high":
		res, err = contour.HighCurvature(img, *steps, start)
	case "centered":
		res, err = contour.Centered(img, *steps, start)
	default:
		res, err = contour.Trace(img, *steps, start.Feature(), start, rotation)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Trace failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Mode %s from (%d,%d) edge (%d,%d): %s, %d steps, %d points\n",
		*mode, *x, *y, *ex, *ey, res.Status, res.Steps, len(res.Contour))
	fmt.Printf("%6s %6s %6s %6s %6s\n", "#", "X", "Y", "EX", "EY")
	for i, p := range res.Contour {
		fmt.Printf("%6d %6d %6d %6d %6d\n", i, p.X-*pad, p.Y-*pad, p.EX-*pad, p.EY-*pad)
	}

	if *edge > 0 {
		idx, theta, status := contour.MinTheta(res.Contour, *edge)
		if status != contour.OK {
			fmt.Printf("\nContour too short for spacing %d\n", *edge)
			return
		}
		p := res.Contour[idx]
		fmt.Printf("\nSharpest turn at #%d (%d,%d): %.3f rad\n", idx, p.X-*pad, p.Y-*pad, theta)
	}
}
