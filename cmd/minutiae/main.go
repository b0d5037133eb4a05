// Command minutiae admits candidate minutiae found on a binarized
// fingerprint, prunes false ones and reports the survivors.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/minutia"
	"mindetect/internal/prune"
	"mindetect/internal/raster"
	"mindetect/internal/version"
	"mindetect/pkg/geometry"
)

// report is the JSON document written by -out.
type report struct {
	Version  string             `json:"version"`
	Image    string             `json:"image"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
	Admitted int                `json:"admitted"`
	Prune    prune.Report       `json:"prune"`
	Minutiae []*minutia.Minutia `json:"minutiae"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to fingerprint image (PNG, JPEG, TIFF, BMP or TGA)")
	mapsPath := flag.String("maps", "", "Path to block maps (JSON)")
	candPath := flag.String("candidates", "", "Path to candidate minutiae (JSON)")
	paramsPath := flag.String("params", "", "Optional parameter overrides (TOML or JSON)")
	outPath := flag.String("out", "", "Write the minutiae report to this JSON file")
	overlayPath := flag.String("overlay", "", "Write an overlay image (PNG or WebP)")
	scale := flag.Int("scale", 4, "Overlay magnification")
	verbose := flag.Bool("v", false, "Log each pruning stage")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("minutiae"))
		return
	}

	if *imagePath == "" || *mapsPath == "" || *candPath == "" {
		fmt.Println("Usage: minutiae -image <path> -maps <maps.json> -candidates <cands.json> [-params p.toml] [-out report.json] [-overlay out.png] [-v]")
		os.Exit(1)
	}

	params := config.DefaultParams()
	if *paramsPath != "" {
		var err error
		params, err = config.Load(*paramsPath)
		if err != nil {
			log.Fatalf("Failed to load params: %v", err)
		}
	}
	params = params.WithVerbose(*verbose || params.Verbose)

	src, err := raster.Load(*imagePath)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	img, err := raster.Binarize(src)
	if err != nil {
		log.Fatalf("Failed to binarize image: %v", err)
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", img.Width, img.Height)

	maps, err := blockmap.Load(*mapsPath)
	if err != nil {
		log.Fatalf("Failed to load block maps: %v", err)
	}
	if maps.BlockSize != params.BlockSize {
		log.Printf("Block maps use %d pixel blocks, params say %d; using the maps", maps.BlockSize, params.BlockSize)
		params = params.WithBlockSize(maps.BlockSize)
	}
	fmt.Printf("Block maps: %dx%d blocks of %d pixels\n", maps.Width, maps.Height, maps.BlockSize)

	cands, err := minutia.LoadCandidates(*candPath)
	if err != nil {
		log.Fatalf("Failed to load candidates: %v", err)
	}

	list := minutia.NewList(params.MinutiaeAlloc, params.MinutiaeGrowBy)
	for _, c := range cands {
		if _, err := minutia.Admit(list, c, img, maps, params); err != nil {
			log.Fatalf("Failed to admit candidate: %v", err)
		}
	}
	admitted := list.Len()
	fmt.Printf("Admitted %d of %d candidates\n", admitted, len(cands))

	rep, err := prune.Run(list, img, maps, params)
	if err != nil {
		log.Fatalf("Pruning failed: %v", err)
	}

	fmt.Printf("\nPruning stages:\n")
	fmt.Printf("%-24s %8s %8s %12s\n", "Stage", "Removed", "Left", "Time")
	fmt.Println(strings.Repeat("-", 56))
	for _, s := range rep.Stages {
		fmt.Printf("%-24s %8d %8d %12v\n", s.Name, s.Removed, s.Left, s.Elapsed)
	}

	fmt.Printf("\nDetected %d minutiae:\n", list.Len())
	fmt.Printf("%6s %6s %6s %8s %12s %10s\n", "X", "Y", "Dir", "Angle", "Type", "Rel")
	fmt.Println(strings.Repeat("-", 56))
	for _, m := range list.Items() {
		deg := geometry.DirectionAngle(m.Direction, params.NumDirections) * 180 / math.Pi
		fmt.Printf("%6d %6d %6d %8.1f %12s %10.2f\n", m.X, m.Y, m.Direction, deg, m.Type, m.Reliability)
	}
	fmt.Printf("\nReliability: mean %.3f, std %.3f\n", rep.MeanReliability, rep.StdReliability)

	if *outPath != "" {
		doc := report{
			Version:  version.Version,
			Image:    *imagePath,
			Width:    img.Width,
			Height:   img.Height,
			Admitted: admitted,
			Prune:    rep,
			Minutiae: list.Items(),
		}
		if err := minutia.WriteJSON(*outPath, doc); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		fmt.Printf("Wrote report to %s\n", *outPath)
	}

	if *overlayPath != "" {
		marks := make([]raster.Mark, 0, list.Len())
		for _, m := range list.Items() {
			marks = append(marks, raster.Mark{
				X:           m.X,
				Y:           m.Y,
				Angle:       geometry.DirectionAngle(m.Direction, params.NumDirections),
				Bifurcate:   m.Type == minutia.Bifurcation,
				Reliability: m.Reliability,
			})
		}
		mat := raster.RenderOverlay(img, marks, *scale)
		defer mat.Close()
		if err := raster.WriteOverlay(*overlayPath, mat); err != nil {
			log.Fatalf("Failed to write overlay: %v", err)
		}
		fmt.Printf("Wrote overlay to %s\n", *overlayPath)
	}
}
