// Package prune removes false minutiae in a fixed sequence of stages. Some
// stages also repair the raster (filling islands and lakes, joining
// overlaps), so later stages see the cleaned image.
package prune

import (
	"fmt"
	"log"
	"math"
	"time"

	"mindetect/internal/blockmap"
	"mindetect/internal/config"
	"mindetect/internal/minutia"
	"mindetect/internal/raster"

	"gonum.org/v1/gonum/stat"
)

// StageReport records what one stage did.
type StageReport struct {
	Name    string        `json:"name"`
	Removed int           `json:"removed"`
	Left    int           `json:"left"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Report summarizes a pipeline run.
type Report struct {
	Before          int           `json:"before"`
	After           int           `json:"after"`
	Stages          []StageReport `json:"stages"`
	MeanReliability float64       `json:"mean_reliability"`
	StdReliability  float64       `json:"std_reliability"`
}

type stage struct {
	name string
	run  func(l *minutia.List, img *raster.Image, maps *blockmap.Maps, p config.Params) (int, error)
}

var stages = []stage{
	{"sort", func(l *minutia.List, _ *raster.Image, _ *blockmap.Maps, _ config.Params) (int, error) {
		l.SortYX()
		return 0, nil
	}},
	{"islands_and_lakes", func(l *minutia.List, img *raster.Image, _ *blockmap.Maps, p config.Params) (int, error) {
		return RemoveIslandsAndLakes(l, img, p)
	}},
	{"holes", func(l *minutia.List, img *raster.Image, _ *blockmap.Maps, p config.Params) (int, error) {
		return RemoveHoles(l, img, p)
	}},
	{"pointing_invalid_block", func(l *minutia.List, _ *raster.Image, maps *blockmap.Maps, p config.Params) (int, error) {
		return RemovePointingInvalidBlock(l, maps, p)
	}},
	{"near_invalid_block", func(l *minutia.List, _ *raster.Image, maps *blockmap.Maps, p config.Params) (int, error) {
		return RemoveNearInvalidBlock(l, maps, p)
	}},
	{"side_minutiae", RemoveOrAdjustSideMinutiae},
	{"hooks", func(l *minutia.List, img *raster.Image, _ *blockmap.Maps, p config.Params) (int, error) {
		return RemoveHooks(l, img, p)
	}},
	{"overlaps", func(l *minutia.List, img *raster.Image, _ *blockmap.Maps, p config.Params) (int, error) {
		return RemoveOverlaps(l, img, p)
	}},
	{"malformations", RemoveMalformations},
	{"pores", RemovePores},
}

// StageNames lists the stages in the order Run applies them.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}

// Run applies every stage to l in order. img may be modified. Invalid
// params are rejected before any stage runs. The first stage error aborts
// the run; stages already applied stay applied.
func Run(l *minutia.List, img *raster.Image, maps *blockmap.Maps, p config.Params) (Report, error) {
	rep := Report{Before: l.Len()}
	if err := p.Validate(); err != nil {
		return rep, fmt.Errorf("prune: %w", err)
	}

	for _, s := range stages {
		start := time.Now()
		removed, err := s.run(l, img, maps, p)
		if err != nil {
			return rep, fmt.Errorf("prune: %s: %w", s.name, err)
		}
		sr := StageReport{Name: s.name, Removed: removed, Left: l.Len(), Elapsed: time.Since(start)}
		rep.Stages = append(rep.Stages, sr)
		if p.Verbose {
			log.Printf("prune: %-24s removed %4d, %4d left (%v)", s.name, sr.Removed, sr.Left, sr.Elapsed)
		}
	}

	rep.After = l.Len()
	rep.MeanReliability, rep.StdReliability = reliabilityStats(l)
	return rep, nil
}

// reliabilityStats returns the mean and standard deviation of the scored
// reliabilities in l.
func reliabilityStats(l *minutia.List) (float64, float64) {
	var rel []float64
	for _, m := range l.Items() {
		if m.Reliability >= 0 {
			rel = append(rel, m.Reliability)
		}
	}
	switch len(rel) {
	case 0:
		return 0, 0
	case 1:
		return rel[0], 0
	}
	mean, std := stat.MeanStdDev(rel, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
