// Package config holds the parameter bundle shared by the contour, loop,
// minutia and pruning stages.
package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned by Validate when a size or count is unusable.
var ErrInvalidParams = errors.New("invalid parameters")

// Reliability levels assigned to minutiae.
const (
	HighReliability   = 0.99
	MediumReliability = 0.50
)

// Params holds every named threshold used while extracting and pruning
// minutiae. See DefaultParams for the tuned values.
type Params struct {
	// Block maps
	BlockSize     int `toml:"block_size" json:"block_size"`         // Pixels per map block side
	NumDirections int `toml:"num_directions" json:"num_directions"` // Orientations per half circle

	// Minutia list
	MinutiaeAlloc  int `toml:"minutiae_alloc" json:"minutiae_alloc"`     // Initial list capacity
	MinutiaeGrowBy int `toml:"minutiae_grow_by" json:"minutiae_grow_by"` // Capacity increment on overflow

	// Merging new detections
	MaxMinutiaDelta int `toml:"max_minutia_delta" json:"max_minutia_delta"`

	// High-curvature relocation
	MaxHighCurveTheta    float64 `toml:"max_high_curve_theta" json:"max_high_curve_theta"` // Radians
	HighCurveHalfContour int     `toml:"high_curve_half_contour" json:"high_curve_half_contour"`

	// Loop processing
	MinLoopLen         int     `toml:"min_loop_len" json:"min_loop_len"`
	MinLoopAspectDist  float64 `toml:"min_loop_aspect_dist" json:"min_loop_aspect_dist"`
	MinLoopAspectRatio float64 `toml:"min_loop_aspect_ratio" json:"min_loop_aspect_ratio"`

	// Pairwise removal tests
	MaxRmTestDist int `toml:"max_rmtest_dist" json:"max_rmtest_dist"`
	MaxHookLen    int `toml:"max_hook_len" json:"max_hook_len"`
	MaxHalfLoop   int `toml:"max_half_loop" json:"max_half_loop"`
	SmallLoopLen  int `toml:"small_loop_len" json:"small_loop_len"`

	// Invalid block tests
	TransDirPix    int `toml:"trans_dir_pix" json:"trans_dir_pix"`
	InvBlockMargin int `toml:"inv_block_margin" json:"inv_block_margin"`
	RmValidNbrMin  int `toml:"rm_valid_nbr_min" json:"rm_valid_nbr_min"`

	// Side minutiae
	SideHalfContour int `toml:"side_half_contour" json:"side_half_contour"`

	// Overlaps
	MaxOverlapDist     int  `toml:"max_overlap_dist" json:"max_overlap_dist"`
	MaxOverlapJoinDist int  `toml:"max_overlap_join_dist" json:"max_overlap_join_dist"`
	MaxTrans           int  `toml:"max_trans" json:"max_trans"` // Color changes allowed on a free path
	JoinOverlaps       bool `toml:"join_overlaps" json:"join_overlaps"`
	JoinLineRadius     int  `toml:"join_line_radius" json:"join_line_radius"`

	// Malformations
	MalformationSteps1   int     `toml:"malformation_steps_1" json:"malformation_steps_1"`
	MalformationSteps2   int     `toml:"malformation_steps_2" json:"malformation_steps_2"`
	MinMalformationRatio float64 `toml:"min_malformation_ratio" json:"min_malformation_ratio"`
	MaxMalformationDist  float64 `toml:"max_malformation_dist" json:"max_malformation_dist"`

	// Pores
	PoresTransR    int     `toml:"pores_trans_r" json:"pores_trans_r"`
	PoresPerpSteps int     `toml:"pores_perp_steps" json:"pores_perp_steps"`
	PoresStepsFwd  int     `toml:"pores_steps_fwd" json:"pores_steps_fwd"`
	PoresStepsBwd  int     `toml:"pores_steps_bwd" json:"pores_steps_bwd"`
	PoresMinDist2  float64 `toml:"pores_min_dist2" json:"pores_min_dist2"`
	PoresMaxRatio  float64 `toml:"pores_max_ratio" json:"pores_max_ratio"`

	// Log per-stage results
	Verbose bool `toml:"verbose" json:"verbose"`
}

// DefaultParams returns the default extraction parameters.
// These are tuned for 500 ppi, padded, binarized fingerprint scans.
func DefaultParams() Params {
	return Params{
		BlockSize:     8,
		NumDirections: 16, // 11.25 degree steps

		MinutiaeAlloc:  1000,
		MinutiaeGrowBy: 1000,

		MaxMinutiaDelta: 10,

		MaxHighCurveTheta:    math.Pi / 3.0,
		HighCurveHalfContour: 14,

		MinLoopLen:         20,
		MinLoopAspectDist:  1.0,
		MinLoopAspectRatio: 2.25,

		MaxRmTestDist: 8,
		MaxHookLen:    15,
		MaxHalfLoop:   30,
		SmallLoopLen:  15,

		TransDirPix:    6,
		InvBlockMargin: 6,
		RmValidNbrMin:  7,

		SideHalfContour: 7,

		MaxOverlapDist:     8,
		MaxOverlapJoinDist: 6,
		MaxTrans:           2,
		JoinOverlaps:       false,
		JoinLineRadius:     1,

		MalformationSteps1:   10,
		MalformationSteps2:   20,
		MinMalformationRatio: 2.0,
		MaxMalformationDist:  20,

		PoresTransR:    3,
		PoresPerpSteps: 12,
		PoresStepsFwd:  10,
		PoresStepsBwd:  8,
		PoresMinDist2:  0.5,
		PoresMaxRatio:  2.25,
	}
}

// FullDirections returns the number of direction codes on a full circle.
func (p Params) FullDirections() int {
	return p.NumDirections << 1
}

// QuarterDirections returns the number of codes spanning 45 degrees.
func (p Params) QuarterDirections() int {
	return p.NumDirections >> 2
}

// NearOpposite reports whether two minutia directions, delta codes apart,
// are less than 45 degrees away from pointing in opposite directions.
func (p Params) NearOpposite(delta int) bool {
	return delta > p.NumDirections-p.QuarterDirections()
}

// WithBlockSize returns a copy of params using a different map block size.
func (p Params) WithBlockSize(size int) Params {
	p.BlockSize = size
	return p
}

// WithDirections returns a copy of params quantizing orientation into n steps.
func (p Params) WithDirections(n int) Params {
	p.NumDirections = n
	return p
}

// WithOverlapJoin returns a copy of params that draws a raster join between
// removed overlap pairs.
func (p Params) WithOverlapJoin(join bool, radius int) Params {
	p.JoinOverlaps = join
	p.JoinLineRadius = radius
	return p
}

// WithVerbose returns a copy of params with stage logging toggled.
func (p Params) WithVerbose(v bool) Params {
	p.Verbose = v
	return p
}

// Validate checks that sizes and step counts are usable.
func (p Params) Validate() error {
	if p.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d", ErrInvalidParams, p.BlockSize)
	}
	if p.NumDirections < 4 || p.NumDirections%4 != 0 {
		return fmt.Errorf("%w: direction count %d must be a positive multiple of 4", ErrInvalidParams, p.NumDirections)
	}
	if p.MinutiaeGrowBy <= 0 {
		return fmt.Errorf("%w: minutiae growth %d", ErrInvalidParams, p.MinutiaeGrowBy)
	}
	if p.MalformationSteps1 <= 0 || p.MalformationSteps2 < p.MalformationSteps1 {
		return fmt.Errorf("%w: malformation steps %d/%d", ErrInvalidParams, p.MalformationSteps1, p.MalformationSteps2)
	}
	if p.PoresStepsFwd <= 0 || p.PoresStepsBwd <= 0 {
		return fmt.Errorf("%w: pore steps %d/%d", ErrInvalidParams, p.PoresStepsFwd, p.PoresStepsBwd)
	}
	if p.HighCurveHalfContour <= 0 || p.SideHalfContour <= 0 {
		return fmt.Errorf("%w: half contour lengths %d/%d", ErrInvalidParams, p.HighCurveHalfContour, p.SideHalfContour)
	}
	return nil
}
