// Package contour walks 8-connected boundaries between a feature region and
// its complementary edge pixels on a binary raster.
package contour

import (
	"errors"

	"mindetect/pkg/geometry"
)

var (
	// ErrInvalidSteps is returned for a negative or zero step budget where a
	// positive one is required.
	ErrInvalidSteps = errors.New("invalid contour step count")
)

// Rotation is the rotational sense in which neighbors are scanned.
type Rotation int

const (
	// Clockwise scans N, NE, E, ... on screen (y down).
	Clockwise Rotation = iota
	// CounterClockwise scans N, NW, W, ...
	CounterClockwise
)

func (r Rotation) String() string {
	switch r {
	case Clockwise:
		return "CW"
	case CounterClockwise:
		return "CCW"
	default:
		return "Unknown"
	}
}

// Reverse returns the other rotational sense.
func (r Rotation) Reverse() Rotation {
	if r == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// Status is a non-error outcome that callers branch on.
type Status int

const (
	OK Status = iota
	LoopFound
	Ignore
	Incomplete
	Found
	NotFound
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case LoopFound:
		return "LoopFound"
	case Ignore:
		return "Ignore"
	case Incomplete:
		return "Incomplete"
	case Found:
		return "Found"
	case NotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Point pairs a feature pixel (X, Y) with the adjacent edge pixel (EX, EY)
// of the complementary color.
type Point struct {
	X, Y   int
	EX, EY int
}

// Feature returns the feature pixel location.
func (p Point) Feature() geometry.PointInt {
	return geometry.PointInt{X: p.X, Y: p.Y}
}

// Edge returns the edge pixel location.
func (p Point) Edge() geometry.PointInt {
	return geometry.PointInt{X: p.EX, Y: p.EY}
}

// Contour is an ordered boundary walk.
type Contour []Point

// Result is the outcome of a trace.
type Result struct {
	Contour Contour
	Status  Status
	Steps   int // Moves walked, including a closing move onto the loop point
}

// Neighbor offsets, clockwise from north. Even indices are the 4-neighbors,
// odd indices the corners.
var (
	nbr8DX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	nbr8DY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
)

// neighborIndex returns the index of offset (dx, dy) in the neighbor table,
// or -1 if it is not a neighbor offset.
func neighborIndex(dx, dy int) int {
	for i := 0; i < 8; i++ {
		if nbr8DX[i] == dx && nbr8DY[i] == dy {
			return i
		}
	}
	return -1
}

// NeighborIndex exposes the neighbor numbering (0 = north, clockwise) for
// chain coding.
func NeighborIndex(dx, dy int) int {
	return neighborIndex(dx, dy)
}

// reverse returns a reversed copy of c.
func reverse(c Contour) Contour {
	out := make(Contour, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}
