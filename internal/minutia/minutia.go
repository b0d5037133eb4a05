// Package minutia holds detected minutiae and the rules for admitting a
// candidate into a list without duplicating one already there.
package minutia

import (
	"errors"

	"mindetect/internal/contour"
	"mindetect/internal/loop"
	"mindetect/internal/raster"
	"mindetect/pkg/geometry"
)

// ErrIndexOutOfRange is returned when removing a missing entry.
var ErrIndexOutOfRange = errors.New("minutia index out of range")

// UnsetReliability marks a minutia whose reliability has not been scored.
const UnsetReliability = -1.0

// LoopFeatureID tags minutiae synthesized from an elongated loop.
const LoopFeatureID = loop.LoopFeatureID

// Type distinguishes ridge endings from bifurcations.
type Type int

const (
	RidgeEnding Type = iota
	Bifurcation
)

func (t Type) String() string {
	switch t {
	case RidgeEnding:
		return "RidgeEnding"
	case Bifurcation:
		return "Bifurcation"
	default:
		return "Unknown"
	}
}

// TypeOf returns the minutia type implied by a feature pixel color. A
// ridge-colored feature ends a ridge; a valley-colored one ends a valley,
// which is where two ridges fork.
func TypeOf(featurePix uint8) Type {
	if featurePix == raster.Ridge {
		return RidgeEnding
	}
	return Bifurcation
}

// Minutia is one detected ridge ending or bifurcation.
type Minutia struct {
	X           int     `json:"x"`
	Y           int     `json:"y"`
	EX          int     `json:"ex"`
	EY          int     `json:"ey"`
	Direction   int     `json:"direction"` // Full-circle code, 0 = north, clockwise
	Reliability float64 `json:"reliability"`
	Type        Type    `json:"type"`
	Appearing   bool    `json:"appearing"`
	FeatureID   int     `json:"feature_id"`
}

// New creates a minutia at the feature/edge pair p.
func New(p contour.Point, dir int, reliability float64, t Type, appearing bool, featureID int) *Minutia {
	return &Minutia{
		X:           p.X,
		Y:           p.Y,
		EX:          p.EX,
		EY:          p.EY,
		Direction:   dir,
		Reliability: reliability,
		Type:        t,
		Appearing:   appearing,
		FeatureID:   featureID,
	}
}

// Point returns the minutia's feature/edge pair.
func (m *Minutia) Point() contour.Point {
	return contour.Point{X: m.X, Y: m.Y, EX: m.EX, EY: m.EY}
}

// Feature returns the feature pixel location.
func (m *Minutia) Feature() geometry.PointInt {
	return geometry.PointInt{X: m.X, Y: m.Y}
}

// MoveTo relocates the minutia onto another feature/edge pair.
func (m *Minutia) MoveTo(p contour.Point) {
	m.X, m.Y, m.EX, m.EY = p.X, p.Y, p.EX, p.EY
}
