// Package blockmap holds the block-level ridge-flow maps produced upstream:
// direction, low contrast, low flow and high curvature.
package blockmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"mindetect/pkg/geometry"
)

// ErrMapSize is returned when a map's cell count does not match its grid.
var ErrMapSize = errors.New("block map size mismatch")

// Maps holds one value per block for each map. Direction values are
// orientation codes in [0, NumDirections) or geometry.InvalidDir; the other
// maps are flags where non-zero means set.
type Maps struct {
	Width       int   `json:"width"`  // Blocks per row
	Height      int   `json:"height"` // Block rows
	BlockSize   int   `json:"block_size"`
	Direction   []int `json:"direction"`
	LowContrast []int `json:"low_contrast,omitempty"`
	LowFlow     []int `json:"low_flow,omitempty"`
	HighCurve   []int `json:"high_curve,omitempty"`
}

// New creates maps covering an image of the given pixel size with every
// direction invalid and every flag clear.
func New(imageWidth, imageHeight, blockSize int) *Maps {
	mw := (imageWidth + blockSize - 1) / blockSize
	mh := (imageHeight + blockSize - 1) / blockSize
	m := &Maps{
		Width:       mw,
		Height:      mh,
		BlockSize:   blockSize,
		Direction:   make([]int, mw*mh),
		LowContrast: make([]int, mw*mh),
		LowFlow:     make([]int, mw*mh),
		HighCurve:   make([]int, mw*mh),
	}
	for i := range m.Direction {
		m.Direction[i] = geometry.InvalidDir
	}
	return m
}

// Uniform creates maps where every block has the same direction.
func Uniform(imageWidth, imageHeight, blockSize, dir int) *Maps {
	m := New(imageWidth, imageHeight, blockSize)
	for i := range m.Direction {
		m.Direction[i] = dir
	}
	return m
}

// Load reads maps from a JSON file.
func Load(path string) (*Maps, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("blockmap: read %s: %w", path, err)
	}

	var m Maps
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("blockmap: parse %s: %w", path, err)
	}
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("blockmap: %s: %w", path, err)
	}
	return &m, nil
}

// normalize checks map sizes and allocates omitted flag maps.
func (m *Maps) normalize() error {
	n := m.Width * m.Height
	if m.BlockSize <= 0 || n <= 0 {
		return fmt.Errorf("%w: %dx%d blocks of %d pixels", ErrMapSize, m.Width, m.Height, m.BlockSize)
	}
	if len(m.Direction) != n {
		return fmt.Errorf("%w: direction has %d cells, want %d", ErrMapSize, len(m.Direction), n)
	}
	for name, flags := range map[string]*[]int{"low_contrast": &m.LowContrast, "low_flow": &m.LowFlow, "high_curve": &m.HighCurve} {
		if len(*flags) == 0 {
			*flags = make([]int, n)
			continue
		}
		if len(*flags) != n {
			return fmt.Errorf("%w: %s has %d cells, want %d", ErrMapSize, name, len(*flags), n)
		}
	}
	return nil
}

// InBlocks reports whether block (bx, by) exists.
func (m *Maps) InBlocks(bx, by int) bool {
	return bx >= 0 && bx < m.Width && by >= 0 && by < m.Height
}

// BlockOf returns the block holding pixel (x, y).
func (m *Maps) BlockOf(x, y int) (bx, by int) {
	return floorDiv(x, m.BlockSize), floorDiv(y, m.BlockSize)
}

// Dir returns the direction of block (bx, by), or InvalidDir off the map.
func (m *Maps) Dir(bx, by int) int {
	if !m.InBlocks(bx, by) {
		return geometry.InvalidDir
	}
	return m.Direction[by*m.Width+bx]
}

// DirectionAt returns the direction of the block holding pixel (x, y).
func (m *Maps) DirectionAt(x, y int) int {
	return m.Dir(m.BlockOf(x, y))
}

// LowFlowAt reports whether pixel (x, y) lies in a low-flow block.
func (m *Maps) LowFlowAt(x, y int) bool {
	return m.flagAt(m.LowFlow, x, y)
}

// HighCurveAt reports whether pixel (x, y) lies in a high-curvature block.
func (m *Maps) HighCurveAt(x, y int) bool {
	return m.flagAt(m.HighCurve, x, y)
}

// LowContrastAt reports whether pixel (x, y) lies in a low-contrast block.
func (m *Maps) LowContrastAt(x, y int) bool {
	return m.flagAt(m.LowContrast, x, y)
}

func (m *Maps) flagAt(flags []int, x, y int) bool {
	bx, by := m.BlockOf(x, y)
	if !m.InBlocks(bx, by) || len(flags) == 0 {
		return false
	}
	return flags[by*m.Width+bx] != 0
}

// ValidNeighbors counts the 8-neighbors of block (bx, by) that lie on the
// map and carry a valid direction.
func (m *Maps) ValidNeighbors(bx, by int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if m.Dir(bx+dx, by+dy) != geometry.InvalidDir {
				n++
			}
		}
	}
	return n
}

// floorDiv divides rounding toward negative infinity so pixels left of or
// above the image map to negative blocks.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
