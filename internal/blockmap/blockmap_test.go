package blockmap

import (
	"os"
	"path/filepath"
	"testing"

	"mindetect/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoversImage(t *testing.T) {
	m := New(17, 8, 8)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 1, m.Height)
	assert.Equal(t, geometry.InvalidDir, m.DirectionAt(16, 7))
	assert.Equal(t, geometry.InvalidDir, m.DirectionAt(-1, 0))
}

func TestLookups(t *testing.T) {
	m := Uniform(24, 24, 8, 5)
	m.Direction[4] = geometry.InvalidDir // Block (1,1)
	m.LowFlow[0] = 1
	m.HighCurve[8] = 1

	bx, by := m.BlockOf(-1, 9)
	assert.Equal(t, -1, bx)
	assert.Equal(t, 1, by)

	assert.Equal(t, 5, m.DirectionAt(0, 0))
	assert.Equal(t, geometry.InvalidDir, m.DirectionAt(12, 12))
	assert.True(t, m.LowFlowAt(7, 7))
	assert.False(t, m.LowFlowAt(8, 7))
	assert.True(t, m.HighCurveAt(23, 23))
	assert.False(t, m.LowContrastAt(0, 0))

	assert.Equal(t, 2, m.ValidNeighbors(0, 0))
	assert.Equal(t, 8, m.ValidNeighbors(1, 1))
	assert.Equal(t, 3, m.ValidNeighbors(3, 1)) // Off the right edge
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "maps.json")
	require.NoError(t, os.WriteFile(good, []byte(`{
		"width": 2, "height": 1, "block_size": 8,
		"direction": [3, -1],
		"low_flow": [0, 1]
	}`), 0644))
	m, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Dir(0, 0))
	assert.Equal(t, geometry.InvalidDir, m.Dir(1, 0))
	assert.True(t, m.LowFlowAt(9, 0))
	assert.Len(t, m.HighCurve, 2)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"width": 2, "height": 2, "block_size": 8, "direction": [0]}`), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrMapSize)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
