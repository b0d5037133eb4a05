package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, 32, p.FullDirections())
	assert.Equal(t, 4, p.QuarterDirections())

	assert.True(t, p.NearOpposite(16))
	assert.True(t, p.NearOpposite(13))
	assert.False(t, p.NearOpposite(12))
	assert.False(t, p.NearOpposite(0))
}

func TestModifiersCopy(t *testing.T) {
	p := DefaultParams()
	q := p.WithBlockSize(16).WithDirections(8).WithOverlapJoin(true, 2).WithVerbose(true)

	assert.Equal(t, 8, p.BlockSize)
	assert.Equal(t, 16, q.BlockSize)
	assert.Equal(t, 8, q.NumDirections)
	assert.True(t, q.JoinOverlaps)
	assert.Equal(t, 2, q.JoinLineRadius)
	assert.True(t, q.Verbose)
	assert.False(t, p.Verbose)
}

func TestValidate(t *testing.T) {
	malformed := DefaultParams()
	malformed.MalformationSteps2 = malformed.MalformationSteps1 - 1

	cases := []Params{
		DefaultParams().WithBlockSize(0),
		DefaultParams().WithDirections(6),
		malformed,
	}
	for i, p := range cases {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams, "case %d", i)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "params.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("max_overlap_dist = 12\njoin_overlaps = true\n"), 0644))
	p, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 12, p.MaxOverlapDist)
	assert.True(t, p.JoinOverlaps)
	assert.Equal(t, DefaultParams().PoresMaxRatio, p.PoresMaxRatio)

	jsonPath := filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"small_loop_len": 9}`), 0644))
	p, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 9, p.SmallLoopLen)

	badPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badPath, []byte("block_size = 0\n"), 0644))
	_, err = Load(badPath)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Load(filepath.Join(dir, "params.yaml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
