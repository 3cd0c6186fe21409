package esdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	require.Equal(t, float32(10.0), cfg.MaxDistanceM)
	require.Equal(t, float32(10.0), cfg.DefaultDistanceM)
	require.Equal(t, float32(1.0), cfg.MaxBehindSurfaceM)
	require.Equal(t, 20, cfg.NumBuckets)
	require.Equal(t, 24, cfg.NumNeighbor)
	require.True(t, cfg.PatchOn)
	require.True(t, cfg.EarlyBreak)
	require.False(t, cfg.DirectionGuide)
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithVerbose(true),
		WithMaxDistance(5),
		WithNumNeighbor(6),
		WithDirectionGuide(true),
		WithBandDistanceM(0.1),
	)
	require.NoError(t, err)
	require.True(t, cfg.Verbose)
	require.Equal(t, float32(5), cfg.MaxDistanceM)
	require.Equal(t, float32(5), cfg.DefaultDistanceM)
	require.Equal(t, 6, cfg.NumNeighbor)
	require.True(t, cfg.DirectionGuide)
	require.Equal(t, float32(0.1), cfg.BandDistanceM)
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	_, err := NewConfig(WithMaxDistance(0))
	require.ErrorIs(t, err, ErrInvalidMaxDistance)

	_, err = NewConfig(WithMaxBehindSurface(-1))
	require.ErrorIs(t, err, ErrInvalidMaxBehindSurface)

	_, err = NewConfig(WithNumBuckets(0))
	require.ErrorIs(t, err, ErrInvalidNumBuckets)

	_, err = NewConfig(WithNumNeighbor(7))
	require.ErrorIs(t, err, ErrInvalidNeighborCount)

	_, err = NewConfig(WithBandDistanceM(-1))
	require.ErrorIs(t, err, ErrInvalidMaxBehindSurface)
}
