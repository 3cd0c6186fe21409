package voxel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotics-upo/esdf3d/voxel"
)

func TestNewVolumeRejectsNonPowerOfTwo(t *testing.T) {
	_, err := voxel.NewVolume[voxel.OccupancyVoxel](7, 0.1)
	require.ErrorIs(t, err, voxel.ErrInvalidVoxelsPerSide)
}

func TestNewVolumeRejectsNonPositiveSize(t *testing.T) {
	_, err := voxel.NewVolume[voxel.OccupancyVoxel](16, 0)
	require.ErrorIs(t, err, voxel.ErrInvalidVoxelSize)
}

func TestEnsureVoxelRoundTrip(t *testing.T) {
	v, err := voxel.NewVolume[voxel.EsdfVoxel](8, 0.1)
	require.NoError(t, err)

	g := voxel.GlobalIndex{X: -5, Y: 3, Z: 100}
	ev := v.EnsureVoxel(g)
	ev.Observed = true
	ev.Distance = 1.5

	got, ok := v.VoxelAt(g)
	require.True(t, ok)
	require.True(t, got.Observed)
	require.Equal(t, float32(1.5), got.Distance)
}

func TestVoxelAtUnallocatedBlock(t *testing.T) {
	v, err := voxel.NewVolume[voxel.EsdfVoxel](8, 0.1)
	require.NoError(t, err)

	_, ok := v.VoxelAt(voxel.GlobalIndex{X: 1, Y: 1, Z: 1})
	require.False(t, ok)
}

func TestNegativeIndicesMapToDistinctBlocks(t *testing.T) {
	v, err := voxel.NewVolume[voxel.OccupancyVoxel](4, 1.0)
	require.NoError(t, err)

	// -1 and 3 both land in local offset 3 of adjacent blocks along X.
	a := v.EnsureVoxel(voxel.GlobalIndex{X: -1, Y: 0, Z: 0})
	b := v.EnsureVoxel(voxel.GlobalIndex{X: 3, Y: 0, Z: 0})
	a.Occupied = true

	require.True(t, a.Occupied)
	require.False(t, b.Occupied)
	require.Equal(t, 2, v.NumBlocks())
}

func TestUpdatedBlockTracking(t *testing.T) {
	v, err := voxel.NewVolume[voxel.EsdfVoxel](8, 0.1)
	require.NoError(t, err)

	bIdx := voxel.BlockIndex{X: 2, Y: 0, Z: 0}
	v.MarkUpdated(bIdx, voxel.UpdateEsdf)

	updated := v.UpdatedBlocks(voxel.UpdateEsdf)
	require.Len(t, updated, 1)
	require.Equal(t, bIdx, updated[0])

	require.Empty(t, v.UpdatedBlocks(voxel.UpdateTsdf))

	v.ClearUpdated(bIdx, voxel.UpdateEsdf)
	require.Empty(t, v.UpdatedBlocks(voxel.UpdateEsdf))
}

func TestSetUpdatedAll(t *testing.T) {
	v, err := voxel.NewVolume[voxel.EsdfVoxel](8, 0.1)
	require.NoError(t, err)

	bIdx := voxel.BlockIndex{X: 1, Y: 1, Z: 1}
	v.SetUpdatedAll(bIdx)

	require.Len(t, v.UpdatedBlocks(voxel.UpdateTsdf), 1)
	require.Len(t, v.UpdatedBlocks(voxel.UpdateEsdf), 1)
	require.Len(t, v.UpdatedBlocks(voxel.UpdateMesh), 1)
}

func TestGlobalIndexFromLinearRoundTrips(t *testing.T) {
	const n = int32(8)
	bIdx := voxel.BlockIndex{X: -2, Y: 1, Z: 4}
	vol, err := voxel.NewVolume[voxel.OccupancyVoxel](n, 1.0)
	require.NoError(t, err)
	for linear := 0; linear < int(n*n*n); linear++ {
		g := voxel.GlobalIndexFromLinear(bIdx, linear, n)
		require.Equal(t, bIdx, vol.BlockIndexOf(g))
	}
}

func TestUndefIndex(t *testing.T) {
	require.True(t, voxel.UndefIndex.IsUndef())
	require.False(t, voxel.GlobalIndex{}.IsUndef())
}
