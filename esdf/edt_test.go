package esdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotics-upo/esdf3d/voxel"
)

func TestEdtSeedAndPropagate(t *testing.T) {
	occ, esdfVol := newTestVolumes(t)
	idx0 := voxel.GlobalIndex{X: 0, Y: 0, Z: 0}
	idx1 := voxel.GlobalIndex{X: 1, Y: 0, Z: 0}

	ov0 := occ.EnsureVoxel(idx0)
	ov0.Observed = true
	ov0.Occupied = true
	ov1 := occ.EnsureVoxel(idx1)
	ov1.Observed = true
	ov1.Occupied = false

	cfg, err := NewConfig()
	require.NoError(t, err)
	engine, err := NewEdtEngine(occ, esdfVol, cfg)
	require.NoError(t, err)

	engine.LoadInsertList([]voxel.GlobalIndex{idx0})
	occBlocks := []voxel.BlockIndex{occ.BlockIndexOf(idx0)}
	require.NoError(t, engine.UpdateFromOccupancy(occBlocks))

	ev0, ok := esdfVol.VoxelAt(idx0)
	require.True(t, ok)
	require.Equal(t, float32(0), ev0.Distance)
	require.Equal(t, float32(-1), ev0.Raise)

	ev1, ok := esdfVol.VoxelAt(idx1)
	require.True(t, ok)
	require.Equal(t, float32(1), ev1.Distance)
	require.Equal(t, float32(-1), ev1.Raise)
}

// TestEdtRaiseClearedAfterLower seeds and lowers two voxels, then
// deletes the seed: once the raise has drained, no voxel may be left
// looking like it is still pending a raise or still queued.
func TestEdtRaiseClearedAfterLower(t *testing.T) {
	occ, esdfVol := newTestVolumes(t)
	idx0 := voxel.GlobalIndex{X: 0, Y: 0, Z: 0}
	idx1 := voxel.GlobalIndex{X: 1, Y: 0, Z: 0}

	ov0 := occ.EnsureVoxel(idx0)
	ov0.Observed = true
	ov0.Occupied = true
	ov1 := occ.EnsureVoxel(idx1)
	ov1.Observed = true
	ov1.Occupied = false

	cfg, err := NewConfig()
	require.NoError(t, err)
	engine, err := NewEdtEngine(occ, esdfVol, cfg)
	require.NoError(t, err)

	occBlocks := []voxel.BlockIndex{occ.BlockIndexOf(idx0)}
	engine.LoadInsertList([]voxel.GlobalIndex{idx0})
	require.NoError(t, engine.UpdateFromOccupancy(occBlocks))

	ov0.Occupied = false
	engine.LoadInsertList(nil)
	engine.LoadDeleteList([]voxel.GlobalIndex{idx0})
	require.NoError(t, engine.UpdateFromOccupancy(occBlocks))

	ev0, ok := esdfVol.VoxelAt(idx0)
	require.True(t, ok)
	require.Equal(t, float32(-1), ev0.Raise)
	require.False(t, ev0.InQueue)

	ev1, ok := esdfVol.VoxelAt(idx1)
	require.True(t, ok)
	require.Equal(t, float32(-1), ev1.Raise)
	require.False(t, ev1.InQueue)
	require.Equal(t, cfg.DefaultDistanceM, ev1.Distance)
}

func TestNewEdtEngineRejectsMismatchedVoxelSize(t *testing.T) {
	occ, err := voxel.NewVolume[voxel.OccupancyVoxel](8, 1.0)
	require.NoError(t, err)
	esdfVol, err := voxel.NewVolume[voxel.EsdfVoxel](8, 0.5)
	require.NoError(t, err)

	cfg, err := NewConfig()
	require.NoError(t, err)
	_, err = NewEdtEngine(occ, esdfVol, cfg)
	require.ErrorIs(t, err, ErrVoxelSizeMismatch)
}
