package neighborhood_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotics-upo/esdf3d/neighborhood"
	"github.com/robotics-upo/esdf3d/voxel"
)

func TestNeighborsCounts(t *testing.T) {
	g := voxel.GlobalIndex{X: 4, Y: 4, Z: 4}
	for _, c := range []neighborhood.Connectivity{neighborhood.Six, neighborhood.Eighteen, neighborhood.TwentyFour, neighborhood.TwentySix} {
		idx, dist, err := neighborhood.Neighbors(c, g)
		require.NoError(t, err)
		require.Len(t, idx, int(c))
		require.Len(t, dist, int(c))
	}
}

func TestNeighborsRejectsInvalidConnectivity(t *testing.T) {
	_, _, err := neighborhood.Neighbors(neighborhood.Connectivity(7), voxel.GlobalIndex{})
	require.ErrorIs(t, err, neighborhood.ErrInvalidConnectivity)
}

func TestOffsetsAreUnique(t *testing.T) {
	seen := make(map[voxel.GlobalIndex]bool)
	for _, o := range neighborhood.Offsets26 {
		require.False(t, seen[o], "duplicate offset %+v", o)
		seen[o] = true
	}
	require.Len(t, seen, 26)
}

func TestDistancesMatchOffsetShape(t *testing.T) {
	for i, o := range neighborhood.Offsets26 {
		nonZero := 0
		if o.X != 0 {
			nonZero++
		}
		if o.Y != 0 {
			nonZero++
		}
		if o.Z != 0 {
			nonZero++
		}
		switch nonZero {
		case 1:
			require.InDelta(t, 1.0, neighborhood.Distances26[i], 1e-6)
		case 2:
			require.InDelta(t, 1.4142135, neighborhood.Distances26[i], 1e-5)
		case 3:
			require.InDelta(t, 1.7320508, neighborhood.Distances26[i], 1e-5)
		}
	}
}

func TestTwentyFourExcludesVerticalFaces(t *testing.T) {
	g := voxel.GlobalIndex{}
	idx, _, err := neighborhood.Neighbors(neighborhood.TwentyFour, g)
	require.NoError(t, err)
	for _, n := range idx {
		require.False(t, n == voxel.GlobalIndex{Z: -1} || n == voxel.GlobalIndex{Z: 1})
	}
}

func TestNeighborsTowardIsSubsetOfFullNeighborhood(t *testing.T) {
	g := voxel.GlobalIndex{X: 10, Y: 10, Z: 10}
	coc := voxel.GlobalIndex{X: 8, Y: 10, Z: 10} // coc is in the -X direction

	full, _, err := neighborhood.Neighbors(neighborhood.TwentySix, g)
	require.NoError(t, err)
	fullSet := make(map[voxel.GlobalIndex]bool, len(full))
	for _, n := range full {
		fullSet[n] = true
	}

	toward, _, err := neighborhood.NeighborsToward(neighborhood.TwentySix, g, coc)
	require.NoError(t, err)
	require.NotEmpty(t, toward)
	require.Less(t, len(toward), len(full))
	for _, n := range toward {
		require.True(t, fullSet[n])
		require.True(t, n.X >= g.X, "expected neighbor on the +X (away-from-coc) side, got %+v", n)
	}
}
