package dependentlist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotics-upo/esdf3d/dependentlist"
	"github.com/robotics-upo/esdf3d/voxel"
)

type fakeVolume struct {
	m map[voxel.GlobalIndex]*voxel.EsdfVoxel
}

func newFakeVolume() *fakeVolume { return &fakeVolume{m: map[voxel.GlobalIndex]*voxel.EsdfVoxel{}} }

func (f *fakeVolume) EsdfVoxelAt(g voxel.GlobalIndex) (*voxel.EsdfVoxel, bool) {
	v, ok := f.m[g]
	return v, ok
}

func (f *fakeVolume) add(g voxel.GlobalIndex) *voxel.EsdfVoxel {
	v := &voxel.EsdfVoxel{
		SelfIdx: g,
		CocIdx:  voxel.UndefIndex,
		PrevIdx: voxel.UndefIndex,
		NextIdx: voxel.UndefIndex,
		HeadIdx: voxel.UndefIndex,
	}
	f.m[g] = v
	return v
}

func TestInsertSelfThenDependentsThenDelete(t *testing.T) {
	fv := newFakeVolume()
	seed := fv.add(voxel.GlobalIndex{X: 0})
	x := fv.add(voxel.GlobalIndex{X: 1})
	y := fv.add(voxel.GlobalIndex{X: 2})

	require.NoError(t, dependentlist.Insert(fv, seed, seed))
	require.NoError(t, dependentlist.Insert(fv, seed, x))
	require.NoError(t, dependentlist.Insert(fv, seed, y))

	require.Equal(t, y.SelfIdx, seed.HeadIdx)

	deps, err := dependentlist.Dependents(fv, seed)
	require.NoError(t, err)
	require.Len(t, deps, 3)
	require.Equal(t, seed.SelfIdx, deps[0].SelfIdx)
	require.Equal(t, x.SelfIdx, deps[1].SelfIdx)
	require.Equal(t, y.SelfIdx, deps[2].SelfIdx)

	require.NoError(t, dependentlist.Delete(fv, seed, x))
	require.True(t, x.PrevIdx.IsUndef())
	require.True(t, x.NextIdx.IsUndef())

	// y still links to seed around the deleted x.
	require.Equal(t, seed.SelfIdx, y.NextIdx)
	require.Equal(t, y.SelfIdx, seed.PrevIdx)
}

func TestDeleteHeadUpdatesSeedHeadIdx(t *testing.T) {
	fv := newFakeVolume()
	seed := fv.add(voxel.GlobalIndex{X: 0})
	x := fv.add(voxel.GlobalIndex{X: 1})

	require.NoError(t, dependentlist.Insert(fv, seed, seed))
	require.NoError(t, dependentlist.Insert(fv, seed, x))
	require.Equal(t, x.SelfIdx, seed.HeadIdx)

	require.NoError(t, dependentlist.Delete(fv, seed, x))
	require.Equal(t, seed.SelfIdx, seed.HeadIdx)
}

func TestLookupMissingVoxelErrors(t *testing.T) {
	fv := newFakeVolume()
	seed := fv.add(voxel.GlobalIndex{X: 0})
	seed.PrevIdx = voxel.GlobalIndex{X: 99} // dangling link, never added to fv

	_, err := dependentlist.Dependents(fv, seed)
	require.ErrorIs(t, err, dependentlist.ErrVoxelMissing)
}
