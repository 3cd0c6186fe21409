package dependentlist

import (
	"fmt"

	"github.com/robotics-upo/esdf3d/voxel"
)

// Locator resolves a GlobalIndex to the EsdfVoxel stored at that
// coordinate. It is satisfied by *voxel.Volume[voxel.EsdfVoxel].
type Locator interface {
	EsdfVoxelAt(g voxel.GlobalIndex) (*voxel.EsdfVoxel, bool)
}

func lookup(loc Locator, g voxel.GlobalIndex) (*voxel.EsdfVoxel, error) {
	v, ok := loc.EsdfVoxelAt(g)
	if !ok {
		return nil, fmt.Errorf("%w: %+v", ErrVoxelMissing, g)
	}
	return v, nil
}

// Insert prepends dep onto the dependent list headed at seed, so dep
// becomes seed's HeadIdx and the previous head (if any) becomes dep's
// successor. dep's own links are reset to Undef/head-swap first, which
// assumes dep is not already linked anywhere else — callers must Delete
// a voxel from its old list before Insert-ing it into a new one.
func Insert(loc Locator, seed, dep *voxel.EsdfVoxel) error {
	if seed.HeadIdx.IsUndef() {
		seed.HeadIdx = dep.SelfIdx
		dep.PrevIdx = voxel.UndefIndex
		dep.NextIdx = voxel.UndefIndex
		return nil
	}
	head, err := lookup(loc, seed.HeadIdx)
	if err != nil {
		return err
	}
	head.PrevIdx = dep.SelfIdx
	dep.PrevIdx = voxel.UndefIndex
	dep.NextIdx = seed.HeadIdx
	seed.HeadIdx = dep.SelfIdx
	return nil
}

// Delete unlinks dep from the dependent list headed at seed, patching up
// its neighbors' links (or seed's HeadIdx, if dep was first) and
// resetting dep's own links to Undef.
func Delete(loc Locator, seed, dep *voxel.EsdfVoxel) error {
	if !dep.PrevIdx.IsUndef() {
		prev, err := lookup(loc, dep.PrevIdx)
		if err != nil {
			return err
		}
		prev.NextIdx = dep.NextIdx
	} else {
		seed.HeadIdx = dep.NextIdx
	}
	if !dep.NextIdx.IsUndef() {
		next, err := lookup(loc, dep.NextIdx)
		if err != nil {
			return err
		}
		next.PrevIdx = dep.PrevIdx
	}
	dep.PrevIdx = voxel.UndefIndex
	dep.NextIdx = voxel.UndefIndex
	return nil
}

// Dependents returns seed itself together with every voxel linked into
// seed's dependent list, as a snapshot slice in traversal order.
//
// Traversal starts at seed, not at seed.HeadIdx, and walks via PrevIdx
// rather than NextIdx. This mirrors the original integrator's raise
// loop, which iterates `for (idx = seed_idx; idx != UNDEF; idx =
// temp_vox->prev_idx)`. It works because a coc voxel always
// self-inserts into its own list the moment it becomes a coc (Insert(seed,
// seed)), and Insert always updates the *current* head's PrevIdx to
// point at each newly inserted dependent while leaving every other
// voxel's PrevIdx untouched — so seed's own PrevIdx is fixed forever at
// whichever voxel adopted it first, and chasing PrevIdx from there walks
// forward through every later adoption in insertion order, terminating
// at the current head (the only voxel whose PrevIdx is Undef). Starting
// at seed.HeadIdx instead would only reach the most recent dependent,
// missing every older one.
func Dependents(loc Locator, seed *voxel.EsdfVoxel) ([]*voxel.EsdfVoxel, error) {
	out := []*voxel.EsdfVoxel{seed}
	for idx := seed.PrevIdx; !idx.IsUndef(); {
		v, err := lookup(loc, idx)
		if err != nil {
			return out, err
		}
		out = append(out, v)
		idx = v.PrevIdx
	}
	return out, nil
}
