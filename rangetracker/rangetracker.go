package rangetracker

import (
	"github.com/robotics-upo/esdf3d/voxel"
)

// BlockAllocator lazily allocates a block and flags it as updated for
// every downstream consumer. voxel.Volume[V] satisfies this via
// AllocateBlockIndex and SetUpdatedAll for any voxel payload V, which is
// what lets Tracker stay non-generic while still driving any Volume.
type BlockAllocator interface {
	AllocateBlockIndex(bIdx voxel.BlockIndex)
	SetUpdatedAll(bIdx voxel.BlockIndex)
	VoxelsPerSide() int32
}

// Tracker holds the local update range derived from a single tick's
// insert/delete lists, padded by a fixed boundary offset.
type Tracker struct {
	boundaryOffset voxel.GlobalIndex

	updateMin, updateMax voxel.GlobalIndex
	rangeMin, rangeMax   voxel.GlobalIndex
}

// New constructs a Tracker that pads every computed update range by
// boundaryOffset on each side.
func New(boundaryOffset voxel.GlobalIndex) *Tracker {
	return &Tracker{boundaryOffset: boundaryOffset}
}

// ComputeUpdateRange recomputes the tight bounding box over insertList
// and deleteList. It must be called before LocalRange or InRange.
func (t *Tracker) ComputeUpdateRange(insertList, deleteList []voxel.GlobalIndex) error {
	if len(insertList) == 0 && len(deleteList) == 0 {
		return ErrEmptyUpdateRange
	}

	const maxInt32 = int32(1<<31 - 1)
	min := voxel.GlobalIndex{X: maxInt32, Y: maxInt32, Z: maxInt32}
	max := voxel.GlobalIndex{X: -maxInt32, Y: -maxInt32, Z: -maxInt32}

	grow := func(g voxel.GlobalIndex) {
		if g.X < min.X {
			min.X = g.X
		}
		if g.Y < min.Y {
			min.Y = g.Y
		}
		if g.Z < min.Z {
			min.Z = g.Z
		}
		if g.X > max.X {
			max.X = g.X
		}
		if g.Y > max.Y {
			max.Y = g.Y
		}
		if g.Z > max.Z {
			max.Z = g.Z
		}
	}
	for _, g := range insertList {
		grow(g)
	}
	for _, g := range deleteList {
		grow(g)
	}

	t.updateMin, t.updateMax = min, max
	t.rangeMin = min.Sub(t.boundaryOffset)
	t.rangeMax = max.Add(t.boundaryOffset)
	return nil
}

// LocalRange returns the padded [min, max] bounding box computed by the
// last call to ComputeUpdateRange.
func (t *Tracker) LocalRange() (min, max voxel.GlobalIndex) { return t.rangeMin, t.rangeMax }

// InRange reports whether g falls within the padded local range.
func (t *Tracker) InRange(g voxel.GlobalIndex) bool {
	return g.X >= t.rangeMin.X && g.X <= t.rangeMax.X &&
		g.Y >= t.rangeMin.Y && g.Y <= t.rangeMax.Y &&
		g.Z >= t.rangeMin.Z && g.Z <= t.rangeMax.Z
}

// floorDivInt32 floor-divides a by b, where b > 0. Go's / truncates
// toward zero, which is wrong for negative a; voxel block indices must
// floor-divide so a negative global coordinate maps to the block below
// it rather than snapping toward the origin.
func floorDivInt32(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// AllocateBlocks eagerly allocates (and flags fully updated) every block
// the padded local range touches, so later per-voxel lookups during a
// BFS pass never need to allocate mid-traversal.
func (t *Tracker) AllocateBlocks(alloc BlockAllocator) {
	n := alloc.VoxelsPerSide()
	bMin := voxel.BlockIndex{
		X: floorDivInt32(t.rangeMin.X, n),
		Y: floorDivInt32(t.rangeMin.Y, n),
		Z: floorDivInt32(t.rangeMin.Z, n),
	}
	bMax := voxel.BlockIndex{
		X: floorDivInt32(t.rangeMax.X, n),
		Y: floorDivInt32(t.rangeMax.Y, n),
		Z: floorDivInt32(t.rangeMax.Z, n),
	}
	for x := bMin.X; x <= bMax.X; x++ {
		for y := bMin.Y; y <= bMax.Y; y++ {
			for z := bMin.Z; z <= bMax.Z; z++ {
				idx := voxel.BlockIndex{X: x, Y: y, Z: z}
				alloc.AllocateBlockIndex(idx)
				alloc.SetUpdatedAll(idx)
			}
		}
	}
}
