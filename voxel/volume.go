package voxel

import (
	"fmt"
	"sync"
)

// Volume is a sparse, block-hashed grid of voxels of type V. It is safe
// for concurrent use: reads and writes of the block map are guarded by a
// sync.RWMutex, the same pattern github.com/katalvlaran/lvlath/core uses
// to guard its vertex and edge maps.
type Volume[V any] struct {
	mu            sync.RWMutex
	blocks        map[BlockIndex]*Block[V]
	voxelsPerSide int32
	shift         uint
	mask          int32
	voxelSize     float32
}

// NewVolume constructs an empty Volume whose blocks are voxelsPerSide
// voxels to an edge (must be a power of two) and whose voxels are
// voxelSize meters to an edge.
func NewVolume[V any](voxelsPerSide int32, voxelSize float32) (*Volume[V], error) {
	shift, ok := log2PowerOfTwo(voxelsPerSide)
	if !ok {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVoxelsPerSide, voxelsPerSide)
	}
	if voxelSize <= 0 {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidVoxelSize, voxelSize)
	}
	return &Volume[V]{
		blocks:        make(map[BlockIndex]*Block[V]),
		voxelsPerSide: voxelsPerSide,
		shift:         shift,
		mask:          voxelsPerSide - 1,
		voxelSize:     voxelSize,
	}, nil
}

// log2PowerOfTwo returns (log2(n), true) when n is a positive power of
// two, or (0, false) otherwise.
func log2PowerOfTwo(n int32) (uint, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	var shift uint
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift, true
}

// VoxelsPerSide returns the block edge length in voxels.
func (v *Volume[V]) VoxelsPerSide() int32 { return v.voxelsPerSide }

// VoxelSize returns the edge length of one voxel, in meters.
func (v *Volume[V]) VoxelSize() float32 { return v.voxelSize }

// blockAndLocal splits a GlobalIndex into its owning BlockIndex and the
// row-major linear offset of the voxel within that block. Go's >> on a
// signed integer is an arithmetic shift, which floor-divides correctly
// for negative indices as long as voxelsPerSide is a power of two; & with
// mask then yields a local coordinate in [0, voxelsPerSide) even when the
// global component was negative, thanks to two's-complement wraparound.
func (v *Volume[V]) blockAndLocal(g GlobalIndex) (BlockIndex, int) {
	bx := g.X >> v.shift
	by := g.Y >> v.shift
	bz := g.Z >> v.shift
	lx := g.X & v.mask
	ly := g.Y & v.mask
	lz := g.Z & v.mask
	n := int(v.voxelsPerSide)
	linear := int(lz)*n*n + int(ly)*n + int(lx)
	return BlockIndex{X: bx, Y: by, Z: bz}, linear
}

// BlockIndexOf returns the block that owns g, without allocating it.
func (v *Volume[V]) BlockIndexOf(g GlobalIndex) BlockIndex {
	bIdx, _ := v.blockAndLocal(g)
	return bIdx
}

// HasBlock reports whether the block at bIdx has been allocated.
func (v *Volume[V]) HasBlock(bIdx BlockIndex) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.blocks[bIdx]
	return ok
}

// GetBlock returns the block at bIdx, if allocated.
func (v *Volume[V]) GetBlock(bIdx BlockIndex) (*Block[V], bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	b, ok := v.blocks[bIdx]
	return b, ok
}

// EnsureBlock returns the block at bIdx, lazily allocating a
// zero-initialized one if it does not already exist.
func (v *Volume[V]) EnsureBlock(bIdx BlockIndex) *Block[V] {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, ok := v.blocks[bIdx]
	if ok {
		return b
	}
	n := int(v.voxelsPerSide)
	b = &Block[V]{
		index:         bIdx,
		voxelsPerSide: v.voxelsPerSide,
		voxels:        make([]V, n*n*n),
	}
	v.blocks[bIdx] = b
	return b
}

// AllocateBlockIndex lazily allocates the block at bIdx, discarding the
// result. It exists so Volume can satisfy narrower allocator interfaces
// (see package rangetracker) that do not want to be generic over V.
func (v *Volume[V]) AllocateBlockIndex(bIdx BlockIndex) { v.EnsureBlock(bIdx) }

// VoxelAt returns a pointer to the voxel at g, if its block has been
// allocated.
func (v *Volume[V]) VoxelAt(g GlobalIndex) (*V, bool) {
	bIdx, linear := v.blockAndLocal(g)
	b, ok := v.GetBlock(bIdx)
	if !ok {
		return nil, false
	}
	return b.VoxelByLinear(linear), true
}

// EnsureVoxel returns a pointer to the voxel at g, lazily allocating its
// block if necessary. The returned voxel is the Go zero value the first
// time it is touched.
func (v *Volume[V]) EnsureVoxel(g GlobalIndex) *V {
	bIdx, linear := v.blockAndLocal(g)
	b := v.EnsureBlock(bIdx)
	return b.VoxelByLinear(linear)
}

// MarkUpdated flags the block at bIdx as carrying unread changes for
// kind, lazily allocating the block if necessary.
func (v *Volume[V]) MarkUpdated(bIdx BlockIndex, kind UpdateKind) {
	b := v.EnsureBlock(bIdx)
	v.mu.Lock()
	b.updated[kind] = true
	v.mu.Unlock()
}

// SetUpdatedAll flags the block at bIdx as updated for every kind. This
// mirrors the original integrator's setUpdatedAll(), used when a block is
// freshly allocated and every downstream consumer needs to see it.
func (v *Volume[V]) SetUpdatedAll(bIdx BlockIndex) {
	b := v.EnsureBlock(bIdx)
	v.mu.Lock()
	for i := range b.updated {
		b.updated[i] = true
	}
	v.mu.Unlock()
}

// ClearUpdated resets the updated flag for kind on the block at bIdx. It
// is a no-op if the block does not exist.
func (v *Volume[V]) ClearUpdated(bIdx BlockIndex, kind UpdateKind) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if b, ok := v.blocks[bIdx]; ok {
		b.updated[kind] = false
	}
}

// UpdatedBlocks returns the indices of every allocated block whose
// updated flag is set for kind.
func (v *Volume[V]) UpdatedBlocks(kind UpdateKind) []BlockIndex {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]BlockIndex, 0, len(v.blocks))
	for idx, b := range v.blocks {
		if b.updated[kind] {
			out = append(out, idx)
		}
	}
	return out
}

// NumBlocks returns the number of allocated blocks.
func (v *Volume[V]) NumBlocks() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.blocks)
}
