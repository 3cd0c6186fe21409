package voxel

// Block owns a dense, row-major array of voxelsPerSide³ voxels of type V
// plus a small per-purpose "updated" bitset. Blocks never shrink: once a
// block is allocated it lives for the rest of the Volume's life.
type Block[V any] struct {
	index         BlockIndex
	voxelsPerSide int32
	voxels        []V
	updated       [numUpdateKinds]bool
}

// Index returns the block's coordinate.
func (b *Block[V]) Index() BlockIndex { return b.index }

// NumVoxels returns the number of voxels stored in the block
// (voxelsPerSide³).
func (b *Block[V]) NumVoxels() int { return len(b.voxels) }

// VoxelByLinear returns a pointer to the voxel at the given row-major
// linear offset, as produced by Volume.blockAndLocal.
func (b *Block[V]) VoxelByLinear(linear int) *V { return &b.voxels[linear] }

// IsUpdated reports whether the block carries unread changes for kind.
func (b *Block[V]) IsUpdated(kind UpdateKind) bool { return b.updated[kind] }

// GlobalIndexFromLinear reconstructs the GlobalIndex of the voxel stored
// at the given linear offset within a block of the given index.
func GlobalIndexFromLinear(bIdx BlockIndex, linear int, voxelsPerSide int32) GlobalIndex {
	n := int(voxelsPerSide)
	lx := int32(linear % n)
	ly := int32((linear / n) % n)
	lz := int32(linear / (n * n))
	return GlobalIndex{
		X: bIdx.X*voxelsPerSide + lx,
		Y: bIdx.Y*voxelsPerSide + ly,
		Z: bIdx.Z*voxelsPerSide + lz,
	}
}
