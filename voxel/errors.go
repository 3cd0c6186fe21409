package voxel

import "errors"

// Sentinel errors returned by the voxel package. Callers should compare
// against these with errors.Is; messages are package-prefixed following
// the convention used throughout the rest of this module.
var (
	// ErrInvalidVoxelsPerSide is returned by NewVolume when the requested
	// block edge length is not a positive power of two. Powers of two let
	// block/local-voxel decomposition use a shift and mask instead of a
	// division and modulo.
	ErrInvalidVoxelsPerSide = errors.New("voxel: voxels_per_side must be a positive power of two")

	// ErrInvalidVoxelSize is returned when a non-positive voxel edge
	// length is supplied.
	ErrInvalidVoxelSize = errors.New("voxel: voxel_size must be positive")

	// ErrBlockNotAllocated names the missing-block condition. No function
	// in this package returns it: read-only lookups such as VoxelAt and
	// GetBlock report a missing block through their boolean result.
	ErrBlockNotAllocated = errors.New("voxel: block not allocated")
)
