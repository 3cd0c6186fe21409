package dependentlist

import "errors"

// ErrVoxelMissing is returned when a list operation needs to resolve a
// linked GlobalIndex to a voxel through a Locator and the lookup fails.
// This indicates an inconsistent link (a voxel referencing a block that
// was never allocated) rather than an expected runtime condition.
var ErrVoxelMissing = errors.New("dependentlist: linked voxel not found in volume")
