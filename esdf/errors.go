package esdf

import "errors"

// Sentinel errors of package esdf. Configuration values are checked by
// NewConfig and the With* option constructors in config.go, volume
// layouts by the engine constructors, and the update range and voxel
// lookups by the UpdateFrom* calls. Unlike
// github.com/katalvlaran/lvlath/dijkstra's Option constructors, which
// panic on an invalid argument, these return the error through
// NewConfig so a caller building configuration from, say, a parsed CLI
// flag or ROS parameter server value gets a normal error instead of a
// crash (see SPEC_FULL.md's discussion of this departure).
var (
	ErrInvalidMaxDistance        = errors.New("esdf: max_distance_m must be positive")
	ErrInvalidMaxBehindSurface   = errors.New("esdf: max_behind_surface_m must be non-negative")
	ErrInvalidNumBuckets         = errors.New("esdf: num_buckets must be positive")
	ErrInvalidNeighborCount      = errors.New("esdf: num_neighbor must be one of 6, 18, 24, 26")
	ErrInvalidVariant            = errors.New("esdf: unknown variant")
	ErrVoxelsPerSideMismatch     = errors.New("esdf: occupancy/tsdf and esdf volumes must share voxels_per_side")
	ErrVoxelSizeMismatch         = errors.New("esdf: occupancy/tsdf and esdf volumes must share voxel_size")
	ErrNoUpdateRange             = errors.New("esdf: update called with empty insert and delete lists")
	ErrMissingEsdfVoxel          = errors.New("esdf: esdf voxel missing from volume inside local range")
	ErrMissingSourceVoxel        = errors.New("esdf: source (occupancy/tsdf) voxel missing from volume inside local range")
)
