// Package voxel defines the sparse, block-hashed 3D voxel volume that
// backs the esdf3d mapping stack, along with the concrete voxel payload
// types (OccupancyVoxel, TsdfVoxel, EsdfVoxel) the higher-level packages
// read and mutate.
//
// A Volume is a hash map from BlockIndex to Block, where each Block owns
// a dense, row-major array of voxelsPerSide³ voxels plus a small
// per-purpose "updated" bitset. Blocks are created lazily and, once
// allocated, persist for the life of the Volume — memory only grows.
//
// All indices exposed to callers are GlobalIndex: a signed (x, y, z)
// triple identifying a voxel uniquely across the whole volume. The
// block/voxel decomposition used internally for storage is not part of
// the public contract; every accessor takes and returns GlobalIndex.
//
// Concurrency: Volume guards its block map with a sync.RWMutex, the same
// pattern github.com/katalvlaran/lvlath/core uses for its vertex/edge
// maps. Independent reads of different blocks may run concurrently;
// callers that mutate voxels are expected to serialize or partition by
// block themselves, since a single ESDF update tick runs single-threaded
// against the blocks in its local range.
package voxel
