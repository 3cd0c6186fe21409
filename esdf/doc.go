// Package esdf computes an incremental Euclidean signed distance field
// over a sparse voxel volume. Three interchangeable update strategies
// are provided, all sharing the same bucketed-queue BFS skeleton:
//
//   - FiestaEngine consumes an occupancy volume and an intrusive
//     dependent list to invalidate exactly the voxels whose closest
//     obstacle just disappeared (FIESTA, https://arxiv.org/abs/1903.02144).
//   - EdtEngine also consumes an occupancy volume but tracks raise state
//     with a single per-voxel field instead of a dependent list, trading
//     a coarser invalidation set for simpler bookkeeping.
//   - VoxfieldEngine consumes a TSDF volume and additionally corrects
//     each settled distance using the local TSDF gradient, recovering
//     sub-voxel accuracy near surfaces.
//
// All three only ever touch the local update range computed by
// package rangetracker from the tick's insert/delete lists, which is
// what makes the update incremental: blocks outside that range are
// never visited, let alone recomputed from scratch.
package esdf
