// Package neighborhood supplies the fixed offset/distance tables used to
// walk a voxel's 6-, 18-, 24- or 26-connected neighbors, plus the
// "directional guide" half-space pruning that limits lowering
// propagation to the side of a voxel facing away from its closest
// obstacle.
//
// Offsets26 lists all 26 face/edge/corner neighbor steps once; the 6-,
// 18- and 24-connectivities are filtered views over the same table
// (prefixes/subsets, not separate data), following
// github.com/katalvlaran/lvlath/gridgraph's approach of precomputing a
// single neighbor-offset table from a requested connectivity.
package neighborhood
