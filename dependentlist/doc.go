// Package dependentlist implements the intrusive doubly-linked list that
// tracks, for each settled closest-obstacle (coc) voxel, every voxel
// whose distance was last computed relative to it. When a coc voxel is
// removed (a raise), this list lets the engine invalidate exactly its
// dependents in O(k) instead of rescanning the whole map.
//
// The list is intrusive: "next"/"prev" pointers are GlobalIndex values
// stored directly on each voxel.EsdfVoxel (PrevIdx/NextIdx), and the
// list head is the HeadIdx stored on the coc voxel itself. There is no
// separate list node allocation, matching the original integrator's
// encoding of the same structure as plain index fields on EsdfVoxel.
package dependentlist
