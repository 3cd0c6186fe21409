// Package esdf3d builds and incrementally maintains a Euclidean signed
// distance field over a sparse, block-hashed 3D voxel volume.
//
// What it does:
//
//	A single-threaded, incremental ESDF engine that brings together:
//
//	  - Sparse storage: block-hashed voxel volumes with lazy allocation
//	  - Bucketed BFS: near-O(1) amortized priority queue over voxel distances
//	  - Incremental updates: raise/lower propagation instead of full recompute
//	  - Three variants: Fiesta, Edt and Voxfield, chosen per workload
//
// Under the hood, everything is organized under dedicated subpackages:
//
//	voxel/          — GlobalIndex/BlockIndex addressing, sparse Volume/Block storage
//	neighborhood/   — 6/18/24/26-connectivity offset tables and directional pruning
//	bucketqueue/    — bucketed FIFO priority queue over quantized distances
//	dependentlist/  — intrusive doubly-linked per-obstacle dependent tracking
//	rangetracker/   — per-tick local update range and block allocation
//	esdf/           — FiestaEngine, EdtEngine, VoxfieldEngine and their shared core
//
// See SPEC_FULL.md and DESIGN.md for the full specification and the
// grounding behind each package's design.
package esdf3d
