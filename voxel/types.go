package voxel

import (
	"math"

	"github.com/soypat/geometry/ms3"
)

// undefComponent is the sentinel value used by GlobalIndex components to
// mean "no index" (the Go translation of the original integrator's UNDEF
// constant). It is chosen far outside any realistic map extent so it can
// never collide with a real voxel coordinate.
const undefComponent int32 = math.MinInt32

// GlobalIndex is a signed (x, y, z) voxel coordinate unique across the
// whole volume. Every public accessor in this module takes or returns a
// GlobalIndex; the block/local-voxel split used for storage never leaks.
type GlobalIndex struct {
	X, Y, Z int32
}

// UndefIndex is the sentinel "no index" value, used by EsdfVoxel's
// coc_idx/prev_idx/next_idx/head_idx fields to mean "not linked".
var UndefIndex = GlobalIndex{X: undefComponent, Y: undefComponent, Z: undefComponent}

// IsUndef reports whether g is the UndefIndex sentinel.
func (g GlobalIndex) IsUndef() bool { return g.X == undefComponent }

// Equal reports whether g and o address the same voxel.
func (g GlobalIndex) Equal(o GlobalIndex) bool { return g == o }

// Add returns the component-wise sum of g and o.
func (g GlobalIndex) Add(o GlobalIndex) GlobalIndex {
	return GlobalIndex{X: g.X + o.X, Y: g.Y + o.Y, Z: g.Z + o.Z}
}

// Sub returns the component-wise difference g - o.
func (g GlobalIndex) Sub(o GlobalIndex) GlobalIndex {
	return GlobalIndex{X: g.X - o.X, Y: g.Y - o.Y, Z: g.Z - o.Z}
}

// Center returns the voxel's corner coordinate scaled by voxelSize. The
// original integrator places voxel "centers" at idx.cast<float>() *
// voxel_size (no half-voxel offset); distances and sub-voxel corrections
// are computed relative to that same convention, so we keep it here.
func (g GlobalIndex) Center(voxelSize float32) ms3.Vec {
	return ms3.Vec{X: float32(g.X) * voxelSize, Y: float32(g.Y) * voxelSize, Z: float32(g.Z) * voxelSize}
}

// BlockIndex addresses a Block within a Volume.
type BlockIndex struct {
	X, Y, Z int32
}

// UpdateKind identifies a downstream consumer whose view of a block may
// be stale. Blocks track one "updated" flag per kind so a TSDF pass, an
// ESDF pass and a mesh pass can each drain their own work queue of
// touched blocks independently.
type UpdateKind int

const (
	UpdateTsdf UpdateKind = iota
	UpdateEsdf
	UpdateMesh

	numUpdateKinds = int(UpdateMesh) + 1
)

// OccupancyVoxel is the coarsest payload type: a binary occupied/free
// classification plus the bookkeeping needed to detect state flips.
type OccupancyVoxel struct {
	Observed bool
	Occupied bool
	// Behind marks a voxel as lying behind an observed surface from the
	// sensor's viewpoint (known-occupied interior, not the surface
	// itself). EsdfVoxel.Behind is copied from here on first
	// classification and decides whether a freshly initialized ESDF
	// distance starts truncated-negative or at the default free-space
	// value.
	Behind bool
}

// TsdfVoxel carries a signed distance to the nearest observed surface
// along with the weight and local gradient needed for Voxfield's
// sub-voxel ESDF correction.
type TsdfVoxel struct {
	Observed bool
	Distance float32
	Weight   float32
	Gradient ms3.Vec
	Occupied bool
}

// EsdfVoxel is the per-voxel state threaded through the incremental
// raise/lower update. Fields mirror the original integrator's
// EsdfVoxel/EsdfCell one for one; see SPEC_FULL.md section 3 for the
// full invariant list.
type EsdfVoxel struct {
	// Observed gates first-time initialization. It is the Go idiom for
	// what the original code spells as "self_idx(0) == UNDEF": a freshly
	// allocated voxel's index fields are the Go zero value {0,0,0}, which
	// is a valid coordinate, not a sentinel, so we cannot reuse IsUndef()
	// to detect "never touched". Observed, defaulting false, does.
	Observed bool

	SelfIdx GlobalIndex
	CocIdx  GlobalIndex

	Distance    float32
	RawDistance float32

	Behind bool
	Fixed  bool

	// Raise is the EDT variant's raise/lower discriminant: negative means
	// "lowering" (settled, not pending a raise), >= 0 means "raising"
	// and carries the priority the voxel was pushed with.
	Raise float32

	InQueue bool
	Newly   bool

	PrevIdx GlobalIndex
	NextIdx GlobalIndex
	HeadIdx GlobalIndex

	Error float32
}
