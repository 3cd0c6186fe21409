// Package rangetracker computes and tracks the "local update range" an
// incremental ESDF pass is allowed to touch: a padded bounding box over
// the blocks that changed since the last update, plus a fixed boundary
// offset so a lowering/raising wave has room to propagate a few voxels
// past the blocks that literally changed before it gets clipped.
//
// This mirrors the original integrator's getUpdateRange/setLocalRange
// pair: compute a tight bounding box over the insert/delete lists, pad
// it by a configured offset, then eagerly allocate every block the
// padded box touches so later lookups never have to allocate mid-BFS.
package rangetracker
