// Package bucketqueue implements a bucketed approximate priority queue:
// priorities are bucketed into a fixed number of FIFO slices spanning
// [0, maxPriority], and Pop always drains the lowest non-empty bucket
// before moving to the next. This trades exact priority ordering for
// O(1) push/pop, the same trade the original ESDF integrators make with
// their BucketQueue<GlobalIndex>.
//
// Each bucket is a growable FIFO built the way
// github.com/katalvlaran/lvlath/bfs pops its work queue: popping the
// front reslices rather than shifting, so amortized cost stays O(1) per
// element.
package bucketqueue
