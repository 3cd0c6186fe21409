package bucketqueue

import (
	"fmt"

	"github.com/chewxy/math32"
)

// BucketQueue is a fixed-bucket-count FIFO priority queue over values of
// type T. Push buckets a negative priority by its magnitude, and a
// priority above maxPriority is clamped into the last bucket rather than
// rejected, matching the original integrator's behavior of saturating
// distances at the configured maximum rather than erroring.
type BucketQueue[T any] struct {
	numBuckets  int
	maxPriority float32
	buckets     [][]T
	size        int
}

// New constructs a BucketQueue with the given number of buckets spanning
// priorities [0, maxPriority].
func New[T any](numBuckets int, maxPriority float32) (*BucketQueue[T], error) {
	if numBuckets < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, numBuckets)
	}
	if maxPriority <= 0 {
		return nil, fmt.Errorf("%w: got %f", ErrInvalidMaxPriority, maxPriority)
	}
	return &BucketQueue[T]{
		numBuckets:  numBuckets,
		maxPriority: maxPriority,
		buckets:     make([][]T, numBuckets),
	}, nil
}

// bucketIndex maps a priority to a bucket in [0, numBuckets).
func (q *BucketQueue[T]) bucketIndex(priority float32) int {
	if priority <= 0 {
		return 0
	}
	frac := priority / q.maxPriority
	idx := int(frac * float32(q.numBuckets-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= q.numBuckets {
		idx = q.numBuckets - 1
	}
	return idx
}

// Push inserts v at the bucket corresponding to priority. Ties within a
// bucket are broken FIFO.
func (q *BucketQueue[T]) Push(v T, priority float32) {
	i := q.bucketIndex(math32.Abs(priority))
	q.buckets[i] = append(q.buckets[i], v)
	q.size++
}

// Pop removes and returns the front value of the lowest non-empty
// bucket. The second return is false if the queue is empty.
func (q *BucketQueue[T]) Pop() (T, bool) {
	var zero T
	for i := 0; i < q.numBuckets; i++ {
		b := q.buckets[i]
		if len(b) == 0 {
			continue
		}
		v := b[0]
		q.buckets[i] = b[1:]
		q.size--
		return v, true
	}
	return zero, false
}

// Len returns the total number of queued elements across all buckets.
func (q *BucketQueue[T]) Len() int { return q.size }

// Empty reports whether the queue holds no elements.
func (q *BucketQueue[T]) Empty() bool { return q.size == 0 }

// Clear discards every queued element.
func (q *BucketQueue[T]) Clear() {
	for i := range q.buckets {
		q.buckets[i] = nil
	}
	q.size = 0
}
