package bucketqueue

import "errors"

// ErrInvalidBucketCount is returned by New when numBuckets is less
// than 2.
var ErrInvalidBucketCount = errors.New("bucketqueue: num_buckets must be at least 2")

// ErrInvalidMaxPriority is returned by New when maxPriority is not
// positive.
var ErrInvalidMaxPriority = errors.New("bucketqueue: max_priority must be positive")
