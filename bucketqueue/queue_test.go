package bucketqueue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotics-upo/esdf3d/bucketqueue"
)

func TestNewRejectsInvalidArgs(t *testing.T) {
	_, err := bucketqueue.New[int](0, 10)
	require.ErrorIs(t, err, bucketqueue.ErrInvalidBucketCount)

	_, err = bucketqueue.New[int](10, 0)
	require.ErrorIs(t, err, bucketqueue.ErrInvalidMaxPriority)
}

func TestFifoWithinBucket(t *testing.T) {
	q, err := bucketqueue.New[string](4, 10)
	require.NoError(t, err)

	q.Push("a", 1)
	q.Push("b", 1)
	q.Push("c", 1)

	got, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, "a", got)

	got, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, "b", got)
}

func TestLowerBucketsDrainFirst(t *testing.T) {
	q, err := bucketqueue.New[int](4, 10)
	require.NoError(t, err)

	q.Push(100, 9.9) // high priority, last bucket
	q.Push(1, 0.0)   // lowest priority, first bucket

	got, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, got)

	got, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 100, got)
}

func TestEmptyPop(t *testing.T) {
	q, err := bucketqueue.New[int](4, 10)
	require.NoError(t, err)

	_, ok := q.Pop()
	require.False(t, ok)
	require.True(t, q.Empty())
}

func TestClear(t *testing.T) {
	q, err := bucketqueue.New[int](4, 10)
	require.NoError(t, err)

	q.Push(1, 1)
	q.Push(2, 2)
	require.Equal(t, 2, q.Len())

	q.Clear()
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())
}

func TestNegativePriorityUsesMagnitude(t *testing.T) {
	q, err := bucketqueue.New[int](4, 10)
	require.NoError(t, err)

	q.Push(7, -5) // abs(-5) should land mid-range, not panic or underflow
	v, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 7, v)
}
