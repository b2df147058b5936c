package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInsertTopPop VERIFIES basic ordering: Pop always returns the
// least-time entry.
func TestInsertTopPop(t *testing.T) {
	q := New()
	require.True(t, q.Insert(1, 5.0))
	require.True(t, q.Insert(2, 1.0))
	require.True(t, q.Insert(3, 3.0))

	id, tm, ok := q.Top()
	require.True(t, ok)
	assert.Equal(t, ID(2), id)
	assert.Equal(t, 1.0, tm)

	var order []ID
	for q.Len() > 0 {
		id, _, _ := q.Pop()
		order = append(order, id)
	}
	assert.Equal(t, []ID{2, 3, 1}, order)
}

// TestInsertDuplicateRejected VERIFIES each id may hold at most one entry.
func TestInsertDuplicateRejected(t *testing.T) {
	q := New()
	require.True(t, q.Insert(1, 1.0))
	assert.False(t, q.Insert(1, 2.0))
}

// TestShiftMovesNotDuplicates VERIFIES Shift relocates the existing entry
// rather than adding a second one.
func TestShiftMovesNotDuplicates(t *testing.T) {
	q := New()
	require.True(t, q.Insert(1, 5.0))
	require.True(t, q.Shift(1, 0.5))
	assert.Equal(t, 1, q.Len())

	id, tm, ok := q.Top()
	require.True(t, ok)
	assert.Equal(t, ID(1), id)
	assert.Equal(t, 0.5, tm)
}

// TestShiftWithoutInsertFails VERIFIES Shift reports failure (caller
// surfaces xerrors.QueueError) rather than inserting a stray entry.
func TestShiftWithoutInsertFails(t *testing.T) {
	q := New()
	assert.False(t, q.Shift(99, 1.0))
	assert.Equal(t, 0, q.Len())
}

// TestPopSimultaneousBatchesExactTies VERIFIES PopSimultaneous drains every
// entry at the exact top time, in FIFO insertion order, and leaves
// later-time entries queued.
func TestPopSimultaneousBatchesExactTies(t *testing.T) {
	q := New()
	require.True(t, q.Insert(1, 2.0))
	require.True(t, q.Insert(2, 2.0))
	require.True(t, q.Insert(3, 2.0))
	require.True(t, q.Insert(4, 9.0))

	batch := q.PopSimultaneous()
	assert.Equal(t, []ID{1, 2, 3}, batch)
	assert.Equal(t, 1, q.Len())

	id, tm, ok := q.Top()
	require.True(t, ok)
	assert.Equal(t, ID(4), id)
	assert.Equal(t, 9.0, tm)
}

// TestRemove VERIFIES Remove drops an entry so it can be re-inserted fresh.
func TestRemove(t *testing.T) {
	q := New()
	require.True(t, q.Insert(1, 1.0))
	require.True(t, q.Remove(1))
	assert.Equal(t, 0, q.Len())
	assert.False(t, q.Contains(1))
	require.True(t, q.Insert(1, 2.0))
}
