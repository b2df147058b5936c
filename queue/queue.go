// Package queue implements the global event queue: an ordered
// multimap of event time to variable, supporting insert, shift, top, pop,
// and simultaneous-batch extraction. It is a container/heap-based priority
// queue in the same shape as a classic Dijkstra nodePQ/nodeItem, with two
// additions Dijkstra never needed: a reverse index so shift is O(log n)
// instead of a linear rescan, and a monotonic sequence number for the FIFO
// tie-break among simultaneous events.
package queue

import "container/heap"

// ID identifies the queue's payload; the driver supplies model.VariableID
// values, kept opaque here so this package has no dependency on model.
type ID int

// Handle is an opaque reference to a variable's single queue entry, used so
// the caller doesn't need to track ID<->item bookkeeping itself.
type Handle = ID

type item struct {
	t float64
	seq uint64
	id ID
	slot int // index into the heap's backing slice; -1 when not queued
}

// Queue is a min-heap ordered by (t, seq) keyed by variable ID, with at most
// one entry per ID.
type Queue struct {
	items []*item
	index map[ID]*item
	seq uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{index: make(map[ID]*item)}
}

// Len reports the number of queued entries.
func (q *Queue) Len() int { return len(q.items) }

// Contains reports whether id currently has a queue entry.
func (q *Queue) Contains(id ID) bool {
	_, ok := q.index[id]
	return ok
}

// Insert adds a new entry for id at time t. Returns false if id already has
// an entry (the caller should use Shift instead); each
// variable holds at most one queue entry.
func (q *Queue) Insert(id ID, t float64) bool {
	if _, exists := q.index[id]; exists {
		return false
	}
	it := &item{t: t, seq: q.nextSeq(), id: id}
	q.index[id] = it
	heap.Push((*heapAdapter)(q), it)
	return true
}

// Shift moves id's existing entry to tNew. Returns false if id has no entry
// (a programmer/queue error; the caller should surface
// xerrors.QueueError).
func (q *Queue) Shift(id ID, tNew float64) bool {
	it, ok := q.index[id]
	if !ok {
		return false
	}
	it.t = tNew
	it.seq = q.nextSeq()
	heap.Fix((*heapAdapter)(q), it.slot)
	return true
}

// Remove drops id's entry, if any, without returning it.
func (q *Queue) Remove(id ID) bool {
	it, ok := q.index[id]
	if !ok {
		return false
	}
	heap.Remove((*heapAdapter)(q), it.slot)
	delete(q.index, id)
	return true
}

// Top returns the id and time of the least-time entry without removing it.
func (q *Queue) Top() (id ID, t float64, ok bool) {
	if len(q.items) == 0 {
		return 0, 0, false
	}
	return q.items[0].id, q.items[0].t, true
}

// Pop removes and returns the single least-time entry.
func (q *Queue) Pop() (id ID, t float64, ok bool) {
	if len(q.items) == 0 {
		return 0, 0, false
	}
	it := heap.Pop((*heapAdapter)(q)).(*item)
	delete(q.index, it.id)
	return it.id, it.t, true
}

// PopSimultaneous removes and returns every entry whose time exactly equals
// the current top's time (bitwise double equality), ordered
// by the FIFO tie-break sequence number. Used by the driver to batch
// simultaneous events into a single logical step.
func (q *Queue) PopSimultaneous() []ID {
	if len(q.items) == 0 {
		return nil
	}
	t0 := q.items[0].t
	var batch []*item
	for len(q.items) > 0 && q.items[0].t == t0 {
		it := heap.Pop((*heapAdapter)(q)).(*item)
		delete(q.index, it.id)
		batch = append(batch, it)
	}
	// items popped off a heap one at a time already come out in (t, seq)
	// order since seq only matters among equal t; no further sort needed.
	ids := make([]ID, len(batch))
	for i, it := range batch {
		ids[i] = it.id
	}
	return ids
}

func (q *Queue) nextSeq() uint64 {
	q.seq++
	return q.seq
}

// heapAdapter implements container/heap.Interface over Queue.items, keeping
// Queue's exported surface free of heap internals.
type heapAdapter Queue

func (h *heapAdapter) Len() int { return len(h.items) }

func (h *heapAdapter) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.t != b.t {
		return a.t < b.t
	}
	return a.seq < b.seq
}

func (h *heapAdapter) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].slot = i
	h.items[j].slot = j
}

func (h *heapAdapter) Push(x any) {
	it := x.(*item)
	it.slot = len(h.items)
	h.items = append(h.items, it)
}

func (h *heapAdapter) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	h.items = old[:n-1]
	it.slot = -1
	return it
}
