// Package scheduler implements the tick-ordered event queue that drives
// the universe's simulation loop: a min-heap keyed on tick, with a
// monotonic sequence number breaking ties deterministically.
package scheduler

import "container/heap"

// Callback is invoked when a scheduled event's tick is reached. uid
// identifies the event so callbacks can detect whether a later action
// (e.g. an order change) has superseded the event that scheduled them.
type Callback func(uid uint64)

// Event is a single scheduled callback.
type Event struct {
	Tick        float64
	Callback    Callback
	Description string
	UID         uint64

	seq int
}

// Queue is a min-heap of Events ordered by Tick, with insertion order
// breaking ties so that two events scheduled for the same tick fire in
// the order they were added.
type Queue struct {
	heap    eventHeap
	nextSeq int
	nextUID uint64
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// NewUID returns a UID distinct from every UID previously issued by
// this queue. Callers use it to stamp orders so a stale event's
// callback can recognize it has been superseded.
func (q *Queue) NewUID() uint64 {
	q.nextUID++
	return q.nextUID
}

// Add pushes a new event onto the queue and returns it.
func (q *Queue) Add(tick float64, callback Callback, description string, uid uint64) Event {
	e := Event{Tick: tick, Callback: callback, Description: description, UID: uid, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.heap, e)
	return e
}

// PeekNext returns the next event without removing it. ok is false if
// the queue is empty.
func (q *Queue) PeekNext() (e Event, ok bool) {
	if len(q.heap) == 0 {
		return Event{}, false
	}
	return q.heap[0], true
}

// PopNext removes and returns the next event if its tick is at most
// horizon. If the queue is empty or the head's tick exceeds horizon,
// PopNext returns ok == false and leaves the queue untouched.
func (q *Queue) PopNext(horizon float64) (e Event, ok bool) {
	if len(q.heap) == 0 || q.heap[0].Tick > horizon {
		return Event{}, false
	}
	return heap.Pop(&q.heap).(Event), true
}

// Len returns the number of events currently queued.
func (q *Queue) Len() int {
	return len(q.heap)
}

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Tick != h[j].Tick {
		return h[i].Tick < h[j].Tick
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
