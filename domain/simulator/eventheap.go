package simulator

import "container/heap"

// pendingEvent is a scheduled block-creation event that has not been resolved
// into a concrete block yet. The sequence number breaks timestamp ties so the
// pop order is fully deterministic.
type pendingEvent struct {
	timestamp int64
	sequence  uint64
}

// baseHeap is an implementation for heap.Interface that sorts pending events
// by their timestamp
type baseHeap []*pendingEvent

func (h baseHeap) Len() int      { return len(h) }
func (h baseHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h baseHeap) Less(i, j int) bool {
	if h[i].timestamp == h[j].timestamp {
		return h[i].sequence < h[j].sequence
	}
	return h[i].timestamp < h[j].timestamp
}

func (h *baseHeap) Push(x interface{}) {
	*h = append(*h, x.(*pendingEvent))
}

func (h *baseHeap) Pop() interface{} {
	oldHeap := *h
	oldLength := len(oldHeap)
	popped := oldHeap[oldLength-1]
	*h = oldHeap[0 : oldLength-1]
	return popped
}

// eventHeap represents a mutable heap of pending events, sorted by their
// timestamp
type eventHeap struct {
	impl heap.Interface
}

func newEventHeap() eventHeap {
	h := eventHeap{impl: &baseHeap{}}
	heap.Init(h.impl)
	return h
}

// pop removes the event with the lowest timestamp from this heap and returns it
func (eh eventHeap) pop() *pendingEvent {
	return heap.Pop(eh.impl).(*pendingEvent)
}

// push pushes the event onto the heap
func (eh eventHeap) push(event *pendingEvent) {
	heap.Push(eh.impl, event)
}

// len returns the length of this heap
func (eh eventHeap) len() int {
	return eh.impl.Len()
}
