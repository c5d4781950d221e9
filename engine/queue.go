package engine

import (
	"container/heap"
	"sync"
)

// queueEntry is one (t, seq, event, emitter, cause) tuple. seq is the
// monotonic tie-breaker assigned at enqueue time; ordering and pop order
// depend only on (t, seq), never on the payload.
type queueEntry struct {
	t      int64
	seq    uint64
	event  Event
	source Process
	cause  Event
}

// entryHeap implements heap.Interface over queueEntry, ordered by (t, seq)
// — the same shape as the cluster EventHeap pattern, generalised to carry
// the emitter/cause alongside the event.
type entryHeap []*queueEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].t != h[j].t {
		return h[i].t < h[j].t
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(*queueEntry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// eventQueue is a (t, seq)-ordered priority queue safe for concurrent
// schedule calls from handler goroutines, with a single consumer (the
// engine's step loop) popping and, when batch extraction over-reads,
// putting an entry back.
type eventQueue struct {
	mu   sync.Mutex
	heap entryHeap
	seq  uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(&q.heap)
	return q
}

// schedule enqueues event under a freshly minted seq. maxSize bounds the
// queue (0 = unbounded); schedule reports false without enqueuing if the
// queue is already at that bound.
func (q *eventQueue) schedule(event Event, source Process, cause Event, maxSize int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if maxSize > 0 && q.heap.Len() >= maxSize {
		return false
	}
	entry := &queueEntry{t: event.Timestamp(), seq: q.seq, event: event, source: source, cause: cause}
	q.seq++
	heap.Push(&q.heap, entry)
	return true
}

// putBack re-inserts an entry popped in error (batch extraction over-read),
// preserving its original seq so inter-step ordering is unaffected.
func (q *eventQueue) putBack(entry *queueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(&q.heap, entry)
}

func (q *eventQueue) popNext() (*queueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.heap.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.heap).(*queueEntry), true
}

func (q *eventQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
