package engine

import (
	"sync/atomic"

	"github.com/tracklet/tracklet"
)

// queueCapacity must be a power of two; the ring masks indices instead
// of taking a modulo.
const queueCapacity = 256

// CommandQueue is a bounded single-producer/single-consumer ring buffer
// carrying commands from the control side to the render side. The
// control side is the only enqueuer and the render engine the only
// drainer; under that discipline the two never block each other and the
// queue needs no locks. Enqueue fails with tracklet.ErrQueueFull
// instead of growing or blocking.
type CommandQueue struct {
	buf  [queueCapacity]tracklet.Command
	head atomic.Uint64 // next slot to read, owned by the consumer
	tail atomic.Uint64 // next slot to write, owned by the producer
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Enqueue appends a command. Capacity exceeded returns
// tracklet.ErrQueueFull and the queue is left exactly as it was.
func (q *CommandQueue) Enqueue(c tracklet.Command) error {
	tail := q.tail.Load()
	if tail-q.head.Load() >= queueCapacity {
		return tracklet.ErrQueueFull
	}
	q.buf[tail&(queueCapacity-1)] = c
	q.tail.Store(tail + 1)
	return nil
}

// Drain removes and yields pending commands in FIFO order. The tail is
// sampled once when the iteration starts, so only commands enqueued
// before that point are yielded; a busy producer cannot keep the render
// side spinning. Stopping the iteration early leaves the rest queued.
func (q *CommandQueue) Drain(yield func(tracklet.Command) bool) {
	head := q.head.Load()
	tail := q.tail.Load()
	for head < tail {
		c := q.buf[head&(queueCapacity-1)]
		head++
		q.head.Store(head)
		if !yield(c) {
			return
		}
	}
}

// Len reports how many commands are pending. Exact only for the
// producer or consumer themselves; a snapshot for anyone else.
func (q *CommandQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}
