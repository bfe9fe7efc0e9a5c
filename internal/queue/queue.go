// Package queue provides an unbounded FIFO channel.
//
// Producers never block on a slow consumer: values are buffered in memory
// until the consumer reads them from Recv. Order is preserved per queue.
package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("queue closed")

// Unbounded is a FIFO channel with no capacity limit.
type Unbounded[T any] struct {
	mu     sync.Mutex
	closed bool
	in     chan T
	out    chan T
	stop   chan struct{}
}

// NewUnbounded creates a queue and starts its pump goroutine.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{
		in:   make(chan T),
		out:  make(chan T),
		stop: make(chan struct{}),
	}
	go q.pump()
	return q
}

// Send enqueues v. It only waits for the pump, never for the consumer.
func (q *Unbounded[T]) Send(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.in <- v
	return nil
}

// Recv returns the consumer side. It is closed after Close.
func (q *Unbounded[T]) Recv() <-chan T {
	return q.out
}

// Close discards anything still buffered and closes the Recv channel.
// Safe to call more than once.
func (q *Unbounded[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.stop)
}

func (q *Unbounded[T]) pump() {
	defer close(q.out)

	var pending []T
	for {
		var out chan T
		var next T
		if len(pending) > 0 {
			out = q.out
			next = pending[0]
		}

		select {
		case <-q.stop:
			return
		case v := <-q.in:
			pending = append(pending, v)
		case out <- next:
			var zero T
			pending[0] = zero
			pending = pending[1:]
		}
	}
}
