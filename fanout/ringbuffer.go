// Package fanout provides a lock-free MPSC ring buffer used to move sink
// callbacks (trades, BBO updates, depth changes) off the matching engine's
// hot path. A sink wired directly onto an OrderBook runs synchronously
// under its mutex; publishing onto a RingBuffer instead lets that work
// (a Kafka write, a Redis publish) happen on a separate consumer goroutine
// without holding the book's guard.
package fanout

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrShutdownTimeout is returned by Shutdown when ctx expires before the
// consumer finishes draining published events.
var ErrShutdownTimeout = errors.New("fanout: shutdown timeout")

// Handler processes one event dequeued from a RingBuffer. Implementations
// run on the single consumer goroutine and may block; a slow Handler only
// delays that buffer's own consumer, never a producer's Publish caller
// beyond the buffer filling up.
type Handler[T any] interface {
	OnEvent(event T)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[T any] func(T)

func (f HandlerFunc[T]) OnEvent(event T) { f(event) }

// RingBuffer is a multi-producer, single-consumer ring buffer. Capacity
// must be a power of two. Multiple goroutines may call Publish
// concurrently; exactly one internal goroutine (started by Start) drains
// published slots in order and invokes the handler.
type RingBuffer[T any] struct {
	_                [56]byte // cache-line padding to avoid false sharing
	producerSequence atomic.Int64
	_                [56]byte
	consumerSequence atomic.Int64
	_                [56]byte

	buffer     []T
	bufferMask int64
	capacity   int64

	published []int64

	handler Handler[T]

	isShutdown atomic.Bool
}

// NewRingBuffer creates a RingBuffer of the given capacity (must be a
// power of two) dispatching to handler.
func NewRingBuffer[T any](capacity int64, handler Handler[T]) *RingBuffer[T] {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("fanout: capacity must be a power of 2")
	}

	rb := &RingBuffer[T]{
		buffer:     make([]T, capacity),
		published:  make([]int64, capacity),
		capacity:   capacity,
		bufferMask: capacity - 1,
		handler:    handler,
	}

	rb.producerSequence.Store(-1)
	rb.consumerSequence.Store(-1)
	for i := range rb.published {
		rb.published[i] = -1
	}

	return rb
}

// Publish hands event to the buffer. Blocks (yielding the scheduler)
// while the buffer is full, until the consumer frees a slot. Dropped
// silently once Shutdown has been called.
func (rb *RingBuffer[T]) Publish(event T) {
	if rb.isShutdown.Load() {
		return
	}

	var nextSeq int64
	for {
		currentProducerSeq := rb.producerSequence.Load()
		nextSeq = currentProducerSeq + 1

		wrapPoint := nextSeq - rb.capacity
		consumerSeq := rb.consumerSequence.Load()
		if wrapPoint > consumerSeq {
			runtime.Gosched()
			continue
		}

		if rb.producerSequence.CompareAndSwap(currentProducerSeq, nextSeq) {
			break
		}
		runtime.Gosched()
	}

	index := nextSeq & rb.bufferMask
	rb.buffer[index] = event
	atomic.StoreInt64(&rb.published[index], nextSeq)
}

// Start launches the consumer goroutine.
func (rb *RingBuffer[T]) Start() {
	go rb.consumerLoop()
}

// Shutdown stops accepting new Publish calls and blocks until the
// consumer has drained every already-published event, or ctx expires.
func (rb *RingBuffer[T]) Shutdown(ctx context.Context) error {
	rb.isShutdown.Store(true)

	for {
		select {
		case <-ctx.Done():
			return ErrShutdownTimeout
		default:
			if rb.ConsumerSequence() >= rb.ProducerSequence() {
				return nil
			}
			runtime.Gosched()
		}
	}
}

func (rb *RingBuffer[T]) consumerLoop() {
	nextConsumerSeq := rb.consumerSequence.Load() + 1

	for {
		availableSeq := rb.producerSequence.Load()

		if rb.isShutdown.Load() {
			rb.drain(nextConsumerSeq)
			return
		}

		processed := false
		for nextConsumerSeq <= availableSeq {
			index := nextConsumerSeq & rb.bufferMask
			for atomic.LoadInt64(&rb.published[index]) != nextConsumerSeq {
				runtime.Gosched()
			}

			rb.handler.OnEvent(rb.buffer[index])
			rb.consumerSequence.Store(nextConsumerSeq)
			nextConsumerSeq++
			processed = true
		}

		if !processed {
			runtime.Gosched()
		}
	}
}

func (rb *RingBuffer[T]) drain(nextConsumerSeq int64) {
	availableSeq := rb.producerSequence.Load()

	for nextConsumerSeq <= availableSeq {
		index := nextConsumerSeq & rb.bufferMask
		for atomic.LoadInt64(&rb.published[index]) != nextConsumerSeq {
			runtime.Gosched()
		}

		rb.handler.OnEvent(rb.buffer[index])
		rb.consumerSequence.Store(nextConsumerSeq)
		nextConsumerSeq++
	}
}

// ConsumerSequence returns the sequence number of the last event the
// consumer has finished processing.
func (rb *RingBuffer[T]) ConsumerSequence() int64 {
	return rb.consumerSequence.Load()
}

// ProducerSequence returns the sequence number of the last event claimed
// by a producer.
func (rb *RingBuffer[T]) ProducerSequence() int64 {
	return rb.producerSequence.Load()
}

// PendingEvents returns the number of published-but-not-yet-consumed
// events, for monitoring.
func (rb *RingBuffer[T]) PendingEvents() int64 {
	return rb.producerSequence.Load() - rb.consumerSequence.Load()
}
