package dataqueue

import "errors"

// Errors returned by the dataqueue package.
var (
	// ErrQueueEmpty is returned by Dequeue/Peek on an empty queue.
	ErrQueueEmpty = errors.New("dataqueue: queue empty")
	// ErrQueueFull is returned by Enqueue when the queue is at capacity
	// and running in refuse-on-full mode.
	ErrQueueFull = errors.New("dataqueue: queue full")
	// ErrElementTooLarge is returned when an enqueued element exceeds the
	// queue's fixed element size.
	ErrElementTooLarge = errors.New("dataqueue: element exceeds fixed size")
	// ErrInvalidInput is returned for malformed constructor arguments.
	ErrInvalidInput = errors.New("dataqueue: invalid input")
	// ErrIndexOutOfRange is returned by Peek(i) for an out-of-range index.
	ErrIndexOutOfRange = errors.New("dataqueue: index out of range")
)
