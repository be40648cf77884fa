package dataqueue

import (
	"bytes"
	"testing"
)

func TestEnqueueDequeueFIFOOrder(t *testing.T) {
	q, err := New(3, 4, RefuseOnFull)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := q.Enqueue([]byte{1, 2}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := q.Enqueue([]byte{3, 4}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	first, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	want := append([]byte{1, 2}, 0, 0)
	if !bytes.Equal(first, want) {
		t.Fatalf("got %v, want %v", first, want)
	}
}

func TestEnqueueRefusesWhenFull(t *testing.T) {
	q, _ := New(2, 1, RefuseOnFull)
	q.Enqueue([]byte{1})
	q.Enqueue([]byte{2})
	if err := q.Enqueue([]byte{3}); err != ErrQueueFull {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
}

func TestEnqueueOverwritesOldestWhenFull(t *testing.T) {
	q, _ := New(2, 1, OverwriteOldest)
	q.Enqueue([]byte{1})
	q.Enqueue([]byte{2})
	if err := q.Enqueue([]byte{3}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}
	v, _ := q.Dequeue()
	if v[0] != 2 {
		t.Fatalf("head = %v, want [2]", v)
	}
}

func TestDequeueEmptyErrors(t *testing.T) {
	q, _ := New(1, 1, RefuseOnFull)
	if _, err := q.Dequeue(); err != ErrQueueEmpty {
		t.Fatalf("err = %v, want ErrQueueEmpty", err)
	}
}

func TestEnqueueElementTooLarge(t *testing.T) {
	q, _ := New(1, 2, RefuseOnFull)
	if err := q.Enqueue([]byte{1, 2, 3}); err != ErrElementTooLarge {
		t.Fatalf("err = %v, want ErrElementTooLarge", err)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	q, _ := New(2, 1, RefuseOnFull)
	q.Enqueue([]byte{9})
	v, err := q.Peek(0)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if v[0] != 9 {
		t.Fatalf("Peek = %v, want [9]", v)
	}
	if q.Len() != 1 {
		t.Fatal("Peek must not remove the element")
	}
}

func TestPeekOutOfRange(t *testing.T) {
	q, _ := New(1, 1, RefuseOnFull)
	if _, err := q.Peek(0); err != ErrIndexOutOfRange {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestNewInvalidArgs(t *testing.T) {
	if _, err := New(0, 1, RefuseOnFull); err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := New(1, 0, RefuseOnFull); err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestClearEmptiesQueue(t *testing.T) {
	q, _ := New(2, 1, RefuseOnFull)
	q.Enqueue([]byte{1})
	q.Clear()
	if !q.Empty() {
		t.Fatal("expected empty queue after Clear")
	}
}
