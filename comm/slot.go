// Package comm moves packets between the control program's TCP connections
// and the simulation tick through two single-slot buffers.
package comm

import "context"

// Slot holds at most one value. Each slot has one writer and one reader; the
// tick side only ever uses the non-blocking calls.
type Slot[T any] struct {
	ch chan T
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{ch: make(chan T, 1)}
}

// TryPut stores v if the slot is empty and reports whether it did.
func (s *Slot[T]) TryPut(v T) bool {
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}

// TryTake removes and returns the value if there is one.
func (s *Slot[T]) TryTake() (T, bool) {
	select {
	case v := <-s.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Take blocks until a value is available or ctx is done.
func (s *Slot[T]) Take(ctx context.Context) (T, error) {
	select {
	case v := <-s.ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Full reports whether the slot currently holds a value.
func (s *Slot[T]) Full() bool { return len(s.ch) == cap(s.ch) }
