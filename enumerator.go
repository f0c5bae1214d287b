package widespan

import (
	"fmt"
	"iter"
)

// Enumerator walks a Span front to back. It starts before the first
// element; Current is valid only after MoveNext returned true.
type Enumerator[T any] struct {
	span  Span[T]
	index int
}

// Enumerate returns an enumerator positioned before the first element.
func (s Span[T]) Enumerate() Enumerator[T] {
	return Enumerator[T]{span: s, index: -1}
}

// MoveNext advances to the next element and reports whether there is one.
// Once it returns false it keeps returning false.
func (e *Enumerator[T]) MoveNext() bool {
	if e.index < e.span.n {
		e.index++
	}
	return e.index < e.span.n
}

// Current returns the element under the cursor. Writes through it land in
// the viewed memory. It panics with ErrInvalidUse when the cursor is not on
// an element.
func (e *Enumerator[T]) Current() *T {
	if e.index < 0 || e.index >= e.span.n {
		panic(fmt.Errorf("%w: enumerator is not positioned on an element", ErrInvalidUse))
	}
	return e.span.Ref(e.index)
}

// ReadOnlyEnumerator is Enumerator for ReadOnlySpan.
type ReadOnlyEnumerator[T any] struct {
	span  ReadOnlySpan[T]
	index int
}

// Enumerate returns an enumerator positioned before the first element.
func (s ReadOnlySpan[T]) Enumerate() ReadOnlyEnumerator[T] {
	return ReadOnlyEnumerator[T]{span: s, index: -1}
}

// MoveNext advances to the next element and reports whether there is one.
func (e *ReadOnlyEnumerator[T]) MoveNext() bool {
	if e.index < e.span.n {
		e.index++
	}
	return e.index < e.span.n
}

// Current returns a copy of the element under the cursor. It panics with
// ErrInvalidUse when the cursor is not on an element.
func (e *ReadOnlyEnumerator[T]) Current() T {
	if e.index < 0 || e.index >= e.span.n {
		panic(fmt.Errorf("%w: enumerator is not positioned on an element", ErrInvalidUse))
	}
	return e.span.At(e.index)
}

// All yields every index with a pointer to its element, in order.
func (s Span[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, s.Ref(i)) {
				return
			}
		}
	}
}

// Backward is All from the last element to the first.
func (s Span[T]) Backward() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := s.n - 1; i >= 0; i-- {
			if !yield(i, s.Ref(i)) {
				return
			}
		}
	}
}

// All yields every index with its element, in order.
func (s ReadOnlySpan[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, s.At(i)) {
				return
			}
		}
	}
}

// Backward is All from the last element to the first.
func (s ReadOnlySpan[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := s.n - 1; i >= 0; i-- {
			if !yield(i, s.At(i)) {
				return
			}
		}
	}
}
