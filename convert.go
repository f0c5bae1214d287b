package widespan

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/widespan/internal/common"
)

// Segment records a window of an array: its backing slice, an offset and
// a count. The zero Segment converts to the canonical empty view.
type Segment[T any] struct {
	array  []T
	offset int
	count  int
}

// NewSegment validates offset and count against arr the way FromArray does.
func NewSegment[T any](arr []T, offset, count int) (Segment[T], error) {
	if arr == nil {
		if offset != 0 || count != 0 {
			return Segment[T]{}, rangeError(offset, count, 0)
		}
		return Segment[T]{}, nil
	}
	if !common.CheckRange(offset, count, len(arr)) {
		return Segment[T]{}, rangeError(offset, count, len(arr))
	}
	return Segment[T]{array: arr, offset: offset, count: count}, nil
}

func (g Segment[T]) Array() []T  { return g.array }
func (g Segment[T]) Offset() int { return g.offset }
func (g Segment[T]) Count() int  { return g.count }

// Span views the segment's window of its backing array.
func (g Segment[T]) Span() Span[T] { return FromSegment(g) }

// FromSegment views the window a segment records.
func FromSegment[T any](g Segment[T]) Span[T] {
	if g.array == nil {
		return Span[T]{}
	}
	ptr, tail := window(unsafe.Pointer(unsafe.SliceData(g.array)), len(g.array), g.offset, g.count, sizeOf[T]())
	return Span[T]{ptr: ptr, n: g.count, tail: tail}
}

// ReadOnlyFromSegment is FromSegment for read-only views.
func ReadOnlyFromSegment[T any](g Segment[T]) ReadOnlySpan[T] {
	return FromSegment(g).ReadOnly()
}

// FromPointer views length elements starting at p. The caller vouches that
// the whole range is valid memory and stays valid while the view is used.
// T must not contain pointers (ErrInvalidElementType), length must not be
// negative and a nil p only pairs with a zero length (ErrOutOfRange).
func FromPointer[T any](p *T, length int) (Span[T], error) {
	return FromUnsafePointer[T](unsafe.Pointer(p), length)
}

// FromUnsafePointer is FromPointer for untyped addresses, such as memory
// that does not belong to the Go heap.
func FromUnsafePointer[T any](p unsafe.Pointer, length int) (Span[T], error) {
	plan := planFor[T]()
	if !plan.pointerFree {
		return Span[T]{}, fmt.Errorf("%w: %s", ErrInvalidElementType, plan.name)
	}
	if length < 0 {
		return Span[T]{}, fmt.Errorf("%w: negative length %d", ErrOutOfRange, length)
	}
	if p == nil {
		if length != 0 {
			return Span[T]{}, fmt.Errorf("%w: nil pointer with length %d", ErrOutOfRange, length)
		}
		return Span[T]{}, nil
	}
	if !common.FitsAddressSpace(uintptr(p), length, plan.size) {
		return Span[T]{}, fmt.Errorf("%w: %d elements of %d bytes overflow the address space", ErrOutOfRange, length, plan.size)
	}
	return Span[T]{ptr: p, n: length}, nil
}

// ReadOnlyFromPointer is FromPointer for read-only views.
func ReadOnlyFromPointer[T any](p *T, length int) (ReadOnlySpan[T], error) {
	s, err := FromPointer(p, length)
	return s.ReadOnly(), err
}
