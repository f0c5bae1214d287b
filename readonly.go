package widespan

import (
	"fmt"
	"unsafe"

	"github.com/rawbytedev/widespan/internal/common"
)

// ReadOnlySpan is a view that offers no way to change the elements it
// covers. Every Span converts to one through Span.ReadOnly.
type ReadOnlySpan[T any] struct {
	_    [0]func() // not comparable
	ptr  unsafe.Pointer
	n    int
	tail bool
}

// EmptyReadOnly returns the canonical empty read-only view.
func EmptyReadOnly[T any]() ReadOnlySpan[T] { return ReadOnlySpan[T]{} }

// ReadOnlyOf views the whole of arr. A nil arr yields the canonical empty view.
func ReadOnlyOf[T any](arr []T) ReadOnlySpan[T] { return Of(arr).ReadOnly() }

// ReadOnlyFromArray views arr[start : start+length] under the rules of FromArray.
func ReadOnlyFromArray[T any](arr []T, start, length int) (ReadOnlySpan[T], error) {
	s, err := FromArray(arr, start, length)
	return s.ReadOnly(), err
}

// ReadOnlyFromRef views the single element p points to.
func ReadOnlyFromRef[T any](p *T) ReadOnlySpan[T] { return FromRef(p).ReadOnly() }

// ReadOnlyFromString views the bytes of str without copying them.
func ReadOnlyFromString(str string) ReadOnlySpan[byte] {
	if len(str) == 0 {
		return ReadOnlySpan[byte]{}
	}
	return ReadOnlySpan[byte]{ptr: unsafe.Pointer(unsafe.StringData(str)), n: len(str)}
}

// Len returns the number of elements.
func (s ReadOnlySpan[T]) Len() int { return s.n }

// IsEmpty reports whether the view covers no element.
func (s ReadOnlySpan[T]) IsEmpty() bool { return s.n == 0 }

// At returns element i. It panics with ErrOutOfRange if i is outside the view.
func (s ReadOnlySpan[T]) At(i int) T {
	if !common.CheckIndex(i, s.n) {
		panic(indexError(i, s.n))
	}
	return *(*T)(unsafe.Add(s.ptr, common.Offset(i, sizeOf[T]())))
}

// TrySlice returns the sub-view [start, start+length), or ErrOutOfRange.
func (s ReadOnlySpan[T]) TrySlice(start, length int) (ReadOnlySpan[T], error) {
	if !common.CheckRange(start, length, s.n) {
		return ReadOnlySpan[T]{}, rangeError(start, length, s.n)
	}
	if s.n == 0 {
		return s, nil
	}
	ptr, tail := window(s.ptr, s.n, start, length, sizeOf[T]())
	return ReadOnlySpan[T]{ptr: ptr, n: length, tail: tail}, nil
}

// Slice returns the sub-view [start, start+length). It panics with
// ErrOutOfRange when the range leaves the view.
func (s ReadOnlySpan[T]) Slice(start, length int) ReadOnlySpan[T] {
	v, err := s.TrySlice(start, length)
	if err != nil {
		panic(err)
	}
	return v
}

// SliceFrom returns the sub-view from start to the end.
func (s ReadOnlySpan[T]) SliceFrom(start int) ReadOnlySpan[T] {
	if uint(start) > uint(s.n) {
		panic(rangeError(start, 0, s.n))
	}
	return s.Slice(start, s.n-start)
}

// TryCopyTo copies every element into dst, or fails with ErrOutOfRange
// without copying when dst is too short.
func (s ReadOnlySpan[T]) TryCopyTo(dst Span[T]) error {
	if dst.n < s.n {
		return fmt.Errorf("%w: destination length %d is shorter than %d", ErrOutOfRange, dst.n, s.n)
	}
	copy(dst.ToSlice(), s.elems())
	return nil
}

// Clone copies the elements into a new Go slice.
func (s ReadOnlySpan[T]) Clone() []T {
	if s.n == 0 {
		return nil
	}
	out := make([]T, s.n)
	copy(out, s.elems())
	return out
}

// IndexFunc returns the first index whose element satisfies f, or -1.
func (s ReadOnlySpan[T]) IndexFunc(f func(T) bool) int {
	return indexFunc(s.elems(), f)
}

// LastIndexFunc returns the last index whose element satisfies f, or -1.
func (s ReadOnlySpan[T]) LastIndexFunc(f func(T) bool) int {
	return lastIndexFunc(s.elems(), f)
}

// PinnableReference returns the first element for address fixing, or nil
// when the view is empty. It must not be written through.
func (s ReadOnlySpan[T]) PinnableReference() *T {
	if s.n == 0 {
		return nil
	}
	return (*T)(s.ptr)
}

// Pointer is PinnableReference as an unsafe.Pointer.
func (s ReadOnlySpan[T]) Pointer() unsafe.Pointer {
	return unsafe.Pointer(s.PinnableReference())
}

// Fixed pins the backing object while fn runs. See Span.Fixed.
func (s ReadOnlySpan[T]) Fixed(fn func(p *T, n int) error) error {
	return fixed(s.PinnableReference(), s.n, fn)
}

// Origin returns the address the view starts at. See Span.Origin.
func (s ReadOnlySpan[T]) Origin() uintptr {
	return originOf(s.ptr, s.tail, sizeOf[T]())
}

// Equal reports whether both views cover the same window. All empty views
// are equal.
func (s ReadOnlySpan[T]) Equal(o ReadOnlySpan[T]) bool {
	if s.n == 0 || o.n == 0 {
		return s.n == o.n
	}
	return s.n == o.n && s.ptr == o.ptr
}

// SameOrigin reports whether both views start at the same address.
func (s ReadOnlySpan[T]) SameOrigin(o ReadOnlySpan[T]) bool {
	return s.Origin() == o.Origin()
}

// Hash always fails with ErrNotSupported.
func (s ReadOnlySpan[T]) Hash() (uint64, error) {
	return 0, fmt.Errorf("%w: hash of %s", ErrNotSupported, describe[T]("ReadOnlySpan", s.n))
}

// String renders byte views as text and other views as
// "widespan.ReadOnlySpan[T][n]".
func (s ReadOnlySpan[T]) String() string {
	return render[T]("ReadOnlySpan", s.ptr, s.n)
}

// elems exposes the covered elements to the scanners. Callers must not
// write through the result.
func (s ReadOnlySpan[T]) elems() []T {
	if s.n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(s.ptr), s.n)
}
