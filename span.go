// Package widespan provides bounds-checked, non-owning views over runs of
// elements that may be longer than 2^31. A view is a start address and a
// length; it never copies, allocates or frees the elements it covers.
//
// Lengths and indices are plain int, which is signed and 64 bits wide on
// every 64-bit target.
//
// Views are values meant to live for one call: build them, use them and
// drop them while the memory they borrow is still valid. They are not
// comparable, so they cannot be map keys.
package widespan

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/rawbytedev/widespan/internal/common"
)

var (
	ErrOutOfRange         = errors.New("index out of range")
	ErrInvalidElementType = errors.New("element type contains pointers")
	ErrNotSupported       = errors.New("operation not supported on views")
	ErrInvalidUse         = errors.New("invalid use")
)

// Span is a mutable view over length consecutive elements of type T.
// The zero value is the canonical empty view.
type Span[T any] struct {
	_    [0]func() // not comparable
	ptr  unsafe.Pointer
	n    int
	tail bool
}

// Empty returns the canonical empty view. It has no address.
func Empty[T any]() Span[T] { return Span[T]{} }

// Of views the whole of arr. A nil arr yields the canonical empty view.
func Of[T any](arr []T) Span[T] {
	if arr == nil {
		return Span[T]{}
	}
	return Span[T]{ptr: unsafe.Pointer(unsafe.SliceData(arr)), n: len(arr)}
}

// FromArray views arr[start : start+length]. A nil arr only accepts a zero
// start and length and yields the canonical empty view. start may equal
// len(arr) when length is zero; the view then sits just past the last
// element.
func FromArray[T any](arr []T, start, length int) (Span[T], error) {
	if arr == nil {
		if start != 0 || length != 0 {
			return Span[T]{}, rangeError(start, length, 0)
		}
		return Span[T]{}, nil
	}
	if !common.CheckRange(start, length, len(arr)) {
		return Span[T]{}, rangeError(start, length, len(arr))
	}
	ptr, tail := window(unsafe.Pointer(unsafe.SliceData(arr)), len(arr), start, length, sizeOf[T]())
	return Span[T]{ptr: ptr, n: length, tail: tail}, nil
}

// FromRef views the single element p points to. p must not be nil.
func FromRef[T any](p *T) Span[T] {
	if p == nil {
		panic(fmt.Errorf("%w: nil reference", ErrInvalidUse))
	}
	return Span[T]{ptr: unsafe.Pointer(p), n: 1}
}

// Len returns the number of elements.
func (s Span[T]) Len() int { return s.n }

// IsEmpty reports whether the view covers no element.
func (s Span[T]) IsEmpty() bool { return s.n == 0 }

// At returns element i. It panics with ErrOutOfRange if i is outside the view.
func (s Span[T]) At(i int) T { return *s.Ref(i) }

// Ref returns a pointer to element i. It panics with ErrOutOfRange if i is
// outside the view.
func (s Span[T]) Ref(i int) *T {
	if !common.CheckIndex(i, s.n) {
		panic(indexError(i, s.n))
	}
	return (*T)(unsafe.Add(s.ptr, common.Offset(i, sizeOf[T]())))
}

// Set stores v at index i.
func (s Span[T]) Set(i int, v T) { *s.Ref(i) = v }

// TrySlice returns the sub-view [start, start+length), or ErrOutOfRange.
func (s Span[T]) TrySlice(start, length int) (Span[T], error) {
	if !common.CheckRange(start, length, s.n) {
		return Span[T]{}, rangeError(start, length, s.n)
	}
	if s.n == 0 {
		return s, nil
	}
	ptr, tail := window(s.ptr, s.n, start, length, sizeOf[T]())
	return Span[T]{ptr: ptr, n: length, tail: tail}, nil
}

// Slice returns the sub-view [start, start+length). It panics with
// ErrOutOfRange when the range leaves the view.
func (s Span[T]) Slice(start, length int) Span[T] {
	v, err := s.TrySlice(start, length)
	if err != nil {
		panic(err)
	}
	return v
}

// SliceFrom returns the sub-view from start to the end.
func (s Span[T]) SliceFrom(start int) Span[T] {
	if uint(start) > uint(s.n) {
		panic(rangeError(start, 0, s.n))
	}
	return s.Slice(start, s.n-start)
}

// ReadOnly converts the view to its read-only form.
func (s Span[T]) ReadOnly() ReadOnlySpan[T] {
	return ReadOnlySpan[T]{ptr: s.ptr, n: s.n, tail: s.tail}
}

// AsReadOnly is ReadOnly as a function.
func AsReadOnly[T any](s Span[T]) ReadOnlySpan[T] { return s.ReadOnly() }

// ToSlice returns a Go slice over the same elements, or nil for an empty
// view. The slice shares memory with the view and obeys the same lifetime.
func (s Span[T]) ToSlice() []T {
	if s.n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(s.ptr), s.n)
}

// TryCopyTo copies every element into dst. It fails with ErrOutOfRange and
// copies nothing when dst is shorter than s. Overlapping views are handled.
func (s Span[T]) TryCopyTo(dst Span[T]) error {
	if dst.n < s.n {
		return fmt.Errorf("%w: destination length %d is shorter than %d", ErrOutOfRange, dst.n, s.n)
	}
	copy(dst.ToSlice(), s.ToSlice())
	return nil
}

// CopyTo is TryCopyTo that panics on a short destination.
func (s Span[T]) CopyTo(dst Span[T]) {
	if err := s.TryCopyTo(dst); err != nil {
		panic(err)
	}
}

// Fill stores v in every element.
func (s Span[T]) Fill(v T) {
	e := s.ToSlice()
	for i := range e {
		e[i] = v
	}
}

// Clear sets every element to its zero value.
func (s Span[T]) Clear() {
	clear(s.ToSlice())
}

// IndexFunc returns the first index whose element satisfies f, or -1.
func (s Span[T]) IndexFunc(f func(T) bool) int {
	return indexFunc(s.ToSlice(), f)
}

// LastIndexFunc returns the last index whose element satisfies f, or -1.
func (s Span[T]) LastIndexFunc(f func(T) bool) int {
	return lastIndexFunc(s.ToSlice(), f)
}

// PinnableReference returns the first element for address fixing, or nil
// when the view is empty.
func (s Span[T]) PinnableReference() *T {
	if s.n == 0 {
		return nil
	}
	return (*T)(s.ptr)
}

// Pointer is PinnableReference as an unsafe.Pointer.
func (s Span[T]) Pointer() unsafe.Pointer {
	return unsafe.Pointer(s.PinnableReference())
}

// Fixed calls fn with the address of the first element and the length, and
// keeps the backing object pinned until fn returns. Empty views pass a nil
// address. The address must not be used once fn has returned.
func (s Span[T]) Fixed(fn func(p *T, n int) error) error {
	return fixed(s.PinnableReference(), s.n, fn)
}

// Origin returns the address the view starts at: 0 for the canonical empty
// view, the past-the-end address for an empty view taken at the end of a
// buffer. It is meant for identity checks and must not be turned back into
// a pointer.
func (s Span[T]) Origin() uintptr {
	return originOf(s.ptr, s.tail, sizeOf[T]())
}

// Equal reports whether both views cover the same window: same origin and
// same length. All empty views are equal.
func (s Span[T]) Equal(o Span[T]) bool {
	if s.n == 0 || o.n == 0 {
		return s.n == o.n
	}
	return s.n == o.n && s.ptr == o.ptr
}

// SameOrigin reports whether both views start at the same address, which
// tells apart empty views that Equal treats alike.
func (s Span[T]) SameOrigin(o Span[T]) bool {
	return s.Origin() == o.Origin()
}

// Hash always fails with ErrNotSupported: a view's identity is transient
// and cannot key a map.
func (s Span[T]) Hash() (uint64, error) {
	return 0, fmt.Errorf("%w: hash of %s", ErrNotSupported, describe[T]("Span", s.n))
}

// String renders byte views as the text they cover and any other view as
// "widespan.Span[T][n]".
func (s Span[T]) String() string {
	return render[T]("Span", s.ptr, s.n)
}

func fixed[T any](p *T, n int, fn func(p *T, n int) error) error {
	if p == nil {
		return fn(nil, 0)
	}
	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(p)
	return fn(p, n)
}

func render[T any](view string, ptr unsafe.Pointer, n int) string {
	if planFor[T]().text {
		if n == 0 {
			return ""
		}
		return string(unsafe.Slice((*byte)(ptr), n))
	}
	return describe[T](view, n)
}

func describe[T any](view string, n int) string {
	return fmt.Sprintf("widespan.%s[%s][%d]", view, planFor[T]().name, n)
}

func indexError(i, n int) error {
	return fmt.Errorf("%w: index %d with length %d", ErrOutOfRange, i, n)
}

func rangeError(start, length, total int) error {
	return fmt.Errorf("%w: start %d length %d with length %d", ErrOutOfRange, start, length, total)
}
