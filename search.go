package widespan

import (
	"bytes"
	"unsafe"
)

// IndexOf returns the lowest index whose element equals v, or -1.
// Pass s.ReadOnly() to search a mutable Span.
func IndexOf[T comparable](s ReadOnlySpan[T], v T) int {
	if s.n == 0 {
		return -1
	}
	if planFor[T]().byteLike {
		return bytes.IndexByte(s.bytes(), *(*byte)(unsafe.Pointer(&v)))
	}
	return indexChunked(s.elems(), v)
}

// LastIndexOf returns the highest index whose element equals v, or -1.
func LastIndexOf[T comparable](s ReadOnlySpan[T], v T) int {
	if s.n == 0 {
		return -1
	}
	if planFor[T]().byteLike {
		return bytes.LastIndexByte(s.bytes(), *(*byte)(unsafe.Pointer(&v)))
	}
	return lastIndexChunked(s.elems(), v)
}

// Contains reports whether any element equals v.
func Contains[T comparable](s ReadOnlySpan[T], v T) bool {
	return IndexOf(s, v) >= 0
}

// Count returns how many elements equal v.
func Count[T comparable](s ReadOnlySpan[T], v T) int {
	if planFor[T]().byteLike {
		return bytes.Count(s.bytes(), []byte{*(*byte)(unsafe.Pointer(&v))})
	}
	n := 0
	for _, e := range s.elems() {
		if e == v {
			n++
		}
	}
	return n
}

// bytes reinterprets a view of one-byte elements.
func (s ReadOnlySpan[T]) bytes() []byte {
	if s.n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(s.ptr), s.n)
}

// indexChunked compares four lanes per step and reports the first lane
// that matched, so the result is that of a plain forward scan.
func indexChunked[T comparable](e []T, v T) int {
	i := 0
	for ; i+4 <= len(e); i += 4 {
		c := e[i : i+4 : i+4]
		if c[0] == v || c[1] == v || c[2] == v || c[3] == v {
			switch {
			case c[0] == v:
				return i
			case c[1] == v:
				return i + 1
			case c[2] == v:
				return i + 2
			default:
				return i + 3
			}
		}
	}
	for ; i < len(e); i++ {
		if e[i] == v {
			return i
		}
	}
	return -1
}

// lastIndexChunked is indexChunked walking from the end.
func lastIndexChunked[T comparable](e []T, v T) int {
	i := len(e)
	for ; i-4 >= 0; i -= 4 {
		c := e[i-4 : i : i]
		if c[0] == v || c[1] == v || c[2] == v || c[3] == v {
			switch {
			case c[3] == v:
				return i - 1
			case c[2] == v:
				return i - 2
			case c[1] == v:
				return i - 3
			default:
				return i - 4
			}
		}
	}
	for i--; i >= 0; i-- {
		if e[i] == v {
			return i
		}
	}
	return -1
}

func indexFunc[T any](e []T, f func(T) bool) int {
	for i := range e {
		if f(e[i]) {
			return i
		}
	}
	return -1
}

func lastIndexFunc[T any](e []T, f func(T) bool) int {
	for i := len(e) - 1; i >= 0; i-- {
		if f(e[i]) {
			return i
		}
	}
	return -1
}
