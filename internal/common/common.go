package common

import (
	"math"
	"reflect"
)

// MaxIndex is the largest length or index a view can carry.
const MaxIndex = math.MaxInt

// CheckIndex reports whether 0 <= i < n.
func CheckIndex(i, n int) bool {
	return uint(i) < uint(n)
}

// CheckRange reports whether [start, start+length) lies within [0, total).
// Negative inputs turn into huge unsigned values, so start+length is never
// computed and cannot overflow.
func CheckRange(start, length, total int) bool {
	return uint(start) <= uint(total) && uint(length) <= uint(total-start)
}

// FitsAddressSpace reports whether length elements of the given size,
// starting at addr, end without wrapping the address space.
func FitsAddressSpace(addr uintptr, length int, size uintptr) bool {
	if length < 0 {
		return false
	}
	if size == 0 || length == 0 {
		return true
	}
	if uint64(length) > uint64(^uintptr(0)/size) {
		return false
	}
	return uintptr(length)*size <= ^uintptr(0)-addr
}

// Offset returns the byte offset of element i.
func Offset(i int, size uintptr) int {
	return i * int(size)
}

// IsPointerFree reports whether values of t hold nothing the garbage
// collector has to trace. Only those may be addressed through raw memory.
func IsPointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || IsPointerFree(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if !IsPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsByteKind reports whether k is a one-byte kind whose equality is plain
// byte equality.
func IsByteKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return true
	default:
		return false
	}
}

// IsTextKind reports whether elements of kind k render as characters.
func IsTextKind(k reflect.Kind) bool {
	return k == reflect.Uint8
}
