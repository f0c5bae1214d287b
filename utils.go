package widespan

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/rawbytedev/widespan/internal/common"
)

// elemPlan caches what the views need to know about an element type.
type elemPlan struct {
	name        string
	size        uintptr
	pointerFree bool
	byteLike    bool
	text        bool
}

var plans = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*elemPlan
}{m: make(map[reflect.Type]*elemPlan)}

func planFor[T any]() *elemPlan {
	t := reflect.TypeFor[T]()
	plans.mu.RLock()
	if plan, ok := plans.m[t]; ok {
		plans.mu.RUnlock()
		return plan
	}
	plans.mu.RUnlock()

	plans.mu.Lock()
	defer plans.mu.Unlock()

	// Double-check
	if plan, ok := plans.m[t]; ok {
		return plan
	}
	plan := &elemPlan{
		name:        t.String(),
		size:        t.Size(),
		pointerFree: common.IsPointerFree(t),
		byteLike:    common.IsByteKind(t.Kind()),
		text:        common.IsTextKind(t.Kind()),
	}
	plans.m[t] = plan
	return plan
}

func sizeOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// window computes the anchor of the sub-range [start, start+length) of a
// run of total elements beginning at base. The range must already be
// validated. An empty range at the very end anchors on the last element
// so the pointer never leaves the allocation.
func window(base unsafe.Pointer, total, start, length int, size uintptr) (unsafe.Pointer, bool) {
	switch {
	case length > 0, start < total:
		return unsafe.Add(base, common.Offset(start, size)), false
	case total == 0 || size == 0:
		return base, false
	default:
		return unsafe.Add(base, common.Offset(total-1, size)), true
	}
}

// originOf reports the address a view starts at, including the
// past-the-end address of tail views.
func originOf(ptr unsafe.Pointer, tail bool, size uintptr) uintptr {
	if tail {
		return uintptr(ptr) + size
	}
	return uintptr(ptr)
}
