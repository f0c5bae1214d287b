// Package native allocates element buffers outside the Go heap and hands
// them out as widespan views. The garbage collector never scans or moves
// this memory, so buffers far larger than 2^31 elements cost nothing until
// their pages are touched.
package native

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/rawbytedev/widespan"
	"github.com/rawbytedev/widespan/internal/common"
)

var (
	ErrUnsupportedPlatform = errors.New("native buffers are not supported on this platform")
	ErrClosed              = errors.New("buffer closed")
)

// Options configures Alloc.
type Options struct {
	// Logger receives map and unmap events at debug level.
	// Defaults to logrus.StandardLogger().
	Logger *logrus.Logger

	// Populate asks the kernel to back every page up front where the
	// platform allows it.
	Populate bool
}

type Option func(*Options)

func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func WithPopulate(populate bool) Option {
	return func(o *Options) {
		o.Populate = populate
	}
}

func defaultOptions() Options {
	return Options{Logger: logrus.StandardLogger()}
}

// Buffer owns n elements of off-heap memory. It is the only owner: views
// taken from it must not be used after Close.
type Buffer[T any] struct {
	mu     sync.Mutex
	mem    []byte
	n      int
	size   uintptr
	closed bool
	log    *logrus.Entry
}

// Alloc maps zeroed memory for n elements of T. T must be pointer free.
func Alloc[T any](n int, opts ...Option) (*Buffer[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	// Validates the element type and the length before touching the kernel.
	if _, err := widespan.FromUnsafePointer[T](nil, 0); err != nil {
		return nil, err
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if n < 0 || (size != 0 && n > common.MaxIndex/int(size)) {
		return nil, fmt.Errorf("%w: cannot allocate %d elements of %d bytes", widespan.ErrOutOfRange, n, size)
	}
	b := &Buffer[T]{
		n:    n,
		size: size,
		log: o.Logger.WithFields(logrus.Fields{
			"elem":  fmt.Sprintf("%T", zero),
			"count": n,
		}),
	}
	nbytes := n * int(size)
	if nbytes == 0 {
		return b, nil
	}
	mem, err := mapAnon(nbytes, o.Populate)
	if err != nil {
		return nil, fmt.Errorf("map %d bytes: %w", nbytes, err)
	}
	b.mem = mem
	b.log.Debugf("mapped %d bytes", nbytes)
	return b, nil
}

// Len returns the element count the buffer was allocated with.
func (b *Buffer[T]) Len() int { return b.n }

// TrySpan views every element, or fails with ErrClosed.
func (b *Buffer[T]) TrySpan() (widespan.Span[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return widespan.Empty[T](), ErrClosed
	}
	if b.mem == nil {
		return widespan.Empty[T](), nil
	}
	return widespan.FromUnsafePointer[T](unsafe.Pointer(unsafe.SliceData(b.mem)), b.n)
}

// Span views every element. A closed buffer yields the canonical empty view.
func (b *Buffer[T]) Span() widespan.Span[T] {
	s, _ := b.TrySpan()
	return s
}

func (b *Buffer[T]) ReadOnly() widespan.ReadOnlySpan[T] { return b.Span().ReadOnly() }

// Bytes views the raw memory as bytes.
func (b *Buffer[T]) Bytes() widespan.Span[byte] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return widespan.Of(b.mem)
}

// Close unmaps the memory. Closing twice is a no-op.
func (b *Buffer[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if b.mem == nil {
		b.closed = true
		return nil
	}
	nbytes := len(b.mem)
	if err := unmap(b.mem); err != nil {
		b.log.Errorf("unmap %d bytes: %v", nbytes, err)
		return err
	}
	b.mem = nil
	b.closed = true
	b.log.Debugf("unmapped %d bytes", nbytes)
	return nil
}
