package export

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNilBuffer signals a release call with no buffer at all.
	ErrNilBuffer = errors.New("nil buffer")

	// ErrBufferReleased signals a release of a buffer this table does not
	// currently consider outstanding: either it was already released or it
	// came from somewhere else.
	ErrBufferReleased = errors.New("buffer unknown or already released")
)

// Buffer is a rendered payload handed across the ownership boundary. The
// caller owns it exclusively until it is passed back to Release. Each
// buffer is stamped with its owning table so a release through the wrong
// table is detectable even when handles collide.
type Buffer struct {
	owner  *Table
	handle uint64
	data   []byte
}

// Bytes exposes the payload. Nil after release.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len reports the payload size in bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Handle is the stable identity of this buffer within its table.
func (b *Buffer) Handle() uint64 {
	if b == nil {
		return 0
	}
	return b.handle
}

// Table tracks outstanding exported buffers so releases can be validated.
// It never retains a reference to the payload itself, only the handle.
type Table struct {
	mu   sync.Mutex
	next uint64
	live map[uint64]struct{}
}

// NewTable constructs an empty ownership table.
func NewTable() *Table {
	return &Table{live: make(map[uint64]struct{})}
}

// Export wraps data in a caller-owned buffer and records its handle as
// outstanding.
func (t *Table) Export(data []byte) *Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	t.live[t.next] = struct{}{}
	return &Buffer{owner: t, handle: t.next, data: data}
}

// Release returns ownership of b to the table and clears its payload.
// The buffer must have been exported by this table: a foreign buffer is
// rejected even when its handle collides with an outstanding one, and a
// double release is detected by its cleared handle entry.
func (t *Table) Release(b *Buffer) error {
	if b == nil {
		return ErrNilBuffer
	}
	if b.owner != t {
		return fmt.Errorf("%w: handle %d belongs to a different table", ErrBufferReleased, b.handle)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[b.handle]; !ok {
		return fmt.Errorf("%w: handle %d", ErrBufferReleased, b.handle)
	}
	delete(t.live, b.handle)
	b.data = nil
	return nil
}

// Outstanding reports how many exported buffers have not been released,
// for leak diagnostics.
func (t *Table) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}
