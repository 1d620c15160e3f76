package export

import (
	"bytes"
	"errors"
	"testing"
)

func TestExportAndRelease(t *testing.T) {
	table := NewTable()
	data := []byte{1, 2, 3}

	buffer := table.Export(data)
	if !bytes.Equal(buffer.Bytes(), data) {
		t.Errorf("Bytes = %v, want %v", buffer.Bytes(), data)
	}
	if buffer.Len() != 3 {
		t.Errorf("Len = %d, want 3", buffer.Len())
	}
	if table.Outstanding() != 1 {
		t.Errorf("Outstanding = %d, want 1", table.Outstanding())
	}

	if err := table.Release(buffer); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if table.Outstanding() != 0 {
		t.Errorf("Outstanding after release = %d, want 0", table.Outstanding())
	}
	if buffer.Bytes() != nil {
		t.Error("released buffer still exposes data")
	}
}

func TestReleaseNil(t *testing.T) {
	table := NewTable()
	if err := table.Release(nil); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("expected ErrNilBuffer, got %v", err)
	}
}

func TestDoubleRelease(t *testing.T) {
	table := NewTable()
	buffer := table.Export([]byte{1})

	if err := table.Release(buffer); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := table.Release(buffer); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("expected ErrBufferReleased, got %v", err)
	}
}

func TestReleaseForeignBuffer(t *testing.T) {
	table := NewTable()
	foreign := &Buffer{handle: 42, data: []byte{1}}

	if err := table.Release(foreign); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("expected ErrBufferReleased, got %v", err)
	}
}

func TestReleaseForeignBufferCollidingHandle(t *testing.T) {
	table := NewTable()
	own := table.Export([]byte{1})

	// A second table hands out the same handle values.
	other := NewTable()
	foreign := other.Export([]byte{2})
	if foreign.Handle() != own.Handle() {
		t.Fatalf("expected colliding handles, got %d and %d", foreign.Handle(), own.Handle())
	}

	if err := table.Release(foreign); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("expected ErrBufferReleased for foreign buffer, got %v", err)
	}
	if table.Outstanding() != 1 {
		t.Errorf("Outstanding = %d, want 1 (foreign release must not evict)", table.Outstanding())
	}

	// Both tables' own buffers still release cleanly.
	if err := table.Release(own); err != nil {
		t.Errorf("Release own: %v", err)
	}
	if err := other.Release(foreign); err != nil {
		t.Errorf("Release in owning table: %v", err)
	}
}

func TestHandlesAreUnique(t *testing.T) {
	table := NewTable()
	first := table.Export([]byte{1})
	second := table.Export([]byte{2})

	if first.Handle() == second.Handle() {
		t.Error("handles must be unique")
	}
	if table.Outstanding() != 2 {
		t.Errorf("Outstanding = %d, want 2", table.Outstanding())
	}

	if err := table.Release(first); err != nil {
		t.Fatalf("Release first: %v", err)
	}
	if err := table.Release(second); err != nil {
		t.Fatalf("Release second: %v", err)
	}
}
