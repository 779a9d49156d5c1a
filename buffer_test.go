package gr

import (
	"bytes"
	"errors"
	"testing"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

func TestCreateBufferUploadsData(t *testing.T) {
	ctx, fake := newTestContext(t)

	data := Bytes([]float32{0, 1, 2, 3})
	h, err := ctx.CreateBuffer(BufferVertex, data)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if !bytes.Equal(fake.BufferContents(uint32(h)), data) {
		t.Fatalf("buffer contents not uploaded")
	}
	if ctx.Bound(KindBuffer) != 0 {
		t.Fatalf("CreateBuffer changed the binding slot")
	}
	last, _ := fake.Last("glBindBuffer")
	if last.Args[1] != uint32(0) {
		t.Fatalf("expected target to be unbound after upload, got %v", last)
	}
}

func TestCreateBufferRestoresTargetBinding(t *testing.T) {
	ctx, fake := newTestContext(t)
	vbo, _ := ctx.CreateBuffer(BufferVertex, nil)
	ebo, _ := ctx.CreateBuffer(BufferElement, nil)
	ctx.BindBuffer(vbo)
	ctx.BindBuffer(ebo)

	if _, err := ctx.CreateBuffer(BufferVertex, Bytes([]float32{1, 2})); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	last, _ := fake.Last("glBindBuffer")
	if last.Args[0] != uint32(glpkg.ArrayBuffer) || last.Args[1] != uint32(vbo) {
		t.Fatalf("expected array buffer %d to be rebound, got %v", vbo, last)
	}
	if got := ctx.Bound(KindBuffer); got != ebo {
		t.Fatalf("slot holds %d, want %d", got, ebo)
	}

	// A deleted buffer is not restored.
	ctx.DeleteBuffer(vbo)
	if _, err := ctx.CreateBuffer(BufferVertex, Bytes([]float32{3})); err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	last, _ = fake.Last("glBindBuffer")
	if last.Args[1] != uint32(0) {
		t.Fatalf("expected array buffer to be unbound, got %v", last)
	}
}

func TestCreateBufferFailure(t *testing.T) {
	ctx, fake := newTestContext(t)
	fake.ZeroHandles = true
	if _, err := ctx.CreateBuffer(BufferElement, nil); !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}
}

func TestBindBufferSlot(t *testing.T) {
	ctx, fake := newTestContext(t)
	a, _ := ctx.CreateBuffer(BufferVertex, nil)
	b, _ := ctx.CreateBuffer(BufferElement, nil)

	if err := ctx.BindBuffer(a); err != nil {
		t.Fatalf("BindBuffer(a): %v", err)
	}
	if err := ctx.BindBuffer(b); err != nil {
		t.Fatalf("BindBuffer(b): %v", err)
	}
	if got := ctx.Bound(KindBuffer); got != b {
		t.Fatalf("slot holds %d, want %d", got, b)
	}
	last, _ := fake.Last("glBindBuffer")
	if last.Args[0] != uint32(glpkg.ElementArrayBuffer) {
		t.Fatalf("element buffer bound to 0x%X", last.Args[0])
	}

	if err := ctx.BindBuffer(999); !errors.Is(err, ErrUnknownBuffer) {
		t.Fatalf("expected ErrUnknownBuffer, got %v", err)
	}
}

func TestDeleteBuffer(t *testing.T) {
	ctx, fake := newTestContext(t)
	h, _ := ctx.CreateBuffer(BufferVertex, nil)
	ctx.BindBuffer(h)

	if err := ctx.DeleteBuffer(h); err != nil {
		t.Fatalf("DeleteBuffer: %v", err)
	}
	if ctx.Bound(KindBuffer) != 0 {
		t.Fatalf("slot still holds deleted buffer")
	}
	if err := ctx.DeleteBuffer(h); err != nil {
		t.Fatalf("second DeleteBuffer: %v", err)
	}
	if n := fake.Count("glDeleteBuffers"); n != 1 {
		t.Fatalf("expected one delete, got %d", n)
	}
}

func TestResizeBuffer(t *testing.T) {
	ctx, fake := newTestContext(t)
	h, _ := ctx.CreateBuffer(BufferVertex, nil)

	if err := ctx.ResizeBuffer(64, UsageDynamic); !errors.Is(err, ErrNoBufferBound) {
		t.Fatalf("expected ErrNoBufferBound, got %v", err)
	}

	ctx.BindBuffer(h)
	fake.Reset()
	for _, size := range []int{128, 16, 0, 4096} {
		if err := ctx.ResizeBuffer(size, UsageDynamic); err != nil {
			t.Fatalf("ResizeBuffer(%d): %v", size, err)
		}
		got, err := ctx.BufferSize()
		if err != nil {
			t.Fatalf("BufferSize: %v", err)
		}
		if got != size {
			t.Fatalf("BufferSize() = %d, want %d", got, size)
		}
	}
	if n := fake.Count("glBufferData"); n != 4 {
		t.Fatalf("expected one glBufferData per resize, got %d", n)
	}
	last, _ := fake.Last("glBufferData")
	if last.Args[2] != uint32(glpkg.DynamicDraw) {
		t.Fatalf("usage 0x%X, want DYNAMIC_DRAW", last.Args[2])
	}
}

func TestResizeBufferMismatch(t *testing.T) {
	ctx, fake := newTestContext(t)
	h, _ := ctx.CreateBuffer(BufferVertex, nil)
	ctx.BindBuffer(h)

	fake.AllocLimit = 100
	err := ctx.ResizeBuffer(256, UsageStatic)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if n := fake.Count("glBufferData"); n != 1 {
		t.Fatalf("resize must not retry, got %d glBufferData calls", n)
	}
}

func TestUpdateBufferRange(t *testing.T) {
	ctx, fake := newTestContext(t)
	h, _ := ctx.CreateBuffer(BufferVertex, make([]byte, 8))
	ctx.BindBuffer(h)

	if err := ctx.UpdateBufferRange(4, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("UpdateBufferRange: %v", err)
	}
	want := []byte{0, 0, 0, 0, 1, 2, 3, 4}
	if !bytes.Equal(fake.BufferContents(uint32(h)), want) {
		t.Fatalf("contents %v, want %v", fake.BufferContents(uint32(h)), want)
	}

	if err := ctx.UpdateBufferRange(6, []byte{1, 2, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if err := ctx.UpdateBufferRange(-1, nil); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for negative offset, got %v", err)
	}
}
