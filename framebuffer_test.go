package gr

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

func TestAttachRequiresFramebuffer(t *testing.T) {
	ctx, fake := newTestContext(t)
	rb, _ := ctx.CreateRenderbuffer()

	if err := ctx.AttachRenderbuffer(Depth, rb); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
	if err := ctx.AttachTexture(Color0, Target2D, 7); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
	if fake.Count("glFramebufferRenderbuffer")+fake.Count("glFramebufferTexture2D") != 0 {
		t.Fatalf("attached to the default framebuffer")
	}
}

func TestFramebufferAttachments(t *testing.T) {
	ctx, fake := newTestContext(t)
	fb, err := ctx.CreateFramebuffer()
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	if err := ctx.BindFramebuffer(fb); err != nil {
		t.Fatalf("BindFramebuffer: %v", err)
	}

	tex := ctx.NewTexture()
	tex.SetFormat(FormatRGBA)
	if err := tex.UpdateBuffer(8, 8, nil); err != nil {
		t.Fatalf("UpdateBuffer: %v", err)
	}
	if err := ctx.AttachBoundTexture(Color0); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound with no texture bound, got %v", err)
	}
	tex.Bind(0)
	if err := ctx.AttachBoundTexture(Color1); err != nil {
		t.Fatalf("AttachBoundTexture: %v", err)
	}
	c, _ := fake.Last("glFramebufferTexture2D")
	if c.Args[1] != uint32(glpkg.ColorAttachment1) || c.Args[2] != uint32(glpkg.Texture2D) || c.Args[3] != uint32(tex.ID()) {
		t.Fatalf("unexpected %v", c)
	}

	if err := ctx.AttachTexture(Color0, TargetCubeNegativeY, tex.ID()); err != nil {
		t.Fatalf("AttachTexture: %v", err)
	}
	c, _ = fake.Last("glFramebufferTexture2D")
	if c.Args[2] != uint32(glpkg.TextureCubeMapNegativeY) {
		t.Fatalf("cube face target 0x%X", c.Args[2])
	}

	rb, _ := ctx.CreateRenderbuffer()
	if err := ctx.BindRenderbuffer(rb); err != nil {
		t.Fatalf("BindRenderbuffer: %v", err)
	}
	if err := ctx.AttachBoundRenderbuffer(DepthStencil); err != nil {
		t.Fatalf("AttachBoundRenderbuffer: %v", err)
	}
	c, _ = fake.Last("glFramebufferRenderbuffer")
	if c.Args[1] != uint32(glpkg.DepthStencilAttachment) || c.Args[3] != uint32(rb) {
		t.Fatalf("unexpected %v", c)
	}

	var lookupErr *LookupError
	if err := ctx.AttachRenderbuffer(Attachment(99), rb); !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %v", err)
	}

	if err := ctx.FramebufferStatus(); err != nil {
		t.Fatalf("FramebufferStatus: %v", err)
	}
	fake.Status = 0x8CD6
	if err := ctx.FramebufferStatus(); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	if err := ctx.DestroyFramebuffer(fb); err != nil {
		t.Fatalf("DestroyFramebuffer: %v", err)
	}
	if ctx.Bound(KindFramebuffer) != 0 {
		t.Fatalf("destroyed framebuffer still bound")
	}
}

func TestRenderbufferStorage(t *testing.T) {
	ctx, fake := newTestContext(t)
	rb, _ := ctx.CreateRenderbuffer()

	if err := ctx.RenderbufferStorage(RenderbufferDepth24Stencil8, 64, 64); !errors.Is(err, ErrNotBound) {
		t.Fatalf("expected ErrNotBound, got %v", err)
	}
	ctx.BindRenderbuffer(rb)
	if err := ctx.RenderbufferStorage(RenderbufferStencil, 64, 32); err != nil {
		t.Fatalf("RenderbufferStorage: %v", err)
	}
	c, _ := fake.Last("glRenderbufferStorage")
	if c.Args[1] != uint32(glpkg.StencilIndex8) || c.Args[2] != int32(64) || c.Args[3] != int32(32) {
		t.Fatalf("unexpected %v", c)
	}
	if err := ctx.RenderbufferStorage(RenderbufferDepth, 0, 32); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	huge := math.MaxInt32
	huge++
	if err := ctx.RenderbufferStorage(RenderbufferDepth, 32, huge); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("height %d: expected ErrInvalidSize, got %v", huge, err)
	}

	ctx.DestroyRenderbuffer(rb)
	if ctx.Bound(KindRenderbuffer) != 0 {
		t.Fatalf("destroyed renderbuffer still bound")
	}
}

func TestReadPixels(t *testing.T) {
	ctx, fake := newTestContext(t)
	rect := image.Rect(1, 2, 3, 4)

	// Default framebuffer: no read buffer selection.
	out := make([]byte, 2*2*4)
	if err := ctx.ReadPixels(3, rect, FormatRGBA, out); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if fake.Count("glReadBuffer") != 0 {
		t.Fatalf("read buffer selected on the default framebuffer")
	}
	c, _ := fake.Last("glReadPixels")
	if c.Args[0] != int32(1) || c.Args[1] != int32(2) || c.Args[2] != int32(2) || c.Args[3] != int32(2) {
		t.Fatalf("unexpected %v", c)
	}

	fb, _ := ctx.CreateFramebuffer()
	ctx.BindFramebuffer(fb)
	if err := ctx.ReadPixels(2, rect, FormatRGBA, out); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	rb, _ := fake.Last("glReadBuffer")
	if rb.Args[0] != uint32(glpkg.ColorAttachment0+2) {
		t.Fatalf("read buffer 0x%X", rb.Args[0])
	}

	var lookupErr *LookupError
	if err := ctx.ReadPixels(6, rect, FormatRGBA, out); !errors.As(err, &lookupErr) {
		t.Fatalf("expected *LookupError, got %v", err)
	}
	if err := ctx.ReadPixels(0, rect, FormatRGBA, out[:15]); !errors.Is(err, ErrPixelSize) {
		t.Fatalf("expected ErrPixelSize, got %v", err)
	}
	if err := ctx.ReadPixels(0, image.Rectangle{}, FormatRGBA, out); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
}

func TestReadImageFlipsRows(t *testing.T) {
	ctx, fake := newTestContext(t)

	// Two rows, bottom row first as the driver returns them.
	bottom := []byte{1, 1, 1, 255, 2, 2, 2, 255}
	top := []byte{9, 9, 9, 255, 8, 8, 8, 255}
	fake.ReadData = append(append([]byte(nil), bottom...), top...)

	img, err := ctx.ReadImage(0, image.Rect(0, 0, 2, 2))
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if !bytes.Equal(img.Pix[:8], top) || !bytes.Equal(img.Pix[8:], bottom) {
		t.Fatalf("rows not flipped: %v", img.Pix)
	}
}
