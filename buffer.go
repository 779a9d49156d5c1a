package gr

import (
	"fmt"
	"log/slog"
	"unsafe"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// BufferType selects the target a buffer binds to.
type BufferType int

const (
	BufferVertex BufferType = iota
	BufferElement
	BufferPixelPack
	BufferPixelUnpack
	BufferUniform
	BufferTexture
)

func (t BufferType) String() string {
	switch t {
	case BufferVertex:
		return "vertex"
	case BufferElement:
		return "element"
	case BufferPixelPack:
		return "pixel pack"
	case BufferPixelUnpack:
		return "pixel unpack"
	case BufferUniform:
		return "uniform"
	case BufferTexture:
		return "texture"
	default:
		return fmt.Sprintf("BufferType(%d)", int(t))
	}
}

var bufferTargets = newTable("buffer type", map[BufferType]uint32{
	BufferVertex:      glpkg.ArrayBuffer,
	BufferElement:     glpkg.ElementArrayBuffer,
	BufferPixelPack:   glpkg.PixelPackBuffer,
	BufferPixelUnpack: glpkg.PixelUnpackBuffer,
	BufferUniform:     glpkg.UniformBuffer,
	BufferTexture:     glpkg.TextureBuffer,
})

// BufferUsage hints how often a buffer's contents change.
type BufferUsage int

const (
	UsageStatic BufferUsage = iota
	UsageDynamic
	UsageStream
)

var bufferUsages = newTable("buffer usage", map[BufferUsage]uint32{
	UsageStatic:  glpkg.StaticDraw,
	UsageDynamic: glpkg.DynamicDraw,
	UsageStream:  glpkg.StreamDraw,
})

// Bytes reinterprets a slice of plain values (float32, uint32, Vertex3D...)
// as its backing bytes without copying.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

// CreateBuffer allocates a buffer for typ. When data is non-empty it is
// uploaded as the buffer's static contents. The buffer binding is left as
// it was.
func (c *Context) CreateBuffer(typ BufferType, data []byte) (Handle, error) {
	gl := c.gl

	target, err := bufferTargets.lookup(typ)
	if err != nil {
		return 0, err
	}

	var id uint32
	gl.GenBuffers(1, &id)
	if err := c.check("glGenBuffers", 1); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: %s buffer", ErrCreateFailed, typ)
	}
	h := Handle(id)
	c.buffers[h] = bufferEntry{typ: typ}

	if len(data) > 0 {
		if err := c.uploadInitial(h, target, data); err != nil {
			return h, err
		}
	}

	c.log.Debug("created buffer", slog.Any("handle", h), slog.String("type", typ.String()), slog.Int("size", len(data)))
	return h, nil
}

func (c *Context) uploadInitial(h Handle, target uint32, data []byte) error {
	gl := c.gl

	gl.BindBuffer(target, uint32(h))
	if err := c.check("glBindBuffer", target, h); err != nil {
		return err
	}
	gl.BufferData(target, len(data), unsafe.Pointer(&data[0]), glpkg.StaticDraw)
	if err := c.check("glBufferData", target, len(data), uint32(glpkg.StaticDraw)); err != nil {
		return err
	}
	c.buffers[h] = bufferEntry{typ: c.buffers[h].typ, size: len(data)}

	// Put back whatever the caller had bound on this target.
	restore := uint32(c.targets[target])
	gl.BindBuffer(target, restore)
	return c.check("glBindBuffer", target, restore)
}

// DeleteBuffer releases h. Unknown handles are ignored.
func (c *Context) DeleteBuffer(h Handle) error {
	if _, ok := c.buffers[h]; !ok {
		return nil
	}
	id := uint32(h)
	c.gl.DeleteBuffers(1, &id)
	delete(c.buffers, h)
	if c.bound[KindBuffer] == h {
		c.bound[KindBuffer] = 0
	}
	for target, bound := range c.targets {
		if bound == h {
			delete(c.targets, target)
		}
	}
	return c.check("glDeleteBuffers", 1, h)
}

// BindBuffer binds h to the target it was created for and makes it the
// buffer later Resize and Update calls act on.
func (c *Context) BindBuffer(h Handle) error {
	entry, ok := c.buffers[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, h)
	}
	target, err := bufferTargets.lookup(entry.typ)
	if err != nil {
		return err
	}
	c.gl.BindBuffer(target, uint32(h))
	c.bound[KindBuffer] = h
	c.targets[target] = h
	return c.check("glBindBuffer", target, h)
}

// UnbindBuffer clears the buffer binding.
func (c *Context) UnbindBuffer() error {
	h := c.bound[KindBuffer]
	if h == 0 {
		return nil
	}
	target, err := bufferTargets.lookup(c.buffers[h].typ)
	if err != nil {
		return err
	}
	c.gl.BindBuffer(target, 0)
	c.bound[KindBuffer] = 0
	delete(c.targets, target)
	return c.check("glBindBuffer", target, 0)
}

func (c *Context) boundBuffer() (Handle, uint32, error) {
	h := c.bound[KindBuffer]
	if h == 0 {
		return 0, 0, ErrNoBufferBound
	}
	target, err := bufferTargets.lookup(c.buffers[h].typ)
	if err != nil {
		return 0, 0, err
	}
	return h, target, nil
}

// ResizeBuffer re-specifies the bound buffer's store as size uninitialized
// bytes, then confirms the driver reports exactly that size.
func (c *Context) ResizeBuffer(size int, usage BufferUsage) error {
	gl := c.gl

	if size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	h, target, err := c.boundBuffer()
	if err != nil {
		return err
	}
	hint, err := bufferUsages.lookup(usage)
	if err != nil {
		return err
	}

	gl.BufferData(target, size, nil, hint)
	if err := c.check("glBufferData", target, size, hint); err != nil {
		return err
	}

	got, err := c.BufferSize()
	if err != nil {
		return err
	}
	c.buffers[h] = bufferEntry{typ: c.buffers[h].typ, size: got}
	if got != size {
		return fmt.Errorf("%w: requested %d bytes, driver reports %d", ErrSizeMismatch, size, got)
	}
	return nil
}

// BufferSize asks the driver for the size of the bound buffer.
func (c *Context) BufferSize() (int, error) {
	_, target, err := c.boundBuffer()
	if err != nil {
		return 0, err
	}
	var size int32
	c.gl.GetBufferParameteriv(target, glpkg.BufferSize, &size)
	if err := c.check("glGetBufferParameteriv", target, uint32(glpkg.BufferSize)); err != nil {
		return 0, err
	}
	return int(size), nil
}

// UpdateBufferRange copies data into the bound buffer starting at offset.
func (c *Context) UpdateBufferRange(offset int, data []byte) error {
	h, target, err := c.boundBuffer()
	if err != nil {
		return err
	}
	size := c.buffers[h].size
	if offset < 0 || offset+len(data) > size {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrOutOfRange, offset, offset+len(data), size)
	}
	if len(data) == 0 {
		return nil
	}
	c.gl.BufferSubData(target, offset, len(data), unsafe.Pointer(&data[0]))
	return c.check("glBufferSubData", target, offset, len(data))
}
