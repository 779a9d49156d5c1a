package gr

import (
	"fmt"
	"math"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// RenderbufferFormat is the storage format of a renderbuffer.
type RenderbufferFormat int

const (
	RenderbufferDepth RenderbufferFormat = iota
	RenderbufferDepth16
	RenderbufferDepth24
	RenderbufferDepth32F
	RenderbufferDepth24Stencil8
	RenderbufferDepthStencil
	RenderbufferDepth32FStencil8
	RenderbufferStencil
)

var renderbufferFormats = newTable("renderbuffer format", map[RenderbufferFormat]uint32{
	RenderbufferDepth:            glpkg.DepthComponent,
	RenderbufferDepth16:          glpkg.DepthComponent16,
	RenderbufferDepth24:          glpkg.DepthComponent24,
	RenderbufferDepth32F:         glpkg.DepthComponent32F,
	RenderbufferDepth24Stencil8:  glpkg.Depth24Stencil8,
	RenderbufferDepthStencil:     glpkg.DepthStencil,
	RenderbufferDepth32FStencil8: glpkg.Depth32FStencil8,
	RenderbufferStencil:          glpkg.StencilIndex8,
})

func (c *Context) CreateRenderbuffer() (Handle, error) {
	var id uint32
	c.gl.GenRenderbuffers(1, &id)
	if err := c.check("glGenRenderbuffers", 1); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: renderbuffer", ErrCreateFailed)
	}
	return Handle(id), nil
}

func (c *Context) BindRenderbuffer(h Handle) error {
	c.gl.BindRenderbuffer(glpkg.Renderbuffer, uint32(h))
	c.bound[KindRenderbuffer] = h
	return c.check("glBindRenderbuffer", uint32(glpkg.Renderbuffer), h)
}

func (c *Context) UnbindRenderbuffer() error {
	return c.BindRenderbuffer(0)
}

// RenderbufferStorage allocates width x height of format for the bound
// renderbuffer.
func (c *Context) RenderbufferStorage(format RenderbufferFormat, width, height int) error {
	internal, err := renderbufferFormats.lookup(format)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return fmt.Errorf("%w: renderbuffer %dx%d", ErrInvalidSize, width, height)
	}
	if c.bound[KindRenderbuffer] == 0 {
		return fmt.Errorf("%w: renderbuffer", ErrNotBound)
	}
	c.gl.RenderbufferStorage(glpkg.Renderbuffer, internal, int32(width), int32(height))
	return c.check("glRenderbufferStorage", uint32(glpkg.Renderbuffer), internal, width, height)
}

// DestroyRenderbuffer deletes h. Zero is ignored.
func (c *Context) DestroyRenderbuffer(h Handle) error {
	if h == 0 {
		return nil
	}
	if c.bound[KindRenderbuffer] == h {
		c.bound[KindRenderbuffer] = 0
	}
	id := uint32(h)
	c.gl.DeleteRenderbuffers(1, &id)
	return c.check("glDeleteRenderbuffers", 1, h)
}
