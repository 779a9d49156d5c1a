package gr

import (
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// Attachment is a named image slot of a framebuffer.
type Attachment int

const (
	Color0 Attachment = iota
	Color1
	Color2
	Color3
	Color4
	Color5
	Depth
	Stencil
	DepthStencil
)

var attachments = newTable("attachment", map[Attachment]uint32{
	Color0:       glpkg.ColorAttachment0,
	Color1:       glpkg.ColorAttachment1,
	Color2:       glpkg.ColorAttachment2,
	Color3:       glpkg.ColorAttachment3,
	Color4:       glpkg.ColorAttachment4,
	Color5:       glpkg.ColorAttachment5,
	Depth:        glpkg.DepthAttachment,
	Stencil:      glpkg.StencilAttachment,
	DepthStencil: glpkg.DepthStencilAttachment,
})

// TextureTarget is the image of a texture attached to a framebuffer.
type TextureTarget int

const (
	Target2D TextureTarget = iota
	TargetCubePositiveX
	TargetCubeNegativeX
	TargetCubePositiveY
	TargetCubeNegativeY
	TargetCubePositiveZ
	TargetCubeNegativeZ
)

var textureTargets = newTable("texture target", map[TextureTarget]uint32{
	Target2D:            glpkg.Texture2D,
	TargetCubePositiveX: glpkg.TextureCubeMapPositiveX,
	TargetCubeNegativeX: glpkg.TextureCubeMapNegativeX,
	TargetCubePositiveY: glpkg.TextureCubeMapPositiveY,
	TargetCubeNegativeY: glpkg.TextureCubeMapNegativeY,
	TargetCubePositiveZ: glpkg.TextureCubeMapPositiveZ,
	TargetCubeNegativeZ: glpkg.TextureCubeMapNegativeZ,
})

// CreateFramebuffer allocates a framebuffer object.
func (c *Context) CreateFramebuffer() (Handle, error) {
	var id uint32
	c.gl.GenFramebuffers(1, &id)
	if err := c.check("glGenFramebuffers", 1); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: framebuffer", ErrCreateFailed)
	}
	c.log.Debug("created framebuffer", slog.Any("handle", Handle(id)))
	return Handle(id), nil
}

func (c *Context) BindFramebuffer(h Handle) error {
	c.gl.BindFramebuffer(glpkg.Framebuffer, uint32(h))
	c.bound[KindFramebuffer] = h
	return c.check("glBindFramebuffer", uint32(glpkg.Framebuffer), h)
}

// UnbindFramebuffer restores the default framebuffer.
func (c *Context) UnbindFramebuffer() error {
	return c.BindFramebuffer(0)
}

// DestroyFramebuffer deletes h. Zero is ignored.
func (c *Context) DestroyFramebuffer(h Handle) error {
	if h == 0 {
		return nil
	}
	if c.bound[KindFramebuffer] == h {
		c.bound[KindFramebuffer] = 0
	}
	id := uint32(h)
	c.gl.DeleteFramebuffers(1, &id)
	return c.check("glDeleteFramebuffers", 1, h)
}

// FramebufferStatus returns nil when the bound framebuffer is complete.
func (c *Context) FramebufferStatus() error {
	status := c.gl.CheckFramebufferStatus(glpkg.Framebuffer)
	if err := c.check("glCheckFramebufferStatus", uint32(glpkg.Framebuffer)); err != nil {
		return err
	}
	if status != glpkg.FramebufferComplete {
		return fmt.Errorf("%w: status 0x%X", ErrIncomplete, status)
	}
	return nil
}

func (c *Context) requireFramebuffer() error {
	if c.bound[KindFramebuffer] == 0 {
		return fmt.Errorf("%w: framebuffer", ErrNotBound)
	}
	return nil
}

// AttachRenderbuffer attaches rb to point of the bound framebuffer.
func (c *Context) AttachRenderbuffer(point Attachment, rb Handle) error {
	attachment, err := attachments.lookup(point)
	if err != nil {
		return err
	}
	if err := c.requireFramebuffer(); err != nil {
		return err
	}
	c.gl.FramebufferRenderbuffer(glpkg.Framebuffer, attachment, glpkg.Renderbuffer, uint32(rb))
	return c.check("glFramebufferRenderbuffer", uint32(glpkg.Framebuffer), attachment, uint32(glpkg.Renderbuffer), rb)
}

// AttachTexture attaches level 0 of tex, as the image named by target, to
// point of the bound framebuffer.
func (c *Context) AttachTexture(point Attachment, target TextureTarget, tex Handle) error {
	attachment, err := attachments.lookup(point)
	if err != nil {
		return err
	}
	textarget, err := textureTargets.lookup(target)
	if err != nil {
		return err
	}
	if err := c.requireFramebuffer(); err != nil {
		return err
	}
	c.gl.FramebufferTexture2D(glpkg.Framebuffer, attachment, textarget, uint32(tex), 0)
	return c.check("glFramebufferTexture2D", uint32(glpkg.Framebuffer), attachment, textarget, tex, 0)
}

// AttachBoundRenderbuffer attaches whatever renderbuffer is currently bound.
func (c *Context) AttachBoundRenderbuffer(point Attachment) error {
	rb := c.bound[KindRenderbuffer]
	if rb == 0 {
		return fmt.Errorf("%w: renderbuffer", ErrNotBound)
	}
	return c.AttachRenderbuffer(point, rb)
}

// AttachBoundTexture attaches the currently bound texture as a 2D image.
func (c *Context) AttachBoundTexture(point Attachment) error {
	tex := c.bound[KindTexture]
	if tex == 0 {
		return fmt.Errorf("%w: texture", ErrNotBound)
	}
	return c.AttachTexture(point, Target2D, tex)
}

// ReadPixels copies rect of a color attachment into out using the client
// layout of format. With no framebuffer bound it reads the default
// framebuffer and colorIndex is ignored.
func (c *Context) ReadPixels(colorIndex int, rect image.Rectangle, format TextureFormat, out []byte) error {
	gl := c.gl

	info, err := textureFormats.lookup(format)
	if err != nil {
		return err
	}
	if rect.Empty() {
		return fmt.Errorf("%w: empty rectangle %v", ErrInvalidSize, rect)
	}
	need := rect.Dx() * rect.Dy() * info.Size
	if len(out) < need {
		return fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d",
			ErrPixelSize, format, rect.Dx(), rect.Dy(), need, len(out))
	}

	if c.bound[KindFramebuffer] != 0 {
		if colorIndex < 0 || colorIndex > int(Color5) {
			return &LookupError{Table: "color attachment", Value: colorIndex}
		}
		src, err := attachments.lookup(Attachment(colorIndex))
		if err != nil {
			return err
		}
		gl.ReadBuffer(src)
		if err := c.check("glReadBuffer", src); err != nil {
			return err
		}
	}

	gl.PixelStorei(glpkg.PackAlignment, 1)
	if err := c.check("glPixelStorei", uint32(glpkg.PackAlignment), 1); err != nil {
		return err
	}
	gl.ReadPixels(int32(rect.Min.X), int32(rect.Min.Y), int32(rect.Dx()), int32(rect.Dy()),
		info.Format, info.Type, unsafe.Pointer(&out[0]))
	return c.check("glReadPixels", rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), info.Format, info.Type)
}

// ReadImage reads rect as 8-bit RGBA and flips it so row 0 is the top.
func (c *Context) ReadImage(colorIndex int, rect image.Rectangle) (*image.RGBA, error) {
	w, h := rect.Dx(), rect.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := c.ReadPixels(colorIndex, rect, FormatRGBA, rgba.Pix); err != nil {
		return nil, err
	}

	flipped := image.NewRGBA(rgba.Rect)
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : (y+1)*rgba.Stride]
		dst := (h - 1 - y) * flipped.Stride
		copy(flipped.Pix[dst:dst+flipped.Stride], src)
	}
	return flipped, nil
}
