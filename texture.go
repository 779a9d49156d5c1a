package gr

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"unsafe"

	"golang.org/x/image/draw"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// TextureFormat selects how texel data is stored and uploaded.
type TextureFormat int

const (
	FormatRGB TextureFormat = iota
	FormatSRGB
	FormatRGB332
	FormatRGB444
	FormatRGB565
	FormatRGB888
	FormatSRGBA
	FormatRGBA
	FormatRGBA4444
	FormatRGBA8888
	FormatDepthComponent
	FormatRedInteger
	FormatRGB16F
	FormatRGB32F
	FormatRGBA16F
	FormatRGBA32F
	FormatRed
	FormatRG
	FormatRG16F
	FormatRG32F

	numTextureFormats
)

var textureFormatNames = [...]string{
	"RGB", "SRGB", "RGB332", "RGB444", "RGB565", "RGB888", "SRGBA", "RGBA",
	"RGBA4444", "RGBA8888", "DepthComponent", "RedInteger", "RGB16F", "RGB32F",
	"RGBA16F", "RGBA32F", "Red", "RG", "RG16F", "RG32F",
}

func (f TextureFormat) String() string {
	if f < 0 || f >= numTextureFormats {
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
	return textureFormatNames[f]
}

// PixelFormat is the driver's description of a TextureFormat.
type PixelFormat struct {
	Internal int32
	Format   uint32
	Type     uint32
	// Size is the number of bytes one pixel occupies in client memory.
	Size int
}

var textureFormats = newTable("texture format", map[TextureFormat]PixelFormat{
	FormatRGB:            {glpkg.RGB, glpkg.RGB, glpkg.UnsignedByte, 3},
	FormatSRGB:           {glpkg.SRGB, glpkg.RGB, glpkg.UnsignedByte, 3},
	FormatRGB332:         {glpkg.RGB, glpkg.RGB, glpkg.UnsignedByte332, 1},
	FormatRGB444:         {glpkg.RGB4, glpkg.RGBA, glpkg.UnsignedShort4444, 2},
	FormatRGB565:         {glpkg.RGB, glpkg.RGB, glpkg.UnsignedShort565, 2},
	FormatRGB888:         {glpkg.RGB8, glpkg.RGB, glpkg.UnsignedByte, 3},
	FormatSRGBA:          {glpkg.SRGBAlpha, glpkg.RGBA, glpkg.UnsignedByte, 4},
	FormatRGBA:           {glpkg.RGBA, glpkg.RGBA, glpkg.UnsignedByte, 4},
	FormatRGBA4444:       {glpkg.RGBA4, glpkg.RGBA, glpkg.UnsignedShort4444, 2},
	FormatRGBA8888:       {glpkg.RGBA8, glpkg.RGBA, glpkg.UnsignedByte, 4},
	FormatDepthComponent: {glpkg.DepthComponent, glpkg.DepthComponent, glpkg.Float, 4},
	FormatRedInteger:     {glpkg.R32I, glpkg.RedInteger, glpkg.Int, 4},
	FormatRGB16F:         {glpkg.RGB16F, glpkg.RGB, glpkg.Float, 12},
	FormatRGB32F:         {glpkg.RGB32F, glpkg.RGB, glpkg.Float, 12},
	FormatRGBA16F:        {glpkg.RGBA16F, glpkg.RGBA, glpkg.Float, 16},
	FormatRGBA32F:        {glpkg.RGBA32F, glpkg.RGBA, glpkg.Float, 16},
	FormatRed:            {glpkg.Red, glpkg.Red, glpkg.UnsignedByte, 1},
	FormatRG:             {glpkg.RG, glpkg.RG, glpkg.UnsignedByte, 2},
	FormatRG16F:          {glpkg.RG16F, glpkg.RG, glpkg.Float, 8},
	FormatRG32F:          {glpkg.RG32F, glpkg.RG, glpkg.Float, 8},
})

// LookupFormat returns the driver triple for f.
func LookupFormat(f TextureFormat) (PixelFormat, error) {
	return textureFormats.lookup(f)
}

// TextureFlags is a bit set describing a texture's kind and sampler state.
type TextureFlags uint32

const (
	TextureNone    TextureFlags = 1 << 0
	TextureMipmaps TextureFlags = 1 << 1
	Texture2D      TextureFlags = 1 << 2
	TextureCubemap TextureFlags = 1 << 3

	FilterLinear    TextureFlags = 1 << 4
	FilterNearest   TextureFlags = 1 << 5
	FilterTrilinear TextureFlags = 1 << 6
	FilterBilinear  TextureFlags = 1 << 7

	FacePositiveX TextureFlags = 1 << 8
	FaceNegativeX TextureFlags = 1 << 9
	FacePositiveY TextureFlags = 1 << 10
	FaceNegativeY TextureFlags = 1 << 11
	FacePositiveZ TextureFlags = 1 << 12
	FaceNegativeZ TextureFlags = 1 << 13

	ClampRepeat TextureFlags = 1 << 14
	ClampBorder TextureFlags = 1 << 15
	ClampEdge   TextureFlags = 1 << 16

	textureKinds = Texture2D | TextureCubemap
	filterModes  = FilterLinear | FilterNearest | FilterTrilinear | FilterBilinear
	clampModes   = ClampRepeat | ClampBorder | ClampEdge
	FaceAll      = FacePositiveX | FaceNegativeX | FacePositiveY | FaceNegativeY | FacePositiveZ | FaceNegativeZ
)

// Face order matches the driver's cube map target order.
var cubeFaces = []struct {
	flag   TextureFlags
	target uint32
}{
	{FacePositiveX, glpkg.TextureCubeMapPositiveX},
	{FaceNegativeX, glpkg.TextureCubeMapNegativeX},
	{FacePositiveY, glpkg.TextureCubeMapPositiveY},
	{FaceNegativeY, glpkg.TextureCubeMapNegativeY},
	{FacePositiveZ, glpkg.TextureCubeMapPositiveZ},
	{FaceNegativeZ, glpkg.TextureCubeMapNegativeZ},
}

// Texture is a 2D or cube map image. The driver object is created on the
// first upload.
type Texture struct {
	ctx    *Context
	id     Handle
	width  int
	height int
	format TextureFormat
	flags  TextureFlags
	unit   uint32
}

// NewTexture returns an RGB 2D texture with repeat clamping and linear
// filtering.
func (c *Context) NewTexture() *Texture {
	t := &Texture{ctx: c}
	t.SetFormat(FormatRGB)
	t.SetTarget(Texture2D)
	t.SetClamping(ClampRepeat)
	t.SetFiltering(FilterLinear)
	return t
}

func (t *Texture) ID() Handle                { return t.id }
func (t *Texture) IsValid() bool             { return t.id != 0 }
func (t *Texture) IsCubemap() bool           { return t.flags&TextureCubemap != 0 }
func (t *Texture) Flags() TextureFlags       { return t.flags }
func (t *Texture) Format() TextureFormat     { return t.format }
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Target is the bind target: the cube map target for cube maps, 2D
// otherwise.
func (t *Texture) Target() uint32 {
	if t.IsCubemap() {
		return glpkg.TextureCubeMap
	}
	return glpkg.Texture2D
}

func (t *Texture) SetFormat(f TextureFormat) { t.format = f }

// SetTarget picks 2D or cube map. If both are given, 2D wins.
func (t *Texture) SetTarget(kind TextureFlags) {
	kind &= textureKinds
	if kind&Texture2D != 0 {
		kind = Texture2D
	}
	t.flags = t.flags&^textureKinds | kind
}

func (t *Texture) SetFiltering(mode TextureFlags) {
	t.flags = t.flags&^filterModes | mode&filterModes
}

func (t *Texture) SetClamping(mode TextureFlags) {
	t.flags = t.flags&^clampModes | mode&clampModes
}

// SetFace selects the cube map face the next upload writes.
func (t *Texture) SetFace(face TextureFlags) {
	t.flags = t.flags&^FaceAll | face&FaceAll
}

// EnableMipmaps makes every upload regenerate the mipmap chain.
func (t *Texture) EnableMipmaps() { t.flags |= TextureMipmaps }

// uploadTarget is the image target for TexImage2D: the selected face for a
// cube map with a face flag, the bind target otherwise.
func (t *Texture) uploadTarget() uint32 {
	if t.IsCubemap() {
		for _, f := range cubeFaces {
			if t.flags&f.flag != 0 {
				return f.target
			}
		}
	}
	return t.Target()
}

// UpdateBuffer (re)allocates the image as width x height pixels of the
// texture's format, uploading pixels when non-nil, then applies mipmaps,
// clamping and filtering.
func (t *Texture) UpdateBuffer(width, height int, pixels []byte) error {
	c := t.ctx
	gl := c.gl

	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return fmt.Errorf("%w: texture %dx%d", ErrInvalidSize, width, height)
	}
	info, err := textureFormats.lookup(t.format)
	if err != nil {
		return err
	}
	if pixels != nil && len(pixels) != width*height*info.Size {
		return fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d",
			ErrPixelSize, t.format, width, height, width*height*info.Size, len(pixels))
	}

	if t.id == 0 {
		var id uint32
		gl.GenTextures(1, &id)
		if err := c.check("glGenTextures", 1); err != nil {
			return err
		}
		if id == 0 {
			return fmt.Errorf("%w: texture", ErrCreateFailed)
		}
		t.id = Handle(id)
		c.log.Debug("created texture", slog.Any("handle", t.id), slog.String("format", t.format.String()))
	}
	t.width, t.height = width, height

	target := t.Target()
	gl.BindTexture(target, uint32(t.id))
	if err := c.check("glBindTexture", target, t.id); err != nil {
		return err
	}

	gl.PixelStorei(glpkg.UnpackAlignment, 1)
	if err := c.check("glPixelStorei", uint32(glpkg.UnpackAlignment), 1); err != nil {
		return err
	}

	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = unsafe.Pointer(&pixels[0])
	}
	dst := t.uploadTarget()
	gl.TexImage2D(dst, 0, info.Internal, int32(width), int32(height), 0, info.Format, info.Type, ptr)
	if err := c.check("glTexImage2D", dst, 0, info.Internal, width, height, 0, info.Format, info.Type); err != nil {
		return err
	}

	if err := t.applyMipmaps(); err != nil {
		return err
	}
	if err := t.applyClamping(); err != nil {
		return err
	}
	if err := t.applyFiltering(); err != nil {
		return err
	}

	// Put back the texture the slot holds if it shares this target. A
	// texture on another target was never displaced.
	restore := uint32(0)
	if c.textureTarget == target {
		restore = uint32(c.bound[KindTexture])
	}
	gl.BindTexture(target, restore)
	return c.check("glBindTexture", target, restore)
}

// UpdateImage uploads img as RGBA, converting it first when it is not
// already non-premultiplied RGBA.
func (t *Texture) UpdateImage(img image.Image) error {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	t.SetFormat(FormatRGBA)
	return t.UpdateBuffer(b.Dx(), b.Dy(), nrgba.Pix)
}

func (t *Texture) applyMipmaps() error {
	if t.flags&TextureMipmaps == 0 {
		return nil
	}
	target := t.Target()
	t.ctx.gl.GenerateMipmap(target)
	return t.ctx.check("glGenerateMipmap", target)
}

func (t *Texture) applyClamping() error {
	wrap := int32(glpkg.Repeat)
	switch {
	case t.flags&ClampEdge != 0:
		wrap = glpkg.ClampToEdge
	case t.flags&ClampBorder != 0:
		wrap = glpkg.ClampToBorder
	}
	target := t.Target()
	for _, pname := range []uint32{glpkg.TextureWrapS, glpkg.TextureWrapR, glpkg.TextureWrapT} {
		t.ctx.gl.TexParameteri(target, pname, wrap)
		if err := t.ctx.check("glTexParameteri", target, pname, wrap); err != nil {
			return err
		}
	}
	return nil
}

// filters returns the min and mag filters the flags select.
func (t *Texture) filters() (minFilter, magFilter int32) {
	minFilter, magFilter = glpkg.Linear, glpkg.Linear
	if t.flags&TextureMipmaps != 0 {
		switch {
		case t.flags&FilterTrilinear != 0:
			minFilter = glpkg.LinearMipmapLinear
		case t.flags&FilterBilinear != 0:
			minFilter = glpkg.LinearMipmapNearest
		}
	} else if t.flags&FilterNearest != 0 && t.flags&FilterLinear == 0 {
		minFilter = glpkg.Nearest
	}
	if t.flags&FilterNearest != 0 && t.flags&FilterLinear == 0 {
		magFilter = glpkg.Nearest
	}
	return minFilter, magFilter
}

func (t *Texture) applyFiltering() error {
	minFilter, magFilter := t.filters()
	target := t.Target()
	t.ctx.gl.TexParameteri(target, glpkg.TextureMinFilter, minFilter)
	if err := t.ctx.check("glTexParameteri", target, uint32(glpkg.TextureMinFilter), minFilter); err != nil {
		return err
	}
	t.ctx.gl.TexParameteri(target, glpkg.TextureMagFilter, magFilter)
	return t.ctx.check("glTexParameteri", target, uint32(glpkg.TextureMagFilter), magFilter)
}

// Bind selects texture unit and binds the texture to it.
func (t *Texture) Bind(unit uint32) error {
	c := t.ctx
	t.unit = glpkg.Texture0 + unit
	c.gl.ActiveTexture(t.unit)
	if err := c.check("glActiveTexture", t.unit); err != nil {
		return err
	}
	c.activeUnit = unit
	target := t.Target()
	c.gl.BindTexture(target, uint32(t.id))
	c.bound[KindTexture] = t.id
	c.textureTarget = target
	return c.check("glBindTexture", target, t.id)
}

// Unbind clears the unit this texture was last bound to.
func (t *Texture) Unbind() error {
	c := t.ctx
	unit := t.unit
	if unit == 0 {
		unit = glpkg.Texture0
	}
	c.gl.ActiveTexture(unit)
	if err := c.check("glActiveTexture", unit); err != nil {
		return err
	}
	c.activeUnit = unit - glpkg.Texture0
	target := t.Target()
	c.gl.BindTexture(target, 0)
	c.bound[KindTexture] = 0
	c.textureTarget = 0
	return c.check("glBindTexture", target, 0)
}

// Destroy deletes the driver object. It is safe to call more than once.
func (t *Texture) Destroy() error {
	if t.id == 0 {
		return nil
	}
	c := t.ctx
	if c.bound[KindTexture] == t.id {
		c.bound[KindTexture] = 0
		c.textureTarget = 0
	}
	id := uint32(t.id)
	c.gl.DeleteTextures(1, &id)
	t.id = 0
	return c.check("glDeleteTextures", 1, id)
}
