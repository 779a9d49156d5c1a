package gl

import "unsafe"

// Error codes returned by GetError.
const (
	NoError                     = 0
	InvalidEnum                 = 0x0500
	InvalidValue                = 0x0501
	InvalidOperation            = 0x0502
	StackOverflow               = 0x0503
	StackUnderflow              = 0x0504
	OutOfMemory                 = 0x0505
	InvalidFramebufferOperation = 0x0506
	ContextLost                 = 0x0507
)

const (
	False = 0
	True  = 1

	// Clear masks.
	ColorBufferBit   = 0x00004000
	DepthBufferBit   = 0x00000100
	StencilBufferBit = 0x00000400

	// Capabilities.
	Blend           = 0x0BE2
	CullFace        = 0x0B44
	DepthTest       = 0x0B71
	Multisample     = 0x809D
	FramebufferSRGB = 0x8DB9

	// Faces.
	Front        = 0x0404
	Back         = 0x0405
	FrontAndBack = 0x0408

	// Comparison functions.
	Never    = 0x0200
	Less     = 0x0201
	Equal    = 0x0202
	Lequal   = 0x0203
	Greater  = 0x0204
	Notequal = 0x0205
	Gequal   = 0x0206
	Always   = 0x0207

	// Blend factors.
	Zero             = 0
	One              = 1
	SrcColor         = 0x0300
	OneMinusSrcColor = 0x0301
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303
	DstAlpha         = 0x0304
	OneMinusDstAlpha = 0x0305
	DstColor         = 0x0306
	OneMinusDstColor = 0x0307

	// Primitive types.
	Points        = 0x0000
	Lines         = 0x0001
	LineLoop      = 0x0002
	LineStrip     = 0x0003
	Triangles     = 0x0004
	TriangleStrip = 0x0005
	TriangleFan   = 0x0006

	// Data types.
	Byte                  = 0x1400
	UnsignedByte          = 0x1401
	Short                 = 0x1402
	UnsignedShort         = 0x1403
	Int                   = 0x1404
	UnsignedInt           = 0x1405
	Float                 = 0x1406
	HalfFloat             = 0x140B
	UnsignedByte332       = 0x8032
	UnsignedShort4444     = 0x8033
	UnsignedShort565      = 0x8363
	UnsignedInt248        = 0x84FA
	Float32UnsignedInt248 = 0x8DAD

	// Buffer targets.
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	PixelPackBuffer    = 0x88EB
	PixelUnpackBuffer  = 0x88EC
	UniformBuffer      = 0x8A11
	TextureBuffer      = 0x8C2A

	// Buffer usage and parameters.
	StreamDraw  = 0x88E0
	StaticDraw  = 0x88E4
	DynamicDraw = 0x88E8
	BufferSize  = 0x8764
	BufferUsage = 0x8765

	// Texture targets.
	Texture2D               = 0x0DE1
	TextureCubeMap          = 0x8513
	TextureCubeMapPositiveX = 0x8515
	TextureCubeMapNegativeX = 0x8516
	TextureCubeMapPositiveY = 0x8517
	TextureCubeMapNegativeY = 0x8518
	TextureCubeMapPositiveZ = 0x8519
	TextureCubeMapNegativeZ = 0x851A

	// Texture unit.
	Texture0 = 0x84C0

	// Texture parameters.
	TextureMagFilter = 0x2800
	TextureMinFilter = 0x2801
	TextureWrapS     = 0x2802
	TextureWrapT     = 0x2803
	TextureWrapR     = 0x8072

	Nearest              = 0x2600
	Linear               = 0x2601
	NearestMipmapNearest = 0x2700
	LinearMipmapNearest  = 0x2701
	NearestMipmapLinear  = 0x2702
	LinearMipmapLinear   = 0x2703

	Repeat        = 0x2901
	ClampToBorder = 0x812D
	ClampToEdge   = 0x812F

	// UnpackAlignment specifies the alignment requirements for pixel data
	// when uploading textures (PixelStorei).
	UnpackAlignment = 0x0CF5
	// PackAlignment is the PixelStorei counterpart for ReadPixels.
	PackAlignment = 0x0D05

	// Pixel formats.
	Red            = 0x1903
	RG             = 0x8227
	RGB            = 0x1907
	RGBA           = 0x1908
	RedInteger     = 0x8D94
	DepthComponent = 0x1902
	DepthStencil   = 0x84F9
	StencilIndex   = 0x1901

	// Internal formats.
	SRGB              = 0x8C40
	SRGBAlpha         = 0x8C42
	RGB4              = 0x804F
	RGB8              = 0x8051
	RGBA4             = 0x8056
	RGBA8             = 0x8058
	R8                = 0x8229
	RG8               = 0x822B
	R32I              = 0x8235
	RG16F             = 0x822F
	RG32F             = 0x8230
	RGB16F            = 0x881B
	RGB32F            = 0x8815
	RGBA16F           = 0x881A
	RGBA32F           = 0x8814
	DepthComponent16  = 0x81A5
	DepthComponent24  = 0x81A6
	DepthComponent32F = 0x8CAC
	Depth24Stencil8   = 0x88F0
	Depth32FStencil8  = 0x8CAD
	StencilIndex8     = 0x8D48

	// Framebuffers and renderbuffers.
	Framebuffer            = 0x8D40
	ReadFramebuffer        = 0x8CA8
	DrawFramebuffer        = 0x8CA9
	Renderbuffer           = 0x8D41
	FramebufferComplete    = 0x8CD5
	ColorAttachment0       = 0x8CE0
	ColorAttachment1       = 0x8CE1
	ColorAttachment2       = 0x8CE2
	ColorAttachment3       = 0x8CE3
	ColorAttachment4       = 0x8CE4
	ColorAttachment5       = 0x8CE5
	DepthAttachment        = 0x8D00
	StencilAttachment      = 0x8D20
	DepthStencilAttachment = 0x821A

	// Shader types
	VertexShader   = 0x8B31
	FragmentShader = 0x8B30

	// Shader/Program status
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer names the device the context renders with.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
	// ShadingLanguageVersion returns the GLSL version string.
	ShadingLanguageVersion = 0x8B8C
)

// OpenGL describes the subset of OpenGL entry points used by gr.
//
// Implementations typically wrap platform-specific GL bindings. All methods are
// expected to operate on the currently current GL context for the calling thread.
type OpenGL interface {
	// GetError returns the oldest recorded error flag and clears it.
	GetError() uint32

	// GetString returns a string describing a GL property for the current context.
	//
	// Common names are Vendor and Version.
	// If the name is not recognized or no context is current, implementations may
	// return the empty string.
	GetString(name uint32) string

	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability (e.g., Blend).
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	CullFace(mode uint32)
	DepthMask(flag bool)
	DepthFunc(fn uint32)

	// BlendFunc specifies the pixel arithmetic for blending (e.g., SrcAlpha and OneMinusSrcAlpha).
	BlendFunc(sfactor, dfactor uint32)

	// PixelStorei sets pixel storage modes (e.g., UnpackAlignment).
	PixelStorei(pname uint32, param int32)

	// Buffer operations
	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target uint32, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	BufferSubData(target uint32, offset int, size int, data unsafe.Pointer)
	GetBufferParameteriv(target uint32, pname uint32, params *int32)

	// Vertex Array Object operations
	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr)
	VertexAttribDivisor(index uint32, divisor uint32)
	EnableVertexAttribArray(index uint32)

	// Drawing
	DrawArrays(mode uint32, first int32, count int32)
	DrawArraysInstanced(mode uint32, first int32, count int32, instances int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
	DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instances int32)

	// Texture operations
	GenTextures(n int32, textures *uint32)
	DeleteTextures(n int32, textures *uint32)
	// BindTexture binds a named texture to a texturing target (e.g., Texture2D).
	BindTexture(target, texture uint32)
	// ActiveTexture selects the active texture unit.
	ActiveTexture(texture uint32)
	// TexImage2D specifies a two-dimensional texture image.
	//
	// The pixels pointer may be nil to allocate storage without uploading data.
	TexImage2D(
		target uint32,
		level int32,
		internalformat int32,
		width int32,
		height int32,
		border int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)
	// TexParameteri sets texture parameters for the currently bound texture.
	TexParameteri(target, pname uint32, param int32)
	GenerateMipmap(target uint32)

	// Framebuffer operations
	GenFramebuffers(n int32, framebuffers *uint32)
	DeleteFramebuffers(n int32, framebuffers *uint32)
	BindFramebuffer(target uint32, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32)
	CheckFramebufferStatus(target uint32) uint32
	ReadBuffer(mode uint32)

	// ReadPixels reads a block of pixels from the framebuffer into client memory.
	ReadPixels(
		x int32,
		y int32,
		width int32,
		height int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// Renderbuffer operations
	GenRenderbuffers(n int32, renderbuffers *uint32)
	DeleteRenderbuffers(n int32, renderbuffers *uint32)
	BindRenderbuffer(target uint32, renderbuffer uint32)
	RenderbufferStorage(target, internalformat uint32, width, height int32)

	// Shader operations
	CreateShader(xtype uint32) uint32
	// ShaderSource replaces the source of shader with the concatenation of sources.
	ShaderSource(shader uint32, sources []string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	// Program operations
	CreateProgram() uint32
	AttachShader(program uint32, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniform operations
	GetUniformLocation(program uint32, name string) int32
	Uniform1iv(location int32, count int32, value *int32)
	Uniform1fv(location int32, count int32, value *float32)
	Uniform2fv(location int32, count int32, value *float32)
	Uniform3fv(location int32, count int32, value *float32)
	Uniform4fv(location int32, count int32, value *float32)
	UniformMatrix3fv(location int32, count int32, transpose bool, value *float32)
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}

// cstring returns a NUL-terminated copy of s.
func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}
