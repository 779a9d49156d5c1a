//go:build linux || darwin

package gl

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// The unix loader binds every entry point in OpenGL against the system GL
// library with purego. No cgo is involved; the caller's context must already
// be current on the calling thread before any method is used.
type openGL struct {
	getError    func() uint32
	getString   func(uint32) *byte
	clearColor  func(float32, float32, float32, float32)
	clear       func(uint32)
	viewport    func(int32, int32, int32, int32)
	enable      func(uint32)
	disable     func(uint32)
	cullFace    func(uint32)
	depthMask   func(bool)
	depthFunc   func(uint32)
	blendFunc   func(uint32, uint32)
	pixelStorei func(uint32, int32)

	genBuffers           func(int32, *uint32)
	deleteBuffers        func(int32, *uint32)
	bindBuffer           func(uint32, uint32)
	bufferData           func(uint32, int, unsafe.Pointer, uint32)
	bufferSubData        func(uint32, int, int, unsafe.Pointer)
	getBufferParameteriv func(uint32, uint32, *int32)

	genVertexArrays         func(int32, *uint32)
	deleteVertexArrays      func(int32, *uint32)
	bindVertexArray         func(uint32)
	vertexAttribPointer     func(uint32, int32, uint32, bool, int32, uintptr)
	vertexAttribIPointer    func(uint32, int32, uint32, int32, uintptr)
	vertexAttribDivisor     func(uint32, uint32)
	enableVertexAttribArray func(uint32)

	drawArrays            func(uint32, int32, int32)
	drawArraysInstanced   func(uint32, int32, int32, int32)
	drawElements          func(uint32, int32, uint32, uintptr)
	drawElementsInstanced func(uint32, int32, uint32, uintptr, int32)

	genTextures    func(int32, *uint32)
	deleteTextures func(int32, *uint32)
	bindTexture    func(uint32, uint32)
	activeTexture  func(uint32)
	texImage2D     func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texParameteri  func(uint32, uint32, int32)
	generateMipmap func(uint32)

	genFramebuffers         func(int32, *uint32)
	deleteFramebuffers      func(int32, *uint32)
	bindFramebuffer         func(uint32, uint32)
	framebufferTexture2D    func(uint32, uint32, uint32, uint32, int32)
	framebufferRenderbuffer func(uint32, uint32, uint32, uint32)
	checkFramebufferStatus  func(uint32) uint32
	readBuffer              func(uint32)
	readPixels              func(int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)

	genRenderbuffers    func(int32, *uint32)
	deleteRenderbuffers func(int32, *uint32)
	bindRenderbuffer    func(uint32, uint32)
	renderbufferStorage func(uint32, uint32, int32, int32)

	createShader       func(uint32) uint32
	shaderSource       func(uint32, int32, **byte, *int32)
	compileShader      func(uint32)
	getShaderiv        func(uint32, uint32, *int32)
	getShaderInfoLog   func(uint32, int32, *int32, *byte)
	deleteShader       func(uint32)
	createProgram      func() uint32
	attachShader       func(uint32, uint32)
	linkProgram        func(uint32)
	getProgramiv       func(uint32, uint32, *int32)
	getProgramInfoLog  func(uint32, int32, *int32, *byte)
	useProgram         func(uint32)
	deleteProgram      func(uint32)
	getUniformLocation func(uint32, *byte) int32

	uniform1iv       func(int32, int32, *int32)
	uniform1fv       func(int32, int32, *float32)
	uniform2fv       func(int32, int32, *float32)
	uniform3fv       func(int32, int32, *float32)
	uniform4fv       func(int32, int32, *float32)
	uniformMatrix3fv func(int32, int32, bool, *float32)
	uniformMatrix4fv func(int32, int32, bool, *float32)
}

type entry struct {
	fn   any
	name string
}

func (gl *openGL) entries() []entry {
	return []entry{
		{&gl.getError, "glGetError"},
		{&gl.getString, "glGetString"},
		{&gl.clearColor, "glClearColor"},
		{&gl.clear, "glClear"},
		{&gl.viewport, "glViewport"},
		{&gl.enable, "glEnable"},
		{&gl.disable, "glDisable"},
		{&gl.cullFace, "glCullFace"},
		{&gl.depthMask, "glDepthMask"},
		{&gl.depthFunc, "glDepthFunc"},
		{&gl.blendFunc, "glBlendFunc"},
		{&gl.pixelStorei, "glPixelStorei"},
		{&gl.genBuffers, "glGenBuffers"},
		{&gl.deleteBuffers, "glDeleteBuffers"},
		{&gl.bindBuffer, "glBindBuffer"},
		{&gl.bufferData, "glBufferData"},
		{&gl.bufferSubData, "glBufferSubData"},
		{&gl.getBufferParameteriv, "glGetBufferParameteriv"},
		{&gl.genVertexArrays, "glGenVertexArrays"},
		{&gl.deleteVertexArrays, "glDeleteVertexArrays"},
		{&gl.bindVertexArray, "glBindVertexArray"},
		{&gl.vertexAttribPointer, "glVertexAttribPointer"},
		{&gl.vertexAttribIPointer, "glVertexAttribIPointer"},
		{&gl.vertexAttribDivisor, "glVertexAttribDivisor"},
		{&gl.enableVertexAttribArray, "glEnableVertexAttribArray"},
		{&gl.drawArrays, "glDrawArrays"},
		{&gl.drawArraysInstanced, "glDrawArraysInstanced"},
		{&gl.drawElements, "glDrawElements"},
		{&gl.drawElementsInstanced, "glDrawElementsInstanced"},
		{&gl.genTextures, "glGenTextures"},
		{&gl.deleteTextures, "glDeleteTextures"},
		{&gl.bindTexture, "glBindTexture"},
		{&gl.activeTexture, "glActiveTexture"},
		{&gl.texImage2D, "glTexImage2D"},
		{&gl.texParameteri, "glTexParameteri"},
		{&gl.generateMipmap, "glGenerateMipmap"},
		{&gl.genFramebuffers, "glGenFramebuffers"},
		{&gl.deleteFramebuffers, "glDeleteFramebuffers"},
		{&gl.bindFramebuffer, "glBindFramebuffer"},
		{&gl.framebufferTexture2D, "glFramebufferTexture2D"},
		{&gl.framebufferRenderbuffer, "glFramebufferRenderbuffer"},
		{&gl.checkFramebufferStatus, "glCheckFramebufferStatus"},
		{&gl.readBuffer, "glReadBuffer"},
		{&gl.readPixels, "glReadPixels"},
		{&gl.genRenderbuffers, "glGenRenderbuffers"},
		{&gl.deleteRenderbuffers, "glDeleteRenderbuffers"},
		{&gl.bindRenderbuffer, "glBindRenderbuffer"},
		{&gl.renderbufferStorage, "glRenderbufferStorage"},
		{&gl.createShader, "glCreateShader"},
		{&gl.shaderSource, "glShaderSource"},
		{&gl.compileShader, "glCompileShader"},
		{&gl.getShaderiv, "glGetShaderiv"},
		{&gl.getShaderInfoLog, "glGetShaderInfoLog"},
		{&gl.deleteShader, "glDeleteShader"},
		{&gl.createProgram, "glCreateProgram"},
		{&gl.attachShader, "glAttachShader"},
		{&gl.linkProgram, "glLinkProgram"},
		{&gl.getProgramiv, "glGetProgramiv"},
		{&gl.getProgramInfoLog, "glGetProgramInfoLog"},
		{&gl.useProgram, "glUseProgram"},
		{&gl.deleteProgram, "glDeleteProgram"},
		{&gl.getUniformLocation, "glGetUniformLocation"},
		{&gl.uniform1iv, "glUniform1iv"},
		{&gl.uniform1fv, "glUniform1fv"},
		{&gl.uniform2fv, "glUniform2fv"},
		{&gl.uniform3fv, "glUniform3fv"},
		{&gl.uniform4fv, "glUniform4fv"},
		{&gl.uniformMatrix3fv, "glUniformMatrix3fv"},
		{&gl.uniformMatrix4fv, "glUniformMatrix4fv"},
	}
}

// Symbols lists every entry point the loader resolves, in registration order.
func Symbols() []string {
	var gl openGL
	entries := gl.entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Probe opens library and reports which entry points it does not export.
// It does not need a current context.
func Probe(library string) (missing []string, err error) {
	if library == "" {
		library = DefaultLibrary
	}
	handle, err := purego.Dlopen(library, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", library, err)
	}
	for _, name := range Symbols() {
		if _, err := purego.Dlsym(handle, name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Load binds the default system GL library.
func Load() (OpenGL, error) {
	return LoadLibrary(DefaultLibrary)
}

// LoadLibrary binds the GL library at path. Every entry point must be
// present; otherwise a *MissingSymbolsError lists the gaps.
func LoadLibrary(path string) (OpenGL, error) {
	if path == "" {
		path = DefaultLibrary
	}
	handle, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	gl := &openGL{}
	var missing []string
	for _, e := range gl.entries() {
		// RegisterLibFunc panics on unknown symbols, so look first.
		if _, err := purego.Dlsym(handle, e.name); err != nil {
			missing = append(missing, e.name)
			continue
		}
		purego.RegisterLibFunc(e.fn, handle, e.name)
	}
	if len(missing) > 0 {
		return nil, &MissingSymbolsError{Library: path, Names: missing}
	}
	return gl, nil
}

func (gl *openGL) GetError() uint32 {
	return gl.getError()
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

func (gl *openGL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

func (gl *openGL) Clear(mask uint32) {
	gl.clear(mask)
}

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) Enable(cap uint32) {
	gl.enable(cap)
}

func (gl *openGL) Disable(cap uint32) {
	gl.disable(cap)
}

func (gl *openGL) CullFace(mode uint32) {
	gl.cullFace(mode)
}

func (gl *openGL) DepthMask(flag bool) {
	gl.depthMask(flag)
}

func (gl *openGL) DepthFunc(fn uint32) {
	gl.depthFunc(fn)
}

func (gl *openGL) BlendFunc(sfactor, dfactor uint32) {
	gl.blendFunc(sfactor, dfactor)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei(pname, param)
}

func (gl *openGL) GenBuffers(n int32, buffers *uint32) {
	gl.genBuffers(n, buffers)
}

func (gl *openGL) DeleteBuffers(n int32, buffers *uint32) {
	gl.deleteBuffers(n, buffers)
}

func (gl *openGL) BindBuffer(target uint32, buffer uint32) {
	gl.bindBuffer(target, buffer)
}

func (gl *openGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.bufferData(target, size, data, usage)
}

func (gl *openGL) BufferSubData(target uint32, offset int, size int, data unsafe.Pointer) {
	gl.bufferSubData(target, offset, size, data)
}

func (gl *openGL) GetBufferParameteriv(target uint32, pname uint32, params *int32) {
	gl.getBufferParameteriv(target, pname, params)
}

func (gl *openGL) GenVertexArrays(n int32, arrays *uint32) {
	gl.genVertexArrays(n, arrays)
}

func (gl *openGL) DeleteVertexArrays(n int32, arrays *uint32) {
	gl.deleteVertexArrays(n, arrays)
}

func (gl *openGL) BindVertexArray(array uint32) {
	gl.bindVertexArray(array)
}

func (gl *openGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (gl *openGL) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	gl.vertexAttribIPointer(index, size, xtype, stride, offset)
}

func (gl *openGL) VertexAttribDivisor(index uint32, divisor uint32) {
	gl.vertexAttribDivisor(index, divisor)
}

func (gl *openGL) EnableVertexAttribArray(index uint32) {
	gl.enableVertexAttribArray(index)
}

func (gl *openGL) DrawArrays(mode uint32, first int32, count int32) {
	gl.drawArrays(mode, first, count)
}

func (gl *openGL) DrawArraysInstanced(mode uint32, first int32, count int32, instances int32) {
	gl.drawArraysInstanced(mode, first, count, instances)
}

func (gl *openGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.drawElements(mode, count, xtype, offset)
}

func (gl *openGL) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instances int32) {
	gl.drawElementsInstanced(mode, count, xtype, offset, instances)
}

func (gl *openGL) GenTextures(n int32, textures *uint32) {
	gl.genTextures(n, textures)
}

func (gl *openGL) DeleteTextures(n int32, textures *uint32) {
	gl.deleteTextures(n, textures)
}

func (gl *openGL) BindTexture(target, texture uint32) {
	gl.bindTexture(target, texture)
}

func (gl *openGL) ActiveTexture(texture uint32) {
	gl.activeTexture(texture)
}

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri(target, pname, param)
}

func (gl *openGL) GenerateMipmap(target uint32) {
	gl.generateMipmap(target)
}

func (gl *openGL) GenFramebuffers(n int32, framebuffers *uint32) {
	gl.genFramebuffers(n, framebuffers)
}

func (gl *openGL) DeleteFramebuffers(n int32, framebuffers *uint32) {
	gl.deleteFramebuffers(n, framebuffers)
}

func (gl *openGL) BindFramebuffer(target uint32, framebuffer uint32) {
	gl.bindFramebuffer(target, framebuffer)
}

func (gl *openGL) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.framebufferTexture2D(target, attachment, textarget, texture, level)
}

func (gl *openGL) FramebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer uint32) {
	gl.framebufferRenderbuffer(target, attachment, renderbuffertarget, renderbuffer)
}

func (gl *openGL) CheckFramebufferStatus(target uint32) uint32 {
	return gl.checkFramebufferStatus(target)
}

func (gl *openGL) ReadBuffer(mode uint32) {
	gl.readBuffer(mode)
}

func (gl *openGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.readPixels(x, y, width, height, format, xtype, pixels)
}

func (gl *openGL) GenRenderbuffers(n int32, renderbuffers *uint32) {
	gl.genRenderbuffers(n, renderbuffers)
}

func (gl *openGL) DeleteRenderbuffers(n int32, renderbuffers *uint32) {
	gl.deleteRenderbuffers(n, renderbuffers)
}

func (gl *openGL) BindRenderbuffer(target uint32, renderbuffer uint32) {
	gl.bindRenderbuffer(target, renderbuffer)
}

func (gl *openGL) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	gl.renderbufferStorage(target, internalformat, width, height)
}

func (gl *openGL) CreateShader(xtype uint32) uint32 {
	return gl.createShader(xtype)
}

func (gl *openGL) ShaderSource(shader uint32, sources []string) {
	if len(sources) == 0 {
		return
	}
	bufs := make([][]byte, len(sources))
	ptrs := make([]*byte, len(sources))
	for i, src := range sources {
		bufs[i] = cstring(src)
		ptrs[i] = &bufs[i][0]
	}
	// NULL lengths: every source is NUL-terminated.
	gl.shaderSource(shader, int32(len(ptrs)), &ptrs[0], nil)
	runtime.KeepAlive(bufs)
}

func (gl *openGL) CompileShader(shader uint32) {
	gl.compileShader(shader)
}

func (gl *openGL) GetShaderiv(shader uint32, pname uint32, params *int32) {
	gl.getShaderiv(shader, pname, params)
}

func (gl *openGL) GetShaderInfoLog(shader uint32) string {
	var length int32
	gl.getShaderiv(shader, InfoLogLength, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	gl.getShaderInfoLog(shader, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (gl *openGL) DeleteShader(shader uint32) {
	gl.deleteShader(shader)
}

func (gl *openGL) CreateProgram() uint32 {
	return gl.createProgram()
}

func (gl *openGL) AttachShader(program uint32, shader uint32) {
	gl.attachShader(program, shader)
}

func (gl *openGL) LinkProgram(program uint32) {
	gl.linkProgram(program)
}

func (gl *openGL) GetProgramiv(program uint32, pname uint32, params *int32) {
	gl.getProgramiv(program, pname, params)
}

func (gl *openGL) GetProgramInfoLog(program uint32) string {
	var length int32
	gl.getProgramiv(program, InfoLogLength, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length)
	gl.getProgramInfoLog(program, length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (gl *openGL) UseProgram(program uint32) {
	gl.useProgram(program)
}

func (gl *openGL) DeleteProgram(program uint32) {
	gl.deleteProgram(program)
}

func (gl *openGL) GetUniformLocation(program uint32, name string) int32 {
	b := cstring(name)
	return gl.getUniformLocation(program, &b[0])
}

func (gl *openGL) Uniform1iv(location int32, count int32, value *int32) {
	gl.uniform1iv(location, count, value)
}

func (gl *openGL) Uniform1fv(location int32, count int32, value *float32) {
	gl.uniform1fv(location, count, value)
}

func (gl *openGL) Uniform2fv(location int32, count int32, value *float32) {
	gl.uniform2fv(location, count, value)
}

func (gl *openGL) Uniform3fv(location int32, count int32, value *float32) {
	gl.uniform3fv(location, count, value)
}

func (gl *openGL) Uniform4fv(location int32, count int32, value *float32) {
	gl.uniform4fv(location, count, value)
}

func (gl *openGL) UniformMatrix3fv(location int32, count int32, transpose bool, value *float32) {
	gl.uniformMatrix3fv(location, count, transpose, value)
}

func (gl *openGL) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	gl.uniformMatrix4fv(location, count, transpose, value)
}
