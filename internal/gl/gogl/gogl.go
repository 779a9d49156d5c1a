//go:build gogl

// Package gogl implements gl.OpenGL on top of the cgo bindings in
// github.com/go-gl/gl. It is selected with the gogl build tag on platforms
// where dlopen based loading is not available.
package gogl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	glapi "github.com/tinyrange/gr/internal/gl"
)

type api struct{}

var _ glapi.OpenGL = api{}

// Load initializes the go-gl function pointers for the current context.
func Load() (glapi.OpenGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init go-gl: %w", err)
	}
	return api{}, nil
}

func (api) GetError() uint32 { return gl.GetError() }

func (api) GetString(name uint32) string {
	p := gl.GetString(name)
	if p == nil {
		return ""
	}
	return gl.GoStr(p)
}

func (api) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (api) Clear(mask uint32)             { gl.Clear(mask) }
func (api) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }
func (api) Enable(cap uint32)             { gl.Enable(cap) }
func (api) Disable(cap uint32)            { gl.Disable(cap) }
func (api) CullFace(mode uint32)          { gl.CullFace(mode) }
func (api) DepthMask(flag bool)           { gl.DepthMask(flag) }
func (api) DepthFunc(fn uint32)           { gl.DepthFunc(fn) }
func (api) BlendFunc(s, d uint32)         { gl.BlendFunc(s, d) }
func (api) PixelStorei(p uint32, v int32) { gl.PixelStorei(p, v) }

func (api) GenBuffers(n int32, buffers *uint32)    { gl.GenBuffers(n, buffers) }
func (api) DeleteBuffers(n int32, buffers *uint32) { gl.DeleteBuffers(n, buffers) }
func (api) BindBuffer(target, buffer uint32)       { gl.BindBuffer(target, buffer) }

func (api) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (api) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	gl.BufferSubData(target, offset, size, data)
}

func (api) GetBufferParameteriv(target, pname uint32, params *int32) {
	gl.GetBufferParameteriv(target, pname, params)
}

func (api) GenVertexArrays(n int32, arrays *uint32)    { gl.GenVertexArrays(n, arrays) }
func (api) DeleteVertexArrays(n int32, arrays *uint32) { gl.DeleteVertexArrays(n, arrays) }
func (api) BindVertexArray(array uint32)               { gl.BindVertexArray(array) }

func (api) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(int(offset)))
}

func (api) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	gl.VertexAttribIPointer(index, size, xtype, stride, gl.PtrOffset(int(offset)))
}

func (api) VertexAttribDivisor(index, divisor uint32) { gl.VertexAttribDivisor(index, divisor) }
func (api) EnableVertexAttribArray(index uint32)      { gl.EnableVertexAttribArray(index) }

func (api) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (api) DrawArraysInstanced(mode uint32, first, count, instances int32) {
	gl.DrawArraysInstanced(mode, first, count, instances)
}

func (api) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(int(offset)))
}

func (api) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instances int32) {
	gl.DrawElementsInstanced(mode, count, xtype, gl.PtrOffset(int(offset)), instances)
}

func (api) GenTextures(n int32, textures *uint32)    { gl.GenTextures(n, textures) }
func (api) DeleteTextures(n int32, textures *uint32) { gl.DeleteTextures(n, textures) }
func (api) BindTexture(target, texture uint32)       { gl.BindTexture(target, texture) }
func (api) ActiveTexture(texture uint32)             { gl.ActiveTexture(texture) }

func (api) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.TexImage2D(target, level, internalformat, width, height, border, format, xtype, pixels)
}

func (api) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }
func (api) GenerateMipmap(target uint32)                    { gl.GenerateMipmap(target) }

func (api) GenFramebuffers(n int32, framebuffers *uint32)    { gl.GenFramebuffers(n, framebuffers) }
func (api) DeleteFramebuffers(n int32, framebuffers *uint32) { gl.DeleteFramebuffers(n, framebuffers) }
func (api) BindFramebuffer(target, framebuffer uint32)       { gl.BindFramebuffer(target, framebuffer) }

func (api) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}

func (api) FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer)
}

func (api) CheckFramebufferStatus(target uint32) uint32 { return gl.CheckFramebufferStatus(target) }
func (api) ReadBuffer(mode uint32)                      { gl.ReadBuffer(mode) }

func (api) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.ReadPixels(x, y, width, height, format, xtype, pixels)
}

func (api) GenRenderbuffers(n int32, rbs *uint32)    { gl.GenRenderbuffers(n, rbs) }
func (api) DeleteRenderbuffers(n int32, rbs *uint32) { gl.DeleteRenderbuffers(n, rbs) }
func (api) BindRenderbuffer(target, rb uint32)       { gl.BindRenderbuffer(target, rb) }

func (api) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalformat, width, height)
}

func (api) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (api) ShaderSource(shader uint32, sources []string) {
	if len(sources) == 0 {
		return
	}
	terminated := make([]string, len(sources))
	for i, s := range sources {
		terminated[i] = s + "\x00"
	}
	csources, free := gl.Strs(terminated...)
	defer free()
	gl.ShaderSource(shader, int32(len(terminated)), csources, nil)
}

func (api) CompileShader(shader uint32)                  { gl.CompileShader(shader) }
func (api) GetShaderiv(shader, pname uint32, p *int32)   { gl.GetShaderiv(shader, pname, p) }
func (api) DeleteShader(shader uint32)                   { gl.DeleteShader(shader) }
func (api) CreateProgram() uint32                        { return gl.CreateProgram() }
func (api) AttachShader(program, shader uint32)          { gl.AttachShader(program, shader) }
func (api) LinkProgram(program uint32)                   { gl.LinkProgram(program) }
func (api) GetProgramiv(program, pname uint32, p *int32) { gl.GetProgramiv(program, pname, p) }
func (api) UseProgram(program uint32)                    { gl.UseProgram(program) }
func (api) DeleteProgram(program uint32)                 { gl.DeleteProgram(program) }

func (api) GetShaderInfoLog(shader uint32) string {
	var n int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetShaderInfoLog(shader, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (api) GetProgramInfoLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetProgramInfoLog(program, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (api) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (api) Uniform1iv(loc, count int32, v *int32)   { gl.Uniform1iv(loc, count, v) }
func (api) Uniform1fv(loc, count int32, v *float32) { gl.Uniform1fv(loc, count, v) }
func (api) Uniform2fv(loc, count int32, v *float32) { gl.Uniform2fv(loc, count, v) }
func (api) Uniform3fv(loc, count int32, v *float32) { gl.Uniform3fv(loc, count, v) }
func (api) Uniform4fv(loc, count int32, v *float32) { gl.Uniform4fv(loc, count, v) }

func (api) UniformMatrix3fv(loc, count int32, transpose bool, v *float32) {
	gl.UniformMatrix3fv(loc, count, transpose, v)
}

func (api) UniformMatrix4fv(loc, count int32, transpose bool, v *float32) {
	gl.UniformMatrix4fv(loc, count, transpose, v)
}
