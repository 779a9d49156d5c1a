// Package gltest provides a recording, in-memory implementation of gl.OpenGL.
//
// The fake keeps just enough driver state to exercise the wrapper: handle
// allocation, buffer sizes per bound target, shader compile and program link
// status, and uniform locations derived from `uniform` declarations in the
// shader sources. Every call is appended to Calls.
package gltest

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"github.com/tinyrange/gr/internal/gl"
)

// Call is one recorded entry point invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

type shader struct {
	kind     uint32
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []uint32
	linked   bool
	log      string
	uniforms map[string]int32
}

// Fake implements gl.OpenGL.
type Fake struct {
	Calls []Call

	Vendor   string
	Renderer string
	Version  string

	// FailCompile makes any shader whose source contains the marker fail to
	// compile, with the marker quoted in the info log.
	FailCompile string
	// FailLink makes every link fail.
	FailLink bool
	// ZeroHandles makes every Gen*/Create* call return 0.
	ZeroHandles bool
	// AllocLimit caps the size BufferData actually allocates when non-zero.
	AllocLimit int
	// Status is returned by CheckFramebufferStatus. Zero means complete.
	Status uint32
	// ReadData is copied into the destination of every ReadPixels call.
	ReadData []byte

	next     uint32
	errs     []uint32
	buffers  map[uint32][]byte
	bound    map[uint32]uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	current  uint32
}

var _ gl.OpenGL = (*Fake)(nil)

// New returns a Fake reporting an OpenGL 3.3 core context.
func New() *Fake {
	return &Fake{
		Vendor:   "gltest",
		Renderer: "gltest fake",
		Version:  "3.3.0 gltest",
		buffers:  make(map[uint32][]byte),
		bound:    make(map[uint32]uint32),
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
	}
}

// PushError queues code to be returned by the next GetError.
func (f *Fake) PushError(code uint32) {
	f.errs = append(f.errs, code)
}

// Reset forgets every recorded call.
func (f *Fake) Reset() {
	f.Calls = nil
}

// Named returns the recorded calls to name in order.
func (f *Fake) Named(name string) []Call {
	var out []Call
	for _, c := range f.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times name was called.
func (f *Fake) Count(name string) int {
	return len(f.Named(name))
}

// Last returns the most recent call to name.
func (f *Fake) Last(name string) (Call, bool) {
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Name == name {
			return f.Calls[i], true
		}
	}
	return Call{}, false
}

// BufferContents returns the bytes stored in buffer id.
func (f *Fake) BufferContents(id uint32) []byte {
	return f.buffers[id]
}

func (f *Fake) record(name string, args ...any) {
	f.Calls = append(f.Calls, Call{Name: name, Args: args})
}

func (f *Fake) gen(n int32, out *uint32) {
	ids := unsafe.Slice(out, n)
	for i := range ids {
		if f.ZeroHandles {
			ids[i] = 0
			continue
		}
		f.next++
		ids[i] = f.next
	}
}

func (f *Fake) GetError() uint32 {
	if len(f.errs) == 0 {
		return gl.NoError
	}
	code := f.errs[0]
	f.errs = f.errs[1:]
	return code
}

func (f *Fake) GetString(name uint32) string {
	f.record("glGetString", name)
	switch name {
	case gl.Vendor:
		return f.Vendor
	case gl.Renderer:
		return f.Renderer
	case gl.Version:
		return f.Version
	case gl.ShadingLanguageVersion:
		return "3.30"
	}
	return ""
}

func (f *Fake) ClearColor(r, g, b, a float32) { f.record("glClearColor", r, g, b, a) }
func (f *Fake) Clear(mask uint32)             { f.record("glClear", mask) }
func (f *Fake) Viewport(x, y, w, h int32)     { f.record("glViewport", x, y, w, h) }
func (f *Fake) Enable(cap uint32)             { f.record("glEnable", cap) }
func (f *Fake) Disable(cap uint32)            { f.record("glDisable", cap) }
func (f *Fake) CullFace(mode uint32)          { f.record("glCullFace", mode) }
func (f *Fake) DepthMask(flag bool)           { f.record("glDepthMask", flag) }
func (f *Fake) DepthFunc(fn uint32)           { f.record("glDepthFunc", fn) }
func (f *Fake) BlendFunc(s, d uint32)         { f.record("glBlendFunc", s, d) }
func (f *Fake) PixelStorei(p uint32, v int32) { f.record("glPixelStorei", p, v) }

func (f *Fake) GenBuffers(n int32, buffers *uint32) {
	f.gen(n, buffers)
	f.record("glGenBuffers", n)
}

func (f *Fake) DeleteBuffers(n int32, buffers *uint32) {
	for _, id := range unsafe.Slice(buffers, n) {
		delete(f.buffers, id)
		f.record("glDeleteBuffers", id)
	}
}

func (f *Fake) BindBuffer(target, buffer uint32) {
	f.bound[target] = buffer
	if _, ok := f.buffers[buffer]; !ok && buffer != 0 {
		f.buffers[buffer] = nil
	}
	f.record("glBindBuffer", target, buffer)
}

func (f *Fake) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	f.record("glBufferData", target, size, usage)
	id := f.bound[target]
	if id == 0 {
		f.PushError(gl.InvalidOperation)
		return
	}
	alloc := size
	if f.AllocLimit > 0 && alloc > f.AllocLimit {
		alloc = f.AllocLimit
	}
	buf := make([]byte, alloc)
	if data != nil {
		copy(buf, unsafe.Slice((*byte)(data), size))
	}
	f.buffers[id] = buf
}

func (f *Fake) BufferSubData(target uint32, offset, size int, data unsafe.Pointer) {
	f.record("glBufferSubData", target, offset, size)
	id := f.bound[target]
	buf := f.buffers[id]
	if id == 0 || offset+size > len(buf) {
		f.PushError(gl.InvalidValue)
		return
	}
	copy(buf[offset:], unsafe.Slice((*byte)(data), size))
}

func (f *Fake) GetBufferParameteriv(target, pname uint32, params *int32) {
	f.record("glGetBufferParameteriv", target, pname)
	if pname == gl.BufferSize {
		*params = int32(len(f.buffers[f.bound[target]]))
	}
}

func (f *Fake) GenVertexArrays(n int32, arrays *uint32) {
	f.gen(n, arrays)
	f.record("glGenVertexArrays", n)
}

func (f *Fake) DeleteVertexArrays(n int32, arrays *uint32) {
	for _, id := range unsafe.Slice(arrays, n) {
		f.record("glDeleteVertexArrays", id)
	}
}

func (f *Fake) BindVertexArray(array uint32) { f.record("glBindVertexArray", array) }

func (f *Fake) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	f.record("glVertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (f *Fake) VertexAttribIPointer(index uint32, size int32, xtype uint32, stride int32, offset uintptr) {
	f.record("glVertexAttribIPointer", index, size, xtype, stride, offset)
}

func (f *Fake) VertexAttribDivisor(index, divisor uint32) {
	f.record("glVertexAttribDivisor", index, divisor)
}

func (f *Fake) EnableVertexAttribArray(index uint32) {
	f.record("glEnableVertexAttribArray", index)
}

func (f *Fake) DrawArrays(mode uint32, first, count int32) {
	f.record("glDrawArrays", mode, first, count)
}

func (f *Fake) DrawArraysInstanced(mode uint32, first, count, instances int32) {
	f.record("glDrawArraysInstanced", mode, first, count, instances)
}

func (f *Fake) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	f.record("glDrawElements", mode, count, xtype, offset)
}

func (f *Fake) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instances int32) {
	f.record("glDrawElementsInstanced", mode, count, xtype, offset, instances)
}

func (f *Fake) GenTextures(n int32, textures *uint32) {
	f.gen(n, textures)
	f.record("glGenTextures", n)
}

func (f *Fake) DeleteTextures(n int32, textures *uint32) {
	for _, id := range unsafe.Slice(textures, n) {
		f.record("glDeleteTextures", id)
	}
}

func (f *Fake) BindTexture(target, texture uint32) { f.record("glBindTexture", target, texture) }
func (f *Fake) ActiveTexture(texture uint32)       { f.record("glActiveTexture", texture) }

func (f *Fake) TexImage2D(target uint32, level, internalformat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	f.record("glTexImage2D", target, level, internalformat, width, height, border, format, xtype, pixels != nil)
}

func (f *Fake) TexParameteri(target, pname uint32, param int32) {
	f.record("glTexParameteri", target, pname, param)
}

func (f *Fake) GenerateMipmap(target uint32) { f.record("glGenerateMipmap", target) }

func (f *Fake) GenFramebuffers(n int32, framebuffers *uint32) {
	f.gen(n, framebuffers)
	f.record("glGenFramebuffers", n)
}

func (f *Fake) DeleteFramebuffers(n int32, framebuffers *uint32) {
	for _, id := range unsafe.Slice(framebuffers, n) {
		f.record("glDeleteFramebuffers", id)
	}
}

func (f *Fake) BindFramebuffer(target, framebuffer uint32) {
	f.record("glBindFramebuffer", target, framebuffer)
}

func (f *Fake) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	f.record("glFramebufferTexture2D", target, attachment, textarget, texture, level)
}

func (f *Fake) FramebufferRenderbuffer(target, attachment, rbtarget, renderbuffer uint32) {
	f.record("glFramebufferRenderbuffer", target, attachment, rbtarget, renderbuffer)
}

func (f *Fake) CheckFramebufferStatus(target uint32) uint32 {
	f.record("glCheckFramebufferStatus", target)
	if f.Status == 0 {
		return gl.FramebufferComplete
	}
	return f.Status
}

func (f *Fake) ReadBuffer(mode uint32) { f.record("glReadBuffer", mode) }

func (f *Fake) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	f.record("glReadPixels", x, y, width, height, format, xtype)
	if pixels == nil || len(f.ReadData) == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(pixels), len(f.ReadData)), f.ReadData)
}

func (f *Fake) GenRenderbuffers(n int32, renderbuffers *uint32) {
	f.gen(n, renderbuffers)
	f.record("glGenRenderbuffers", n)
}

func (f *Fake) DeleteRenderbuffers(n int32, renderbuffers *uint32) {
	for _, id := range unsafe.Slice(renderbuffers, n) {
		f.record("glDeleteRenderbuffers", id)
	}
}

func (f *Fake) BindRenderbuffer(target, renderbuffer uint32) {
	f.record("glBindRenderbuffer", target, renderbuffer)
}

func (f *Fake) RenderbufferStorage(target, internalformat uint32, width, height int32) {
	f.record("glRenderbufferStorage", target, internalformat, width, height)
}

func (f *Fake) CreateShader(kind uint32) uint32 {
	f.record("glCreateShader", kind)
	if f.ZeroHandles {
		return 0
	}
	f.next++
	f.shaders[f.next] = &shader{kind: kind}
	return f.next
}

func (f *Fake) ShaderSource(id uint32, sources []string) {
	f.record("glShaderSource", id, len(sources))
	if s, ok := f.shaders[id]; ok {
		s.source = strings.Join(sources, "")
	}
}

func (f *Fake) CompileShader(id uint32) {
	f.record("glCompileShader", id)
	s, ok := f.shaders[id]
	if !ok {
		f.PushError(gl.InvalidValue)
		return
	}
	if f.FailCompile != "" && strings.Contains(s.source, f.FailCompile) {
		s.compiled = false
		s.log = fmt.Sprintf("0:1(1): error: syntax error, unexpected %q", f.FailCompile)
		return
	}
	s.compiled = true
	s.log = ""
}

func (f *Fake) GetShaderiv(id, pname uint32, params *int32) {
	f.record("glGetShaderiv", id, pname)
	s, ok := f.shaders[id]
	if !ok {
		*params = 0
		return
	}
	switch pname {
	case gl.CompileStatus:
		*params = boolInt(s.compiled)
	case gl.InfoLogLength:
		*params = int32(len(s.log))
	}
}

func (f *Fake) GetShaderInfoLog(id uint32) string {
	if s, ok := f.shaders[id]; ok {
		return s.log
	}
	return ""
}

func (f *Fake) DeleteShader(id uint32) {
	f.record("glDeleteShader", id)
	delete(f.shaders, id)
}

func (f *Fake) CreateProgram() uint32 {
	f.record("glCreateProgram")
	if f.ZeroHandles {
		return 0
	}
	f.next++
	f.programs[f.next] = &program{}
	return f.next
}

func (f *Fake) AttachShader(prog, sh uint32) {
	f.record("glAttachShader", prog, sh)
	if p, ok := f.programs[prog]; ok {
		p.shaders = append(p.shaders, sh)
	}
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)`)

func (f *Fake) LinkProgram(prog uint32) {
	f.record("glLinkProgram", prog)
	p, ok := f.programs[prog]
	if !ok {
		f.PushError(gl.InvalidValue)
		return
	}
	if f.FailLink {
		p.linked = false
		p.log = "error: linking failed"
		return
	}
	p.linked = true
	p.uniforms = make(map[string]int32)
	for _, id := range p.shaders {
		s, ok := f.shaders[id]
		if !ok {
			continue
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			if _, seen := p.uniforms[m[1]]; !seen {
				p.uniforms[m[1]] = int32(len(p.uniforms))
			}
		}
	}
}

func (f *Fake) GetProgramiv(prog, pname uint32, params *int32) {
	f.record("glGetProgramiv", prog, pname)
	p, ok := f.programs[prog]
	if !ok {
		*params = 0
		return
	}
	switch pname {
	case gl.LinkStatus:
		*params = boolInt(p.linked)
	case gl.InfoLogLength:
		*params = int32(len(p.log))
	}
}

func (f *Fake) GetProgramInfoLog(prog uint32) string {
	if p, ok := f.programs[prog]; ok {
		return p.log
	}
	return ""
}

func (f *Fake) UseProgram(prog uint32) {
	f.record("glUseProgram", prog)
	f.current = prog
}

func (f *Fake) DeleteProgram(prog uint32) {
	f.record("glDeleteProgram", prog)
	delete(f.programs, prog)
}

func (f *Fake) GetUniformLocation(prog uint32, name string) int32 {
	f.record("glGetUniformLocation", prog, name)
	p, ok := f.programs[prog]
	if !ok || !p.linked {
		f.PushError(gl.InvalidOperation)
		return -1
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (f *Fake) Uniform1iv(location, count int32, value *int32) {
	f.record("glUniform1iv", location, count, append([]int32(nil), unsafe.Slice(value, count)...))
}

func (f *Fake) Uniform1fv(location, count int32, value *float32) {
	f.record("glUniform1fv", location, count, floats(value, count))
}

func (f *Fake) Uniform2fv(location, count int32, value *float32) {
	f.record("glUniform2fv", location, count, floats(value, 2*count))
}

func (f *Fake) Uniform3fv(location, count int32, value *float32) {
	f.record("glUniform3fv", location, count, floats(value, 3*count))
}

func (f *Fake) Uniform4fv(location, count int32, value *float32) {
	f.record("glUniform4fv", location, count, floats(value, 4*count))
}

func (f *Fake) UniformMatrix3fv(location, count int32, transpose bool, value *float32) {
	f.record("glUniformMatrix3fv", location, count, transpose, floats(value, 9*count))
}

func (f *Fake) UniformMatrix4fv(location, count int32, transpose bool, value *float32) {
	f.record("glUniformMatrix4fv", location, count, transpose, floats(value, 16*count))
}

func floats(p *float32, n int32) []float32 {
	return append([]float32(nil), unsafe.Slice(p, n)...)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
