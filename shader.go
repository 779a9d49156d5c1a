package gr

import (
	"fmt"
	"log/slog"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// Shader is a linked vertex + fragment program with a registry of uniforms
// whose values are buffered until Flush.
type Shader struct {
	ctx     *Context
	program Handle
	valid   bool
	err     error

	uniforms []*Uniform
	byName   map[string]UniformID
}

func (c *Context) NewShader() *Shader {
	return &Shader{ctx: c, byName: make(map[string]UniformID)}
}

// Program returns the program handle, or 0 before a successful Build.
func (s *Shader) Program() Handle { return s.program }

// IsValid reports whether the last Build linked.
func (s *Shader) IsValid() bool { return s.valid && s.program != 0 }

// Err returns the error from the last Build, if any.
func (s *Shader) Err() error { return s.err }

func (s *Shader) compile(kind uint32, stage string, sources []string) (uint32, error) {
	c := s.ctx
	gl := c.gl

	if len(sources) == 0 {
		return 0, &ShaderError{Stage: stage, Log: "no source"}
	}
	id := gl.CreateShader(kind)
	if err := c.check("glCreateShader", kind); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: %s shader", ErrCreateFailed, stage)
	}
	gl.ShaderSource(id, sources)
	if err := c.check("glShaderSource", id, len(sources)); err != nil {
		gl.DeleteShader(id)
		return 0, err
	}
	gl.CompileShader(id)
	if err := c.check("glCompileShader", id); err != nil {
		gl.DeleteShader(id)
		return 0, err
	}

	var status int32
	gl.GetShaderiv(id, glpkg.CompileStatus, &status)
	if status == glpkg.False {
		log := gl.GetShaderInfoLog(id)
		gl.DeleteShader(id)
		if log == "" {
			log = "compile failed"
		}
		return 0, &ShaderError{Stage: stage, Log: log}
	}
	return id, nil
}

// Build compiles the fragment and vertex sources and links them, replacing
// any previous program and its uniforms. On failure the shader is left
// invalid and the returned error is also available from Err.
func (s *Shader) Build(fragment, vertex []string) error {
	err := s.build(fragment, vertex)
	s.err = err
	s.valid = err == nil
	if err != nil {
		s.ctx.log.Warn("shader build failed", slog.Any("err", err))
	}
	return err
}

func (s *Shader) build(fragment, vertex []string) error {
	c := s.ctx
	gl := c.gl

	frag, err := s.compile(glpkg.FragmentShader, "fragment", fragment)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(frag)

	vert, err := s.compile(glpkg.VertexShader, "vertex", vertex)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vert)

	if err := s.deleteProgram(); err != nil {
		return err
	}

	prog := gl.CreateProgram()
	if err := c.check("glCreateProgram"); err != nil {
		return err
	}
	if prog == 0 {
		return fmt.Errorf("%w: program", ErrCreateFailed)
	}

	gl.AttachShader(prog, frag)
	gl.AttachShader(prog, vert)
	gl.LinkProgram(prog)
	if err := c.check("glLinkProgram", prog); err != nil {
		gl.DeleteProgram(prog)
		return err
	}

	var status int32
	gl.GetProgramiv(prog, glpkg.LinkStatus, &status)
	if status == glpkg.False {
		log := gl.GetProgramInfoLog(prog)
		gl.DeleteProgram(prog)
		if log == "" {
			log = "link failed"
		}
		return &ShaderError{Stage: "link", Log: log}
	}

	s.program = Handle(prog)
	c.log.Debug("linked program", slog.Any("handle", s.program))
	return nil
}

func (s *Shader) deleteProgram() error {
	if s.program == 0 {
		return nil
	}
	c := s.ctx
	if c.bound[KindProgram] == s.program {
		if err := s.Unbind(); err != nil {
			return err
		}
	}
	c.gl.DeleteProgram(uint32(s.program))
	if err := c.check("glDeleteProgram", s.program); err != nil {
		return err
	}
	s.program = 0
	s.valid = false
	s.ResetUniforms()
	return nil
}

// Register resolves name in the linked program and reserves count elements
// of typ for it. Registering a name again returns the existing id.
func (s *Shader) Register(name string, typ UniformType, count int) (UniformID, error) {
	if id, ok := s.byName[name]; ok {
		return id, nil
	}
	if !s.IsValid() {
		return InvalidUniform, fmt.Errorf("%w: register %q", ErrNotLinked, name)
	}
	size, err := uniformSizes.lookup(typ)
	if err != nil {
		return InvalidUniform, err
	}
	if count < 1 {
		return InvalidUniform, fmt.Errorf("%w: %q count %d", ErrInvalidSize, name, count)
	}
	if len(s.uniforms) >= s.ctx.cfg.MaxUniforms {
		return InvalidUniform, fmt.Errorf("%w: %q exceeds %d", ErrTooManyUniforms, name, s.ctx.cfg.MaxUniforms)
	}

	c := s.ctx
	loc := c.gl.GetUniformLocation(uint32(s.program), name)
	if err := c.check("glGetUniformLocation", s.program, name); err != nil {
		return InvalidUniform, err
	}
	if loc == -1 {
		return InvalidUniform, fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}

	id := UniformID(len(s.uniforms))
	s.uniforms = append(s.uniforms, &Uniform{
		Name:     name,
		Type:     typ,
		Count:    count,
		Location: loc,
		data:     make([]byte, size*count),
	})
	s.byName[name] = id
	return id, nil
}

// Find returns the id registered for name.
func (s *Shader) Find(name string) (UniformID, bool) {
	id, ok := s.byName[name]
	if !ok {
		return InvalidUniform, false
	}
	return id, true
}

// Name returns the name registered for id, or "".
func (s *Shader) Name(id UniformID) string {
	if u, ok := s.uniform(id); ok {
		return u.Name
	}
	return ""
}

// Uniforms returns the registry in registration order.
func (s *Shader) Uniforms() []*Uniform {
	return append([]*Uniform(nil), s.uniforms...)
}

func (s *Shader) uniform(id UniformID) (*Uniform, bool) {
	if id < 0 || int(id) >= len(s.uniforms) {
		return nil, false
	}
	return s.uniforms[id], true
}

// Set stores data as the pending value of id. data must be exactly the
// uniform's stride. Nothing is sent to the driver until Flush.
func (s *Shader) Set(id UniformID, data []byte) error {
	u, ok := s.uniform(id)
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownUniform, id)
	}
	if len(data) != len(u.data) {
		return fmt.Errorf("%w: %q wants %d bytes, got %d", ErrUniformSize, u.Name, len(u.data), len(data))
	}
	copy(u.data, data)
	u.dirty = true
	return nil
}

func (s *Shader) SetByName(name string, data []byte) error {
	id, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	return s.Set(id, data)
}

func (s *Shader) SetInt(name string, v int32) error {
	return s.SetByName(name, Bytes([]int32{v}))
}

func (s *Shader) SetBool(name string, v bool) error {
	var i int32
	if v {
		i = 1
	}
	return s.SetInt(name, i)
}

func (s *Shader) SetFloat(name string, v float32) error {
	return s.SetByName(name, Bytes([]float32{v}))
}

func (s *Shader) SetVec2(name string, v [2]float32) error { return s.SetByName(name, Bytes(v[:])) }
func (s *Shader) SetVec3(name string, v [3]float32) error { return s.SetByName(name, Bytes(v[:])) }
func (s *Shader) SetVec4(name string, v [4]float32) error { return s.SetByName(name, Bytes(v[:])) }
func (s *Shader) SetMat3(name string, m Mat3) error       { return s.SetByName(name, Bytes(m[:])) }
func (s *Shader) SetMat4(name string, m Mat4) error       { return s.SetByName(name, Bytes(m[:])) }

// Flush uploads every dirty uniform with one native call each and clears
// the dirty flags. The shader must be bound.
func (s *Shader) Flush() error {
	if !s.IsValid() {
		return ErrNotLinked
	}
	if s.ctx.bound[KindProgram] != s.program {
		return fmt.Errorf("%w: program %d", ErrNotBound, s.program)
	}
	for _, u := range s.uniforms {
		if !u.dirty {
			continue
		}
		if err := u.upload(s.ctx); err != nil {
			return fmt.Errorf("flush %q: %w", u.Name, err)
		}
		u.dirty = false
	}
	return nil
}

// ResetUniforms forgets every registered uniform.
func (s *Shader) ResetUniforms() {
	s.uniforms = nil
	s.byName = make(map[string]UniformID)
}

func (s *Shader) Bind() error {
	c := s.ctx
	c.gl.UseProgram(uint32(s.program))
	c.bound[KindProgram] = s.program
	return c.check("glUseProgram", s.program)
}

func (s *Shader) Unbind() error {
	c := s.ctx
	c.gl.UseProgram(0)
	c.bound[KindProgram] = 0
	return c.check("glUseProgram", 0)
}

// Destroy deletes the program and its uniforms.
func (s *Shader) Destroy() error {
	return s.deleteProgram()
}
