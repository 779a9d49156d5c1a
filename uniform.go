package gr

import (
	"fmt"
	"unsafe"
)

// UniformType is the GLSL type of a uniform.
type UniformType int

const (
	UniformBool UniformType = iota
	UniformInt
	UniformFloat
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat3
	UniformMat4
	UniformSampler2D
	UniformSamplerCube
)

func (t UniformType) String() string {
	switch t {
	case UniformBool:
		return "bool"
	case UniformInt:
		return "int"
	case UniformFloat:
		return "float"
	case UniformVec2:
		return "vec2"
	case UniformVec3:
		return "vec3"
	case UniformVec4:
		return "vec4"
	case UniformMat3:
		return "mat3"
	case UniformMat4:
		return "mat4"
	case UniformSampler2D:
		return "sampler2D"
	case UniformSamplerCube:
		return "samplerCube"
	default:
		return fmt.Sprintf("UniformType(%d)", int(t))
	}
}

// Element sizes in bytes. Booleans and samplers upload as 32-bit ints.
var uniformSizes = newTable("uniform type", map[UniformType]int{
	UniformBool:        4,
	UniformInt:         4,
	UniformFloat:       4,
	UniformVec2:        8,
	UniformVec3:        12,
	UniformVec4:        16,
	UniformMat3:        36,
	UniformMat4:        64,
	UniformSampler2D:   4,
	UniformSamplerCube: 4,
})

// UniformID indexes a shader's uniform registry.
type UniformID int

const InvalidUniform UniformID = -1

// Uniform is one registered shader input and its pending value.
type Uniform struct {
	Name     string
	Type     UniformType
	Count    int
	Location int32

	data  []byte
	dirty bool
}

// Stride is the byte size of the uniform's value: element size times count.
func (u *Uniform) Stride() int { return len(u.data) }

// Dirty reports whether the value changed since the last flush.
func (u *Uniform) Dirty() bool { return u.dirty }

// Value returns a copy of the pending value.
func (u *Uniform) Value() []byte { return append([]byte(nil), u.data...) }

func (u *Uniform) ints() *int32     { return (*int32)(unsafe.Pointer(&u.data[0])) }
func (u *Uniform) floats() *float32 { return (*float32)(unsafe.Pointer(&u.data[0])) }

// upload issues the one native call matching the uniform's type.
func (u *Uniform) upload(c *Context) error {
	gl := c.gl
	n := int32(u.Count)
	switch u.Type {
	case UniformBool, UniformInt, UniformSampler2D, UniformSamplerCube:
		gl.Uniform1iv(u.Location, n, u.ints())
		return c.check("glUniform1iv", u.Location, n)
	case UniformFloat:
		gl.Uniform1fv(u.Location, n, u.floats())
		return c.check("glUniform1fv", u.Location, n)
	case UniformVec2:
		gl.Uniform2fv(u.Location, n, u.floats())
		return c.check("glUniform2fv", u.Location, n)
	case UniformVec3:
		gl.Uniform3fv(u.Location, n, u.floats())
		return c.check("glUniform3fv", u.Location, n)
	case UniformVec4:
		gl.Uniform4fv(u.Location, n, u.floats())
		return c.check("glUniform4fv", u.Location, n)
	case UniformMat3:
		gl.UniformMatrix3fv(u.Location, n, false, u.floats())
		return c.check("glUniformMatrix3fv", u.Location, n, false)
	case UniformMat4:
		gl.UniformMatrix4fv(u.Location, n, false, u.floats())
		return c.check("glUniformMatrix4fv", u.Location, n, false)
	default:
		return &LookupError{Table: "uniform type", Value: u.Type}
	}
}
