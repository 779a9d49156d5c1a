package gr

import (
	"fmt"
	"math"
	"unsafe"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// VertexArray records attribute layout for a set of buffers.
type VertexArray struct {
	ctx *Context
	id  Handle
}

// Attribute describes one vertex input.
type Attribute struct {
	Index uint32
	// Size is the number of components, 1 to 4.
	Size   int
	Offset int
	// Integer selects the integer attribute path (ivec in the shader).
	Integer bool
	Divisor uint32
}

// Layout is an interleaved set of attributes sharing one stride.
type Layout struct {
	Stride     int
	Attributes []Attribute
}

// Vertex3D is the interleaved vertex used for meshes:
//
//	position: vec3 (location 0)
//	normal:   vec3 (location 1)
//	texCoord: vec2 (location 2)
type Vertex3D struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Vertex3DLayout matches Vertex3D.
var Vertex3DLayout = Layout{
	Stride: int(unsafe.Sizeof(Vertex3D{})),
	Attributes: []Attribute{
		{Index: 0, Size: 3, Offset: int(unsafe.Offsetof(Vertex3D{}.Position))},
		{Index: 1, Size: 3, Offset: int(unsafe.Offsetof(Vertex3D{}.Normal))},
		{Index: 2, Size: 2, Offset: int(unsafe.Offsetof(Vertex3D{}.TexCoord))},
	},
}

// NewVertexArray allocates a vertex array object.
func (c *Context) NewVertexArray() (*VertexArray, error) {
	var id uint32
	c.gl.GenVertexArrays(1, &id)
	if err := c.check("glGenVertexArrays", 1); err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: vertex array", ErrCreateFailed)
	}
	return &VertexArray{ctx: c, id: Handle(id)}, nil
}

func (v *VertexArray) ID() Handle    { return v.id }
func (v *VertexArray) IsValid() bool { return v.id != 0 }
func (v *VertexArray) IsBound() bool { return v.id != 0 && v.ctx.bound[KindVertexArray] == v.id }

func (v *VertexArray) Bind() error {
	c := v.ctx
	c.gl.BindVertexArray(uint32(v.id))
	c.bound[KindVertexArray] = v.id
	return c.check("glBindVertexArray", v.id)
}

func (v *VertexArray) Unbind() error {
	c := v.ctx
	c.gl.BindVertexArray(0)
	c.bound[KindVertexArray] = 0
	return c.check("glBindVertexArray", 0)
}

// Destroy deletes the vertex array. It is safe to call more than once.
func (v *VertexArray) Destroy() error {
	if v.id == 0 {
		return nil
	}
	c := v.ctx
	if c.bound[KindVertexArray] == v.id {
		c.bound[KindVertexArray] = 0
	}
	id := uint32(v.id)
	c.gl.DeleteVertexArrays(1, &id)
	v.id = 0
	return c.check("glDeleteVertexArrays", 1, id)
}

func (v *VertexArray) requireBound() error {
	if !v.IsBound() {
		return fmt.Errorf("%w: vertex array %d", ErrNotBound, v.id)
	}
	return nil
}

func checkAttrib(size, stride, offset int) error {
	if size < 1 || size > 4 {
		return fmt.Errorf("%w: attribute size %d", ErrInvalidSize, size)
	}
	if stride < 0 || stride > math.MaxInt32 || offset < 0 {
		return fmt.Errorf("%w: stride %d offset %d", ErrInvalidSize, stride, offset)
	}
	return nil
}

// SetAttrib configures a float attribute read from the bound vertex buffer
// and enables it.
func (v *VertexArray) SetAttrib(index uint32, size, stride, offset int) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	if err := checkAttrib(size, stride, offset); err != nil {
		return err
	}
	c := v.ctx
	c.gl.VertexAttribPointer(index, int32(size), glpkg.Float, false, int32(stride), uintptr(offset))
	if err := c.check("glVertexAttribPointer", index, size, uint32(glpkg.Float), false, stride, offset); err != nil {
		return err
	}
	c.gl.EnableVertexAttribArray(index)
	return c.check("glEnableVertexAttribArray", index)
}

// SetAttribI is SetAttrib for integer attributes.
func (v *VertexArray) SetAttribI(index uint32, size, stride, offset int) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	if err := checkAttrib(size, stride, offset); err != nil {
		return err
	}
	c := v.ctx
	c.gl.VertexAttribIPointer(index, int32(size), glpkg.Int, int32(stride), uintptr(offset))
	if err := c.check("glVertexAttribIPointer", index, size, uint32(glpkg.Int), stride, offset); err != nil {
		return err
	}
	c.gl.EnableVertexAttribArray(index)
	return c.check("glEnableVertexAttribArray", index)
}

// SetAttribDivisor makes attribute index advance once per divisor instances.
func (v *VertexArray) SetAttribDivisor(index, divisor uint32) error {
	if err := v.requireBound(); err != nil {
		return err
	}
	c := v.ctx
	c.gl.VertexAttribDivisor(index, divisor)
	return c.check("glVertexAttribDivisor", index, divisor)
}

// SetLayout applies every attribute in l.
func (v *VertexArray) SetLayout(l Layout) error {
	for _, a := range l.Attributes {
		var err error
		if a.Integer {
			err = v.SetAttribI(a.Index, a.Size, l.Stride, a.Offset)
		} else {
			err = v.SetAttrib(a.Index, a.Size, l.Stride, a.Offset)
		}
		if err != nil {
			return fmt.Errorf("attribute %d: %w", a.Index, err)
		}
		if a.Divisor != 0 {
			if err := v.SetAttribDivisor(a.Index, a.Divisor); err != nil {
				return fmt.Errorf("attribute %d: %w", a.Index, err)
			}
		}
	}
	return nil
}
