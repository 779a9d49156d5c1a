package gr

import (
	"fmt"
	"math"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// Primitive is the topology a draw call assembles vertices into.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

var primitives = newTable("primitive", map[Primitive]uint32{
	Points:        glpkg.Points,
	Lines:         glpkg.Lines,
	LineLoop:      glpkg.LineLoop,
	LineStrip:     glpkg.LineStrip,
	Triangles:     glpkg.Triangles,
	TriangleStrip: glpkg.TriangleStrip,
	TriangleFan:   glpkg.TriangleFan,
})

// checkCounts rejects values the driver's GLsizei/GLint arguments cannot hold.
func checkCounts(counts ...int) error {
	for _, n := range counts {
		if n < 0 {
			return fmt.Errorf("%w: negative count %d", ErrInvalidSize, n)
		}
		if n > math.MaxInt32 {
			return fmt.Errorf("%w: count %d overflows int32", ErrInvalidSize, n)
		}
	}
	return nil
}

func checkOffset(offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidSize, offset)
	}
	return nil
}

// DrawArrays draws count vertices starting at first.
func (c *Context) DrawArrays(p Primitive, first, count int) error {
	mode, err := primitives.lookup(p)
	if err != nil {
		return err
	}
	if err := checkCounts(first, count); err != nil {
		return err
	}
	c.gl.DrawArrays(mode, int32(first), int32(count))
	return c.check("glDrawArrays", mode, first, count)
}

// DrawArraysInstanced draws instances copies of the vertex range.
func (c *Context) DrawArraysInstanced(p Primitive, first, count, instances int) error {
	mode, err := primitives.lookup(p)
	if err != nil {
		return err
	}
	if err := checkCounts(first, count, instances); err != nil {
		return err
	}
	c.gl.DrawArraysInstanced(mode, int32(first), int32(count), int32(instances))
	return c.check("glDrawArraysInstanced", mode, first, count, instances)
}

// DrawElements draws count uint32 indices read from the bound element
// buffer, starting offset bytes in.
func (c *Context) DrawElements(p Primitive, count, offset int) error {
	mode, err := primitives.lookup(p)
	if err != nil {
		return err
	}
	if err := checkCounts(count); err != nil {
		return err
	}
	if err := checkOffset(offset); err != nil {
		return err
	}
	c.gl.DrawElements(mode, int32(count), glpkg.UnsignedInt, uintptr(offset))
	return c.check("glDrawElements", mode, count, offset)
}

func (c *Context) DrawElementsInstanced(p Primitive, count, offset, instances int) error {
	mode, err := primitives.lookup(p)
	if err != nil {
		return err
	}
	if err := checkCounts(count, instances); err != nil {
		return err
	}
	if err := checkOffset(offset); err != nil {
		return err
	}
	c.gl.DrawElementsInstanced(mode, int32(count), glpkg.UnsignedInt, uintptr(offset), int32(instances))
	return c.check("glDrawElementsInstanced", mode, count, offset, instances)
}
