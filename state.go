package gr

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"

	glpkg "github.com/tinyrange/gr/internal/gl"
)

// RenderState names both the states SetState changes and the values it
// accepts. Values are distinct bits so clear masks and cull faces combine
// with |.
type RenderState uint32

const (
	False            RenderState = 1 << 1
	True             RenderState = 1 << 2
	BackgroundColor  RenderState = 1 << 3
	Background       RenderState = 1 << 4
	DepthBuffer      RenderState = 1 << 5
	ColorBuffer      RenderState = 1 << 6
	CullFace         RenderState = 1 << 7
	Cull             RenderState = 1 << 8
	Front            RenderState = 1 << 9
	Back             RenderState = 1 << 10
	Viewport         RenderState = 1 << 11
	DepthTest        RenderState = 1 << 12
	DepthMask        RenderState = 1 << 13
	DepthFunc        RenderState = 1 << 14
	DepthAlways      RenderState = 1 << 15
	DepthNever       RenderState = 1 << 16
	DepthLess        RenderState = 1 << 17
	DepthEqual       RenderState = 1 << 18
	DepthLequal      RenderState = 1 << 19
	DepthGreater     RenderState = 1 << 20
	DepthNotequal    RenderState = 1 << 21
	DepthGequal      RenderState = 1 << 22
	Multisample      RenderState = 1 << 23
	FramebufferSRGB  RenderState = 1 << 24
	Blend            RenderState = 1 << 25
	SrcAlpha         RenderState = 1 << 26
	OneMinusSrcAlpha RenderState = 1 << 27
)

var renderStateNames = map[RenderState]string{
	False:            "False",
	True:             "True",
	BackgroundColor:  "BackgroundColor",
	Background:       "Background",
	DepthBuffer:      "DepthBuffer",
	ColorBuffer:      "ColorBuffer",
	CullFace:         "CullFace",
	Cull:             "Cull",
	Front:            "Front",
	Back:             "Back",
	Viewport:         "Viewport",
	DepthTest:        "DepthTest",
	DepthMask:        "DepthMask",
	DepthFunc:        "DepthFunc",
	DepthAlways:      "DepthAlways",
	DepthNever:       "DepthNever",
	DepthLess:        "DepthLess",
	DepthEqual:       "DepthEqual",
	DepthLequal:      "DepthLequal",
	DepthGreater:     "DepthGreater",
	DepthNotequal:    "DepthNotequal",
	DepthGequal:      "DepthGequal",
	Multisample:      "Multisample",
	FramebufferSRGB:  "FramebufferSRGB",
	Blend:            "Blend",
	SrcAlpha:         "SrcAlpha",
	OneMinusSrcAlpha: "OneMinusSrcAlpha",
}

// String names a single state, or joins the names of a combined mask.
func (s RenderState) String() string {
	if name, ok := renderStateNames[s]; ok {
		return name
	}
	var parts []string
	for bit := RenderState(1); bit != 0; bit <<= 1 {
		if s&bit == 0 {
			continue
		}
		name, ok := renderStateNames[bit]
		if !ok {
			return fmt.Sprintf("RenderState(0x%X)", uint32(s))
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "RenderState(0x0)"
	}
	return strings.Join(parts, "|")
}

var depthFuncs = newTable("depth function", map[RenderState]uint32{
	DepthAlways:   glpkg.Always,
	DepthNever:    glpkg.Never,
	DepthLess:     glpkg.Less,
	DepthEqual:    glpkg.Equal,
	DepthLequal:   glpkg.Lequal,
	DepthGreater:  glpkg.Greater,
	DepthNotequal: glpkg.Notequal,
	DepthGequal:   glpkg.Gequal,
})

var blendFactors = newTable("blend factor", map[RenderState]uint32{
	False:            glpkg.Zero,
	True:             glpkg.One,
	SrcAlpha:         glpkg.SrcAlpha,
	OneMinusSrcAlpha: glpkg.OneMinusSrcAlpha,
})

var switches = newTable("switch value", map[RenderState]bool{
	False: false,
	True:  true,
})

var capabilities = map[RenderState]uint32{
	CullFace:        glpkg.CullFace,
	DepthTest:       glpkg.DepthTest,
	Multisample:     glpkg.Multisample,
	FramebufferSRGB: glpkg.FramebufferSRGB,
	Blend:           glpkg.Blend,
}

// SetState applies value to state.
//
//	Background        clear; value is DepthBuffer|ColorBuffer
//	Cull              cull Front, Back or Front|Back faces
//	DepthMask         True or False
//	DepthFunc         one of the Depth* comparisons
//	SrcAlpha          blend source alpha with destination factor value
//	CullFace, DepthTest, Multisample, FramebufferSRGB, Blend
//	                  enable with True, disable with False
//	Viewport, BackgroundColor
//	                  carry a rectangle or color, set them with
//	                  SetViewport and SetClearColor
//
// States outside this set are logged and ignored. A value the state does
// not accept is a *LookupError.
func (c *Context) SetState(state, value RenderState) error {
	gl := c.gl

	if capability, ok := capabilities[state]; ok {
		on, err := switches.lookup(value)
		if err != nil {
			return err
		}
		if on {
			gl.Enable(capability)
			return c.check("glEnable", capability)
		}
		gl.Disable(capability)
		return c.check("glDisable", capability)
	}

	switch state {
	case Background:
		var mask uint32
		if value&DepthBuffer != 0 {
			mask |= glpkg.DepthBufferBit
		}
		if value&ColorBuffer != 0 {
			mask |= glpkg.ColorBufferBit
		}
		gl.Clear(mask)
		return c.check("glClear", mask)

	case Cull:
		mode := uint32(glpkg.Front)
		switch {
		case value&(Front|Back) == Front|Back:
			mode = glpkg.FrontAndBack
		case value&Back != 0:
			mode = glpkg.Back
		}
		gl.CullFace(mode)
		return c.check("glCullFace", mode)

	case DepthMask:
		on, err := switches.lookup(value)
		if err != nil {
			return err
		}
		gl.DepthMask(on)
		return c.check("glDepthMask", on)

	case DepthFunc:
		fn, err := depthFuncs.lookup(value)
		if err != nil {
			return err
		}
		gl.DepthFunc(fn)
		return c.check("glDepthFunc", fn)

	case SrcAlpha:
		dst, err := blendFactors.lookup(value)
		if err != nil {
			return err
		}
		gl.BlendFunc(glpkg.SrcAlpha, dst)
		return c.check("glBlendFunc", uint32(glpkg.SrcAlpha), dst)

	case Viewport:
		c.log.Warn("viewport takes a rectangle, use SetViewport")
		return nil

	case BackgroundColor:
		c.log.Warn("background color takes a color, use SetClearColor")
		return nil
	}

	c.log.Warn("unhandled render state",
		slog.String("state", state.String()),
		slog.String("value", value.String()),
	)
	return nil
}

// SetClearColor sets the color Background clears to.
func (c *Context) SetClearColor(col color.Color) error {
	n := color.NRGBA64Model.Convert(col).(color.NRGBA64)
	r := float32(n.R) / 0xffff
	g := float32(n.G) / 0xffff
	b := float32(n.B) / 0xffff
	a := float32(n.A) / 0xffff
	c.gl.ClearColor(r, g, b, a)
	return c.check("glClearColor", r, g, b, a)
}

// SetViewport maps normalized device coordinates onto rect.
func (c *Context) SetViewport(rect image.Rectangle) error {
	if rect.Dx() < 0 || rect.Dy() < 0 {
		return fmt.Errorf("%w: viewport %v", ErrInvalidSize, rect)
	}
	x, y, w, h := int32(rect.Min.X), int32(rect.Min.Y), int32(rect.Dx()), int32(rect.Dy())
	c.gl.Viewport(x, y, w, h)
	return c.check("glViewport", x, y, w, h)
}
