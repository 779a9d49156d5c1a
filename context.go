// Package gr wraps the OpenGL object model: buffers, vertex arrays, textures,
// framebuffers, renderbuffers, shader programs and render state.
//
// All state that OpenGL keeps per context, such as the currently bound
// object of each kind, lives in a Context. Every method must be called on
// the OS thread where the GL context is current.
package gr

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tinyrange/gr/internal/calltrace"
	glpkg "github.com/tinyrange/gr/internal/gl"
	"github.com/tinyrange/gr/internal/osthread"
)

// Handle identifies a driver object. Zero is never a valid handle.
type Handle uint32

// Kind names a class of bindable objects. Each kind has one binding slot.
type Kind int

const (
	KindVertexArray Kind = iota
	KindBuffer
	KindTexture
	KindFramebuffer
	KindRenderbuffer
	KindProgram

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindVertexArray:
		return "vertex array"
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindFramebuffer:
		return "framebuffer"
	case KindRenderbuffer:
		return "renderbuffer"
	case KindProgram:
		return "program"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Info describes the driver behind a Context.
type Info struct {
	Vendor   string
	Renderer string
	Version  string
	GLSL     string
}

// Context owns the binding slots and the buffer registry for one GL context.
type Context struct {
	gl  glpkg.OpenGL
	cfg Config
	log *slog.Logger

	trace *calltrace.Log
	owner int

	bound      [numKinds]Handle
	activeUnit uint32

	// textureTarget is the target the texture slot's handle is bound on.
	textureTarget uint32

	// buffers maps every live buffer to its target.
	buffers map[Handle]bufferEntry
	// targets holds the buffer bound on each GL buffer target.
	targets map[uint32]Handle

	info Info
}

type bufferEntry struct {
	typ  BufferType
	size int
}

// Open loads the GL library named by cfg and wraps the context that is
// current on the calling thread.
func Open(cfg Config) (*Context, error) {
	api, err := loadBackend(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("load GL: %w", err)
	}
	return NewContext(api, cfg)
}

// NewContext wraps an already loaded API.
func NewContext(api glpkg.OpenGL, cfg Config) (*Context, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	c := &Context{
		gl:      api,
		cfg:     cfg,
		log:     cfg.Logger,
		buffers: make(map[Handle]bufferEntry),
		targets: make(map[uint32]Handle),
	}
	c.info = Info{
		Vendor:   api.GetString(glpkg.Vendor),
		Renderer: api.GetString(glpkg.Renderer),
		Version:  api.GetString(glpkg.Version),
		GLSL:     api.GetString(glpkg.ShadingLanguageVersion),
	}

	if cfg.MinVersion != "" {
		ok, err := versionAtLeast(c.info.Version, cfg.MinVersion)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("OpenGL %s+ required, got version: %s", cfg.MinVersion, c.info.Version)
		}
	}

	if cfg.ThreadCheck {
		if osthread.Supported() {
			c.owner = osthread.ID()
		} else {
			c.log.Warn("thread check unavailable on this platform")
		}
	}

	if cfg.TraceFile != "" {
		trace, err := calltrace.Create(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("open trace: %w", err)
		}
		c.trace = trace
	}

	c.log.Debug("opened context",
		slog.String("vendor", c.info.Vendor),
		slog.String("renderer", c.info.Renderer),
		slog.String("version", c.info.Version),
	)
	return c, nil
}

// API returns the native interface the context calls through.
func (c *Context) API() glpkg.OpenGL { return c.gl }

// Info returns the driver strings read when the context was opened.
func (c *Context) Info() Info { return c.info }

// Bound returns the handle in the binding slot for kind, or 0.
func (c *Context) Bound(kind Kind) Handle {
	if kind < 0 || kind >= numKinds {
		return 0
	}
	return c.bound[kind]
}

// ActiveUnit returns the texture unit selected by the last texture bind.
func (c *Context) ActiveUnit() uint32 { return c.activeUnit }

// Close releases the trace log. Driver objects are not touched.
func (c *Context) Close() error {
	if c.trace == nil {
		return nil
	}
	err := c.trace.Close()
	c.trace = nil
	return err
}

// check runs after every native call. It records the call in the trace,
// reports use from a foreign thread and, when enabled, collects the error
// flags the call raised.
func (c *Context) check(op string, args ...any) error {
	if c.trace != nil {
		if err := c.trace.Call(op, formatArgs(args)); err != nil {
			c.log.Warn("trace write failed", slog.String("op", op), slog.Any("err", err))
		}
	}

	if c.cfg.ThreadCheck && c.owner != 0 {
		if id := osthread.ID(); id != c.owner {
			c.log.Warn("call from foreign thread",
				slog.String("op", op),
				slog.Int("thread", id),
				slog.Int("owner", c.owner),
			)
			return fmt.Errorf("%w: %s on thread %d, owner %d", ErrWrongThread, op, id, c.owner)
		}
	}

	if !c.cfg.CheckErrors {
		return nil
	}
	err := glpkg.Drain(c.gl, op)
	if err != nil && c.trace != nil {
		if terr := c.trace.Error(op, err.Error()); terr != nil {
			c.log.Warn("trace write failed", slog.String("op", op), slog.Any("err", terr))
		}
	}
	return err
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch v := a.(type) {
		case uint32:
			fmt.Fprintf(&sb, "0x%X", v)
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}
