package gr

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tinyrange/gr/internal/calltrace"
	glpkg "github.com/tinyrange/gr/internal/gl"
	"github.com/tinyrange/gr/internal/gl/gltest"
	"github.com/tinyrange/gr/internal/osthread"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestContext(t *testing.T, opts ...func(*Config)) (*Context, *gltest.Fake) {
	t.Helper()
	fake := gltest.New()
	cfg := Config{CheckErrors: true, Logger: quietLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, err := NewContext(fake, cfg)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	t.Cleanup(func() { ctx.Close() })
	fake.Reset()
	return ctx, fake
}

func TestNewContextInfo(t *testing.T) {
	ctx, _ := newTestContext(t)
	info := ctx.Info()
	if info.Vendor != "gltest" || !strings.HasPrefix(info.Version, "3.3") {
		t.Fatalf("unexpected info %+v", info)
	}
	for k := KindVertexArray; k < numKinds; k++ {
		if ctx.Bound(k) != 0 {
			t.Fatalf("%s slot not empty on a new context", k)
		}
	}
}

func TestMinVersion(t *testing.T) {
	tests := []struct {
		version string
		min     string
		ok      bool
	}{
		{"3.3.0 gltest", "3.3", true},
		{"4.6.0 NVIDIA 535.54.03", "3.3", true},
		{"2.1 Mesa 23.0.4", "3.3", false},
		{"OpenGL ES 3.2 Mesa", "3.0", true},
		{"3.2.0", "3.3", false},
	}
	for _, tt := range tests {
		fake := gltest.New()
		fake.Version = tt.version
		_, err := NewContext(fake, Config{MinVersion: tt.min, Logger: quietLogger()})
		if tt.ok && err != nil {
			t.Fatalf("%q >= %q: unexpected error %v", tt.version, tt.min, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("%q >= %q: expected error", tt.version, tt.min)
		}
	}
}

func TestCheckErrorsReturnsDriverError(t *testing.T) {
	ctx, fake := newTestContext(t)
	buf, err := ctx.CreateBuffer(BufferVertex, nil)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	fake.PushError(glpkg.InvalidOperation)
	fake.PushError(glpkg.OutOfMemory)
	err = ctx.BindBuffer(buf)

	var glErr *glpkg.Error
	if !errors.As(err, &glErr) {
		t.Fatalf("expected *gl.Error, got %v", err)
	}
	if glErr.Op != "glBindBuffer" || !glErr.Has(glpkg.InvalidOperation) || !glErr.Has(glpkg.OutOfMemory) {
		t.Fatalf("unexpected error %v", glErr)
	}

	// Flags were drained.
	if err := ctx.BindBuffer(buf); err != nil {
		t.Fatalf("second BindBuffer: %v", err)
	}
}

func TestCheckErrorsDisabled(t *testing.T) {
	ctx, fake := newTestContext(t, func(c *Config) { c.CheckErrors = false })
	fake.PushError(glpkg.InvalidEnum)
	if err := ctx.SetState(Blend, True); err != nil {
		t.Fatalf("expected no error with checking off, got %v", err)
	}
}

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gl.trace")
	ctx, fake := newTestContext(t, func(c *Config) { c.TraceFile = path })

	ctx.SetState(DepthTest, True)
	fake.PushError(glpkg.InvalidValue)
	ctx.SetState(Blend, False)
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, closer, err := calltrace.NewReaderFromFile(path)
	if err != nil {
		t.Fatalf("NewReaderFromFile: %v", err)
	}
	defer closer.Close()

	ops := r.Ops()
	if ops["glEnable"] != 1 || ops["glDisable"] != 2 {
		t.Fatalf("unexpected op counts %v", ops)
	}
	n, err := r.Count(calltrace.SearchOptions{Kind: calltrace.KindError})
	if err != nil || n != 1 {
		t.Fatalf("expected 1 error record, got %d (%v)", n, err)
	}
}

type brokenSink struct{}

func (brokenSink) WriteAt([]byte, int64) (int, error) { return 0, errors.New("disk full") }
func (brokenSink) Close() error                       { return nil }

func TestTraceWriteFailureLogged(t *testing.T) {
	var logs bytes.Buffer
	ctx, fake := newTestContext(t, func(c *Config) {
		c.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	})
	ctx.trace = calltrace.New(brokenSink{})

	fake.PushError(glpkg.InvalidEnum)
	var glErr *glpkg.Error
	if err := ctx.SetState(Blend, True); !errors.As(err, &glErr) {
		t.Fatalf("expected the driver error, got %v", err)
	}
	// One for the call record, one for the error record.
	if n := strings.Count(logs.String(), "trace write failed"); n != 2 {
		t.Fatalf("expected 2 trace warnings, got %d:\n%s", n, logs.String())
	}
}

func TestThreadCheck(t *testing.T) {
	if !osthread.Supported() {
		t.Skip("thread ids not available on this platform")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ctx, _ := newTestContext(t, func(c *Config) { c.ThreadCheck = true })
	if err := ctx.SetState(Blend, True); err != nil {
		t.Fatalf("owner thread: %v", err)
	}

	done := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		done <- ctx.SetState(Blend, True)
	}()
	if err := <-done; !errors.Is(err, ErrWrongThread) {
		t.Fatalf("expected ErrWrongThread, got %v", err)
	}
}
