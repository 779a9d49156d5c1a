package gl

import (
	"fmt"
	"strings"
)

// maxDrain bounds how many error flags Drain collects. Some drivers keep
// reporting ContextLost on every call after the context is gone.
const maxDrain = 16

// ErrorName returns the symbolic name of a GetError code.
func ErrorName(code uint32) string {
	switch code {
	case NoError:
		return "GL_NO_ERROR"
	case InvalidEnum:
		return "GL_INVALID_ENUM"
	case InvalidValue:
		return "GL_INVALID_VALUE"
	case InvalidOperation:
		return "GL_INVALID_OPERATION"
	case StackOverflow:
		return "GL_STACK_OVERFLOW"
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW"
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case ContextLost:
		return "GL_CONTEXT_LOST"
	default:
		return fmt.Sprintf("GL_ERROR_0x%04X", code)
	}
}

// Error reports the error flags raised by a native call.
type Error struct {
	// Op is the entry point that was called, e.g. "glBindTexture".
	Op    string
	Codes []uint32
}

func (e *Error) Error() string {
	names := make([]string, len(e.Codes))
	for i, code := range e.Codes {
		names[i] = ErrorName(code)
	}
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(names, ", "))
}

// Has reports whether code is among the raised flags.
func (e *Error) Has(code uint32) bool {
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Drain reads every pending error flag from api. It returns nil when none
// were set.
func Drain(api OpenGL, op string) error {
	var codes []uint32
	for len(codes) < maxDrain {
		code := api.GetError()
		if code == NoError {
			break
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	return &Error{Op: op, Codes: codes}
}

// MissingSymbolsError is returned when a library lacks entry points gr needs.
type MissingSymbolsError struct {
	Library string
	Names   []string
}

func (e *MissingSymbolsError) Error() string {
	return fmt.Sprintf("%s: missing %d entry points: %s", e.Library, len(e.Names), strings.Join(e.Names, ", "))
}
