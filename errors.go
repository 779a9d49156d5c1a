package gr

import (
	"errors"
	"fmt"
)

var (
	// ErrCreateFailed is returned when the driver hands back handle 0.
	ErrCreateFailed = errors.New("gr: driver returned no handle")

	ErrUnknownBuffer   = errors.New("gr: unknown buffer")
	ErrNoBufferBound   = errors.New("gr: no buffer bound")
	ErrSizeMismatch    = errors.New("gr: buffer size mismatch")
	ErrOutOfRange      = errors.New("gr: range outside buffer")
	ErrNotBound        = errors.New("gr: not bound")
	ErrIncomplete      = errors.New("gr: framebuffer incomplete")
	ErrNotLinked       = errors.New("gr: shader program not linked")
	ErrUniformNotFound = errors.New("gr: uniform not found")
	ErrTooManyUniforms = errors.New("gr: too many uniforms")
	ErrUnknownUniform  = errors.New("gr: uniform not registered")
	ErrUniformSize     = errors.New("gr: uniform data has wrong size")
	ErrPixelSize       = errors.New("gr: pixel data has wrong size")
	ErrInvalidSize     = errors.New("gr: invalid size")
	ErrWrongThread     = errors.New("gr: call from a thread that does not own the context")
)

// LookupError reports an enum value with no entry in a translation table.
type LookupError struct {
	Table string
	Value any
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("gr: %s has no entry for %v", e.Table, e.Value)
}

// ShaderError carries the driver's info log for a failed compile or link.
type ShaderError struct {
	// Stage is "fragment", "vertex" or "link".
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("gr: %s: %s", e.Stage, e.Log)
}
