//go:build !linux && !darwin

package gl

import (
	"errors"
	"runtime"
)

// DefaultLibrary is empty where no purego loader exists.
const DefaultLibrary = ""

var errUnsupported = errors.New("gl: no purego loader for " + runtime.GOOS + "; build with -tags gogl")

// Symbols lists every entry point the loader resolves. There are none here.
func Symbols() []string {
	return nil
}

// Probe is unsupported on this platform.
func Probe(library string) ([]string, error) {
	return nil, errUnsupported
}

// Load is unsupported on this platform.
func Load() (OpenGL, error) {
	return nil, errUnsupported
}

// LoadLibrary is unsupported on this platform.
func LoadLibrary(path string) (OpenGL, error) {
	return nil, errUnsupported
}
