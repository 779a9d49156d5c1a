//go:build !gogl

package gr

import glpkg "github.com/tinyrange/gr/internal/gl"

func loadBackend(library string) (glpkg.OpenGL, error) {
	if library == "" {
		return glpkg.Load()
	}
	return glpkg.LoadLibrary(library)
}
