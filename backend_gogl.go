//go:build gogl

package gr

import (
	"log/slog"

	glpkg "github.com/tinyrange/gr/internal/gl"
	"github.com/tinyrange/gr/internal/gl/gogl"
)

func loadBackend(library string) (glpkg.OpenGL, error) {
	if library != "" {
		slog.Warn("library setting ignored by the go-gl backend", slog.String("library", library))
	}
	return gogl.Load()
}
