package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tinyrange/gr"
	glpkg "github.com/tinyrange/gr/internal/gl"
)

func run() error {
	library := flag.String("library", "", "GL shared library to probe (default: platform default)")
	config := flag.String("config", "", "read the library from a "+gr.ConfigFilename+" file")
	symbols := flag.Bool("symbols", false, "list every entry point the loader needs and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `grprobe - check a GL library for the entry points gr needs

USAGE:
  grprobe [flags]

Probing only opens the library and looks up symbols. It does not need a
window or a current context, so it works on headless machines.

FLAGS:
  -library PATH  Library to open (e.g. libGL.so.1, libOpenGL.so.0)
  -config FILE   Take the library from the config file
  -symbols       Print the required entry points, one per line

EXIT STATUS:
  0 when every entry point resolves, 1 otherwise.
`)
	}
	flag.Parse()

	if *symbols {
		for _, name := range glpkg.Symbols() {
			fmt.Println(name)
		}
		return nil
	}

	lib := *library
	if *config != "" {
		cfg, err := gr.LoadConfig(*config)
		if err != nil {
			return err
		}
		if lib == "" {
			lib = cfg.Library
		}
	}

	missing, err := glpkg.Probe(lib)
	if err != nil {
		return err
	}
	if lib == "" {
		lib = glpkg.DefaultLibrary
	}
	if len(missing) > 0 {
		return &glpkg.MissingSymbolsError{Library: lib, Names: missing}
	}
	fmt.Printf("%s: all %d entry points resolved\n", lib, len(glpkg.Symbols()))
	return nil
}

func main() {
	if err := run(); err != nil {
		var missingErr *glpkg.MissingSymbolsError
		if errors.As(err, &missingErr) {
			for _, name := range missingErr.Names {
				fmt.Fprintf(os.Stderr, "missing: %s\n", name)
			}
		}
		fmt.Fprintf(os.Stderr, "grprobe: %v\n", err)
		os.Exit(1)
	}
}
