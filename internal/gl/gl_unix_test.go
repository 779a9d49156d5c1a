//go:build linux || darwin

package gl

import (
	"strings"
	"testing"
)

func TestSymbolsCoverEveryEntryPoint(t *testing.T) {
	var api openGL
	entries := api.entries()
	names := Symbols()
	if len(names) != len(entries) || len(names) == 0 {
		t.Fatalf("Symbols() has %d names for %d entries", len(names), len(entries))
	}

	seen := make(map[string]bool)
	for i, e := range entries {
		if e.fn == nil {
			t.Fatalf("%s has no function pointer", e.name)
		}
		if !strings.HasPrefix(e.name, "gl") {
			t.Fatalf("%q is not a GL entry point", e.name)
		}
		if seen[e.name] {
			t.Fatalf("%s registered twice", e.name)
		}
		seen[e.name] = true
		if names[i] != e.name {
			t.Fatalf("Symbols()[%d] = %s, want %s", i, names[i], e.name)
		}
	}
}

func TestCString(t *testing.T) {
	b := cstring("uModel")
	if len(b) != len("uModel")+1 || b[len(b)-1] != 0 {
		t.Fatalf("cstring not NUL terminated: %v", b)
	}
}

func TestGoString(t *testing.T) {
	b := cstring("4.6.0 NVIDIA")
	if got := gostring(&b[0]); got != "4.6.0 NVIDIA" {
		t.Fatalf("gostring = %q", got)
	}
	if gostring(nil) != "" {
		t.Fatalf("gostring(nil) not empty")
	}
}
