package gr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFilename)
	data := `library: libGL.so.1
checkErrors: true
threadCheck: true
minVersion: "3.3"
logLevel: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Library != "libGL.so.1" || !cfg.CheckErrors || !cfg.ThreadCheck || cfg.MinVersion != "3.3" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.MaxUniforms != DefaultMaxUniforms {
		t.Fatalf("MaxUniforms = %d, want default %d", cfg.MaxUniforms, DefaultMaxUniforms)
	}
	if cfg.Logger == nil {
		t.Fatalf("logger not built")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"level", "logLevel: chatty\n", "logLevel"},
		{"version", "minVersion: latest\n", "minVersion"},
		{"yaml", "checkErrors: [\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFilename)
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFilename)
	in := Config{CheckErrors: true, TraceFile: "gl.trace", MaxUniforms: 64, Logger: quietLogger()}
	if err := WriteConfig(path, in); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "logLevel: info") {
		t.Fatalf("defaults not written:\n%s", data)
	}

	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.TraceFile != "gl.trace" || out.MaxUniforms != 64 || !out.CheckErrors || out.ThreadCheck {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestVersionAtLeast(t *testing.T) {
	tests := []struct {
		have, want string
		ok         bool
	}{
		{"4.6.0 NVIDIA 535.54.03", "4.6", true},
		{"4.5 (Core Profile) Mesa 23.1.0", "4.6", false},
		{"3.3.0 gltest", "3.3.0", true},
		{"3.10", "3.9", true},
	}
	for _, tt := range tests {
		ok, err := versionAtLeast(tt.have, tt.want)
		if err != nil {
			t.Fatalf("versionAtLeast(%q, %q): %v", tt.have, tt.want, err)
		}
		if ok != tt.ok {
			t.Fatalf("versionAtLeast(%q, %q) = %v, want %v", tt.have, tt.want, ok, tt.ok)
		}
	}
	if _, err := versionAtLeast("unknown", "3.3"); err == nil {
		t.Fatalf("expected error for unparseable version")
	}
}
