package gr

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFilename = "gr.yaml"

	// DefaultMaxUniforms bounds how many uniforms one shader may register.
	DefaultMaxUniforms = 200
)

// Config controls how a Context talks to the driver.
type Config struct {
	// Library is the GL shared object to load. Empty means the platform default.
	Library string `yaml:"library,omitempty"`

	// CheckErrors drains glGetError after every native call and returns any
	// raised flags as *gl.Error.
	CheckErrors bool `yaml:"checkErrors"`

	// ThreadCheck records the OS thread that opened the context and reports
	// calls made from any other thread.
	ThreadCheck bool `yaml:"threadCheck"`

	// TraceFile, when set, receives a binary record of every native call.
	TraceFile string `yaml:"traceFile,omitempty"`

	// MinVersion rejects contexts older than this GL version, e.g. "3.3".
	MinVersion string `yaml:"minVersion,omitempty"`

	MaxUniforms int    `yaml:"maxUniforms,omitempty"`
	LogLevel    string `yaml:"logLevel,omitempty"`

	// Logger overrides the logger built from LogLevel.
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) normalize() error {
	if c.MaxUniforms <= 0 {
		c.MaxUniforms = DefaultMaxUniforms
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	if c.MinVersion != "" {
		if _, ok := canonicalVersion(c.MinVersion); !ok {
			return fmt.Errorf("invalid minVersion %q", c.MinVersion)
		}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig writes cfg as YAML with defaults filled in.
func WriteConfig(path string, cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(&cfg); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

var versionNumber = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// canonicalVersion extracts the first dotted version number from a
// GL_VERSION string ("4.6.0 NVIDIA 535.54", "OpenGL ES 3.2 Mesa") and
// returns it in semver form.
func canonicalVersion(s string) (string, bool) {
	m := versionNumber.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := "v" + m[1] + "." + m[2]
	if m[3] != "" {
		v += "." + m[3]
	}
	v = semver.Canonical(v)
	return v, v != ""
}

// versionAtLeast reports whether the GL_VERSION string have is at least want.
func versionAtLeast(have, want string) (bool, error) {
	h, ok := canonicalVersion(have)
	if !ok {
		return false, fmt.Errorf("unrecognized GL version %q", strings.TrimSpace(have))
	}
	m, ok := canonicalVersion(want)
	if !ok {
		return false, fmt.Errorf("invalid minimum version %q", want)
	}
	return semver.Compare(h, m) >= 0, nil
}
