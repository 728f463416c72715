package emulator

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls where rendered labels are written and how they are named.
type Config struct {
	OutputDir    string
	FileTemplate string
	DateFormat   string
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:    os.TempDir(),
		FileTemplate: "label-%timestamp%",
		DateFormat:   "Y-m-d_H-i-s",
	}
}

// override mirrors the keys accepted in the override file. Nil means absent.
type override struct {
	OutputPath   *string `yaml:"output_path"`
	FileTemplate *string `yaml:"file_template"`
	DateFormat   *string `yaml:"date_format"`
}

// Source supplies the raw override document. ok is false when there is none.
type Source interface {
	Read() (data []byte, ok bool, err error)
	Name() string
}

// FileSource reads the override from a file on disk.
type FileSource string

func (f FileSource) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(string(f))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

func (f FileSource) Name() string { return string(f) }

// Resolver builds a fresh Config from the defaults and an optional override.
type Resolver struct {
	src Source
}

// NewResolver returns a Resolver reading overrides from src. A nil src means
// defaults only.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the defaults with every key present in the override applied
// on top. Keys holding an empty string are treated as absent.
func (r *Resolver) Resolve() (Config, error) {
	cfg := DefaultConfig()
	if r == nil || r.src == nil {
		return cfg, nil
	}

	data, ok, err := r.src.Read()
	if err != nil {
		return Config{}, &ConfigLoadError{Path: r.src.Name(), Err: err}
	}
	if !ok {
		return cfg, nil
	}

	var o override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Config{}, &ConfigLoadError{Path: r.src.Name(), Err: err}
	}

	apply(&cfg.OutputDir, o.OutputPath)
	apply(&cfg.FileTemplate, o.FileTemplate)
	apply(&cfg.DateFormat, o.DateFormat)
	return cfg, nil
}

func apply(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
