// Package emulator turns ZPL label descriptions into PDF files on disk by
// delegating rendering to a remote service.
package emulator

import (
	"time"
)

// Extension is the file extension of stored labels.
const Extension = "pdf"

// Renderer converts a label description into a document.
type Renderer interface {
	Render(payload []byte) ([]byte, error)
}

// ArtifactWriter persists a rendered document.
type ArtifactWriter interface {
	Write(path string, data []byte) error
}

// Emulator runs the print pipeline: resolve config, render, compose the
// output path, write. It holds no per-request state and is safe for
// concurrent use when its collaborators are.
type Emulator struct {
	resolver *Resolver
	renderer Renderer
	writer   ArtifactWriter
	now      func() time.Time
}

// Option customises an Emulator.
type Option func(*Emulator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Emulator) { e.now = now }
}

// New wires an Emulator from its collaborators.
func New(resolver *Resolver, renderer Renderer, writer ArtifactWriter, opts ...Option) *Emulator {
	e := &Emulator{
		resolver: resolver,
		renderer: renderer,
		writer:   writer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle prints payload and returns the path of the written PDF. Errors from
// each stage are returned unchanged: ErrEmptyPayload, *ConfigLoadError,
// *RenderServiceError or *WriteError.
func (e *Emulator) Handle(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", ErrEmptyPayload
	}

	cfg, err := e.resolver.Resolve()
	if err != nil {
		return "", err
	}

	doc, err := e.renderer.Render(payload)
	if err != nil {
		return "", err
	}

	path := ComposePath(cfg, Extension, e.now())
	if err := e.writer.Write(path, doc); err != nil {
		return "", err
	}
	return path, nil
}
