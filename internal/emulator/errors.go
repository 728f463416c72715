package emulator

import (
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned by Handle when the request carried no label data.
var ErrEmptyPayload = errors.New("no ZPL data in request body")

// ConfigLoadError reports an override file that exists but cannot be used.
type ConfigLoadError struct {
	Path string
	Err  error
}

func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("load emulator config %s: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

// RenderServiceError reports a failed call to the rendering service. StatusCode
// is zero when the request never produced a response.
type RenderServiceError struct {
	StatusCode int
	Err        error
}

func (e *RenderServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("render service unreachable: %v", e.Err)
	}
	return fmt.Sprintf("render service returned status %d", e.StatusCode)
}

func (e *RenderServiceError) Unwrap() error { return e.Err }

// WriteError reports an artifact that could not be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write label %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
