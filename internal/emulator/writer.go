package emulator

import "os"

// FileWriter persists rendered labels to the local filesystem.
type FileWriter struct {
	Perm os.FileMode
}

// NewFileWriter returns a FileWriter creating files with mode 0644.
func NewFileWriter() *FileWriter {
	return &FileWriter{Perm: 0o644}
}

// Write creates or truncates path and writes data to it. Parent directories
// must already exist.
func (w *FileWriter) Write(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, w.Perm)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Err: cerr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
