package widget

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-intake/internal/types"
)

// File is a chosen file: its metadata plus a way to read it.
type File interface {
	Info() types.SelectedFile
	Open() (io.ReadCloser, error)
}

// MemoryFile is a File held in memory, as received from a browser.
type MemoryFile struct {
	name string
	data []byte
}

// NewMemoryFile wraps data under name.
func NewMemoryFile(name string, data []byte) *MemoryFile {
	return &MemoryFile{name: name, data: data}
}

// Info implements File.
func (f *MemoryFile) Info() types.SelectedFile {
	return types.SelectedFile{Name: f.name, SizeBytes: int64(len(f.data))}
}

// Open implements File.
func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

// ErrContentDiscarded is returned when opening an OversizeFile.
var ErrContentDiscarded = errors.New("file content was discarded")

// OversizeFile is a selection whose content was dropped for exceeding a
// transport limit. Only its metadata is known, so Submit rejects it on size.
type OversizeFile struct {
	info types.SelectedFile
}

// NewOversizeFile records a file of at least size bytes.
func NewOversizeFile(name string, size int64) *OversizeFile {
	return &OversizeFile{info: types.SelectedFile{Name: name, SizeBytes: size}}
}

// Info implements File.
func (f *OversizeFile) Info() types.SelectedFile {
	return f.info
}

// Open implements File. It always fails.
func (f *OversizeFile) Open() (io.ReadCloser, error) {
	return nil, fmt.Errorf("%s: %w", f.info.Name, ErrContentDiscarded)
}

// DiskFile is a File on the local filesystem.
type DiskFile struct {
	path string
	size int64
}

// OpenDiskFile stats path and returns a File for it. The content is read
// only when the file is submitted.
func OpenDiskFile(path string) (*DiskFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return &DiskFile{path: path, size: info.Size()}, nil
}

// Info implements File.
func (f *DiskFile) Info() types.SelectedFile {
	return types.SelectedFile{Name: filepath.Base(f.path), SizeBytes: f.size}
}

// Open implements File.
func (f *DiskFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}
