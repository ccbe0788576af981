// Package upload models the files of one upload batch and their progress.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// FileHandle is a file picked by the user. Open may be called once per
// upload attempt; callers close the returned reader.
type FileHandle interface {
	Name() string
	Size() int64
	ModTime() time.Time
	ContentType() string
	Open() (io.ReadCloser, error)
}

// UploadedFile is the file host's identifier for a stored document.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileKey identifies a file within one batch: name, size and last-modified
// time in milliseconds.
func FileKey(f FileHandle) string {
	return fmt.Sprintf("%s-%d-%d", f.Name(), f.Size(), f.ModTime().UnixMilli())
}

// MemoryFile is an in-memory FileHandle.
type MemoryFile struct {
	name        string
	contentType string
	modTime     time.Time
	data        []byte
}

func NewMemoryFile(name, contentType string, modTime time.Time, data []byte) *MemoryFile {
	return &MemoryFile{
		name:        name,
		contentType: contentType,
		modTime:     modTime,
		data:        data,
	}
}

func (f *MemoryFile) Name() string        { return f.name }
func (f *MemoryFile) Size() int64         { return int64(len(f.data)) }
func (f *MemoryFile) ModTime() time.Time  { return f.modTime }
func (f *MemoryFile) ContentType() string { return f.contentType }

func (f *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
