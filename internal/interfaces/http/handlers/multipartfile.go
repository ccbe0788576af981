package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/ntwoods/dealerdocs/internal/domain/upload"
)

// multipartFile adapts an uploaded form file to upload.FileHandle.
type multipartFile struct {
	header  *multipart.FileHeader
	modTime time.Time
}

func (f *multipartFile) Name() string        { return f.header.Filename }
func (f *multipartFile) Size() int64         { return f.header.Size }
func (f *multipartFile) ModTime() time.Time  { return f.modTime }
func (f *multipartFile) ContentType() string { return f.header.Header.Get("Content-Type") }

func (f *multipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// formFiles pairs every file with its last_modified value (milliseconds
// since the epoch) when the client sent one per file.
func formFiles(form *multipart.Form) []upload.FileHandle {
	headers := form.File["files"]
	if len(headers) == 0 {
		headers = form.File["files[]"]
	}
	lastModified := form.Value["last_modified"]
	if len(lastModified) == 0 {
		lastModified = form.Value["last_modified[]"]
	}

	files := make([]upload.FileHandle, 0, len(headers))
	for i, h := range headers {
		f := &multipartFile{header: h}
		if i < len(lastModified) {
			if ms, err := strconv.ParseInt(lastModified[i], 10, 64); err == nil {
				f.modTime = time.UnixMilli(ms).UTC()
			}
		}
		files = append(files, f)
	}
	return files
}
