package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/infrastructure/metrics"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
)

const DefaultDriveUploadBaseURL = "https://www.googleapis.com/upload/drive/v3"

// DriveUploader stores one file per call in a Drive folder using a single
// multipart/related request: a JSON metadata part followed by the bytes.
type DriveUploader struct {
	api     *apiClient
	baseURL string
	// boundary is overridable for tests.
	boundary func() string
}

func NewDriveUploader(baseURL string, opts ClientOptions, log logger.Interface) *DriveUploader {
	if baseURL == "" {
		baseURL = DefaultDriveUploadBaseURL
	}
	return &DriveUploader{
		api:      newAPIClient("drive", opts, log),
		baseURL:  strings.TrimRight(baseURL, "/"),
		boundary: func() string { return "batch_" + uuid.NewString() },
	}
}

type driveFileMetadata struct {
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
}

type driveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// Upload sends file into folderID and returns its Drive id and name.
func (d *DriveUploader) Upload(ctx context.Context, accessToken, folderID string, file upload.FileHandle) (*upload.UploadedFile, error) {
	start := time.Now()
	uploaded, err := d.upload(ctx, accessToken, folderID, file)
	metrics.ObserveUpload(err == nil, file.Size(), time.Since(start))
	return uploaded, err
}

func (d *DriveUploader) upload(ctx context.Context, accessToken, folderID string, file upload.FileHandle) (*upload.UploadedFile, error) {
	if accessToken == "" {
		return nil, errors.NewUnauthorizedError("Unauthorized: access token missing.")
	}

	content, err := file.Open()
	if err != nil {
		return nil, errors.NewUploadError(fmt.Sprintf("cannot read %s", file.Name()), err.Error())
	}

	boundary := d.boundary()
	meta := driveFileMetadata{Name: file.Name(), Parents: []string{folderID}}

	pr, pw := io.Pipe()
	go func() {
		defer content.Close()
		pw.CloseWithError(writeMultipartBody(pw, boundary, meta, file.ContentType(), content))
	}()

	endpoint := d.baseURL + "/files?uploadType=multipart&fields=id,name,mimeType"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return nil, errors.NewUploadError("failed to build upload request", err.Error())
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+boundary)

	var out driveFile
	if err := d.api.doJSON(ctx, "upload", accessToken, req, &out, errors.NewUploadError); err != nil {
		pr.Close()
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.NewUploadError("file host returned no file id")
	}

	name := out.Name
	if name == "" {
		name = file.Name()
	}
	d.api.logger.Debugw("file uploaded", "file_id", out.ID, "name", name, "mime_type", out.MimeType)
	return &upload.UploadedFile{ID: out.ID, Name: name}, nil
}

// writeMultipartBody writes the metadata part and the file part separated by
// boundary, then the closing delimiter.
func writeMultipartBody(w io.Writer, boundary string, meta driveFileMetadata, contentType string, content io.Reader) error {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(boundary); err != nil {
		return err
	}

	metaPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return err
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filePart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {contentType},
	})
	if err != nil {
		return err
	}
	if _, err := io.Copy(filePart, content); err != nil {
		return err
	}
	return mw.Close()
}
