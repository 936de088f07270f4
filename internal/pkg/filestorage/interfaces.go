package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// File is an uploaded payment proof held in memory
type File struct {
	Filename    string // Original filename
	ContentType string // MIME type reported by the client
	Data        []byte
}

// Ext returns the file extension including the dot, or "" if absent
func (f *File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Filename))
}

// UploadResult describes where a proof ended up
type UploadResult struct {
	URL        string
	DisplayURL string
	DeleteURL  string // Empty when the backend has no deletion link
}

// ProofUploader stores payment screenshots with an external host
type ProofUploader interface {
	// Upload stores the file under name and returns its public location
	Upload(ctx context.Context, name string, file *File) (*UploadResult, error)
}

// FromMultipart reads an uploaded form file into memory. Files larger
// than maxBytes are rejected.
func FromMultipart(fileHeader *multipart.FileHeader, maxBytes int64) (*File, error) {
	if fileHeader.Size > maxBytes {
		return nil, fmt.Errorf("file %s exceeds %d bytes", fileHeader.Filename, maxBytes)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("file %s exceeds %d bytes", fileHeader.Filename, maxBytes)
	}

	return &File{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// allowedImageTypes are the MIME types accepted for payment screenshots
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the MIME type may be uploaded
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
}
