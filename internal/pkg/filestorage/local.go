package filestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/logger"
)

// LocalStorage keeps proofs on the local filesystem. It is meant for
// development and single-node deployments.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The base URL the directory is served under
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath
// if needed. An empty baseURL yields paths relative to "uploads".
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "proofs"), os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// Upload writes the proof to <basePath>/proofs/<name><ext>
func (ls *LocalStorage) Upload(ctx context.Context, name string, file *File) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	filename := filepath.Base(name) + file.Ext()
	dstPath := filepath.Join(ls.basePath, "proofs", filename)

	if err := os.WriteFile(dstPath, file.Data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to save proof")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	var accessiblePath string
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/proofs/" + filename
	} else {
		accessiblePath = "uploads/proofs/" + filename
	}

	logger.Info().Str("filename", file.Filename).Str("saved_as", filename).Str("accessible_path", accessiblePath).Msg("Proof saved")
	return &UploadResult{URL: accessiblePath, DisplayURL: accessiblePath}, nil
}

// Dir returns the directory proofs are written to
func (ls *LocalStorage) Dir() string {
	return ls.basePath
}
