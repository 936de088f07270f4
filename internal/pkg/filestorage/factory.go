package filestorage

import (
	"context"

	"github.com/yigit/techfest/internal/config"
)

// NewProofUploader selects the backend named by the upload provider.
// A nil uploader with a nil error means uploads are not configured.
func NewProofUploader(ctx context.Context, cfg *config.Config) (ProofUploader, error) {
	if !cfg.UploadConfigured() {
		return nil, nil
	}

	switch cfg.Upload.Provider {
	case config.ProviderS3:
		uploader, err := NewS3Uploader(ctx, S3Options{
			Bucket:        cfg.Upload.S3Bucket,
			Region:        cfg.Upload.S3Region,
			Endpoint:      cfg.Upload.S3Endpoint,
			AccessKey:     cfg.Upload.S3AccessKey,
			SecretKey:     cfg.Upload.S3SecretKey,
			PublicBaseURL: cfg.Upload.PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return uploader, nil
	case config.ProviderLocal:
		storage, err := NewLocalStorage(cfg.Upload.LocalDir, cfg.Upload.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return NewImgBBUploader(cfg.Upload.ImgBBAPIKey, cfg.Upload.ImgBBEndpoint, cfg.Upload.Timeout), nil
	}
}
