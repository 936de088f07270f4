package filestorage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yigit/techfest/internal/pkg/apperrors"
	"github.com/yigit/techfest/internal/pkg/logger"
)

// ImgBBUploader posts proofs to the ImgBB upload API
type ImgBBUploader struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewImgBBUploader creates an uploader bounded by timeout
func NewImgBBUploader(apiKey, endpoint string, timeout time.Duration) *ImgBBUploader {
	return &ImgBBUploader{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
		DeleteURL  string `json:"delete_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the base64 encoded image and returns its public and delete URLs
func (u *ImgBBUploader) Upload(ctx context.Context, name string, file *File) (*UploadResult, error) {
	form := url.Values{}
	form.Set("image", base64.StdEncoding.EncodeToString(file.Data))
	form.Set("name", name)

	endpoint := u.endpoint + "?key=" + url.QueryEscape(u.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperrors.ErrUploadFailed, err)
	}

	var parsed imgbbResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: status %d: invalid response", apperrors.ErrUploadFailed, resp.StatusCode)
	}
	if !parsed.Success || resp.StatusCode >= http.StatusBadRequest {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, msg)
	}

	logger.Debug().Str("name", name).Str("url", parsed.Data.URL).Msg("Proof uploaded to ImgBB")
	return &UploadResult{
		URL:        parsed.Data.URL,
		DisplayURL: parsed.Data.DisplayURL,
		DeleteURL:  parsed.Data.DeleteURL,
	}, nil
}
