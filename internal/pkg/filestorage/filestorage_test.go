package filestorage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/techfest/internal/config"
	"github.com/yigit/techfest/internal/pkg/apperrors"
)

var pngProof = &File{Filename: "Proof.PNG", ContentType: "image/png", Data: []byte("\x89PNG fake")}

func TestImgBBUploader_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment_demo_1", r.PostForm.Get("name"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(pngProof.Data), r.PostForm.Get("image"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"url":"https://i.ibb.co/x.png","display_url":"https://ibb.co/x","delete_url":"https://ibb.co/x/del"}}`))
	}))
	defer srv.Close()

	u := NewImgBBUploader("secret", srv.URL, time.Second)
	res, err := u.Upload(context.Background(), "payment_demo_1", pngProof)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x.png", res.URL)
	assert.Equal(t, "https://ibb.co/x", res.DisplayURL)
	assert.Equal(t, "https://ibb.co/x/del", res.DeleteURL)
}

func TestImgBBUploader_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":{"message":"Invalid API v1 key."}}`))
	}))
	defer srv.Close()

	u := NewImgBBUploader("bad", srv.URL, time.Second)
	_, err := u.Upload(context.Background(), "n", pngProof)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
	assert.Contains(t, err.Error(), "Invalid API v1 key.")
}

func TestImgBBUploader_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	u := NewImgBBUploader("k", srv.URL, 20*time.Millisecond)
	_, err := u.Upload(context.Background(), "n", pngProof)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Uploader(t *testing.T) {
	putter := &fakePutter{}
	u := newS3Uploader(putter, "proofs-bucket", "https://cdn.example.com/")

	res, err := u.Upload(context.Background(), "payment_demo_42", pngProof)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/proofs/payment_demo_42.png", res.URL)
	assert.Empty(t, res.DeleteURL)
	assert.Equal(t, "proofs-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "proofs/payment_demo_42.png", aws.ToString(putter.input.Key))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.True(t, bytes.Equal(pngProof.Data, putter.body))

	putter.err = errors.New("access denied")
	_, err = u.Upload(context.Background(), "x", pngProof)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailed)
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:5000/uploads")
	require.NoError(t, err)

	res, err := ls.Upload(context.Background(), "payment_demo_7", pngProof)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/proofs/payment_demo_7.png", res.URL)

	saved, err := os.ReadFile(filepath.Join(dir, "proofs", "payment_demo_7.png"))
	require.NoError(t, err)
	assert.Equal(t, pngProof.Data, saved)
}

func TestIsAllowedImageType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/jpg", "image/webp", "IMAGE/PNG"} {
		assert.True(t, IsAllowedImageType(ct), ct)
	}
	for _, ct := range []string{"image/gif", "application/pdf", ""} {
		assert.False(t, IsAllowedImageType(ct), ct)
	}
}

func TestNewProofUploader(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upload.Provider = config.ProviderImgBB
	cfg.Upload.Timeout = 15 * time.Second

	u, err := NewProofUploader(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, u)

	cfg.Upload.ImgBBAPIKey = "key"
	u, err = NewProofUploader(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ImgBBUploader{}, u)

	cfg.Upload.Provider = config.ProviderLocal
	cfg.Upload.LocalDir = t.TempDir()
	u, err = NewProofUploader(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, u)
}
