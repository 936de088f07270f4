package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/yigit/techfest/internal/pkg/apperrors"
)

// S3Options configures an S3 compatible bucket (AWS, R2, MinIO)
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string // Custom endpoint for S3 compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // Prefix used to build public object URLs
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores proofs as objects under proofs/
type S3Uploader struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewS3Uploader builds the S3 client from opts. Static credentials are
// used when given, otherwise the default AWS credential chain applies.
func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}

	return newS3Uploader(client, opts.Bucket, baseURL), nil
}

func newS3Uploader(client objectPutter, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload puts the proof at proofs/<name><ext>
func (u *S3Uploader) Upload(ctx context.Context, name string, file *File) (*UploadResult, error) {
	key := "proofs/" + name + file.Ext()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUploadFailed, err)
	}

	publicURL := u.baseURL + "/" + key
	return &UploadResult{URL: publicURL, DisplayURL: publicURL}, nil
}
