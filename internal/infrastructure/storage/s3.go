// Package storage implements the media-upload collaborator on top of an
// S3-compatible object store. Uploaded files are keyed by uuid under a
// per-kind folder and served from a public base URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/clipstream/video-platform/internal/api/metrics"
)

const defaultUploadTimeout = 2 * time.Minute

// S3Client is the subset of the S3 API the storage needs. Narrowed for
// testability with fakes.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config contains the object-store settings.
type Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // optional, for S3-compatible services
	BaseURL        string // public URL base for serving files
	ForcePathStyle bool
	UploadTimeout  time.Duration
}

// S3Storage streams multipart file content to the bucket. Safe for
// concurrent use.
type S3Storage struct {
	client  S3Client
	bucket  string
	baseURL string
	timeout time.Duration
}

// New builds an S3Storage from config, creating the SDK client.
func New(ctx context.Context, cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("storage: bucket and region are required")
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient builds an S3Storage around a pre-configured client.
func NewWithClient(client S3Client, cfg Config) *S3Storage {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	baseURL = strings.TrimSuffix(baseURL, "/") + "/"

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		timeout: timeout,
	}
}

// Upload streams the file to the bucket under folder/<uuid><ext> and returns
// its public URL. A bounded timeout caps how long one slow upload can hold
// the request; the source stream is closed on every path.
func (s *S3Storage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	if file == nil {
		return "", errors.New("storage: nil file header")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open file: %w", err)
	}
	defer func() { _ = src.Close() }()

	key := folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	start := time.Now()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(contentType),
	})
	metrics.MediaUploadDuration.WithLabelValues(folder).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(folder, "error").Inc()
		return "", classifyError(err)
	}
	metrics.MediaUploadsTotal.WithLabelValues(folder, "ok").Inc()

	return s.baseURL + key, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("storage: upload timed out: %w", err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("storage: upload failed (code: %s): %w", apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("storage: upload failed: %w", err)
}
