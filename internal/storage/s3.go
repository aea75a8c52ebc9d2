package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxImageSize is the maximum allowed upload size (5MB).
	MaxImageSize = 5 * 1024 * 1024
	// FolderLogos is the object prefix for organization logos.
	FolderLogos = "logos"
	// FolderEventImages is the object prefix for event images.
	FolderEventImages = "events"
)

// AllowedImageTypes maps accepted MIME types to extensions.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Config holds S3 client configuration.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// BaseURL overrides the default virtual-hosted URL, e.g. a CDN front.
	BaseURL string
}

// S3 uploads images and returns their public URLs. The rest of the system
// treats those URLs as opaque strings.
type S3 struct {
	uploader *manager.Uploader
	cfg      Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client. Falls back to the default credential chain
// when no static credentials are configured.
func NewS3(ctx context.Context, cfg Config, logger *zap.Logger) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
	} else if logger != nil {
		logger.Warn("S3 client using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3{
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// ValidImageType reports whether the content type is accepted for uploads.
func ValidImageType(contentType string) bool {
	_, ok := AllowedImageTypes[strings.ToLower(contentType)]
	return ok
}

// LogoKey returns the object key for an organization logo.
func LogoKey(organizationID uint64, contentType string) string {
	return objectKey(FolderLogos, fmt.Sprintf("%d", organizationID), contentType)
}

// EventImageKey returns the object key for an event image.
func EventImageKey(eventID uint64, contentType string) string {
	return objectKey(FolderEventImages, fmt.Sprintf("%d", eventID), contentType)
}

func objectKey(folder, owner, contentType string) string {
	ext := AllowedImageTypes[strings.ToLower(contentType)]
	return path.Join(folder, owner, uuid.NewString()+ext)
}

// Upload streams the body to the bucket and returns the public URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	url := s.URL(key)
	if s.logger != nil {
		s.logger.Info("uploaded object", zap.String("key", key), zap.String("url", url))
	}
	return url, nil
}

// URL returns the public URL for an object key.
func (s *S3) URL(key string) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
