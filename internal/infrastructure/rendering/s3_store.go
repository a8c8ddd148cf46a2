package rendering

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3DocumentStore stores rendered documents in an S3-compatible bucket
// (AWS S3, MinIO, and friends).
type S3DocumentStore struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	logger    *zap.Logger
}

// S3DocumentStoreOption is a functional option for configuring the store
type S3DocumentStoreOption func(*S3DocumentStore)

// WithS3Logger sets a custom logger for the store
func WithS3Logger(logger *zap.Logger) S3DocumentStoreOption {
	return func(s *S3DocumentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3DocumentStore creates an S3DocumentStore from configuration
func NewS3DocumentStore(cfg *config.DocumentsConfig, opts ...S3DocumentStoreOption) (*S3DocumentStore, error) {
	if cfg == nil {
		return nil, errors.New("documents configuration is required")
	}
	if cfg.S3Bucket == "" {
		return nil, errors.New("documents s3 bucket is required")
	}

	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if cfg.S3Endpoint != "" {
			endpoint := cfg.S3Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &S3DocumentStore{
		client:    client,
		bucket:    cfg.S3Bucket,
		keyPrefix: strings.Trim(cfg.S3KeyPrefix, "/"),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Put uploads the document and returns an s3:// reference
func (s *S3DocumentStore) Put(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("document key is required")
	}

	objectKey := key
	if s.keyPrefix != "" {
		objectKey = s.keyPrefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	s.logger.Debug("Stored invoice document",
		zap.String("bucket", s.bucket),
		zap.String("key", objectKey),
		zap.Int("bytes", len(content)))

	return fmt.Sprintf("s3://%s/%s", s.bucket, objectKey), nil
}

// Delete removes the object from the bucket. S3 treats deleting a
// missing key as success, so no not-found handling is needed.
func (s *S3DocumentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("document key is required")
	}

	objectKey := key
	if s.keyPrefix != "" {
		objectKey = s.keyPrefix + "/" + key
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.logger.Debug("Deleted invoice document",
		zap.String("bucket", s.bucket),
		zap.String("key", objectKey))

	return nil
}

var _ DocumentStore = (*S3DocumentStore)(nil)
