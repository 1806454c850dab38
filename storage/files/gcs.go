package files

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"taxifrota/pkg/logger"
)

type GCSConfig struct {
	Bucket        string
	PublicBaseURL string
}

type GCSStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
	log     logger.ILogger
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context, cfg GCSConfig, log logger.ILogger) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, baseURL: baseURL, log: log}, nil
}

func (s *GCSStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		s.log.Error("gcs write failed", logger.String("object", path), logger.Error(err))
		return "", fmt.Errorf("gcs write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		s.log.Error("gcs close failed", logger.String("object", path), logger.Error(err))
		return "", fmt.Errorf("gcs close failed: %w", err)
	}
	return joinURL(s.baseURL, path), nil
}

func (s *GCSStore) Delete(ctx context.Context, urlOrPath string) error {
	object := keyFrom(s.baseURL, urlOrPath)
	err := s.client.Bucket(s.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete failed for %s: %w", object, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
