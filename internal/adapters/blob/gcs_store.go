package blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"ipwatch/internal/domain"
)

// GCSStore writes evidence objects to Google Cloud Storage using ADC.
type GCSStore struct {
	client  *storage.Client
	bucket  string
	prefix  string
	baseURL string
}

type GCSStoreConfig struct {
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewGCSStore(ctx context.Context, cfg GCSStoreConfig) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = "https://storage.googleapis.com/" + cfg.Bucket
	}
	return &GCSStore{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, baseURL: base}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(s.prefix + key).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", s.classify(key, err)
	}
	if err := w.Close(); err != nil {
		return "", s.classify(key, err)
	}
	return s.PublicURL(key), nil
}

func (s *GCSStore) classify(key string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return domain.ErrKeyExists
	}
	return &domain.StorageError{Op: "gcs write", Key: key, Err: err}
}

func (s *GCSStore) PublicURL(key string) string {
	return joinURL(s.baseURL, s.prefix+key)
}

func (s *GCSStore) Close() error { return s.client.Close() }
