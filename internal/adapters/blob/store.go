package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ipwatch/internal/config"
	"ipwatch/internal/domain"
	"ipwatch/internal/ports"
)

type StoreType string

const (
	StoreTypeFS  StoreType = "fs"
	StoreTypeS3  StoreType = "s3"
	StoreTypeGCS StoreType = "gcs"
)

// NewStore builds the evidence store named by cfg.Type.
func NewStore(ctx context.Context, cfg config.BlobConfig) (ports.BlobStore, error) {
	switch StoreType(cfg.Type) {
	case "", StoreTypeFS:
		return NewFileStore(cfg.Dir, cfg.PublicBaseURL)
	case StoreTypeS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("EVIDENCE_S3_BUCKET is required for S3 storage")
		}
		region := cfg.S3Region
		if region == "" {
			region = "us-east-1"
		}
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:        cfg.S3Bucket,
			Region:        region,
			Endpoint:      cfg.S3Endpoint,
			Prefix:        cfg.Prefix,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	case StoreTypeGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("EVIDENCE_GCS_BUCKET is required for GCS storage")
		}
		return NewGCSStore(ctx, GCSStoreConfig{Bucket: cfg.GCSBucket, Prefix: cfg.Prefix, PublicBaseURL: cfg.PublicBaseURL})
	default:
		return nil, fmt.Errorf("unsupported evidence storage type: %s", cfg.Type)
	}
}

// FileStore keeps evidence objects on local disk. Used in development and tests.
type FileStore struct {
	baseDir string
	baseURL string
	mu      sync.Mutex
}

func NewFileStore(baseDir, publicBaseURL string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "data/evidence"
	}
	//nolint:gosec // G301: evidence dir is served by the file host
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("ensure evidence dir: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = "file://" + filepath.ToSlash(baseDir)
	}
	return &FileStore{baseDir: baseDir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (s *FileStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // G301
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &domain.StorageError{Op: "upload", Key: key, Err: err}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", domain.ErrKeyExists
		}
		return "", &domain.StorageError{Op: "upload", Key: key, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", &domain.StorageError{Op: "upload", Key: key, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &domain.StorageError{Op: "upload", Key: key, Err: err}
	}
	return s.PublicURL(key), nil
}

func (s *FileStore) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *FileStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", domain.Invalid("empty object key")
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(clean)), nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
