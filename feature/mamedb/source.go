package mamedb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "rom-manager/core/errors"
	"rom-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source fetches the DAT archive of a core.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Fetch returns the raw archive bytes.
	Fetch(ctx context.Context, info CoreInfo) ([]byte, error)
}

// HTTPSource downloads DAT archives from a directory URL.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a source rooted at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name returns "http".
func (s *HTTPSource) Name() string {
	return "http"
}

// URL returns the download URL of a core's archive.
func (s *HTTPSource) URL(info CoreInfo) string {
	return s.baseURL + url.PathEscape(info.DatFile)
}

// Fetch downloads the archive. Non-2xx responses are NetworkErrors.
func (s *HTTPSource) Fetch(ctx context.Context, info CoreInfo) ([]byte, error) {
	target := s.URL(info)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &apperrors.NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.NetworkError{URL: target, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.NetworkError{URL: target, Err: err}
	}
	return data, nil
}

// StorageSource reads DAT archives mirrored in object storage.
type StorageSource struct {
	client storage.Client
	bucket string
	prefix string
}

// NewStorageSource creates a source reading <prefix><datfile> from bucket.
func NewStorageSource(client storage.Client, bucket, prefix string) *StorageSource {
	return &StorageSource{client: client, bucket: bucket, prefix: prefix}
}

// Name returns "storage".
func (s *StorageSource) Name() string {
	return "storage"
}

// Key returns the object key of a core's archive.
func (s *StorageSource) Key(info CoreInfo) string {
	return s.prefix + info.DatFile
}

// Fetch reads the mirrored archive. A missing object is a NotFoundError.
func (s *StorageSource) Fetch(ctx context.Context, info CoreInfo) ([]byte, error) {
	key := s.Key(info)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if storage.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("object", key)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put mirrors an archive downloaded elsewhere.
func (s *StorageSource) Put(ctx context.Context, info CoreInfo, data []byte) error {
	key := s.Key(info)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return fmt.Errorf("failed to mirror %s: %w", key, err)
	}
	return nil
}
