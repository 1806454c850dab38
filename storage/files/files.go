// Package files stores driver documents and photos in object storage.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
)

var ErrDisabled = errors.New("file storage is disabled")

type Store interface {
	// Upload writes r under path and returns the public URL of the object.
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error)
	// Delete accepts either a path or a URL previously returned by Upload.
	Delete(ctx context.Context, urlOrPath string) error
}

// DriverPath is drivers/<cpf>/<kind>_<unix-millis>.
func DriverPath(cpf string, kind models.FileKind, at time.Time) string {
	return fmt.Sprintf("drivers/%s/%s_%d", cpf, kind, at.UnixMilli())
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (Store, error) {
	switch cfg.FileStore {
	case config.FileStoreS3:
		return NewS3Store(ctx, S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.FilesPublicBaseURL,
		}, log)
	case config.FileStoreGCS:
		return NewGCSStore(ctx, GCSConfig{
			Bucket:        cfg.GCSBucket,
			PublicBaseURL: cfg.FilesPublicBaseURL,
		}, log)
	case config.FileStoreNone, "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown FILE_STORE %q", cfg.FileStore)
}

// keyFrom strips baseURL from a stored URL; plain paths pass through.
func keyFrom(baseURL, urlOrPath string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL != "" && strings.HasPrefix(urlOrPath, baseURL+"/") {
		return strings.TrimPrefix(urlOrPath, baseURL+"/")
	}
	return strings.TrimPrefix(urlOrPath, "/")
}

func joinURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + key
}

// Nop rejects uploads and ignores deletes.
type Nop struct{}

func (Nop) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrDisabled
}

func (Nop) Delete(context.Context, string) error { return nil }

// Memory keeps objects in a map. Handy for tests and local runs.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, objects: map[string][]byte{}}
}

func (m *Memory) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return joinURL(m.BaseURL, path), nil
}

func (m *Memory) Delete(ctx context.Context, urlOrPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, keyFrom(m.BaseURL, urlOrPath))
	return nil
}

func (m *Memory) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
