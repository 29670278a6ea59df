package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

// Backend is an in-memory implementation of the record.BlobStore interface
type Backend struct {
	mu           sync.RWMutex
	bucket       string
	bucketExists bool
	objects      map[string][]byte
	contentTypes map[string]string
}

// New creates a new in-memory storage backend scoped to the given bucket name
func New(bucket string) *Backend {
	return &Backend{
		bucket:       bucket,
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// EnsureBucket marks the bucket as provisioned
func (b *Backend) EnsureBucket(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bucketExists = true
	return nil
}

// Upload writes an object, overwriting any existing object at the key
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = data
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	b.contentTypes[objectKey] = contentType
	return nil
}

// Delete removes an object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return record.ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	delete(b.contentTypes, objectKey)
	return nil
}

// PublicURL returns a deterministic pseudo-URL for an object key
func (b *Backend) PublicURL(objectKey string) string {
	return fmt.Sprintf("memory://%s/%s", b.bucket, objectKey)
}

// Download returns the stored object, for tests
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[objectKey]
	if !exists {
		return nil, record.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// ObjectCount returns the number of stored objects, for tests
func (b *Backend) ObjectCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.objects)
}
