package record

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for object storage backends. A backend is
// scoped to a single bucket at construction time.
type BlobStore interface {
	// EnsureBucket provisions the backing bucket if it does not exist yet.
	// Idempotent.
	EnsureBucket(ctx context.Context) error

	// Upload writes an object, overwriting any existing object at key.
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error

	// Delete removes an object.
	Delete(ctx context.Context, objectKey string) error

	// PublicURL returns the public URL for an object key. No network call
	// is required; the bucket is public-read.
	PublicURL(objectKey string) string
}

// Repository defines the interface for record persistence.
type Repository interface {
	CreateRecord(ctx context.Context, rec *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	UpdateRecord(ctx context.Context, rec *Record) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	// ListRecords returns one page ordered by created_at descending, plus
	// the total number of records matching the search.
	ListRecords(ctx context.Context, req ListRecordsRequest) ([]*Record, int, error)
}

// ImageHost defines the interface for the external image-hosting API.
type ImageHost interface {
	// Upload submits a signed upload. file is the image encoded as a data
	// URL; folder is optional.
	Upload(ctx context.Context, file string, folder string) (*HostedImage, error)

	// Delete submits a signed destroy request. Deleting an already-deleted
	// image is treated as success.
	Delete(ctx context.Context, publicID string) error
}
