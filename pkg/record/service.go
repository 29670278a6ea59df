package record

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the record lifecycle operations.
type Service interface {
	// CreateRecord validates the request, uploads any supplied images, and
	// inserts the record. Image upload failures do not fail the create;
	// they are returned as warnings on the result.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*SaveResult, error)

	// GetRecord returns a record, resolving any image value stored as a
	// bare object key to its public URL.
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)

	// UpdateRecord replaces record fields and swaps image attachments,
	// deleting superseded objects best-effort.
	UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (*SaveResult, error)

	// DeleteRecord removes the record and best-effort deletes its objects.
	// Returns ErrRecordNotFound without touching storage if the id is
	// unknown.
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	// ListRecords returns a page of records ordered by creation time
	// descending.
	ListRecords(ctx context.Context, req ListRecordsRequest) (*RecordPage, error)
}
