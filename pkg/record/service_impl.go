package record

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SILAMEAS/Record-Report/pkg/record/objectkey"
	"github.com/google/uuid"
)

// DefaultListLimit is the page size used when the caller does not supply one.
const DefaultListLimit = 9

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithLogger sets the logger used for best-effort cleanup reporting
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) CreateRecord(ctx context.Context, req CreateRecordRequest) (*SaveResult, error) {
	if req.Title == "" || req.Description == "" {
		return nil, ErrMissingRequiredField
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var warnings []string
	if req.MainImage != nil || req.Thumbnail != nil {
		if err := s.blobStore.EnsureBucket(ctx); err != nil {
			s.logger.Error("storage bucket unavailable, saving record without images", "error", err)
			warnings = append(warnings, "storage bucket unavailable; record saved without images")
		} else {
			if req.MainImage != nil {
				url, err := s.uploadImage(ctx, objectkey.SlotMain, req.MainImage)
				if err != nil {
					s.logger.Error("main image upload failed", "record_id", rec.ID, "error", err)
					warnings = append(warnings, "main image upload failed: "+err.Error())
				} else {
					rec.MainImage = &url
				}
			}
			if req.Thumbnail != nil {
				url, err := s.uploadImage(ctx, objectkey.SlotThumbnail, req.Thumbnail)
				if err != nil {
					s.logger.Error("thumbnail upload failed", "record_id", rec.ID, "error", err)
					warnings = append(warnings, "thumbnail upload failed: "+err.Error())
				} else {
					rec.Thumbnail = &url
				}
			}
		}
	}

	if err := s.repository.CreateRecord(ctx, rec); err != nil {
		return nil, &RecordError{RecordID: rec.ID, Op: "create", Err: err}
	}

	return &SaveResult{Record: rec, Warnings: warnings}, nil
}

func (s *service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := s.repository.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	// Older rows may hold a bare object key instead of a URL.
	rec.MainImage = s.resolveImageURL(rec.MainImage)
	rec.Thumbnail = s.resolveImageURL(rec.Thumbnail)

	return rec, nil
}

func (s *service) UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (*SaveResult, error) {
	if req.Title == "" || req.Description == "" {
		return nil, ErrMissingRequiredField
	}

	current, err := s.repository.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	mainImage := req.ExistingMainImage
	thumbnail := req.ExistingThumbnail

	var warnings []string
	if req.MainImage != nil || req.Thumbnail != nil {
		if err := s.blobStore.EnsureBucket(ctx); err != nil {
			// Update the text fields only; leave stored images untouched.
			s.logger.Error("storage bucket unavailable, keeping current images", "record_id", id, "error", err)
			warnings = append(warnings, "storage bucket unavailable; images not updated")
			mainImage = current.MainImage
			thumbnail = current.Thumbnail
		} else {
			if req.MainImage != nil {
				mainImage = s.replaceImage(ctx, objectkey.SlotMain, req.MainImage,
					current.MainImage, req.ExistingMainImage, &warnings)
			}
			if req.Thumbnail != nil {
				thumbnail = s.replaceImage(ctx, objectkey.SlotThumbnail, req.Thumbnail,
					current.Thumbnail, req.ExistingThumbnail, &warnings)
			}
		}
	}

	rec := &Record{
		ID:          current.ID,
		Title:       req.Title,
		Description: req.Description,
		MainImage:   mainImage,
		Thumbnail:   thumbnail,
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repository.UpdateRecord(ctx, rec); err != nil {
		return nil, &RecordError{RecordID: id, Op: "update", Err: err}
	}

	return &SaveResult{Record: rec, Warnings: warnings}, nil
}

func (s *service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repository.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	if rec.MainImage != nil {
		s.cleanupObject(ctx, *rec.MainImage)
	}
	if rec.Thumbnail != nil {
		s.cleanupObject(ctx, *rec.Thumbnail)
	}

	if err := s.repository.DeleteRecord(ctx, id); err != nil {
		return &RecordError{RecordID: id, Op: "delete", Err: err}
	}

	return nil
}

func (s *service) ListRecords(ctx context.Context, req ListRecordsRequest) (*RecordPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = DefaultListLimit
	}

	records, total, err := s.repository.ListRecords(ctx, req)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*Record{}
	}

	return &RecordPage{
		Records: records,
		Total:   total,
		Page:    req.Page,
		Limit:   req.Limit,
	}, nil
}

// uploadImage writes the image under a fresh slot key and returns its public
// URL.
func (s *service) uploadImage(ctx context.Context, slot string, img *ImageUpload) (string, error) {
	key := objectkey.New(slot, img.FileName, time.Now())
	if err := s.blobStore.Upload(ctx, key, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", err
	}
	return s.blobStore.PublicURL(key), nil
}

// replaceImage uploads a replacement for one image slot. On success the
// superseded object is deleted, but only when the stored value differs from
// the caller-supplied existing value. On failure the existing value is kept
// and a warning is recorded.
func (s *service) replaceImage(ctx context.Context, slot string, img *ImageUpload, stored, existing *string, warnings *[]string) *string {
	url, err := s.uploadImage(ctx, slot, img)
	if err != nil {
		s.logger.Error("image upload failed, keeping existing image", "slot", slot, "error", err)
		*warnings = append(*warnings, slot+" image upload failed: "+err.Error())
		return existing
	}

	if stored != nil && (existing == nil || *stored != *existing) {
		s.cleanupObject(ctx, *stored)
	}

	return &url
}

// cleanupObject is a fire-and-forget delete of a stored object. Failures are
// logged and never propagated; a storage hiccup must not block record
// mutation.
func (s *service) cleanupObject(ctx context.Context, imageURL string) {
	key, err := objectkey.FromURL(imageURL)
	if err != nil {
		s.logger.Warn("cannot derive object key from image url", "url", imageURL, "error", err)
		return
	}
	if err := s.blobStore.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete stored object", "key", key, "error", err)
	}
}

func (s *service) resolveImageURL(value *string) *string {
	if value == nil || *value == "" || strings.Contains(*value, "://") {
		return value
	}
	resolved := s.blobStore.PublicURL(*value)
	return &resolved
}
