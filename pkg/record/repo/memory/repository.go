package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

// Repository is an in-memory implementation of record.Repository
type Repository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*record.Record
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: make(map[uuid.UUID]*record.Record),
	}
}

func (r *Repository) CreateRecord(ctx context.Context, rec *record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, exists := r.records[id]
	if !exists {
		return nil, record.ErrRecordNotFound
	}

	rec := *stored
	return &rec, nil
}

func (r *Repository) UpdateRecord(ctx context.Context, rec *record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ID]; !exists {
		return record.ErrRecordNotFound
	}

	stored := *rec
	r.records[rec.ID] = &stored
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return record.ErrRecordNotFound
	}

	delete(r.records, id)
	return nil
}

func (r *Repository) ListRecords(ctx context.Context, req record.ListRecordsRequest) ([]*record.Record, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(req.Search)
	var matched []*record.Record
	for _, stored := range r.records {
		if search != "" &&
			!strings.Contains(strings.ToLower(stored.Title), search) &&
			!strings.Contains(strings.ToLower(stored.Description), search) {
			continue
		}
		rec := *stored
		matched = append(matched, &rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	offset := (req.Page - 1) * req.Limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + req.Limit
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}
