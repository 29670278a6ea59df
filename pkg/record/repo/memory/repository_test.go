package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

func newRecord(title string, createdAt time.Time) *record.Record {
	return &record.Record{
		ID:          uuid.New(),
		Title:       title,
		Description: "description of " + title,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestCreateAndGetRecord(t *testing.T) {
	repo := New()
	ctx := context.Background()

	rec := newRecord("first", time.Now())
	require.NoError(t, repo.CreateRecord(ctx, rec))

	got, err := repo.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "first", got.Title)

	// The repository hands out copies, not aliases.
	got.Title = "mutated"
	again, err := repo.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Title)
}

func TestGetRecordNotFound(t *testing.T) {
	repo := New()

	_, err := repo.GetRecord(context.Background(), uuid.New())
	assert.ErrorIs(t, err, record.ErrRecordNotFound)
}

func TestUpdateRecord(t *testing.T) {
	repo := New()
	ctx := context.Background()

	rec := newRecord("before", time.Now())
	require.NoError(t, repo.CreateRecord(ctx, rec))

	rec.Title = "after"
	require.NoError(t, repo.UpdateRecord(ctx, rec))

	got, err := repo.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)

	missing := newRecord("missing", time.Now())
	assert.ErrorIs(t, repo.UpdateRecord(ctx, missing), record.ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	repo := New()
	ctx := context.Background()

	rec := newRecord("doomed", time.Now())
	require.NoError(t, repo.CreateRecord(ctx, rec))

	require.NoError(t, repo.DeleteRecord(ctx, rec.ID))
	_, err := repo.GetRecord(ctx, rec.ID)
	assert.ErrorIs(t, err, record.ErrRecordNotFound)

	assert.ErrorIs(t, repo.DeleteRecord(ctx, rec.ID), record.ErrRecordNotFound)
}

func TestListRecordsPagination(t *testing.T) {
	repo := New()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 10; i++ {
		rec := newRecord(fmt.Sprintf("record %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.CreateRecord(ctx, rec))
	}

	page1, total, err := repo.ListRecords(ctx, record.ListRecordsRequest{Page: 1, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, page1, 9)
	assert.Equal(t, "record 9", page1[0].Title)

	page2, total, err := repo.ListRecords(ctx, record.ListRecordsRequest{Page: 2, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	require.Len(t, page2, 1)
	assert.Equal(t, "record 0", page2[0].Title)

	empty, total, err := repo.ListRecords(ctx, record.ListRecordsRequest{Page: 3, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Empty(t, empty)
}

func TestListRecordsSearch(t *testing.T) {
	repo := New()
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, repo.CreateRecord(ctx, newRecord("Summer Trip", base)))
	require.NoError(t, repo.CreateRecord(ctx, newRecord("Winter Trip", base.Add(time.Second))))
	require.NoError(t, repo.CreateRecord(ctx, newRecord("Groceries", base.Add(2*time.Second))))

	records, total, err := repo.ListRecords(ctx, record.ListRecordsRequest{Page: 1, Limit: 9, Search: "trip"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, records, 2)
	assert.Equal(t, "Winter Trip", records[0].Title)
	assert.Equal(t, "Summer Trip", records[1].Title)

	// Search matches descriptions too, and total counts matches before paging.
	records, total, err = repo.ListRecords(ctx, record.ListRecordsRequest{Page: 1, Limit: 1, Search: "description"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, records, 1)
}
