package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SILAMEAS/Record-Report/pkg/record"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements record.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("record already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return record.ErrRecordNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateRecord(ctx context.Context, rec *record.Record) error {
	query := `
		INSERT INTO contents (
			id, title, description, main_image, thumbnail, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Title, rec.Description, rec.MainImage, rec.Thumbnail,
		rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create record", err)
	}

	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	query := `
        SELECT id, title, description, main_image, thumbnail, created_at, updated_at
        FROM contents WHERE id = $1`

	var rec record.Record
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Title, &rec.Description, &rec.MainImage, &rec.Thumbnail,
		&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrRecordNotFound
		}
		return nil, r.handlePostgresError("get record", err)
	}

	return &rec, nil
}

func (r *Repository) UpdateRecord(ctx context.Context, rec *record.Record) error {
	query := `
		UPDATE contents SET
			title = $2, description = $3, main_image = $4, thumbnail = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		rec.ID, rec.Title, rec.Description, rec.MainImage, rec.Thumbnail, rec.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update record", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}

	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete record", err)
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}

	return nil
}

// ListRecords returns one page ordered by created_at descending plus the total
// match count. Search is applied server-side so paging and total stay
// consistent.
func (r *Repository) ListRecords(ctx context.Context, req record.ListRecordsRequest) ([]*record.Record, int, error) {
	where := ""
	var args []interface{}
	if req.Search != "" {
		where = " WHERE title ILIKE $1 OR description ILIKE $1"
		args = append(args, "%"+req.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM contents"+where, args...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count records", err)
	}

	query := fmt.Sprintf(`
        SELECT id, title, description, main_image, thumbnail, created_at, updated_at
        FROM contents%s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list records", err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		var rec record.Record
		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.Description, &rec.MainImage, &rec.Thumbnail,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, 0, err
		}
		records = append(records, &rec)
	}

	return records, total, nil
}
