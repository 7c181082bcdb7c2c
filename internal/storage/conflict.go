package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterlab/dilemma-analyzer/internal/conflicts"
)

// ConflictRecord is one persisted conflict from an analysis run. The
// full conflict body is stored as JSONB; type and severity are lifted
// into columns for filtering.
type ConflictRecord struct {
	ID        uuid.UUID
	DilemmaID uuid.UUID
	Bucket    string
	Conflict  conflicts.Conflict
	CreatedAt time.Time
}

// Analysis buckets, mirroring the detector orchestration.
const (
	BucketSameAction  = "same_action"
	BucketCrossAction = "cross_action"
	BucketGranular    = "granular"
)

// ConflictRepository defines the interface for conflict storage operations
type ConflictRepository interface {
	CreateBatch(ctx context.Context, records []*ConflictRecord) error
	GetByDilemmaID(ctx context.Context, dilemmaID uuid.UUID) ([]*ConflictRecord, error)
	DeleteByDilemmaID(ctx context.Context, dilemmaID uuid.UUID) error
}

// PostgresConflictRepository implements ConflictRepository using PostgreSQL
type PostgresConflictRepository struct {
	db *sql.DB
}

// NewPostgresConflictRepository creates a new PostgresConflictRepository
func NewPostgresConflictRepository(db *sql.DB) *PostgresConflictRepository {
	return &PostgresConflictRepository{db: db}
}

// CreateBatch inserts the conflicts of one analysis run in a single transaction
func (r *PostgresConflictRepository) CreateBatch(ctx context.Context, records []*ConflictRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conflicts (id, dilemma_id, bucket, type, severity, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}

		body, err := json.Marshal(rec.Conflict)
		if err != nil {
			return fmt.Errorf("marshal conflict: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID,
			rec.DilemmaID,
			rec.Bucket,
			string(rec.Conflict.Type),
			string(rec.Conflict.Severity),
			body,
			rec.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByDilemmaID retrieves all conflicts recorded for a dilemma
func (r *PostgresConflictRepository) GetByDilemmaID(ctx context.Context, dilemmaID uuid.UUID) ([]*ConflictRecord, error) {
	query := `
		SELECT id, dilemma_id, bucket, body, created_at
		FROM conflicts
		WHERE dilemma_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, dilemmaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*ConflictRecord
	for rows.Next() {
		rec := &ConflictRecord{}
		var body []byte
		err := rows.Scan(
			&rec.ID,
			&rec.DilemmaID,
			&rec.Bucket,
			&body,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(body, &rec.Conflict); err != nil {
			return nil, fmt.Errorf("unmarshal conflict: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// DeleteByDilemmaID removes all conflicts recorded for a dilemma
func (r *PostgresConflictRepository) DeleteByDilemmaID(ctx context.Context, dilemmaID uuid.UUID) error {
	query := `DELETE FROM conflicts WHERE dilemma_id = $1`
	_, err := r.db.ExecContext(ctx, query, dilemmaID)
	return err
}
