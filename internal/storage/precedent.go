package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// PrecedentRecord is a stored precedent: a dilemma snapshot, its
// reasoning paths, and an embedding of its comparable text for vector
// retrieval.
type PrecedentRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Precedent models.Precedent
	Embedding pgvector.Vector
	CreatedAt time.Time
}

// PrecedentRepository defines the interface for precedent storage operations
type PrecedentRepository interface {
	Create(ctx context.Context, record *PrecedentRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*PrecedentRecord, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*PrecedentRecord, error)
	FindSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]*PrecedentWithSimilarity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PrecedentWithSimilarity represents a precedent with its vector similarity score
type PrecedentWithSimilarity struct {
	Record     *PrecedentRecord
	Similarity float64
}

// PostgresPrecedentRepository implements PrecedentRepository using PostgreSQL with pgvector
type PostgresPrecedentRepository struct {
	db *sql.DB
}

// NewPostgresPrecedentRepository creates a new PostgresPrecedentRepository
func NewPostgresPrecedentRepository(db *sql.DB) *PostgresPrecedentRepository {
	return &PostgresPrecedentRepository{db: db}
}

// Create inserts a new precedent into the database
func (r *PostgresPrecedentRepository) Create(ctx context.Context, record *PrecedentRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	dilemma, err := json.Marshal(record.Precedent.Dilemma)
	if err != nil {
		return fmt.Errorf("marshal dilemma: %w", err)
	}
	paths, err := json.Marshal(record.Precedent.ReasoningPaths)
	if err != nil {
		return fmt.Errorf("marshal reasoning paths: %w", err)
	}

	query := `
		INSERT INTO precedents (id, user_id, title, dilemma, reasoning_paths, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Precedent.Title,
		dilemma,
		paths,
		record.Embedding,
		record.CreatedAt,
	)

	return err
}

// GetByID retrieves a precedent by its ID
func (r *PostgresPrecedentRepository) GetByID(ctx context.Context, id uuid.UUID) (*PrecedentRecord, error) {
	query := `
		SELECT id, user_id, title, dilemma, reasoning_paths, embedding, created_at
		FROM precedents
		WHERE id = $1
	`

	record, err := scanPrecedent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetByUserID retrieves all precedents for a specific user
func (r *PostgresPrecedentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*PrecedentRecord, error) {
	query := `
		SELECT id, user_id, title, dilemma, reasoning_paths, embedding, created_at
		FROM precedents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*PrecedentRecord
	for rows.Next() {
		record, err := scanPrecedent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// FindSimilar finds precedents similar to the given embedding using pgvector cosine distance
func (r *PostgresPrecedentRepository) FindSimilar(ctx context.Context, embedding pgvector.Vector, limit int, threshold float64) ([]*PrecedentWithSimilarity, error) {
	if limit <= 0 {
		limit = 10
	}
	if threshold <= 0 {
		threshold = 0.75
	}

	// Cosine distance is 1 - cosine_similarity, so keep rows where
	// 1 - distance >= threshold.
	query := `
		SELECT id, user_id, title, dilemma, reasoning_paths, embedding, created_at,
			   1 - (embedding <=> $1) as similarity
		FROM precedents
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, embedding, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*PrecedentWithSimilarity
	for rows.Next() {
		record := &PrecedentRecord{}
		var dilemma, paths []byte
		var similarity float64
		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Precedent.Title,
			&dilemma,
			&paths,
			&record.Embedding,
			&record.CreatedAt,
			&similarity,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalPrecedentParts(record, dilemma, paths); err != nil {
			return nil, err
		}
		results = append(results, &PrecedentWithSimilarity{
			Record:     record,
			Similarity: similarity,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Delete removes a precedent from the database
func (r *PostgresPrecedentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM precedents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func scanPrecedent(s scanner) (*PrecedentRecord, error) {
	record := &PrecedentRecord{}
	var dilemma, paths []byte

	err := s.Scan(
		&record.ID,
		&record.UserID,
		&record.Precedent.Title,
		&dilemma,
		&paths,
		&record.Embedding,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalPrecedentParts(record, dilemma, paths); err != nil {
		return nil, err
	}

	return record, nil
}

func unmarshalPrecedentParts(record *PrecedentRecord, dilemma, paths []byte) error {
	title := record.Precedent.Title
	if len(dilemma) > 0 {
		if err := json.Unmarshal(dilemma, &record.Precedent.Dilemma); err != nil {
			return fmt.Errorf("unmarshal dilemma: %w", err)
		}
	}
	if len(paths) > 0 {
		if err := json.Unmarshal(paths, &record.Precedent.ReasoningPaths); err != nil {
			return fmt.Errorf("unmarshal reasoning paths: %w", err)
		}
	}

	// The title column is authoritative.
	record.Precedent.Title = title
	record.Precedent.ID = record.ID.String()
	return nil
}
