package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterlab/dilemma-analyzer/pkg/models"
)

// DilemmaRecord is a stored dilemma. The structured parts (situation,
// factors, actions) live in JSONB columns so their shapes can evolve
// without migrations.
type DilemmaRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Dilemma   models.Dilemma
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DilemmaRepository defines the interface for dilemma storage operations
type DilemmaRepository interface {
	Create(ctx context.Context, record *DilemmaRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*DilemmaRecord, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*DilemmaRecord, error)
	Update(ctx context.Context, record *DilemmaRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresDilemmaRepository implements DilemmaRepository using PostgreSQL
type PostgresDilemmaRepository struct {
	db *sql.DB
}

// NewPostgresDilemmaRepository creates a new PostgresDilemmaRepository
func NewPostgresDilemmaRepository(db *sql.DB) *PostgresDilemmaRepository {
	return &PostgresDilemmaRepository{db: db}
}

// Create inserts a new dilemma into the database
func (r *PostgresDilemmaRepository) Create(ctx context.Context, record *DilemmaRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	situation, factors, actions, frameworks, err := marshalDilemmaParts(&record.Dilemma)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dilemmas (id, user_id, title, description, situation, contextual_factors, possible_actions, frameworks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Dilemma.Title,
		record.Dilemma.Description,
		situation,
		factors,
		actions,
		frameworks,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

// GetByID retrieves a dilemma by its ID
func (r *PostgresDilemmaRepository) GetByID(ctx context.Context, id uuid.UUID) (*DilemmaRecord, error) {
	query := `
		SELECT id, user_id, title, description, situation, contextual_factors, possible_actions, frameworks, created_at, updated_at
		FROM dilemmas
		WHERE id = $1
	`

	record, err := scanDilemma(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetByUserID retrieves all dilemmas for a specific user
func (r *PostgresDilemmaRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*DilemmaRecord, error) {
	query := `
		SELECT id, user_id, title, description, situation, contextual_factors, possible_actions, frameworks, created_at, updated_at
		FROM dilemmas
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*DilemmaRecord
	for rows.Next() {
		record, err := scanDilemma(rows)
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

// Update modifies an existing dilemma
func (r *PostgresDilemmaRepository) Update(ctx context.Context, record *DilemmaRecord) error {
	record.UpdatedAt = time.Now()

	situation, factors, actions, frameworks, err := marshalDilemmaParts(&record.Dilemma)
	if err != nil {
		return err
	}

	query := `
		UPDATE dilemmas
		SET title = $2, description = $3, situation = $4, contextual_factors = $5, possible_actions = $6, frameworks = $7, updated_at = $8
		WHERE id = $1
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.Dilemma.Title,
		record.Dilemma.Description,
		situation,
		factors,
		actions,
		frameworks,
		record.UpdatedAt,
	)

	return err
}

// Delete removes a dilemma from the database
func (r *PostgresDilemmaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM dilemmas WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// scanner covers *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanDilemma(s scanner) (*DilemmaRecord, error) {
	record := &DilemmaRecord{}
	var situation, factors, actions, frameworks []byte

	err := s.Scan(
		&record.ID,
		&record.UserID,
		&record.Dilemma.Title,
		&record.Dilemma.Description,
		&situation,
		&factors,
		&actions,
		&frameworks,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalDilemmaParts(&record.Dilemma, situation, factors, actions, frameworks); err != nil {
		return nil, err
	}
	record.Dilemma.ID = record.ID.String()

	return record, nil
}

func marshalDilemmaParts(d *models.Dilemma) (situation, factors, actions, frameworks []byte, err error) {
	if situation, err = json.Marshal(d.Situation); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal situation: %w", err)
	}
	if factors, err = json.Marshal(d.ContextualFactors); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal contextual factors: %w", err)
	}
	if actions, err = json.Marshal(d.Actions); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal actions: %w", err)
	}
	if frameworks, err = json.Marshal(d.Frameworks); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal frameworks: %w", err)
	}
	return situation, factors, actions, frameworks, nil
}

func unmarshalDilemmaParts(d *models.Dilemma, situation, factors, actions, frameworks []byte) error {
	if len(situation) > 0 {
		if err := json.Unmarshal(situation, &d.Situation); err != nil {
			return fmt.Errorf("unmarshal situation: %w", err)
		}
	}
	if len(factors) > 0 {
		if err := json.Unmarshal(factors, &d.ContextualFactors); err != nil {
			return fmt.Errorf("unmarshal contextual factors: %w", err)
		}
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &d.Actions); err != nil {
			return fmt.Errorf("unmarshal actions: %w", err)
		}
	}
	if len(frameworks) > 0 {
		if err := json.Unmarshal(frameworks, &d.Frameworks); err != nil {
			return fmt.Errorf("unmarshal frameworks: %w", err)
		}
	}
	return nil
}
