package visits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores each visit as a JSONB document. The plan shape
// evolves often (stops, eligibility items, generated results), so a document
// column beats a wide table here; user_id and timestamps are promoted to
// real columns for indexed lookups.
//
// Expected schema:
//
//	CREATE TABLE visits (
//	    id         text PRIMARY KEY,
//	    user_id    text NOT NULL,
//	    doc        jsonb NOT NULL,
//	    created_at timestamptz NOT NULL,
//	    updated_at timestamptz NOT NULL
//	);
//	CREATE INDEX visits_user_id_idx ON visits (user_id, created_at DESC);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, v *Visit) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding visit: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO visits (id, user_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.UserID, doc, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting visit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, visitID string) (*Visit, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `
		SELECT doc FROM visits WHERE id = $1 AND user_id = $2
	`, visitID, userID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying visit: %w", err)
	}

	var v Visit
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("error decoding visit %s: %w", visitID, err)
	}
	return &v, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doc FROM visits WHERE user_id = $1 ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing visits: %w", err)
	}
	defer rows.Close()

	out := make([]*Visit, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("error scanning visit: %w", err)
		}
		var v Visit
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, fmt.Errorf("error decoding visit: %w", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, v *Visit) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding visit: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE visits SET doc = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
	`, v.ID, v.UserID, doc, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error updating visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, visitID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM visits WHERE id = $1 AND user_id = $2
	`, visitID, userID)
	if err != nil {
		return fmt.Errorf("error deleting visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
