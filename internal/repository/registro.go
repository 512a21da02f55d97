// Package repository wraps all SQL used by the API.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Envelope is a stored document plus its store-assigned identity.
type Envelope struct {
	ID        string          `json:"id"`
	Doc       json.RawMessage `json:"registro"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RegistroRepository appends and lists submission documents per collection.
type RegistroRepository struct {
	pool *pgxpool.Pool
}

// NewRegistroRepository constructs a repository.
func NewRegistroRepository(pool *pgxpool.Pool) *RegistroRepository {
	return &RegistroRepository{pool: pool}
}

// Append inserts doc into the named collection and returns the generated id.
// The document is immutable once written; nothing in this service updates it.
func (r *RegistroRepository) Append(ctx context.Context, collection string, doc any) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal doc: %w", err)
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO registros (id, collection, doc, created_at)
		VALUES ($1,$2,$3,$4)
	`, id, collection, payload, now)
	if err != nil {
		return "", fmt.Errorf("insert registro: %w", err)
	}
	return id, nil
}

// List returns up to limit documents from a collection, newest first.
func (r *RegistroRepository) List(ctx context.Context, collection string, limit int) ([]Envelope, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, doc, created_at
		FROM registros
		WHERE collection=$1
		ORDER BY created_at DESC
		LIMIT $2
	`, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("select registros: %w", err)
	}
	defer rows.Close()
	var out []Envelope
	for rows.Next() {
		var env Envelope
		if err := rows.Scan(&env.ID, &env.Doc, &env.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registro: %w", err)
		}
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registros: %w", err)
	}
	return out, nil
}
