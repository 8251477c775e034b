// Package repository holds the Postgres-backed stores. Only operator
// variables live here; all retrieval data lives in the vector index.
package repository

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VariableRepository reads operator-editable variables such as prompt
// overrides. Lookups soft-fail: a missing row or a database error returns an
// empty string so callers fall back to their compiled defaults.
type VariableRepository struct {
	pool *pgxpool.Pool
}

func NewVariableRepository(pool *pgxpool.Pool) *VariableRepository {
	return &VariableRepository{pool: pool}
}

// Get returns the content of the named variable, or "" when absent.
func (r *VariableRepository) Get(ctx context.Context, name string) (string, error) {
	if r == nil || r.pool == nil {
		return "", nil
	}
	var content string
	err := r.pool.QueryRow(ctx,
		`SELECT content FROM variables WHERE name = $1 AND deleted_at IS NULL LIMIT 1`,
		name,
	).Scan(&content)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[DB PROMPT] lookup %q failed, using default: %v", name, err)
		}
		return "", nil
	}
	return content, nil
}

// Set upserts a variable, reviving a soft-deleted row of the same name.
func (r *VariableRepository) Set(ctx context.Context, name, content string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO variables (name, content, created_at, updated_at)
		 VALUES ($1, $2, now(), now())
		 ON CONFLICT (name) DO UPDATE SET content = $2, updated_at = now(), deleted_at = NULL`,
		name, content,
	)
	return err
}
