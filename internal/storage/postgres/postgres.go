// Package postgres implements the storage contract over a pgx connection
// pool. Cascade rules and the volume range live in the schema itself (see
// internal/database/migrations); the service layer still issues explicit
// child deletes so both backends behave identically.
package postgres

import (
	"context"

	"github.com/j3rr7/MusicBotRewrite/internal/database"
	"github.com/j3rr7/MusicBotRewrite/internal/domain/repositories"
	"github.com/jackc/pgx/v5"
)

// Store is a PostgreSQL-backed implementation of repositories.Store
type Store struct {
	db *database.DB
}

// New creates a store over an established connection pool
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Begin starts a database transaction. Read-only transactions are opened
// with ReadOnly access mode so they never block on row locks.
func (s *Store) Begin(ctx context.Context, writable bool) (repositories.Tx, error) {
	opts := pgx.TxOptions{}
	if !writable {
		opts.AccessMode = pgx.ReadOnly
	}
	pgxTx, err := s.db.Pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &tx{tx: pgxTx}, nil
}

// Close closes the underlying pool
func (s *Store) Close() {
	s.db.Close()
}
