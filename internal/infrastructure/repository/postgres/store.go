// Package postgres implements the domain repositories over sqlx with
// natural-key upserts, plus the transactional store batch jobs run inside.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/eplhub/crawler/internal/usecase"
)

type Store struct {
	db *sqlx.DB
}

func Open(ctx context.Context, dbURL string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn with repositories bound to a single transaction,
// committing on nil and rolling back on error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	repos := usecase.Repositories{
		Teams:     NewTeamRepository(tx),
		Players:   NewPlayerRepository(tx),
		Matches:   NewMatchRepository(tx),
		Standings: NewStandingRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
