package memory

import (
	"context"

	"github.com/eplhub/crawler/internal/usecase"
)

// Store satisfies the batch store contract without transactional semantics;
// repositories persist across WithinTx calls so tests can assert final state.
type Store struct {
	Repos usecase.Repositories
}

func NewStore() *Store {
	return &Store{Repos: usecase.Repositories{
		Teams:     NewTeamRepository(),
		Players:   NewPlayerRepository(),
		Matches:   NewMatchRepository(),
		Standings: NewStandingRepository(),
	}}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos usecase.Repositories) error) error {
	return fn(ctx, s.Repos)
}

func (*Store) Close() error { return nil }
