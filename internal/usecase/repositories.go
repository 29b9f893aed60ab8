package usecase

import (
	"context"

	"github.com/eplhub/crawler/internal/domain/match"
	"github.com/eplhub/crawler/internal/domain/player"
	"github.com/eplhub/crawler/internal/domain/standing"
	"github.com/eplhub/crawler/internal/domain/team"
)

// Repositories bundles the per-entity repositories handed to a job. All of
// them are bound to the same transaction, so a failing job leaves nothing
// behind.
type Repositories struct {
	Teams     team.Repository
	Players   player.Repository
	Matches   match.Repository
	Standings standing.Repository
}

// Store is the transactional boundary jobs run inside.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Close() error
}

// StoreOpener opens a fresh Store per attempt so a retry never reuses a
// connection from a failed one.
type StoreOpener func(ctx context.Context) (Store, error)

// JobFunc is one unit of batch work executed inside a transaction.
type JobFunc func(ctx context.Context, repos Repositories) error
