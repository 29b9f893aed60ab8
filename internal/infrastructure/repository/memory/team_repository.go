// Package memory implements the domain repositories in process memory,
// mirroring the natural-key conflict behavior of the postgres layer. Used by
// tests and local experiments that should not need a database.
package memory

import (
	"context"
	"sync"

	"github.com/eplhub/crawler/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	nextID int64
	byCode map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{nextID: 1, byCode: make(map[string]team.Team)}
}

func (r *TeamRepository) Upsert(_ context.Context, row team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCode[row.ShortCode]; ok {
		row.ID = existing.ID
		r.byCode[row.ShortCode] = row
		return nil
	}
	row.ID = r.nextID
	r.nextID++
	r.byCode[row.ShortCode] = row
	return nil
}

func (r *TeamRepository) ShortCodeIDMap(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(r.byCode))
	for code, row := range r.byCode {
		out[code] = row.ID
	}
	return out, nil
}

func (r *TeamRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byCode)), nil
}
