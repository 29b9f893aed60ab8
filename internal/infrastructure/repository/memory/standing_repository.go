package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eplhub/crawler/internal/domain/standing"
)

type StandingRepository struct {
	mu     sync.RWMutex
	byTeam map[int64]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byTeam: make(map[int64]standing.Standing)}
}

func (r *StandingRepository) Upsert(_ context.Context, row standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTeam[row.TeamID] = row
	return nil
}

func (r *StandingRepository) ListRanked(_ context.Context) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Standing, 0, len(r.byTeam))
	for _, row := range r.byTeam {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (r *StandingRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byTeam)), nil
}
