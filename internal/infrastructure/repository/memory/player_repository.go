package memory

import (
	"context"
	"sync"

	"github.com/eplhub/crawler/internal/domain/player"
)

type PlayerRepository struct {
	mu          sync.RWMutex
	byID        map[int64]player.Player
	seasonStats map[int64]player.SeasonStat
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		byID:        make(map[int64]player.Player),
		seasonStats: make(map[int64]player.SeasonStat),
	}
}

func (r *PlayerRepository) Upsert(_ context.Context, row player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[row.ID] = row
	if _, ok := r.seasonStats[row.ID]; !ok {
		r.seasonStats[row.ID] = player.SeasonStat{PlayerID: row.ID}
	}
	return nil
}

func (r *PlayerRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// SeasonStat exposes the stored stat row for assertions.
func (r *PlayerRepository) SeasonStat(playerID int64) (player.SeasonStat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stat, ok := r.seasonStats[playerID]
	return stat, ok
}

// SetSeasonStat simulates scoring-pipeline output so tests can verify that
// re-ingestion leaves accumulated values alone.
func (r *PlayerRepository) SetSeasonStat(stat player.SeasonStat) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seasonStats[stat.PlayerID] = stat
}
