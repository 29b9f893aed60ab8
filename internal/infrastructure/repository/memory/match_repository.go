package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/eplhub/crawler/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[match.Key]match.Match
	stats  map[[2]int64]match.Stat
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		nextID: 1,
		byKey:  make(map[match.Key]match.Match),
		stats:  make(map[[2]int64]match.Stat),
	}
}

func (r *MatchRepository) Upsert(_ context.Context, row match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := match.Key{Round: row.Round, HomeTeamID: row.HomeTeamID, AwayTeamID: row.AwayTeamID}
	if existing, ok := r.byKey[key]; ok {
		row.ID = existing.ID
		r.byKey[key] = row
		return nil
	}
	row.ID = r.nextID
	r.nextID++
	r.byKey[key] = row
	return nil
}

func (r *MatchRepository) KeyIDMap(_ context.Context) (map[match.Key]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[match.Key]int64, len(r.byKey))
	for key, row := range r.byKey {
		out[key] = row.ID
	}
	return out, nil
}

func (r *MatchRepository) UpsertStat(_ context.Context, stat match.Stat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[[2]int64{stat.MatchID, stat.TeamID}] = stat
	return nil
}

func (r *MatchRepository) ListByRound(_ context.Context, round int) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Match
	for _, row := range r.byKey {
		if row.Round == round {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchDate != out[j].MatchDate {
			return out[i].MatchDate < out[j].MatchDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) RecentForm(_ context.Context, teamID int64, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var finished []match.Match
	for _, row := range r.byKey {
		if row.Status != "FINISHED" || row.HomeScore == nil || row.AwayScore == nil {
			continue
		}
		if row.HomeTeamID != teamID && row.AwayTeamID != teamID {
			continue
		}
		finished = append(finished, row)
	}
	sort.Slice(finished, func(i, j int) bool {
		if finished[i].MatchDate != finished[j].MatchDate {
			return finished[i].MatchDate > finished[j].MatchDate
		}
		return finished[i].ID > finished[j].ID
	})

	var out []string
	for _, row := range finished {
		if len(out) == limit {
			break
		}
		if symbol := match.FormSymbol(row, teamID); symbol != "" {
			out = append(out, symbol)
		}
	}
	return out, nil
}

func (r *MatchRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byKey)), nil
}

func (r *MatchRepository) CountStats(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.stats)), nil
}
