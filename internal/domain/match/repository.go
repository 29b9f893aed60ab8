package match

import "context"

// Repository describes match and match-stat persistence needs from the
// ingestion use cases, plus the read-back queries the query service relies on.
type Repository interface {
	// Upsert inserts by (round, home, away) or updates date, scores and
	// status of the existing row.
	Upsert(ctx context.Context, m Match) error
	// KeyIDMap reads back the natural-key -> match_id map for stat
	// resolution.
	KeyIDMap(ctx context.Context) (map[Key]int64, error)
	// UpsertStat inserts by (match_id, team_id) or updates the stat fields.
	UpsertStat(ctx context.Context, s Stat) error
	ListByRound(ctx context.Context, round int) ([]Match, error)
	// RecentForm returns W/D/L symbols for the team's finished matches,
	// most recent first, at most limit entries.
	RecentForm(ctx context.Context, teamID int64, limit int) ([]string, error)
	Count(ctx context.Context) (int64, error)
	CountStats(ctx context.Context) (int64, error)
}
