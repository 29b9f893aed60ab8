package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eplhub/crawler/internal/domain/match"
)

type MatchRepository struct {
	db sqlx.ExtContext
}

func NewMatchRepository(db sqlx.ExtContext) *MatchRepository {
	return &MatchRepository{db: db}
}

type matchRow struct {
	ID         int64  `db:"match_id"`
	Round      int    `db:"round"`
	MatchDate  string `db:"match_date"`
	HomeTeamID int64  `db:"home_team_id"`
	AwayTeamID int64  `db:"away_team_id"`
	HomeScore  *int   `db:"home_score"`
	AwayScore  *int   `db:"away_score"`
	Status     string `db:"status"`
}

func (m matchRow) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		Round:      m.Round,
		MatchDate:  m.MatchDate,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     m.Status,
	}
}

func (r *MatchRepository) Upsert(ctx context.Context, row match.Match) error {
	const query = `
		INSERT INTO matches (round, match_date, home_team_id, away_team_id, home_score, away_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (round, home_team_id, away_team_id) DO UPDATE SET
			match_date = EXCLUDED.match_date,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			status = EXCLUDED.status`

	if _, err := r.db.ExecContext(ctx, query, row.Round, row.MatchDate, row.HomeTeamID, row.AwayTeamID, row.HomeScore, row.AwayScore, row.Status); err != nil {
		return fmt.Errorf("upsert match r%d home=%d away=%d: %w", row.Round, row.HomeTeamID, row.AwayTeamID, err)
	}
	return nil
}

func (r *MatchRepository) KeyIDMap(ctx context.Context) (map[match.Key]int64, error) {
	var rows []struct {
		ID         int64 `db:"match_id"`
		Round      int   `db:"round"`
		HomeTeamID int64 `db:"home_team_id"`
		AwayTeamID int64 `db:"away_team_id"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT match_id, round, home_team_id, away_team_id FROM matches`); err != nil {
		return nil, fmt.Errorf("select match map: %w", err)
	}

	out := make(map[match.Key]int64, len(rows))
	for _, row := range rows {
		out[match.Key{Round: row.Round, HomeTeamID: row.HomeTeamID, AwayTeamID: row.AwayTeamID}] = row.ID
	}
	return out, nil
}

func (r *MatchRepository) UpsertStat(ctx context.Context, row match.Stat) error {
	const query = `
		INSERT INTO match_stats (match_id, team_id, possession, shots, shots_on_target, fouls, corners)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, team_id) DO UPDATE SET
			possession = EXCLUDED.possession,
			shots = EXCLUDED.shots,
			shots_on_target = EXCLUDED.shots_on_target,
			fouls = EXCLUDED.fouls,
			corners = EXCLUDED.corners`

	if _, err := r.db.ExecContext(ctx, query, row.MatchID, row.TeamID, row.Possession, row.Shots, row.ShotsOnTarget, row.Fouls, row.Corners); err != nil {
		return fmt.Errorf("upsert stat match=%d team=%d: %w", row.MatchID, row.TeamID, err)
	}
	return nil
}

func (r *MatchRepository) ListByRound(ctx context.Context, round int) ([]match.Match, error) {
	const query = `
		SELECT match_id, round, match_date, home_team_id, away_team_id, home_score, away_score, status
		FROM matches
		WHERE round = $1
		ORDER BY match_date, match_id`

	var rows []matchRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, round); err != nil {
		return nil, fmt.Errorf("select matches round=%d: %w", round, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) RecentForm(ctx context.Context, teamID int64, limit int) ([]string, error) {
	const query = `
		SELECT match_id, round, match_date, home_team_id, away_team_id, home_score, away_score, status
		FROM matches
		WHERE (home_team_id = $1 OR away_team_id = $1)
		  AND status = 'FINISHED'
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY match_date DESC, match_id DESC
		LIMIT $2`

	var rows []matchRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, teamID, limit); err != nil {
		return nil, fmt.Errorf("select recent form team=%d: %w", teamID, err)
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if symbol := match.FormSymbol(row.toDomain(), teamID); symbol != "" {
			out = append(out, symbol)
		}
	}
	return out, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM matches`); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (r *MatchRepository) CountStats(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM match_stats`); err != nil {
		return 0, fmt.Errorf("count match stats: %w", err)
	}
	return count, nil
}
