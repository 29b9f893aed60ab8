package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eplhub/crawler/internal/domain/standing"
)

type StandingRepository struct {
	db sqlx.ExtContext
}

func NewStandingRepository(db sqlx.ExtContext) *StandingRepository {
	return &StandingRepository{db: db}
}

type standingRow struct {
	TeamID       int64 `db:"team_id"`
	Rank         int   `db:"rank"`
	Played       int   `db:"played"`
	Won          int   `db:"won"`
	Drawn        int   `db:"drawn"`
	Lost         int   `db:"lost"`
	GoalsFor     int   `db:"goals_for"`
	GoalsAgainst int   `db:"goals_against"`
	GoalDiff     int   `db:"goal_diff"`
	Points       int   `db:"points"`
}

func (r *StandingRepository) Upsert(ctx context.Context, row standing.Standing) error {
	const query = `
		INSERT INTO standings (team_id, rank, played, won, drawn, lost, goals_for, goals_against, goal_diff, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (team_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			drawn = EXCLUDED.drawn,
			lost = EXCLUDED.lost,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			goal_diff = EXCLUDED.goal_diff,
			points = EXCLUDED.points`

	if _, err := r.db.ExecContext(ctx, query, row.TeamID, row.Rank, row.Played, row.Won, row.Drawn, row.Lost, row.GoalsFor, row.GoalsAgainst, row.GoalDiff, row.Points); err != nil {
		return fmt.Errorf("upsert standing team=%d: %w", row.TeamID, err)
	}
	return nil
}

func (r *StandingRepository) ListRanked(ctx context.Context) ([]standing.Standing, error) {
	const query = `
		SELECT team_id, rank, played, won, drawn, lost, goals_for, goals_against, goal_diff, points
		FROM standings
		ORDER BY rank`

	var rows []standingRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			TeamID:       row.TeamID,
			Rank:         row.Rank,
			Played:       row.Played,
			Won:          row.Won,
			Drawn:        row.Drawn,
			Lost:         row.Lost,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalDiff:     row.GoalDiff,
			Points:       row.Points,
		})
	}
	return out, nil
}

func (r *StandingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM standings`); err != nil {
		return 0, fmt.Errorf("count standings: %w", err)
	}
	return count, nil
}
