package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eplhub/crawler/internal/domain/player"
)

type PlayerRepository struct {
	db sqlx.ExtContext
}

func NewPlayerRepository(db sqlx.ExtContext) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert writes the player row and seeds a zero season-stat row on first
// sight. The stat row is insert-only here: scoring jobs own its values and
// re-ingestion must not reset them.
func (r *PlayerRepository) Upsert(ctx context.Context, row player.Player) error {
	const playerQuery = `
		INSERT INTO players (player_id, team_id, name, position, jersey_num, nationality, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			jersey_num = EXCLUDED.jersey_num,
			nationality = EXCLUDED.nationality,
			photo_url = EXCLUDED.photo_url`

	if _, err := r.db.ExecContext(ctx, playerQuery, row.ID, row.TeamID, row.Name, row.Position, row.JerseyNum, row.Nationality, row.PhotoURL); err != nil {
		return fmt.Errorf("upsert player %d: %w", row.ID, err)
	}

	const statQuery = `
		INSERT INTO player_season_stats (player_id, goals, assists, attack_points, clean_sheets)
		VALUES ($1, 0, 0, 0, 0)
		ON CONFLICT (player_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, statQuery, row.ID); err != nil {
		return fmt.Errorf("seed season stats for player %d: %w", row.ID, err)
	}
	return nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM players`); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}
