package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eplhub/crawler/internal/domain/team"
)

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Upsert(ctx context.Context, row team.Team) error {
	const query = `
		INSERT INTO teams (name, short_code, logo_url, stadium, manager)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (short_code) DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			stadium = EXCLUDED.stadium,
			manager = EXCLUDED.manager`

	if _, err := r.db.ExecContext(ctx, query, row.Name, row.ShortCode, row.LogoURL, row.Stadium, row.Manager); err != nil {
		return fmt.Errorf("upsert team %q: %w", row.ShortCode, err)
	}
	return nil
}

func (r *TeamRepository) ShortCodeIDMap(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ID        int64  `db:"team_id"`
		ShortCode string `db:"short_code"`
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT team_id, short_code FROM teams`); err != nil {
		return nil, fmt.Errorf("select team map: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ShortCode] = row.ID
	}
	return out, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM teams`); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}
