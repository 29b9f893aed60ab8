package player

import "context"

// Repository describes player persistence needs from the ingestion use cases.
type Repository interface {
	// Upsert writes the player row and seeds its zero-valued season-stat row
	// when absent. Season stats of an existing player are left untouched.
	Upsert(ctx context.Context, p Player) error
	Count(ctx context.Context) (int64, error)
}
