package team

import "context"

// Repository describes team persistence needs from the ingestion use cases.
type Repository interface {
	// Upsert inserts by short code or updates the descriptive fields of the
	// existing row. The store-assigned ID is never changed.
	Upsert(ctx context.Context, t Team) error
	// ShortCodeIDMap reads back short_code -> team_id for reference
	// resolution of dependent datasets.
	ShortCodeIDMap(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}
