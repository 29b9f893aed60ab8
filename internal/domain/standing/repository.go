package standing

import "context"

// Repository describes standing persistence needs from the ingestion use
// cases.
type Repository interface {
	Upsert(ctx context.Context, s Standing) error
	// ListRanked returns the full table ordered by rank ascending.
	ListRanked(ctx context.Context) ([]Standing, error)
	Count(ctx context.Context) (int64, error)
}
