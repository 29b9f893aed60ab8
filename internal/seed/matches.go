package seed

import "github.com/eplhub/crawler/internal/domain/ingest"

func intPtr(v int) *int { return &v }

// Illustrative fixtures used when matches parsing fails in live environments
// and the caller has opted in to the fallback.
var seedMatches = []ingest.MatchPayload{
	{
		Round:         1,
		MatchDate:     "2026-08-15 20:00:00",
		HomeShortCode: "ARS",
		AwayShortCode: "LIV",
		HomeScore:     intPtr(2),
		AwayScore:     intPtr(1),
		Status:        ingest.StatusFinished,
	},
	{
		Round:         2,
		MatchDate:     "2026-08-22 20:00:00",
		HomeShortCode: "LIV",
		AwayShortCode: "ARS",
		Status:        ingest.StatusScheduled,
	},
}

// Matches returns a copy of the fallback fixtures.
func Matches() []ingest.MatchPayload {
	out := make([]ingest.MatchPayload, len(seedMatches))
	copy(out, seedMatches)
	return out
}
