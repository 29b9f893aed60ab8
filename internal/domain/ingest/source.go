package ingest

import "context"

// DataSource is the contract every origin variant fulfils. Implementations
// own fetch/parse failure handling for their origin: a dataset that cannot
// be produced either returns an empty slice (policy skip) or an error
// carrying ErrDatasetParse or ErrTransientFetch (policy abort).
type DataSource interface {
	Name() string
	LoadTeams(ctx context.Context) ([]TeamPayload, error)
	LoadPlayers(ctx context.Context) ([]PlayerPayload, error)
	LoadMatches(ctx context.Context) ([]MatchPayload, error)
	LoadMatchStats(ctx context.Context) ([]MatchStatPayload, error)
	LoadStandings(ctx context.Context) ([]StandingPayload, error)
}
