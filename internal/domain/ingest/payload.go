package ingest

// Match lifecycle as stored; every source normalizes provider statuses into
// one of these two values.
const (
	StatusFinished  = "FINISHED"
	StatusScheduled = "SCHEDULED"
)

// Dataset names a logical slice of league reference data. Every DataSource
// produces the same five datasets regardless of origin format.
type Dataset string

const (
	DatasetTeams      Dataset = "teams"
	DatasetPlayers    Dataset = "players"
	DatasetMatches    Dataset = "matches"
	DatasetMatchStats Dataset = "match_stats"
	DatasetStandings  Dataset = "standings"
)

// Policy decides what an unreachable or unparseable dataset does to the run:
// abort fails the whole job attempt, skip yields an empty dataset.
type Policy string

const (
	PolicyAbort Policy = "abort"
	PolicySkip  Policy = "skip"
)

// TeamPayload is a normalized team record. ShortCode is the natural key
// joining records across all sources.
type TeamPayload struct {
	Name      string `validate:"required"`
	ShortCode string `validate:"required,max=10"`
	LogoURL   string
	Stadium   string
	Manager   string
}

// PlayerPayload carries the provider-stable player id so re-ingestion maps
// onto the same row.
type PlayerPayload struct {
	PlayerID      int64  `validate:"required,gt=0"`
	TeamShortCode string `validate:"required,max=10"`
	Name          string `validate:"required"`
	Position      string `validate:"required"`
	JerseyNum     *int
	Nationality   string
	PhotoURL      string
}

// MatchPayload identifies a fixture by (round, home, away); scores are nil
// until the match finishes.
type MatchPayload struct {
	Round         int    `validate:"gte=0"`
	MatchDate     string `validate:"required"`
	HomeShortCode string `validate:"required,max=10"`
	AwayShortCode string `validate:"required,max=10"`
	HomeScore     *int
	AwayScore     *int
	Status        string `validate:"required,oneof=FINISHED SCHEDULED"`
}

// MatchStatPayload is one team's stat line for one match, keyed by the match
// triple plus the team the line belongs to.
type MatchStatPayload struct {
	Round         int    `validate:"gte=0"`
	HomeShortCode string `validate:"required,max=10"`
	AwayShortCode string `validate:"required,max=10"`
	TeamShortCode string `validate:"required,max=10"`
	Possession    float64 `validate:"gte=0,lte=100"`
	Shots         int
	ShotsOnTarget int
	Fouls         int
	Corners       int
}

// StandingPayload is a full league-table row for one team.
type StandingPayload struct {
	TeamShortCode string `validate:"required,max=10"`
	Rank          int    `validate:"gt=0"`
	Played        int
	Won           int
	Drawn         int
	Lost          int
	GoalsFor      int
	GoalsAgainst  int
	GoalDiff      int
	Points        int
}
