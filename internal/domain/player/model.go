package player

// Player is a stored player row. ID equals the source-stable player id, so
// the same player maps onto the same row across runs and sources.
type Player struct {
	ID          int64
	TeamID      int64
	Name        string
	Position    string
	JerseyNum   *int
	Nationality string
	PhotoURL    string
}

// SeasonStat accumulates scoring-pipeline output. Ingestion only ever seeds
// the all-zero row; it never updates an existing one.
type SeasonStat struct {
	PlayerID     int64
	Goals        int
	Assists      int
	AttackPoints int
	CleanSheets  int
}
