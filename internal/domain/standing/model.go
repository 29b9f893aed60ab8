package standing

// Standing is a stored league-table row, keyed by team.
type Standing struct {
	TeamID       int64
	Rank         int
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
	GoalDiff     int
	Points       int
}
