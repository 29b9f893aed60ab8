package match

// Key is the natural identity of a fixture: a pairing can only occur once
// per round, so a repeat under the same triple overwrites the first.
type Key struct {
	Round      int
	HomeTeamID int64
	AwayTeamID int64
}

// Match is a stored fixture row.
type Match struct {
	ID         int64
	Round      int
	MatchDate  string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
	Status     string
}

// Stat is one team's stat line for one stored match.
type Stat struct {
	MatchID       int64
	TeamID        int64
	Possession    float64
	Shots         int
	ShotsOnTarget int
	Fouls         int
	Corners       int
}

// FormSymbol reduces a finished match to W/D/L from teamID's perspective.
// Returns "" when the match has no recorded scores.
func FormSymbol(m Match, teamID int64) string {
	if m.HomeScore == nil || m.AwayScore == nil {
		return ""
	}
	diff := *m.HomeScore - *m.AwayScore
	if m.AwayTeamID == teamID {
		diff = -diff
	}
	switch {
	case diff > 0:
		return "W"
	case diff < 0:
		return "L"
	default:
		return "D"
	}
}
