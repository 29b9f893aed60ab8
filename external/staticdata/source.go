// Package staticdata provides the offline DataSource variant: a small,
// fixed dataset served from memory, used for local development and as the
// baseline for end-to-end tests. No I/O, no failure modes.
package staticdata

import (
	"context"

	"github.com/eplhub/crawler/internal/domain/ingest"
)

func intPtr(v int) *int { return &v }

var teams = []ingest.TeamPayload{
	{Name: "Arsenal FC", ShortCode: "ARS", LogoURL: "https://example.com/logos/ars.png", Stadium: "Emirates Stadium", Manager: "Mikel Arteta"},
	{Name: "Liverpool FC", ShortCode: "LIV", LogoURL: "https://example.com/logos/liv.png", Stadium: "Anfield", Manager: "Arne Slot"},
	{Name: "Chelsea FC", ShortCode: "CHE", LogoURL: "https://example.com/logos/che.png", Stadium: "Stamford Bridge", Manager: "Enzo Maresca"},
}

var players = []ingest.PlayerPayload{
	{PlayerID: 101, TeamShortCode: "ARS", Name: "Bukayo Saka", Position: "FW", JerseyNum: intPtr(7), Nationality: "England", PhotoURL: "https://example.com/players/saka.png"},
	{PlayerID: 102, TeamShortCode: "ARS", Name: "Declan Rice", Position: "MF", JerseyNum: intPtr(41), Nationality: "England", PhotoURL: "https://example.com/players/rice.png"},
	{PlayerID: 201, TeamShortCode: "LIV", Name: "Mohamed Salah", Position: "FW", JerseyNum: intPtr(11), Nationality: "Egypt", PhotoURL: "https://example.com/players/salah.png"},
}

var matches = []ingest.MatchPayload{
	{Round: 1, MatchDate: "2025-08-10 20:00:00", HomeShortCode: "ARS", AwayShortCode: "CHE", HomeScore: intPtr(2), AwayScore: intPtr(1), Status: ingest.StatusFinished},
	{Round: 2, MatchDate: "2025-08-17 17:30:00", HomeShortCode: "LIV", AwayShortCode: "CHE", HomeScore: intPtr(1), AwayScore: intPtr(1), Status: ingest.StatusFinished},
	{Round: 3, MatchDate: "2025-08-24 20:00:00", HomeShortCode: "CHE", AwayShortCode: "LIV", HomeScore: intPtr(0), AwayScore: intPtr(2), Status: ingest.StatusFinished},
	{Round: 4, MatchDate: "2025-08-31 20:00:00", HomeShortCode: "LIV", AwayShortCode: "ARS", Status: ingest.StatusScheduled},
}

var matchStats = []ingest.MatchStatPayload{
	{Round: 1, HomeShortCode: "ARS", AwayShortCode: "CHE", TeamShortCode: "ARS", Possession: 56.4, Shots: 14, ShotsOnTarget: 6, Fouls: 10, Corners: 7},
	{Round: 1, HomeShortCode: "ARS", AwayShortCode: "CHE", TeamShortCode: "CHE", Possession: 43.6, Shots: 9, ShotsOnTarget: 4, Fouls: 12, Corners: 3},
}

var standings = []ingest.StandingPayload{
	{TeamShortCode: "ARS", Rank: 1, Played: 24, Won: 18, Drawn: 4, Lost: 2, GoalsFor: 55, GoalsAgainst: 20, GoalDiff: 35, Points: 58},
	{TeamShortCode: "LIV", Rank: 2, Played: 24, Won: 17, Drawn: 5, Lost: 2, GoalsFor: 53, GoalsAgainst: 22, GoalDiff: 31, Points: 56},
	{TeamShortCode: "CHE", Rank: 3, Played: 24, Won: 15, Drawn: 6, Lost: 3, GoalsFor: 49, GoalsAgainst: 24, GoalDiff: 25, Points: 51},
}

type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (*Source) Name() string { return "static" }

func (*Source) LoadTeams(_ context.Context) ([]ingest.TeamPayload, error) {
	out := make([]ingest.TeamPayload, len(teams))
	copy(out, teams)
	return out, nil
}

func (*Source) LoadPlayers(_ context.Context) ([]ingest.PlayerPayload, error) {
	out := make([]ingest.PlayerPayload, len(players))
	copy(out, players)
	return out, nil
}

func (*Source) LoadMatches(_ context.Context) ([]ingest.MatchPayload, error) {
	out := make([]ingest.MatchPayload, len(matches))
	copy(out, matches)
	return out, nil
}

func (*Source) LoadMatchStats(_ context.Context) ([]ingest.MatchStatPayload, error) {
	out := make([]ingest.MatchStatPayload, len(matchStats))
	copy(out, matchStats)
	return out, nil
}

func (*Source) LoadStandings(_ context.Context) ([]ingest.StandingPayload, error) {
	out := make([]ingest.StandingPayload, len(standings))
	copy(out, standings)
	return out, nil
}
