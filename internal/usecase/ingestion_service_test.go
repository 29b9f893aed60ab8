package usecase_test

import (
	"context"
	"testing"

	"github.com/eplhub/crawler/external/staticdata"
	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/domain/player"
	"github.com/eplhub/crawler/internal/infrastructure/repository/memory"
	"github.com/eplhub/crawler/internal/usecase"
)

func newMemoryRepos() (usecase.Repositories, *memory.PlayerRepository) {
	players := memory.NewPlayerRepository()
	return usecase.Repositories{
		Teams:     memory.NewTeamRepository(),
		Players:   players,
		Matches:   memory.NewMatchRepository(),
		Standings: memory.NewStandingRepository(),
	}, players
}

func TestIngestAll_StaticSource(t *testing.T) {
	t.Parallel()

	repos, _ := newMemoryRepos()
	service := usecase.NewIngestionService(staticdata.NewSource(), repos, nil)
	ctx := context.Background()

	if err := service.IngestAll(ctx); err != nil {
		t.Fatalf("ingest all: %v", err)
	}

	summary, err := usecase.Snapshot(ctx, repos)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := usecase.Summary{Teams: 3, Players: 3, Matches: 4, MatchStats: 2, Standings: 3}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestIngestAll_Idempotent(t *testing.T) {
	t.Parallel()

	repos, _ := newMemoryRepos()
	service := usecase.NewIngestionService(staticdata.NewSource(), repos, nil)
	ctx := context.Background()

	if err := service.IngestAll(ctx); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	first, err := usecase.Snapshot(ctx, repos)
	if err != nil {
		t.Fatalf("first snapshot: %v", err)
	}

	if err := service.IngestAll(ctx); err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	second, err := usecase.Snapshot(ctx, repos)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}

	if first != second {
		t.Fatalf("re-ingestion changed counts: %+v vs %+v", first, second)
	}
}

func TestIngestAll_ReadBackQueries(t *testing.T) {
	t.Parallel()

	repos, _ := newMemoryRepos()
	service := usecase.NewIngestionService(staticdata.NewSource(), repos, nil)
	ctx := context.Background()

	if err := service.IngestAll(ctx); err != nil {
		t.Fatalf("ingest all: %v", err)
	}

	teamIDs, err := repos.Teams.ShortCodeIDMap(ctx)
	if err != nil {
		t.Fatalf("team map: %v", err)
	}

	// Liverpool drew Chelsea in round 2 and beat them in round 3.
	form, err := repos.Matches.RecentForm(ctx, teamIDs["LIV"], 5)
	if err != nil {
		t.Fatalf("recent form: %v", err)
	}
	if len(form) != 2 || form[0] != "W" || form[1] != "D" {
		t.Fatalf("unexpected form: %v", form)
	}

	roundOne, err := repos.Matches.ListByRound(ctx, 1)
	if err != nil {
		t.Fatalf("list by round: %v", err)
	}
	if len(roundOne) != 1 || roundOne[0].HomeTeamID != teamIDs["ARS"] {
		t.Fatalf("unexpected round 1: %+v", roundOne)
	}

	table, err := repos.Standings.ListRanked(ctx)
	if err != nil {
		t.Fatalf("list ranked: %v", err)
	}
	if len(table) != 3 || table[0].TeamID != teamIDs["ARS"] || table[0].Rank != 1 {
		t.Fatalf("unexpected table: %+v", table)
	}
}

func TestUpsertPlayers_PreservesSeasonStats(t *testing.T) {
	t.Parallel()

	repos, players := newMemoryRepos()
	service := usecase.NewIngestionService(staticdata.NewSource(), repos, nil)
	ctx := context.Background()

	if err := service.UpsertTeams(ctx); err != nil {
		t.Fatalf("upsert teams: %v", err)
	}
	if err := service.UpsertPlayers(ctx); err != nil {
		t.Fatalf("upsert players: %v", err)
	}

	stat, ok := players.SeasonStat(101)
	if !ok || stat.Goals != 0 {
		t.Fatalf("expected zero-seeded stat row, got %+v (ok=%t)", stat, ok)
	}

	// Scoring output must survive a re-ingest.
	players.SetSeasonStat(player.SeasonStat{PlayerID: 101, Goals: 9, Assists: 5, AttackPoints: 70})
	if err := service.UpsertPlayers(ctx); err != nil {
		t.Fatalf("re-ingest players: %v", err)
	}
	stat, _ = players.SeasonStat(101)
	if stat.Goals != 9 || stat.AttackPoints != 70 {
		t.Fatalf("season stats were reset: %+v", stat)
	}
}

// orphanSource emits rows that reference teams the store has never seen.
type orphanSource struct{}

func (orphanSource) Name() string { return "orphan" }

func (orphanSource) LoadTeams(context.Context) ([]ingest.TeamPayload, error) {
	return []ingest.TeamPayload{{Name: "Arsenal FC", ShortCode: "ARS"}}, nil
}

func (orphanSource) LoadPlayers(context.Context) ([]ingest.PlayerPayload, error) {
	return []ingest.PlayerPayload{
		{PlayerID: 1, TeamShortCode: "ARS", Name: "Kept", Position: "FW"},
		{PlayerID: 2, TeamShortCode: "ZZZ", Name: "Dropped", Position: "MF"},
	}, nil
}

func (orphanSource) LoadMatches(context.Context) ([]ingest.MatchPayload, error) {
	return []ingest.MatchPayload{
		{Round: 1, MatchDate: "2025-08-10 20:00:00", HomeShortCode: "ARS", AwayShortCode: "ZZZ", Status: ingest.StatusScheduled},
	}, nil
}

func (orphanSource) LoadMatchStats(context.Context) ([]ingest.MatchStatPayload, error) {
	return []ingest.MatchStatPayload{
		{Round: 9, HomeShortCode: "ARS", AwayShortCode: "ARS", TeamShortCode: "ARS", Possession: 50},
	}, nil
}

func (orphanSource) LoadStandings(context.Context) ([]ingest.StandingPayload, error) {
	return []ingest.StandingPayload{{TeamShortCode: "ZZZ", Rank: 1}}, nil
}

func TestIngestAll_DropsUnknownReferences(t *testing.T) {
	t.Parallel()

	repos, _ := newMemoryRepos()
	service := usecase.NewIngestionService(orphanSource{}, repos, nil)
	ctx := context.Background()

	if err := service.IngestAll(ctx); err != nil {
		t.Fatalf("ingest all: %v", err)
	}

	summary, err := usecase.Snapshot(ctx, repos)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := usecase.Summary{Teams: 1, Players: 1, Matches: 0, MatchStats: 0, Standings: 0}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

// invalidSource mixes valid and validation-failing payloads.
type invalidSource struct{ orphanSource }

func (invalidSource) LoadTeams(context.Context) ([]ingest.TeamPayload, error) {
	return []ingest.TeamPayload{
		{Name: "Arsenal FC", ShortCode: "ARS"},
		{Name: "", ShortCode: "BAD"},
		{Name: "Too Long", ShortCode: "WAYTOOLONGCODE"},
	}, nil
}

func TestUpsertTeams_DropsInvalidPayloads(t *testing.T) {
	t.Parallel()

	repos, _ := newMemoryRepos()
	service := usecase.NewIngestionService(invalidSource{}, repos, nil)
	ctx := context.Background()

	if err := service.UpsertTeams(ctx); err != nil {
		t.Fatalf("upsert teams: %v", err)
	}
	count, err := repos.Teams.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the valid team, got %d", count)
	}
}
