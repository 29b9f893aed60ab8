package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/domain/match"
	"github.com/eplhub/crawler/internal/domain/player"
	"github.com/eplhub/crawler/internal/domain/standing"
	"github.com/eplhub/crawler/internal/domain/team"
	"github.com/eplhub/crawler/internal/platform/logging"
)

// IngestionService reconciles one DataSource's payloads into the store.
// Upserts are keyed on natural identity, so re-running any ingest against
// unchanged inputs is a no-op on row counts.
type IngestionService struct {
	source   ingest.DataSource
	repos    Repositories
	validate *validator.Validate
	logger   *logging.Logger
}

func NewIngestionService(source ingest.DataSource, repos Repositories, logger *logging.Logger) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		source:   source,
		repos:    repos,
		validate: validator.New(),
		logger:   logger,
	}
}

// IngestAll runs every dataset in dependency order: teams first so the
// short-code map exists, match stats after matches so the key map exists.
func (s *IngestionService) IngestAll(ctx context.Context) error {
	if err := s.UpsertTeams(ctx); err != nil {
		return err
	}
	if err := s.UpsertPlayers(ctx); err != nil {
		return err
	}
	if err := s.UpsertMatches(ctx); err != nil {
		return err
	}
	if err := s.UpsertMatchStats(ctx); err != nil {
		return err
	}
	return s.UpsertStandings(ctx)
}

// SyncCore refreshes the datasets that drift daily without touching player
// records.
func (s *IngestionService) SyncCore(ctx context.Context) error {
	if err := s.UpsertTeams(ctx); err != nil {
		return err
	}
	if err := s.UpsertMatches(ctx); err != nil {
		return err
	}
	return s.UpsertStandings(ctx)
}

func (s *IngestionService) UpsertTeams(ctx context.Context) error {
	payloads, err := s.source.LoadTeams(ctx)
	if err != nil {
		return fmt.Errorf("load teams from %s: %w", s.source.Name(), err)
	}

	stored := 0
	for _, payload := range payloads {
		if !s.payloadValid(ctx, ingest.DatasetTeams, payload) {
			continue
		}
		row := team.Team{
			Name:      payload.Name,
			ShortCode: payload.ShortCode,
			LogoURL:   payload.LogoURL,
			Stadium:   payload.Stadium,
			Manager:   payload.Manager,
		}
		if err := s.repos.Teams.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert team %s: %w", payload.ShortCode, err)
		}
		stored++
	}
	s.logger.InfoContext(ctx, "teams ingested", "source", s.source.Name(), "loaded", len(payloads), "stored", stored)
	return nil
}

func (s *IngestionService) UpsertPlayers(ctx context.Context) error {
	payloads, err := s.source.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("load players from %s: %w", s.source.Name(), err)
	}

	teamIDs, err := s.repos.Teams.ShortCodeIDMap(ctx)
	if err != nil {
		return fmt.Errorf("read team map: %w", err)
	}

	stored := 0
	for _, payload := range payloads {
		if !s.payloadValid(ctx, ingest.DatasetPlayers, payload) {
			continue
		}
		teamID, ok := teamIDs[payload.TeamShortCode]
		if !ok {
			s.logger.WarnContext(ctx, "player references unknown team",
				"player_id", payload.PlayerID, "team", payload.TeamShortCode)
			continue
		}
		row := player.Player{
			ID:          payload.PlayerID,
			TeamID:      teamID,
			Name:        payload.Name,
			Position:    payload.Position,
			JerseyNum:   payload.JerseyNum,
			Nationality: payload.Nationality,
			PhotoURL:    payload.PhotoURL,
		}
		if err := s.repos.Players.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert player %d: %w", payload.PlayerID, err)
		}
		stored++
	}
	s.logger.InfoContext(ctx, "players ingested", "source", s.source.Name(), "loaded", len(payloads), "stored", stored)
	return nil
}

func (s *IngestionService) UpsertMatches(ctx context.Context) error {
	payloads, err := s.source.LoadMatches(ctx)
	if err != nil {
		return fmt.Errorf("load matches from %s: %w", s.source.Name(), err)
	}

	teamIDs, err := s.repos.Teams.ShortCodeIDMap(ctx)
	if err != nil {
		return fmt.Errorf("read team map: %w", err)
	}

	stored := 0
	for _, payload := range payloads {
		if !s.payloadValid(ctx, ingest.DatasetMatches, payload) {
			continue
		}
		homeID, homeOK := teamIDs[payload.HomeShortCode]
		awayID, awayOK := teamIDs[payload.AwayShortCode]
		if !homeOK || !awayOK {
			s.logger.WarnContext(ctx, "match references unknown team",
				"round", payload.Round, "home", payload.HomeShortCode, "away", payload.AwayShortCode)
			continue
		}
		row := match.Match{
			Round:      payload.Round,
			MatchDate:  payload.MatchDate,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			HomeScore:  payload.HomeScore,
			AwayScore:  payload.AwayScore,
			Status:     payload.Status,
		}
		if err := s.repos.Matches.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert match r%d %s-%s: %w", payload.Round, payload.HomeShortCode, payload.AwayShortCode, err)
		}
		stored++
	}
	s.logger.InfoContext(ctx, "matches ingested", "source", s.source.Name(), "loaded", len(payloads), "stored", stored)
	return nil
}

func (s *IngestionService) UpsertMatchStats(ctx context.Context) error {
	payloads, err := s.source.LoadMatchStats(ctx)
	if err != nil {
		return fmt.Errorf("load match stats from %s: %w", s.source.Name(), err)
	}

	teamIDs, err := s.repos.Teams.ShortCodeIDMap(ctx)
	if err != nil {
		return fmt.Errorf("read team map: %w", err)
	}
	matchIDs, err := s.repos.Matches.KeyIDMap(ctx)
	if err != nil {
		return fmt.Errorf("read match map: %w", err)
	}

	stored := 0
	for _, payload := range payloads {
		if !s.payloadValid(ctx, ingest.DatasetMatchStats, payload) {
			continue
		}
		homeID, homeOK := teamIDs[payload.HomeShortCode]
		awayID, awayOK := teamIDs[payload.AwayShortCode]
		teamID, teamOK := teamIDs[payload.TeamShortCode]
		if !homeOK || !awayOK || !teamOK {
			s.logger.WarnContext(ctx, "stat line references unknown team",
				"round", payload.Round, "home", payload.HomeShortCode, "away", payload.AwayShortCode, "team", payload.TeamShortCode)
			continue
		}
		matchID, ok := matchIDs[match.Key{Round: payload.Round, HomeTeamID: homeID, AwayTeamID: awayID}]
		if !ok {
			s.logger.WarnContext(ctx, "stat line references unknown match",
				"round", payload.Round, "home", payload.HomeShortCode, "away", payload.AwayShortCode)
			continue
		}
		row := match.Stat{
			MatchID:       matchID,
			TeamID:        teamID,
			Possession:    payload.Possession,
			Shots:         payload.Shots,
			ShotsOnTarget: payload.ShotsOnTarget,
			Fouls:         payload.Fouls,
			Corners:       payload.Corners,
		}
		if err := s.repos.Matches.UpsertStat(ctx, row); err != nil {
			return fmt.Errorf("upsert stat match=%d team=%s: %w", matchID, payload.TeamShortCode, err)
		}
		stored++
	}
	s.logger.InfoContext(ctx, "match stats ingested", "source", s.source.Name(), "loaded", len(payloads), "stored", stored)
	return nil
}

func (s *IngestionService) UpsertStandings(ctx context.Context) error {
	payloads, err := s.source.LoadStandings(ctx)
	if err != nil {
		return fmt.Errorf("load standings from %s: %w", s.source.Name(), err)
	}

	teamIDs, err := s.repos.Teams.ShortCodeIDMap(ctx)
	if err != nil {
		return fmt.Errorf("read team map: %w", err)
	}

	stored := 0
	for _, payload := range payloads {
		if !s.payloadValid(ctx, ingest.DatasetStandings, payload) {
			continue
		}
		teamID, ok := teamIDs[payload.TeamShortCode]
		if !ok {
			s.logger.WarnContext(ctx, "standing references unknown team", "team", payload.TeamShortCode)
			continue
		}
		row := standing.Standing{
			TeamID:       teamID,
			Rank:         payload.Rank,
			Played:       payload.Played,
			Won:          payload.Won,
			Drawn:        payload.Drawn,
			Lost:         payload.Lost,
			GoalsFor:     payload.GoalsFor,
			GoalsAgainst: payload.GoalsAgainst,
			GoalDiff:     payload.GoalDiff,
			Points:       payload.Points,
		}
		if err := s.repos.Standings.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert standing %s: %w", payload.TeamShortCode, err)
		}
		stored++
	}
	s.logger.InfoContext(ctx, "standings ingested", "source", s.source.Name(), "loaded", len(payloads), "stored", stored)
	return nil
}

func (s *IngestionService) payloadValid(ctx context.Context, dataset ingest.Dataset, payload any) bool {
	if err := s.validate.Struct(payload); err != nil {
		s.logger.WarnContext(ctx, "payload dropped by validation",
			"source", s.source.Name(), "dataset", dataset, "error", err)
		return false
	}
	return true
}

// Summary is the row-count snapshot printed by the CLI and checked by the
// post-ingest validation command.
type Summary struct {
	Teams      int64 `json:"teams"`
	Players    int64 `json:"players"`
	Matches    int64 `json:"matches"`
	MatchStats int64 `json:"match_stats"`
	Standings  int64 `json:"standings"`
}

// Snapshot reads current row counts for every dataset.
func Snapshot(ctx context.Context, repos Repositories) (Summary, error) {
	var out Summary
	var err error
	if out.Teams, err = repos.Teams.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count teams: %w", err)
	}
	if out.Players, err = repos.Players.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count players: %w", err)
	}
	if out.Matches, err = repos.Matches.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count matches: %w", err)
	}
	if out.MatchStats, err = repos.Matches.CountStats(ctx); err != nil {
		return Summary{}, fmt.Errorf("count match stats: %w", err)
	}
	if out.Standings, err = repos.Standings.Count(ctx); err != nil {
		return Summary{}, fmt.Errorf("count standings: %w", err)
	}
	return out, nil
}
