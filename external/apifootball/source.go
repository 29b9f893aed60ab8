package apifootball

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/platform/logging"
)

// Fixture statuses the provider considers settled. Anything else is still
// upcoming or in play and stays SCHEDULED.
var terminalStatuses = map[string]struct{}{
	"FT":  {},
	"AET": {},
	"PEN": {},
	"AWD": {},
	"WO":  {},
}

type SourceConfig struct {
	LeagueID int
	Season   int
	Policies map[ingest.Dataset]ingest.Policy
}

type Source struct {
	client *Client
	cfg    SourceConfig
	logger *logging.Logger

	// Caches built while loading teams and matches so dependent datasets
	// resolve references without refetching.
	shortByTeamID map[int64]string
	contexts      []fixtureContext
	lastMatches   []ingest.MatchPayload
	primed        bool
}

// fixtureContext ties a provider fixture id back to the natural match key,
// so per-fixture statistics can reference the stored row.
type fixtureContext struct {
	FixtureID int64
	Round     int
	HomeShort string
	AwayShort string
	Finished  bool
}

func NewSource(client *Client, cfg SourceConfig, logger *logging.Logger) *Source {
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{
		client:        client,
		cfg:           cfg,
		logger:        logger,
		shortByTeamID: make(map[int64]string),
	}
}

func (*Source) Name() string { return "api_football" }

func (s *Source) policyFor(dataset ingest.Dataset) ingest.Policy {
	if policy, ok := s.cfg.Policies[dataset]; ok {
		return policy
	}
	return ingest.PolicyAbort
}

func (s *Source) resolveIssue(ctx context.Context, dataset ingest.Dataset, cause error) error {
	if s.policyFor(dataset) == ingest.PolicySkip {
		s.logger.WarnContext(ctx, "dataset skipped by policy",
			"source", s.Name(), "dataset", dataset, "error", cause)
		return nil
	}
	return cause
}

func (s *Source) leagueQuery() map[string]string {
	return map[string]string{
		"league": strconv.Itoa(s.cfg.LeagueID),
		"season": strconv.Itoa(s.cfg.Season),
	}
}

type pagingInfo struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type teamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Logo string `json:"logo"`
}

type venueInfo struct {
	Name string `json:"name"`
}

type teamsEnvelope struct {
	Response []struct {
		Team  teamInfo  `json:"team"`
		Venue venueInfo `json:"venue"`
	} `json:"response"`
}

func (s *Source) LoadTeams(ctx context.Context) ([]ingest.TeamPayload, error) {
	var envelope teamsEnvelope
	if err := s.client.getJSON(ctx, "/teams", s.leagueQuery(), &envelope); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetTeams, fmt.Errorf("fetch teams: %w", err)); rerr != nil {
			return nil, rerr
		}
		return []ingest.TeamPayload{}, nil
	}

	out := make([]ingest.TeamPayload, 0, len(envelope.Response))
	for _, entry := range envelope.Response {
		if entry.Team.ID <= 0 || strings.TrimSpace(entry.Team.Name) == "" {
			continue
		}
		code := teamShortCode(entry.Team.Name, entry.Team.Code)
		s.shortByTeamID[entry.Team.ID] = code
		out = append(out, ingest.TeamPayload{
			Name:      entry.Team.Name,
			ShortCode: code,
			LogoURL:   entry.Team.Logo,
			Stadium:   entry.Venue.Name,
		})
	}
	s.logger.InfoContext(ctx, "teams loaded", "source", s.Name(), "count", len(out))
	return out, nil
}

type playersEnvelope struct {
	Paging   pagingInfo `json:"paging"`
	Response []struct {
		Player struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			Nationality string `json:"nationality"`
			Photo       string `json:"photo"`
		} `json:"player"`
		Statistics []struct {
			Team  teamInfo `json:"team"`
			Games struct {
				Position string `json:"position"`
				Number   *int   `json:"number"`
			} `json:"games"`
		} `json:"statistics"`
	} `json:"response"`
}

func (s *Source) LoadPlayers(ctx context.Context) ([]ingest.PlayerPayload, error) {
	if err := s.primeTeamCache(ctx); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetPlayers, err); rerr != nil {
			return nil, rerr
		}
		return []ingest.PlayerPayload{}, nil
	}

	var out []ingest.PlayerPayload
	for page := 1; ; page++ {
		query := s.leagueQuery()
		query["page"] = strconv.Itoa(page)

		var envelope playersEnvelope
		if err := s.client.getJSON(ctx, "/players", query, &envelope); err != nil {
			if rerr := s.resolveIssue(ctx, ingest.DatasetPlayers, fmt.Errorf("fetch players page=%d: %w", page, err)); rerr != nil {
				return nil, rerr
			}
			return []ingest.PlayerPayload{}, nil
		}

		for _, entry := range envelope.Response {
			if entry.Player.ID <= 0 || len(entry.Statistics) == 0 {
				continue
			}
			stat := entry.Statistics[0]
			teamShort, ok := s.shortByTeamID[stat.Team.ID]
			if !ok {
				continue
			}
			out = append(out, ingest.PlayerPayload{
				PlayerID:      entry.Player.ID,
				TeamShortCode: teamShort,
				Name:          entry.Player.Name,
				Position:      normalizePosition(stat.Games.Position),
				JerseyNum:     stat.Games.Number,
				Nationality:   entry.Player.Nationality,
				PhotoURL:      entry.Player.Photo,
			})
		}

		if envelope.Paging.Total <= 0 || page >= envelope.Paging.Total {
			break
		}
	}
	s.logger.InfoContext(ctx, "players loaded", "source", s.Name(), "count", len(out))
	return out, nil
}

type fixturesEnvelope struct {
	Response []struct {
		Fixture struct {
			ID        int64  `json:"id"`
			Date      string `json:"date"`
			Timestamp int64  `json:"timestamp"`
			Status    struct {
				Short string `json:"short"`
			} `json:"status"`
		} `json:"fixture"`
		League struct {
			Round string `json:"round"`
		} `json:"league"`
		Teams struct {
			Home teamInfo `json:"home"`
			Away teamInfo `json:"away"`
		} `json:"teams"`
		Goals struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"goals"`
	} `json:"response"`
}

func (s *Source) LoadMatches(ctx context.Context) ([]ingest.MatchPayload, error) {
	if err := s.primeTeamCache(ctx); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetMatches, err); rerr != nil {
			return nil, rerr
		}
		return []ingest.MatchPayload{}, nil
	}

	var envelope fixturesEnvelope
	if err := s.client.getJSON(ctx, "/fixtures", s.leagueQuery(), &envelope); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetMatches, fmt.Errorf("fetch fixtures: %w", err)); rerr != nil {
			return nil, rerr
		}
		return []ingest.MatchPayload{}, nil
	}

	out := make([]ingest.MatchPayload, 0, len(envelope.Response))
	contexts := make([]fixtureContext, 0, len(envelope.Response))
	for _, entry := range envelope.Response {
		home := s.resolveTeamShort(entry.Teams.Home)
		away := s.resolveTeamShort(entry.Teams.Away)
		if home == "" || away == "" {
			continue
		}

		round := parseRoundToken(entry.League.Round)
		_, finished := terminalStatuses[strings.ToUpper(entry.Fixture.Status.Short)]
		status := ingest.StatusScheduled
		var homeScore, awayScore *int
		if finished {
			status = ingest.StatusFinished
			homeScore = entry.Goals.Home
			awayScore = entry.Goals.Away
		}

		out = append(out, ingest.MatchPayload{
			Round:         round,
			MatchDate:     fixtureDate(entry.Fixture.Timestamp, entry.Fixture.Date),
			HomeShortCode: home,
			AwayShortCode: away,
			HomeScore:     homeScore,
			AwayScore:     awayScore,
			Status:        status,
		})
		contexts = append(contexts, fixtureContext{
			FixtureID: entry.Fixture.ID,
			Round:     round,
			HomeShort: home,
			AwayShort: away,
			Finished:  finished,
		})
	}

	s.contexts = contexts
	s.lastMatches = out
	s.primed = true
	s.logger.InfoContext(ctx, "matches loaded", "source", s.Name(), "count", len(out))
	return out, nil
}

type statsEnvelope struct {
	Response []struct {
		Team       teamInfo `json:"team"`
		Statistics []struct {
			Type  string `json:"type"`
			Value any    `json:"value"`
		} `json:"statistics"`
	} `json:"response"`
}

func (s *Source) LoadMatchStats(ctx context.Context) ([]ingest.MatchStatPayload, error) {
	if err := s.primeFixtures(ctx); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetMatchStats, err); rerr != nil {
			return nil, rerr
		}
		return []ingest.MatchStatPayload{}, nil
	}

	var out []ingest.MatchStatPayload
	for _, fixture := range s.contexts {
		if !fixture.Finished {
			continue
		}

		var envelope statsEnvelope
		query := map[string]string{"fixture": strconv.FormatInt(fixture.FixtureID, 10)}
		if err := s.client.getJSON(ctx, "/fixtures/statistics", query, &envelope); err != nil {
			if rerr := s.resolveIssue(ctx, ingest.DatasetMatchStats, fmt.Errorf("fetch statistics fixture=%d: %w", fixture.FixtureID, err)); rerr != nil {
				return nil, rerr
			}
			// Skip policy drops only the failed fixture; rows already
			// collected and the remaining fixtures still count.
			continue
		}

		for _, entry := range envelope.Response {
			teamShort := s.resolveTeamShort(entry.Team)
			if teamShort == "" {
				continue
			}
			payload := ingest.MatchStatPayload{
				Round:         fixture.Round,
				HomeShortCode: fixture.HomeShort,
				AwayShortCode: fixture.AwayShort,
				TeamShortCode: teamShort,
			}
			for _, line := range entry.Statistics {
				switch line.Type {
				case "Ball Possession":
					payload.Possession = statFloat(line.Value)
				case "Total Shots":
					payload.Shots = statInt(line.Value)
				case "Shots on Goal":
					payload.ShotsOnTarget = statInt(line.Value)
				case "Fouls", "Fouls Committed":
					payload.Fouls = statInt(line.Value)
				case "Corner Kicks":
					payload.Corners = statInt(line.Value)
				}
			}
			out = append(out, payload)
		}
	}
	s.logger.InfoContext(ctx, "match stats loaded", "source", s.Name(), "count", len(out))
	return out, nil
}

type standingsEnvelope struct {
	Response []struct {
		League struct {
			Standings [][]struct {
				Rank      int      `json:"rank"`
				Team      teamInfo `json:"team"`
				Points    int      `json:"points"`
				GoalsDiff int      `json:"goalsDiff"`
				All       struct {
					Played int `json:"played"`
					Win    int `json:"win"`
					Draw   int `json:"draw"`
					Lose   int `json:"lose"`
					Goals  struct {
						For     int `json:"for"`
						Against int `json:"against"`
					} `json:"goals"`
				} `json:"all"`
			} `json:"standings"`
		} `json:"league"`
	} `json:"response"`
}

func (s *Source) LoadStandings(ctx context.Context) ([]ingest.StandingPayload, error) {
	var envelope standingsEnvelope
	if err := s.client.getJSON(ctx, "/standings", s.leagueQuery(), &envelope); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetStandings, fmt.Errorf("fetch standings: %w", err)); rerr != nil {
			return nil, rerr
		}
		return []ingest.StandingPayload{}, nil
	}

	var out []ingest.StandingPayload
	for _, entry := range envelope.Response {
		for _, group := range entry.League.Standings {
			for _, row := range group {
				code := s.resolveTeamShort(row.Team)
				if code == "" {
					continue
				}
				out = append(out, ingest.StandingPayload{
					TeamShortCode: code,
					Rank:          row.Rank,
					Played:        row.All.Played,
					Won:           row.All.Win,
					Drawn:         row.All.Draw,
					Lost:          row.All.Lose,
					GoalsFor:      row.All.Goals.For,
					GoalsAgainst:  row.All.Goals.Against,
					GoalDiff:      row.GoalsDiff,
					Points:        row.Points,
				})
			}
		}
		if len(out) > 0 {
			break
		}
	}

	if len(out) == 0 {
		// Early-season gap: the standings endpoint answers before the table
		// exists. Rebuild it from the finished fixtures instead.
		s.logger.WarnContext(ctx, "standings endpoint empty, aggregating from fixtures", "source", s.Name())
		return s.standingsFromMatches(ctx)
	}

	s.logger.InfoContext(ctx, "standings loaded", "source", s.Name(), "count", len(out))
	return out, nil
}

// standingsFromMatches builds a table from finished fixtures. Ordering is
// points, then goal difference, then goals for, then code for stability.
func (s *Source) standingsFromMatches(ctx context.Context) ([]ingest.StandingPayload, error) {
	if err := s.primeFixtures(ctx); err != nil {
		if rerr := s.resolveIssue(ctx, ingest.DatasetStandings, err); rerr != nil {
			return nil, rerr
		}
		return []ingest.StandingPayload{}, nil
	}

	rows := make(map[string]*ingest.StandingPayload)
	rowFor := func(code string) *ingest.StandingPayload {
		if row, ok := rows[code]; ok {
			return row
		}
		row := &ingest.StandingPayload{TeamShortCode: code}
		rows[code] = row
		return row
	}

	for _, m := range s.lastMatches {
		if m.Status != ingest.StatusFinished || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		home := rowFor(m.HomeShortCode)
		away := rowFor(m.AwayShortCode)

		home.Played++
		away.Played++
		home.GoalsFor += *m.HomeScore
		home.GoalsAgainst += *m.AwayScore
		away.GoalsFor += *m.AwayScore
		away.GoalsAgainst += *m.HomeScore

		switch {
		case *m.HomeScore > *m.AwayScore:
			home.Won++
			home.Points += 3
			away.Lost++
		case *m.HomeScore < *m.AwayScore:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	out := make([]ingest.StandingPayload, 0, len(rows))
	for _, row := range rows {
		row.GoalDiff = row.GoalsFor - row.GoalsAgainst
		out = append(out, *row)
	}
	sortStandings(out)
	for i := range out {
		out[i].Rank = i + 1
	}
	s.logger.InfoContext(ctx, "standings aggregated from fixtures", "source", s.Name(), "count", len(out))
	return out, nil
}

func sortStandings(rows []ingest.StandingPayload) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && standingLess(rows[j], rows[j-1]); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func standingLess(a, b ingest.StandingPayload) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDiff != b.GoalDiff {
		return a.GoalDiff > b.GoalDiff
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.TeamShortCode < b.TeamShortCode
}

// primeTeamCache fills the team id cache when a dependent dataset is loaded
// before teams.
func (s *Source) primeTeamCache(ctx context.Context) error {
	if len(s.shortByTeamID) > 0 {
		return nil
	}
	if _, err := s.LoadTeams(ctx); err != nil {
		return fmt.Errorf("prime team cache: %w", err)
	}
	return nil
}

// primeFixtures fills the fixture context cache when match stats or the
// standings fallback run before matches were loaded this session.
func (s *Source) primeFixtures(ctx context.Context) error {
	if s.primed {
		return nil
	}
	if _, err := s.LoadMatches(ctx); err != nil {
		return fmt.Errorf("prime fixture contexts: %w", err)
	}
	return nil
}

func (s *Source) resolveTeamShort(t teamInfo) string {
	if code, ok := s.shortByTeamID[t.ID]; ok {
		return code
	}
	if strings.TrimSpace(t.Name) == "" {
		return ""
	}
	code := teamShortCode(t.Name, t.Code)
	if t.ID > 0 {
		s.shortByTeamID[t.ID] = code
	}
	return code
}

// teamShortCode prefers the provider code, then falls back to initials for
// multi-word names or a 3-char prefix.
func teamShortCode(name, code string) string {
	if c := strings.ToUpper(strings.TrimSpace(code)); c != "" {
		if len(c) > 10 {
			c = c[:10]
		}
		return c
	}
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(name), "-", " "))
	if len(words) >= 2 {
		var initials strings.Builder
		for i, word := range words {
			if i == 3 {
				break
			}
			initials.WriteByte(word[0])
		}
		return strings.ToUpper(initials.String())
	}
	if len(words) == 1 {
		word := words[0]
		if len(word) > 3 {
			word = word[:3]
		}
		return strings.ToUpper(word)
	}
	return "UNK"
}

// parseRoundToken pulls the first integer token out of labels like
// "Regular Season - 14"; unparseable rounds collapse to 0.
func parseRoundToken(token string) int {
	for _, field := range strings.Fields(strings.ReplaceAll(token, "-", " ")) {
		if n, err := strconv.Atoi(field); err == nil {
			return n
		}
	}
	return 0
}

func fixtureDate(timestamp int64, raw string) string {
	if timestamp > 0 {
		return time.Unix(timestamp, 0).UTC().Format("2006-01-02 15:04:05")
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC().Format("2006-01-02 15:04:05")
	}
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

func normalizePosition(position string) string {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "goalkeeper":
		return "GK"
	case "defender":
		return "DF"
	case "midfielder":
		return "MF"
	case "attacker":
		return "FW"
	default:
		return strings.TrimSpace(position)
	}
}

func statFloat(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(typed), "%")
		if f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64); err == nil {
			return f
		}
	}
	return 0
}

func statInt(value any) int {
	switch typed := value.(type) {
	case float64:
		return int(typed)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(typed)); err == nil {
			return n
		}
	}
	return 0
}
