// Package plsite ingests league reference data by scraping the public club
// site. Pages rarely expose stable markup, so every dataset runs through a
// strategy cascade: semantic tables first, then JSON embedded in script
// blocks, then (for teams) club-page anchors, then optional seed fallbacks.
package plsite

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/platform/logging"
	"github.com/eplhub/crawler/internal/seed"
)

const (
	maxBodyBytes = 8 << 20
	userAgent    = "league-crawler/1.0"
)

// Config carries the scraping endpoints and resilience knobs for the site
// source.
type Config struct {
	TeamsURL      string
	PlayersURL    string
	MatchesURL    string
	MatchStatsURL string
	StandingsURL  string

	Timeout      time.Duration
	RetryCount   int
	RetryBackoff time.Duration
	ParseStrict  bool

	TeamsSeedFallback   bool
	MatchesSeedFallback bool

	Policies map[ingest.Dataset]ingest.Policy
}

type Source struct {
	cfg        Config
	httpClient *http.Client
	logger     *logging.Logger

	// Short codes cached from team records that exposed a provider id, so
	// match records referencing teams by id can still resolve.
	shortByTeamID map[string]string
}

func NewSource(cfg Config, logger *logging.Logger) *Source {
	if cfg.RetryCount < 1 {
		cfg.RetryCount = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Source{
		cfg:           cfg,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
		shortByTeamID: make(map[string]string),
	}
}

func (*Source) Name() string { return "plsite" }

func (s *Source) policyFor(dataset ingest.Dataset) ingest.Policy {
	if policy, ok := s.cfg.Policies[dataset]; ok {
		return policy
	}
	return ingest.PolicyAbort
}

// resolveIssue applies the dataset policy to a failed or empty extraction:
// skip downgrades to a warning and an empty dataset, abort surfaces the
// cause (or a parse failure naming the reason).
func (s *Source) resolveIssue(ctx context.Context, dataset ingest.Dataset, cause error, reason string) error {
	if s.policyFor(dataset) == ingest.PolicySkip {
		s.logger.WarnContext(ctx, "dataset skipped by policy",
			"source", s.Name(), "dataset", dataset, "reason", reason, "error", cause)
		return nil
	}
	if cause != nil {
		return cause
	}
	return ingest.AbortDataset(dataset, reason)
}

func (s *Source) fetch(ctx context.Context, dataset ingest.Dataset, url string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.RetryCount; attempt++ {
		body, err := s.get(ctx, url)
		if err == nil {
			s.logger.InfoContext(ctx, "page fetched",
				"source", s.Name(), "dataset", dataset, "url", url, "attempt", attempt)
			return body, nil
		}
		lastErr = err
		s.logger.WarnContext(ctx, "page fetch failed",
			"source", s.Name(), "dataset", dataset, "url", url, "attempt", attempt, "error", err)
		if attempt < s.cfg.RetryCount {
			timer := time.NewTimer(time.Duration(attempt) * s.cfg.RetryBackoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
	}
	return "", crerr.Mark(fmt.Errorf("fetch %s after %d attempts: %w", url, s.cfg.RetryCount, lastErr), ingest.ErrTransientFetch)
}

func (s *Source) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return string(body), nil
}

// extractRecords fetches the page and runs the strategy cascade. A nil
// record slice with nil error means the page was reachable but no strategy
// produced complete rows; policy handling is the caller's job.
func (s *Source) extractRecords(ctx context.Context, dataset ingest.Dataset, url string, aliases map[string][]string, required []string, allowLinks bool) ([]record, error) {
	body, err := s.fetch(ctx, dataset, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, crerr.Mark(fmt.Errorf("parse document for %s: %w", dataset, err), ingest.ErrDatasetParse)
	}

	rows, err := extractFromTables(doc, aliases, required, s.cfg.ParseStrict)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		s.logger.InfoContext(ctx, "records extracted",
			"source", s.Name(), "dataset", dataset, "strategy", "table", "count", len(rows))
		return rows, nil
	}

	if rows := extractFromScripts(body, doc, aliases, required); len(rows) > 0 {
		s.logger.InfoContext(ctx, "records extracted",
			"source", s.Name(), "dataset", dataset, "strategy", "json", "count", len(rows))
		return rows, nil
	}

	if allowLinks {
		if rows := extractTeamsFromLinks(doc); len(rows) > 0 {
			s.logger.InfoContext(ctx, "records extracted",
				"source", s.Name(), "dataset", dataset, "strategy", "links", "count", len(rows))
			return rows, nil
		}
	}
	return nil, nil
}

func (s *Source) LoadTeams(ctx context.Context) ([]ingest.TeamPayload, error) {
	rows, err := s.extractRecords(ctx, ingest.DatasetTeams, s.cfg.TeamsURL, teamAliases, teamRequired, true)
	if err != nil || len(rows) == 0 {
		if s.cfg.TeamsSeedFallback {
			s.logger.WarnContext(ctx, "falling back to seed teams",
				"source", s.Name(), "error", err)
			return seed.Teams(), nil
		}
		if rerr := s.resolveIssue(ctx, ingest.DatasetTeams, err, "no strategy produced team records"); rerr != nil {
			return nil, rerr
		}
		return []ingest.TeamPayload{}, nil
	}

	out := make([]ingest.TeamPayload, 0, len(rows))
	for _, row := range rows {
		name := row["name"]
		code := shortCodeFrom(row["short_code"])
		if code == "" {
			code = deriveShortCode(name)
		}
		if id := row["team_id"]; id != "" {
			s.shortByTeamID[id] = code
		}
		out = append(out, ingest.TeamPayload{
			Name:      name,
			ShortCode: code,
			LogoURL:   row["logo_url"],
			Stadium:   row["stadium"],
			Manager:   row["manager"],
		})
	}
	return out, nil
}

func (s *Source) LoadPlayers(ctx context.Context) ([]ingest.PlayerPayload, error) {
	rows, err := s.extractRecords(ctx, ingest.DatasetPlayers, s.cfg.PlayersURL, playerAliases, playerRequired, false)
	if err != nil || len(rows) == 0 {
		if rerr := s.resolveIssue(ctx, ingest.DatasetPlayers, err, "no strategy produced player records"); rerr != nil {
			return nil, rerr
		}
		return []ingest.PlayerPayload{}, nil
	}

	out := make([]ingest.PlayerPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingest.PlayerPayload{
			PlayerID:      safeInt64(row["player_id"]),
			TeamShortCode: shortCodeFrom(row["team_short_code"]),
			Name:          row["name"],
			Position:      row["position"],
			JerseyNum:     safeIntPtr(row["jersey_num"]),
			Nationality:   row["nationality"],
			PhotoURL:      row["photo_url"],
		})
	}
	return out, nil
}

func (s *Source) LoadMatches(ctx context.Context) ([]ingest.MatchPayload, error) {
	rows, err := s.extractRecords(ctx, ingest.DatasetMatches, s.cfg.MatchesURL, matchAliases, matchRequired, false)
	if err != nil || len(rows) == 0 {
		if s.cfg.MatchesSeedFallback {
			s.logger.WarnContext(ctx, "falling back to seed matches",
				"source", s.Name(), "error", err)
			return seed.Matches(), nil
		}
		if rerr := s.resolveIssue(ctx, ingest.DatasetMatches, err, "no strategy produced match records"); rerr != nil {
			return nil, rerr
		}
		return []ingest.MatchPayload{}, nil
	}

	out := make([]ingest.MatchPayload, 0, len(rows))
	for _, row := range rows {
		home := shortCodeFrom(row["home_short_code"])
		if home == "" {
			home = s.shortByTeamID[row["home_team_id"]]
		}
		away := shortCodeFrom(row["away_short_code"])
		if away == "" {
			away = s.shortByTeamID[row["away_team_id"]]
		}
		out = append(out, ingest.MatchPayload{
			Round:         safeInt(row["round"]),
			MatchDate:     row["match_date"],
			HomeShortCode: home,
			AwayShortCode: away,
			HomeScore:     safeIntPtr(row["home_score"]),
			AwayScore:     safeIntPtr(row["away_score"]),
			Status:        normalizeStatus(row["status"]),
		})
	}
	return out, nil
}

func (s *Source) LoadMatchStats(ctx context.Context) ([]ingest.MatchStatPayload, error) {
	rows, err := s.extractRecords(ctx, ingest.DatasetMatchStats, s.cfg.MatchStatsURL, matchStatAliases, matchStatRequired, false)
	if err != nil || len(rows) == 0 {
		if rerr := s.resolveIssue(ctx, ingest.DatasetMatchStats, err, "no strategy produced match stat records"); rerr != nil {
			return nil, rerr
		}
		return []ingest.MatchStatPayload{}, nil
	}

	out := make([]ingest.MatchStatPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingest.MatchStatPayload{
			Round:         safeInt(row["round"]),
			HomeShortCode: shortCodeFrom(row["home_short_code"]),
			AwayShortCode: shortCodeFrom(row["away_short_code"]),
			TeamShortCode: shortCodeFrom(row["team_short_code"]),
			Possession:    safeFloat(row["possession"]),
			Shots:         safeInt(row["shots"]),
			ShotsOnTarget: safeInt(row["shots_on_target"]),
			Fouls:         safeInt(row["fouls"]),
			Corners:       safeInt(row["corners"]),
		})
	}
	return out, nil
}

func (s *Source) LoadStandings(ctx context.Context) ([]ingest.StandingPayload, error) {
	rows, err := s.extractRecords(ctx, ingest.DatasetStandings, s.cfg.StandingsURL, standingAliases, standingRequired, false)
	if err != nil || len(rows) == 0 {
		if rerr := s.resolveIssue(ctx, ingest.DatasetStandings, err, "no strategy produced standing records"); rerr != nil {
			return nil, rerr
		}
		return []ingest.StandingPayload{}, nil
	}

	out := make([]ingest.StandingPayload, 0, len(rows))
	for _, row := range rows {
		code := shortCodeFrom(row["team_short_code"])
		if code == "" {
			code = deriveShortCode(row["team_name"])
		}
		goalsFor := safeInt(row["goals_for"])
		goalsAgainst := safeInt(row["goals_against"])
		goalDiff := goalsFor - goalsAgainst
		if row["goal_diff"] != "" {
			goalDiff = safeInt(row["goal_diff"])
		}
		out = append(out, ingest.StandingPayload{
			TeamShortCode: code,
			Rank:          safeInt(row["rank"]),
			Played:        safeInt(row["played"]),
			Won:           safeInt(row["won"]),
			Drawn:         safeInt(row["drawn"]),
			Lost:          safeInt(row["lost"]),
			GoalsFor:      goalsFor,
			GoalsAgainst:  goalsAgainst,
			GoalDiff:      goalDiff,
			Points:        safeInt(row["points"]),
		})
	}
	return out, nil
}

var truthyStatus = map[string]struct{}{"TRUE": {}, "1": {}, "YES": {}}
var falsyStatus = map[string]struct{}{"FALSE": {}, "0": {}, "NO": {}, "": {}}

// normalizeStatus folds the many ways sites spell a finished match into the
// stored two-value lifecycle.
func normalizeStatus(raw string) string {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := truthyStatus[value]; ok {
		return ingest.StatusFinished
	}
	if _, ok := falsyStatus[value]; ok {
		return ingest.StatusScheduled
	}
	if value == "FT" || strings.Contains(value, "FIN") || strings.Contains(value, "FULL") {
		return ingest.StatusFinished
	}
	return ingest.StatusScheduled
}

// shortCodeFrom treats short compact uppercase values as codes already and
// derives a code from anything that reads like a club name.
func shortCodeFrom(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if len(v) <= 4 && !strings.ContainsAny(v, " \t") && v == strings.ToUpper(v) {
		return v
	}
	return deriveShortCode(v)
}

var digitRunPattern = regexp.MustCompile(`-?\d+`)

func safeInt(value string) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	if m := digitRunPattern.FindString(v); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return 0
}

func safeInt64(value string) int64 {
	return int64(safeInt(value))
}

func safeIntPtr(value string) *int {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}

func safeFloat(value string) float64 {
	v := strings.TrimSuffix(strings.TrimSpace(value), "%")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return 0
}
