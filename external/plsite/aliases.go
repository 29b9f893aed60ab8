package plsite

import (
	"regexp"
	"strings"

	"github.com/eplhub/crawler/internal/seed"
)

// Column/field aliases per dataset. Keys are canonical field names, values
// are the normalized header or JSON-key spellings accepted for that field.
// The canonical name itself is always accepted.
var (
	teamAliases = map[string][]string{
		"team_id":    {"team_id", "id", "club_id"},
		"name":       {"name", "club", "club_name", "team", "team_name", "title"},
		"short_code": {"short_code", "short_name", "abbr", "abbreviation", "code", "tla"},
		"logo_url":   {"logo_url", "logo", "badge", "crest", "crest_url", "image"},
		"stadium":    {"stadium", "ground", "venue", "venue_name", "home_ground"},
		"manager":    {"manager", "coach", "head_coach", "manager_name"},
	}
	teamRequired = []string{"name"}

	playerAliases = map[string][]string{
		"player_id":       {"player_id", "id", "playerid"},
		"name":            {"name", "player", "player_name", "full_name", "display_name"},
		"team_short_code": {"team_short_code", "team_short_name", "team", "club", "team_code", "team_abbr"},
		"position":        {"position", "pos", "role", "position_info"},
		"jersey_num":      {"jersey_num", "jersey", "shirt_num", "shirt_number", "number"},
		"nationality":     {"nationality", "nation", "country", "birth_country"},
		"photo_url":       {"photo_url", "photo", "image", "headshot"},
	}
	playerRequired = []string{"player_id", "name", "team_short_code", "position", "jersey_num", "nationality"}

	matchAliases = map[string][]string{
		"round":           {"round", "gameweek", "game_week", "week", "matchweek", "match_week", "event"},
		"match_date":      {"match_date", "date", "kickoff", "kick_off", "kickoff_time", "datetime"},
		"home_short_code": {"home_short_code", "home_short_name", "home", "home_team", "home_team_short_name", "home_abbr"},
		"away_short_code": {"away_short_code", "away_short_name", "away", "away_team", "away_team_short_name", "away_abbr"},
		"home_team_id":    {"home_team_id", "home_id"},
		"away_team_id":    {"away_team_id", "away_id"},
		"home_score":      {"home_score", "home_goals", "score_home"},
		"away_score":      {"away_score", "away_goals", "score_away"},
		"status":          {"status", "finished", "state", "match_status", "period"},
	}
	matchRequired = []string{"round", "match_date"}

	matchStatAliases = map[string][]string{
		"round":           {"round", "gameweek", "week", "matchweek"},
		"home_short_code": {"home_short_code", "home_short_name", "home", "home_team"},
		"away_short_code": {"away_short_code", "away_short_name", "away", "away_team"},
		"team_short_code": {"team_short_code", "team_short_name", "team", "club", "side"},
		"possession":      {"possession", "possession_pct", "ball_possession"},
		"shots":           {"shots", "total_shots", "shots_total"},
		"shots_on_target": {"shots_on_target", "on_target", "shots_on_goal"},
		"fouls":           {"fouls", "fouls_committed"},
		"corners":         {"corners", "corner_kicks", "corners_won"},
	}
	matchStatRequired = []string{
		"round", "home_short_code", "away_short_code", "team_short_code",
		"possession", "shots", "shots_on_target", "fouls", "corners",
	}

	standingAliases = map[string][]string{
		"team_name":       {"team_name", "team", "club", "club_name", "name"},
		"team_short_code": {"team_short_code", "team_short_name", "abbr", "code", "tla"},
		"rank":            {"rank", "position", "pos", "place"},
		"played":          {"played", "pld", "mp", "matches_played", "games_played"},
		"won":             {"won", "w", "wins"},
		"drawn":           {"drawn", "d", "draws", "drawn_matches"},
		"lost":            {"lost", "l", "losses", "defeats"},
		"goals_for":       {"goals_for", "gf", "for", "goals_scored"},
		"goals_against":   {"goals_against", "ga", "against", "goals_conceded"},
		"goal_diff":       {"goal_diff", "gd", "goal_difference", "diff"},
		"points":          {"points", "pts"},
	}
	standingRequired = []string{"team_name", "rank", "played", "won", "drawn", "lost", "points"}
)

var (
	camelBoundaryPattern = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	separatorPattern     = regexp.MustCompile(`[\s\-/.]+`)
	keyCharPattern       = regexp.MustCompile(`[^a-z0-9_]`)
	fcTokenPattern       = regexp.MustCompile(`(?i)\bfc\b`)
	wordCharPattern      = regexp.MustCompile(`[^A-Za-z0-9 ]+`)
)

// normalizeKey folds header and JSON-key spellings into a single form:
// camelCase is split on boundaries, "%" becomes "pct", separators collapse
// to underscores and anything else non-alphanumeric is dropped.
func normalizeKey(value string) string {
	out := strings.TrimSpace(value)
	out = camelBoundaryPattern.ReplaceAllString(out, "${1}_${2}")
	out = strings.ToLower(out)
	out = strings.ReplaceAll(out, "%", "pct")
	out = separatorPattern.ReplaceAllString(out, "_")
	out = keyCharPattern.ReplaceAllString(out, "")
	out = strings.Trim(out, "_")
	return out
}

const shortCodeUnknown = "UNK"

var seedShortCodes = buildSeedShortCodes()

func buildSeedShortCodes() map[string]string {
	out := make(map[string]string)
	for _, t := range seed.Teams() {
		out[normalizeKey(t.Name)] = t.ShortCode
		bare := strings.TrimSpace(fcTokenPattern.ReplaceAllString(t.Name, ""))
		if key := normalizeKey(bare); key != "" {
			out[key] = t.ShortCode
		}
	}
	return out
}

// deriveShortCode produces a stable short code for a club name when the
// source never supplies one. Known names resolve through the seed roster so
// scraped codes line up with every other source; unknown names fall back to
// initials, then a 3-char prefix.
func deriveShortCode(teamName string) string {
	if code, ok := seedShortCodes[normalizeKey(teamName)]; ok {
		return code
	}
	bare := strings.TrimSpace(fcTokenPattern.ReplaceAllString(teamName, ""))
	if code, ok := seedShortCodes[normalizeKey(bare)]; ok {
		return code
	}

	cleaned := wordCharPattern.ReplaceAllString(bare, " ")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return shortCodeUnknown
	}
	if len(words) >= 2 {
		var initials strings.Builder
		for i, word := range words {
			if i == 3 {
				break
			}
			initials.WriteByte(word[0])
		}
		code := strings.ToUpper(initials.String())
		if len(code) >= 2 {
			return code
		}
	}
	compact := strings.Join(words, "")
	if len(compact) > 3 {
		compact = compact[:3]
	}
	if compact == "" {
		return shortCodeUnknown
	}
	return strings.ToUpper(compact)
}
