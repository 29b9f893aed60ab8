package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	crerr "github.com/cockroachdb/errors"

	"github.com/eplhub/crawler/internal/domain/ingest"
)

const teamsBody = `{"response":[
	{"team":{"id":42,"name":"Arsenal","code":"ARS","logo":"https://media/ars.png"},"venue":{"name":"Emirates Stadium"}},
	{"team":{"id":40,"name":"Liverpool","code":"LIV","logo":"https://media/liv.png"},"venue":{"name":"Anfield"}},
	{"team":{"id":49,"name":"Chelsea","code":"","logo":""},"venue":{"name":"Stamford Bridge"}}
]}`

const fixturesBody = `{"response":[
	{"fixture":{"id":1001,"timestamp":1755280800,"status":{"short":"FT"}},
	 "league":{"round":"Regular Season - 1"},
	 "teams":{"home":{"id":42,"name":"Arsenal"},"away":{"id":40,"name":"Liverpool"}},
	 "goals":{"home":2,"away":1}},
	{"fixture":{"id":1002,"timestamp":1755885600,"status":{"short":"NS"}},
	 "league":{"round":"Regular Season - 2"},
	 "teams":{"home":{"id":40,"name":"Liverpool"},"away":{"id":42,"name":"Arsenal"}},
	 "goals":{"home":null,"away":null}}
]}`

const statsBody = `{"response":[
	{"team":{"id":42,"name":"Arsenal"},"statistics":[
		{"type":"Ball Possession","value":"56%"},
		{"type":"Total Shots","value":14},
		{"type":"Shots on Goal","value":6},
		{"type":"Fouls","value":10},
		{"type":"Corner Kicks","value":7}]},
	{"team":{"id":40,"name":"Liverpool"},"statistics":[
		{"type":"Ball Possession","value":"44%"},
		{"type":"Total Shots","value":9},
		{"type":"Shots on Goal","value":4},
		{"type":"Fouls","value":12},
		{"type":"Corner Kicks","value":3}]}
]}`

func newTestSource(t *testing.T, handler http.Handler, policies map[ingest.Dataset]ingest.Policy) (*Source, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:      server.URL,
		Key:          "test-key",
		MaxRetries:   1,
		RetryBackoff: 0,
	})
	return NewSource(client, SourceConfig{LeagueID: 39, Season: 2025, Policies: policies}, nil), server
}

func TestLoadTeams(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-apisports-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("league") != "39" || r.URL.Query().Get("season") != "2025" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(teamsBody))
	}), nil)

	teams, err := source.LoadTeams(context.Background())
	if err != nil {
		t.Fatalf("load teams: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}
	if teams[0].ShortCode != "ARS" || teams[0].Stadium != "Emirates Stadium" {
		t.Fatalf("unexpected first team: %+v", teams[0])
	}
	// Chelsea ships no provider code; the name prefix fills in.
	if teams[2].ShortCode != "CHE" {
		t.Fatalf("expected derived code CHE, got %q", teams[2].ShortCode)
	}
}

func TestLoadPlayers_Pagination(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/players":
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write([]byte(`{"paging":{"current":1,"total":2},"response":[
					{"player":{"id":101,"name":"Bukayo Saka","nationality":"England","photo":"p1"},
					 "statistics":[{"team":{"id":42},"games":{"position":"Attacker","number":7}}]}
				]}`))
			case "2":
				_, _ = w.Write([]byte(`{"paging":{"current":2,"total":2},"response":[
					{"player":{"id":201,"name":"Mohamed Salah","nationality":"Egypt","photo":"p2"},
					 "statistics":[{"team":{"id":40},"games":{"position":"Attacker","number":11}}]},
					{"player":{"id":999,"name":"No Team","nationality":"","photo":""},
					 "statistics":[{"team":{"id":7777},"games":{"position":"Midfielder","number":null}}]}
				]}`))
			default:
				t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	players, err := source.LoadPlayers(context.Background())
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players (unknown team dropped), got %d", len(players))
	}
	if players[0].PlayerID != 101 || players[0].TeamShortCode != "ARS" || players[0].Position != "FW" {
		t.Fatalf("unexpected first player: %+v", players[0])
	}
	if players[0].JerseyNum == nil || *players[0].JerseyNum != 7 {
		t.Fatalf("missing jersey number: %+v", players[0])
	}
	if players[1].TeamShortCode != "LIV" {
		t.Fatalf("unexpected second player: %+v", players[1])
	}
}

func TestLoadMatches(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/fixtures":
			_, _ = w.Write([]byte(fixturesBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	matches, err := source.LoadMatches(context.Background())
	if err != nil {
		t.Fatalf("load matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	first := matches[0]
	if first.Round != 1 || first.Status != ingest.StatusFinished {
		t.Fatalf("unexpected first match: %+v", first)
	}
	if first.HomeShortCode != "ARS" || first.AwayShortCode != "LIV" {
		t.Fatalf("unexpected codes: %+v", first)
	}
	if first.HomeScore == nil || *first.HomeScore != 2 {
		t.Fatalf("missing score: %+v", first)
	}
	second := matches[1]
	if second.Status != ingest.StatusScheduled || second.HomeScore != nil {
		t.Fatalf("scheduled match must carry no scores: %+v", second)
	}
}

func TestLoadMatchStats_FinishedFixturesOnly(t *testing.T) {
	t.Parallel()

	var statCalls atomic.Int64
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/fixtures":
			_, _ = w.Write([]byte(fixturesBody))
		case "/fixtures/statistics":
			statCalls.Add(1)
			if r.URL.Query().Get("fixture") != "1001" {
				t.Errorf("unexpected fixture id %q", r.URL.Query().Get("fixture"))
			}
			_, _ = w.Write([]byte(statsBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	stats, err := source.LoadMatchStats(context.Background())
	if err != nil {
		t.Fatalf("load match stats: %v", err)
	}
	if statCalls.Load() != 1 {
		t.Fatalf("expected one statistics call, got %d", statCalls.Load())
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stat lines, got %d", len(stats))
	}
	ars := stats[0]
	if ars.TeamShortCode != "ARS" || ars.Round != 1 {
		t.Fatalf("unexpected stat line: %+v", ars)
	}
	if ars.Possession != 56 || ars.Shots != 14 || ars.Corners != 7 {
		t.Fatalf("unexpected values: %+v", ars)
	}
}

func TestParseRoundToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		want  int
	}{
		{"Regular Season - 14", 14},
		{"Round 5 of 38", 5},
		{"Matchday 3", 3},
		{"Final", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseRoundToken(tc.label); got != tc.want {
			t.Errorf("parseRoundToken(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

const twoFinishedFixturesBody = `{"response":[
	{"fixture":{"id":1001,"timestamp":1755280800,"status":{"short":"FT"}},
	 "league":{"round":"Regular Season - 1"},
	 "teams":{"home":{"id":42,"name":"Arsenal"},"away":{"id":40,"name":"Liverpool"}},
	 "goals":{"home":2,"away":1}},
	{"fixture":{"id":1002,"timestamp":1755885600,"status":{"short":"FT"}},
	 "league":{"round":"Regular Season - 2"},
	 "teams":{"home":{"id":40,"name":"Liverpool"},"away":{"id":49,"name":"Chelsea"}},
	 "goals":{"home":1,"away":1}}
]}`

func TestLoadMatchStats_SkipPolicyKeepsHealthyFixtures(t *testing.T) {
	t.Parallel()

	var failedCalls atomic.Int64
	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/fixtures":
			_, _ = w.Write([]byte(twoFinishedFixturesBody))
		case "/fixtures/statistics":
			if r.URL.Query().Get("fixture") == "1002" {
				failedCalls.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(statsBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), map[ingest.Dataset]ingest.Policy{
		ingest.DatasetMatchStats: ingest.PolicySkip,
	})

	stats, err := source.LoadMatchStats(context.Background())
	if err != nil {
		t.Fatalf("load match stats: %v", err)
	}
	if failedCalls.Load() == 0 {
		t.Fatalf("expected the failing fixture to be attempted")
	}
	if len(stats) != 2 {
		t.Fatalf("expected the healthy fixture's 2 rows to survive, got %d", len(stats))
	}
	for _, line := range stats {
		if line.Round != 1 {
			t.Fatalf("unexpected row from failed fixture: %+v", line)
		}
	}
}

func TestLoadMatchStats_FoulsCommittedAlias(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/fixtures":
			_, _ = w.Write([]byte(fixturesBody))
		case "/fixtures/statistics":
			_, _ = w.Write([]byte(`{"response":[
				{"team":{"id":42,"name":"Arsenal"},"statistics":[
					{"type":"Fouls Committed","value":13}]}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	stats, err := source.LoadMatchStats(context.Background())
	if err != nil {
		t.Fatalf("load match stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Fouls != 13 {
		t.Fatalf("alternate fouls label not mapped: %+v", stats)
	}
}

func TestLoadStandings_Endpoint(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/standings":
			_, _ = w.Write([]byte(`{"response":[{"league":{"standings":[[
				{"rank":1,"team":{"id":42,"name":"Arsenal","code":"ARS"},"points":58,"goalsDiff":35,
				 "all":{"played":24,"win":18,"draw":4,"lose":2,"goals":{"for":55,"against":20}}},
				{"rank":2,"team":{"id":40,"name":"Liverpool","code":"LIV"},"points":56,"goalsDiff":31,
				 "all":{"played":24,"win":17,"draw":5,"lose":2,"goals":{"for":53,"against":22}}}
			]]}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	standings, err := source.LoadStandings(context.Background())
	if err != nil {
		t.Fatalf("load standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(standings))
	}
	if standings[0].TeamShortCode != "ARS" || standings[0].Points != 58 || standings[0].GoalDiff != 35 {
		t.Fatalf("unexpected first row: %+v", standings[0])
	}
	if standings[1].Won != 17 || standings[1].GoalsFor != 53 {
		t.Fatalf("unexpected second row: %+v", standings[1])
	}
}

func TestLoadStandings_FallbackAggregation(t *testing.T) {
	t.Parallel()

	source, _ := newTestSource(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/standings":
			_, _ = w.Write([]byte(`{"response":[]}`))
		case "/teams":
			_, _ = w.Write([]byte(teamsBody))
		case "/fixtures":
			_, _ = w.Write([]byte(fixturesBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), nil)

	standings, err := source.LoadStandings(context.Background())
	if err != nil {
		t.Fatalf("load standings: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("expected 2 aggregated rows, got %d", len(standings))
	}
	first := standings[0]
	if first.TeamShortCode != "ARS" || first.Rank != 1 || first.Points != 3 {
		t.Fatalf("unexpected leader: %+v", first)
	}
	if first.Won != 1 || first.GoalsFor != 2 || first.GoalDiff != 1 {
		t.Fatalf("unexpected aggregate: %+v", first)
	}
	second := standings[1]
	if second.TeamShortCode != "LIV" || second.Points != 0 || second.Lost != 1 {
		t.Fatalf("unexpected runner-up: %+v", second)
	}
}

func TestLoadTeams_RetriesThenPolicy(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	abortSource, _ := newTestSource(t, handler, nil)
	if _, err := abortSource.LoadTeams(context.Background()); !crerr.Is(err, ingest.ErrTransientFetch) {
		t.Fatalf("expected transient fetch error, got %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected initial try plus one retry, got %d", hits.Load())
	}

	skipSource, _ := newTestSource(t, handler, map[ingest.Dataset]ingest.Policy{
		ingest.DatasetTeams: ingest.PolicySkip,
	})
	teams, err := skipSource.LoadTeams(context.Background())
	if err != nil {
		t.Fatalf("skip policy should not error: %v", err)
	}
	if len(teams) != 0 {
		t.Fatalf("expected empty dataset under skip, got %d", len(teams))
	}
}
