package plsite

import "testing"

const clubAnchorsHTML = `
<html><body>
<a href="/en/clubs/1/arsenal/overview">Arsenal</a>
<a href="/en/clubs/1/arsenal/overview">Arsenal</a>
<a href="/en/clubs/10/leeds-united/overview">Clubs</a>
<a href="/en/clubs/12/liverpool/overview"></a>
<a href="/en/matches">Matches</a>
</body></html>`

func TestExtractTeamsFromLinks(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, clubAnchorsHTML)
	rows := extractTeamsFromLinks(doc)
	if len(rows) != 3 {
		t.Fatalf("expected 3 teams, got %d: %+v", len(rows), rows)
	}
	if rows[0]["name"] != "Arsenal" {
		t.Fatalf("anchor text should win: %+v", rows[0])
	}
	// Generic anchor text falls back to the href slug.
	if rows[1]["name"] != "Leeds United" {
		t.Fatalf("slug name expected: %+v", rows[1])
	}
	if rows[2]["name"] != "Liverpool" {
		t.Fatalf("empty anchor should use slug: %+v", rows[2])
	}
}

func TestNameFromClubHref(t *testing.T) {
	t.Parallel()

	if got := nameFromClubHref("/en/clubs/4/brighton-and-hove-albion/overview"); got != "Brighton And Hove Albion" {
		t.Fatalf("got %q", got)
	}
	if got := nameFromClubHref("/en/fixtures"); got != "" {
		t.Fatalf("expected empty for non-club href, got %q", got)
	}
	if got := nameFromClubHref("/en/clubs/43/aston_villa/overview"); got != "Aston Villa" {
		t.Fatalf("underscore slug: got %q", got)
	}
	if got := nameFromClubHref("/en/clubs/21/west_ham-united/overview"); got != "West Ham United" {
		t.Fatalf("mixed separators: got %q", got)
	}
}
