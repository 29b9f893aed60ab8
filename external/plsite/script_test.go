package plsite

import "testing"

func TestExtractBalanced(t *testing.T) {
	t.Parallel()

	text := `var data = {"a": {"b": [1, 2]}, "c": "x"}; other()`
	raw, ok := extractBalanced(text, 11)
	if !ok {
		t.Fatalf("expected balanced region")
	}
	if raw != `{"a": {"b": [1, 2]}, "c": "x"}` {
		t.Fatalf("unexpected region: %s", raw)
	}
}

func TestExtractBalanced_BracketsInsideStrings(t *testing.T) {
	t.Parallel()

	text := `{"name": "odd } value", "esc": "quote \" and ] here"}`
	raw, ok := extractBalanced(text, 0)
	if !ok {
		t.Fatalf("expected balanced region")
	}
	if raw != text {
		t.Fatalf("unexpected region: %s", raw)
	}
}

func TestExtractBalanced_Unterminated(t *testing.T) {
	t.Parallel()

	if _, ok := extractBalanced(`{"open": [1, 2`, 0); ok {
		t.Fatalf("expected no region for unterminated input")
	}
}

func TestAssignedJSON(t *testing.T) {
	t.Parallel()

	block := `window.__NEXT_DATA__ = {"props": {"teams": [{"name": "Arsenal FC"}]}};`
	value, ok := assignedJSON(block, "__NEXT_DATA__")
	if !ok {
		t.Fatalf("expected assigned value")
	}
	root, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object root, got %T", value)
	}
	if _, ok := root["props"]; !ok {
		t.Fatalf("missing props key")
	}
}

func TestFlattenRecord_PathVariants(t *testing.T) {
	t.Parallel()

	flat := flattenRecord(map[string]any{
		"club": map[string]any{
			"shortName": "ARS",
			"venue":     map[string]any{"name": "Emirates Stadium"},
		},
		"rank": float64(1),
	})

	if flat["club_short_name"] != "ARS" {
		t.Fatalf("full path missing: %+v", flat)
	}
	if flat["short_name"] != "ARS" {
		t.Fatalf("leaf key missing: %+v", flat)
	}
	if flat["venue_name"] != "Emirates Stadium" {
		t.Fatalf("last-two key missing: %+v", flat)
	}
	if flat["rank"] != "1" {
		t.Fatalf("numeric formatting: %+v", flat)
	}
}

func TestScalarString_Numbers(t *testing.T) {
	t.Parallel()

	if got := scalarString(float64(14)); got != "14" {
		t.Fatalf("integral float: %q", got)
	}
	if got := scalarString(56.4); got != "56.4" {
		t.Fatalf("fractional float: %q", got)
	}
	if got := scalarString(true); got != "true" {
		t.Fatalf("bool: %q", got)
	}
}

const nextDataHTML = `
<html><body>
<script>
window.__NEXT_DATA__ = {"props":{"pageProps":{"teams":[
  {"name":"Arsenal FC","shortName":"ARS","stadium":"Emirates Stadium"},
  {"name":"Liverpool FC","shortName":"LIV","stadium":"Anfield"}
]}}};
</script>
</body></html>`

func TestExtractFromScripts_NextData(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, nextDataHTML)
	rows := extractFromScripts(nextDataHTML, doc, teamAliases, teamRequired)
	if len(rows) != 2 {
		t.Fatalf("expected 2 records, got %d", len(rows))
	}
	byName := map[string]record{}
	for _, row := range rows {
		byName[row["name"]] = row
	}
	ars, ok := byName["Arsenal FC"]
	if !ok {
		t.Fatalf("Arsenal record missing: %+v", rows)
	}
	if ars["short_code"] != "ARS" || ars["stadium"] != "Emirates Stadium" {
		t.Fatalf("unexpected record: %+v", ars)
	}
}

func TestExtractFromScripts_RawJSONBody(t *testing.T) {
	t.Parallel()

	body := `[{"name":"Chelsea FC","shortName":"CHE"}]`
	doc := mustDoc(t, "<html><body></body></html>")
	rows := extractFromScripts(body, doc, teamAliases, teamRequired)
	if len(rows) != 1 {
		t.Fatalf("expected 1 record, got %d", len(rows))
	}
	if rows[0]["short_code"] != "CHE" {
		t.Fatalf("unexpected record: %+v", rows[0])
	}
}
