package plsite

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/eplhub/crawler/internal/domain/ingest"
)

// record is one extracted row, canonical field name -> raw string value.
type record map[string]string

type htmlTable struct {
	headers []string
	rows    [][]string
}

// parseTables collects every table that has at least one header cell and one
// data row. Header cells are gathered table-wide so split thead/tbody markup
// still yields one header list.
func parseTables(doc *goquery.Document) []htmlTable {
	var tables []htmlTable
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		var t htmlTable
		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			headerCells := row.Find("th")
			if headerCells.Length() > 0 {
				headerCells.Each(func(_ int, cell *goquery.Selection) {
					if key := normalizeKey(cell.Text()); key != "" {
						t.headers = append(t.headers, key)
					}
				})
				return
			}
			var cells []string
			row.Find("td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.Join(strings.Fields(cell.Text()), " "))
			})
			if len(cells) > 0 {
				t.rows = append(t.rows, cells)
			}
		})
		if len(t.headers) > 0 && len(t.rows) > 0 {
			tables = append(tables, t)
		}
	})
	return tables
}

// mapTableRows matches normalized headers against the alias sets and maps
// each data row into a canonical record. Returns nil when any required
// column is missing; in strict mode that is an error instead, naming the
// missing fields.
func mapTableRows(t htmlTable, aliases map[string][]string, required []string, strict bool) ([]record, error) {
	columnIndex := make(map[string]int, len(aliases))
	for canonical, accepted := range aliases {
		if idx, ok := findColumn(t.headers, canonical, accepted); ok {
			columnIndex[canonical] = idx
		}
	}

	var missing []string
	for _, field := range required {
		if _, ok := columnIndex[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		if strict {
			return nil, crerr.Mark(fmt.Errorf("table missing required columns: %s", strings.Join(missing, ", ")), ingest.ErrDatasetParse)
		}
		return nil, nil
	}

	out := make([]record, 0, len(t.rows))
	for _, row := range t.rows {
		item := make(record, len(columnIndex))
		complete := true
		for canonical, idx := range columnIndex {
			var value string
			if idx < len(row) {
				value = strings.TrimSpace(row[idx])
			}
			if value != "" {
				item[canonical] = value
			}
		}
		for _, field := range required {
			if item[field] == "" {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, item)
		}
	}
	return out, nil
}

// findColumn resolves a canonical field to a header position. Aliases are
// tried in priority order and the first one present anywhere in the header
// list wins, so a preferred spelling beats an earlier weaker header.
func findColumn(headers []string, canonical string, accepted []string) (int, bool) {
	candidates := make([]string, 0, len(accepted)+1)
	candidates = append(candidates, canonical)
	for _, alias := range accepted {
		if alias != canonical {
			candidates = append(candidates, alias)
		}
	}
	for _, alias := range candidates {
		for idx, header := range headers {
			if header == alias {
				return idx, true
			}
		}
	}
	return 0, false
}

// extractFromTables tries each parsed table in document order and returns
// the rows of the first one satisfying the dataset's required columns.
func extractFromTables(doc *goquery.Document, aliases map[string][]string, required []string, strict bool) ([]record, error) {
	var strictErr error
	for _, t := range parseTables(doc) {
		rows, err := mapTableRows(t, aliases, required, strict)
		if err != nil {
			if strictErr == nil {
				strictErr = err
			}
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	if strictErr != nil {
		return nil, strictErr
	}
	return nil, nil
}
