package plsite

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

// Bound on how far a balanced scan walks from its opening bracket. Embedded
// app-state blobs on club sites run to hundreds of KiB; anything past this
// is noise or a broken document.
const maxBalancedScan = 1 << 20

// Framework globals that carry server-rendered state worth mining.
var stateVariables = []string{
	"__NEXT_DATA__",
	"__PRELOADED_STATE__",
	"__INITIAL_STATE__",
	"window.__NEXT_DATA__",
	"window.__PRELOADED_STATE__",
	"window.__INITIAL_STATE__",
	"window.PULSE",
	"PULSE.app",
}

// extractBalanced returns the balanced {...} or [...] region starting at
// text[start]. String literals and escapes are honored so brackets inside
// quoted values do not unbalance the scan.
func extractBalanced(text string, start int) (string, bool) {
	var closing byte
	switch text[start] {
	case '{':
		closing = '}'
	case '[':
		closing = ']'
	default:
		return "", false
	}

	stack := []byte{closing}
	inString := false
	escaped := false
	end := len(text)
	if limit := start + maxBalancedScan; end > limit {
		end = limit
	}
	for idx := start + 1; idx < end; idx++ {
		ch := text[idx]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			stack = append(stack, '}')
		case ch == '[':
			stack = append(stack, ']')
		case ch == stack[len(stack)-1]:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return text[start : idx+1], true
			}
		}
	}
	return "", false
}

func decodeJSON(raw string) (any, bool) {
	var value any
	if err := sonic.Unmarshal([]byte(raw), &value); err != nil {
		return nil, false
	}
	switch value.(type) {
	case map[string]any, []any:
		return value, true
	default:
		return nil, false
	}
}

// assignedJSON finds `variable = {...}` (or `[...]`) inside a script block
// and returns the decoded right-hand side.
func assignedJSON(block, variable string) (any, bool) {
	at := strings.Index(block, variable)
	if at < 0 {
		return nil, false
	}
	eq := strings.IndexByte(block[at:], '=')
	if eq < 0 {
		return nil, false
	}
	pos := at + eq + 1
	for pos < len(block) && (block[pos] == ' ' || block[pos] == '\t' || block[pos] == '\n' || block[pos] == '\r') {
		pos++
	}
	if pos >= len(block) || (block[pos] != '{' && block[pos] != '[') {
		return nil, false
	}
	raw, ok := extractBalanced(block, pos)
	if !ok {
		return nil, false
	}
	return decodeJSON(raw)
}

// inlineJSON scans a script block for any balanced object/array literal that
// parses as JSON. Candidates are returned in document order.
func inlineJSON(block string) []any {
	var out []any
	for pos := 0; pos < len(block); {
		next := strings.IndexAny(block[pos:], "{[")
		if next < 0 {
			break
		}
		start := pos + next
		raw, ok := extractBalanced(block, start)
		if !ok {
			pos = start + 1
			continue
		}
		if value, ok := decodeJSON(raw); ok {
			out = append(out, value)
			pos = start + len(raw)
			continue
		}
		pos = start + 1
	}
	return out
}

// jsonCandidates gathers decoded JSON values from a page, cheapest first:
// the raw body when the endpoint answers JSON directly, script tags with a
// JSON type, known framework state variables, then inline literals.
func jsonCandidates(body string, doc *goquery.Document) []any {
	var out []any

	trimmed := strings.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if value, ok := decodeJSON(trimmed); ok {
			out = append(out, value)
		}
	}

	var jsonBlocks, scriptBlocks []string
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if typ, _ := sel.Attr("type"); strings.Contains(strings.ToLower(typ), "json") {
			jsonBlocks = append(jsonBlocks, text)
			return
		}
		scriptBlocks = append(scriptBlocks, text)
	})

	for _, block := range jsonBlocks {
		if value, ok := decodeJSON(block); ok {
			out = append(out, value)
		}
	}
	for _, block := range scriptBlocks {
		for _, variable := range stateVariables {
			if value, ok := assignedJSON(block, variable); ok {
				out = append(out, value)
			}
		}
	}
	for _, block := range scriptBlocks {
		out = append(out, inlineJSON(block)...)
	}
	return out
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, float64, bool:
		return true
	default:
		return false
	}
}

// collectRecords walks a decoded JSON value breadth-first and returns every
// object holding at least one scalar field. Those are the row candidates;
// pure container objects are just descended through.
func collectRecords(root any) []map[string]any {
	var out []map[string]any
	queue := []any{root}
	for len(queue) > 0 {
		value := queue[0]
		queue = queue[1:]
		switch typed := value.(type) {
		case map[string]any:
			scalar := false
			for _, v := range typed {
				if isScalar(v) {
					scalar = true
					break
				}
			}
			if scalar {
				out = append(out, typed)
			}
			for _, v := range typed {
				switch v.(type) {
				case map[string]any, []any:
					queue = append(queue, v)
				}
			}
		case []any:
			for _, v := range typed {
				queue = append(queue, v)
			}
		}
	}
	return out
}

func scalarString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

// flattenRecord indexes every scalar in a record under three normalized
// spellings of its path: the full dotted path, the last two segments, and
// the bare leaf. First write wins so shallow fields shadow deep ones.
func flattenRecord(root map[string]any) map[string]string {
	out := make(map[string]string)
	set := func(key, value string) {
		if key == "" || value == "" {
			return
		}
		if _, exists := out[key]; !exists {
			out[key] = value
		}
	}

	type entry struct {
		path  []string
		value any
	}
	queue := []entry{{value: root}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		switch typed := current.value.(type) {
		case map[string]any:
			for k, v := range typed {
				key := normalizeKey(k)
				if key == "" {
					continue
				}
				queue = append(queue, entry{path: append(append([]string{}, current.path...), key), value: v})
			}
		case []any:
			// Arrays inside a record are positional detail, not fields.
		default:
			value := scalarString(current.value)
			if value == "" || len(current.path) == 0 {
				continue
			}
			set(strings.Join(current.path, "_"), value)
			if n := len(current.path); n >= 2 {
				set(strings.Join(current.path[n-2:], "_"), value)
			}
			set(current.path[len(current.path)-1], value)
		}
	}
	return out
}

// mapJSONRecords maps flattened records onto the dataset's canonical fields
// via the alias tables, keeping only rows with every required field.
func mapJSONRecords(candidate any, aliases map[string][]string, required []string) []record {
	var out []record
	for _, raw := range collectRecords(candidate) {
		flat := flattenRecord(raw)
		item := make(record, len(aliases))
		for canonical, accepted := range aliases {
			if v, ok := flat[canonical]; ok {
				item[canonical] = v
				continue
			}
			for _, alias := range accepted {
				if v, ok := flat[normalizeKey(alias)]; ok {
					item[canonical] = v
					break
				}
			}
		}
		complete := true
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
	return out
}

// extractFromScripts runs the JSON strategy: the first decoded candidate
// producing at least one complete record wins.
func extractFromScripts(body string, doc *goquery.Document, aliases map[string][]string, required []string) []record {
	for _, candidate := range jsonCandidates(body, doc) {
		if rows := mapJSONRecords(candidate, aliases, required); len(rows) > 0 {
			return rows
		}
	}
	return nil
}
