package plsite

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var clubHrefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/clubs/\d+/([^/]+)/overview`),
	regexp.MustCompile(`(?i)/clubs/\d+/([^/]+)`),
	regexp.MustCompile(`(?i)/clubs/([^/]+)`),
}

var slugSeparatorPattern = regexp.MustCompile(`[-_]+`)

var genericAnchorText = map[string]struct{}{
	"clubs":     {},
	"all clubs": {},
	"club":      {},
	"view club": {},
	"overview":  {},
}

func nameFromClubHref(href string) string {
	for _, pattern := range clubHrefPatterns {
		if m := pattern.FindStringSubmatch(href); m != nil {
			slug := strings.Trim(m[1], "-_ ")
			if slug == "" {
				continue
			}
			words := slugSeparatorPattern.Split(slug, -1)
			for i, word := range words {
				if word == "" {
					continue
				}
				words[i] = strings.ToUpper(word[:1]) + word[1:]
			}
			return strings.Join(words, " ")
		}
	}
	return ""
}

// extractTeamsFromLinks is the last-resort team strategy: harvest club names
// from anchors pointing at club pages. Anchor text wins when it looks like a
// real name; otherwise the name is rebuilt from the href slug.
func extractTeamsFromLinks(doc *goquery.Document) []record {
	var out []record
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(strings.ToLower(href), "/clubs/") {
			return
		}
		name := strings.Join(strings.Fields(sel.Text()), " ")
		if _, generic := genericAnchorText[strings.ToLower(name)]; generic || name == "" {
			name = nameFromClubHref(href)
		}
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, record{"name": name})
	})
	return out
}
