// Package social extracts social-platform profile URLs from chat text.
// Pattern matching only; URLs are never fetched or validated.
package social

import "regexp"

// Match is a URL attributed to the first platform pattern it hit.
type Match struct {
	Platform string
	URL      string
}

type platformPattern struct {
	name    string
	pattern *regexp.Regexp
}

// patterns is ordered: specific platforms first, the generic Website
// catch-all last. A URL belongs to the first pattern that matches it.
var patterns = []platformPattern{
	{"LinkedIn", regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/[\w\-/]+`)},
	{"Twitter/X", regexp.MustCompile(`(?i)https?://(?:www\.)?(?:twitter\.com|x\.com)/[\w\-/]+`)},
	{"Facebook", regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/[\w\-/]+`)},
	{"Instagram", regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/[\w\-/]+`)},
	{"GitHub", regexp.MustCompile(`(?i)https?://(?:www\.)?github\.com/[\w\-/]+`)},
	{"YouTube", regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/[\w\-/?=]+`)},
	{"TikTok", regexp.MustCompile(`(?i)https?://(?:www\.)?tiktok\.com/@?[\w\-/]+`)},
	{"Website", regexp.MustCompile(`(?i)https?://(?:www\.)?[\w\-]+\.[\w\-./]+`)},
}

// ExtractURLs scans text for recognizable profile URLs and returns them
// deduplicated by URL, first occurrence wins. Ordering is pattern-major:
// all LinkedIn hits before all Twitter/X hits, and so on, with the generic
// Website bucket last.
func ExtractURLs(text string) []Match {
	seen := make(map[string]struct{})
	var unique []Match

	for _, p := range patterns {
		for _, url := range p.pattern.FindAllString(text, -1) {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			unique = append(unique, Match{Platform: p.name, URL: url})
		}
	}

	return unique
}
