package catalog

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	// Trailing attributions such as "(Source: Crunchyroll)" or "[Written by MAL Rewrite]".
	attribution = regexp.MustCompile(`(?i)\s*[\(\[](source|written by)[^\)\]]*[\)\]]\s*$`)
)

// CleanDescription removes HTML markup and entities from catalog descriptions.
// AniList returns HTML, Jikan and Kitsu return plain text with attributions.
func CleanDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	text := desc
	if strings.ContainsAny(desc, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
		if err == nil {
			doc.Find("br").ReplaceWithHtml("\n")
			text = doc.Text()
		}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = attribution.ReplaceAllString(text, "")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// OptString returns nil for blank strings.
func OptString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptDescription cleans s and returns nil if nothing is left.
func OptDescription(s string) *string {
	return OptString(CleanDescription(s))
}

// OptPositive returns nil for missing or non-positive counts.
func OptPositive(n *int) *int {
	if n == nil || *n <= 0 {
		return nil
	}
	v := *n
	return &v
}

// Compact drops blank and duplicate entries, keeping order.
func Compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
