package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"animehub/internal/catalog"
)

// normalize folds s for comparison: NFKC (full-width forms, ligatures), Unicode
// case folding, punctuation to spaces, collapsed whitespace.
func normalize(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

func tokens(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// similarity is the Jaccard index of the two token sets.
func similarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

// match is the outcome of comparing a name list against search candidates.
type match struct {
	index int
	score float64
	exact bool
}

// bestMatch picks the candidate whose names match names. An exact normalized
// match wins outright, earliest candidate first; otherwise the highest token
// similarity at or above minSimilarity wins, ties going to the earlier
// candidate. index is -1 when nothing qualifies.
func bestMatch(names []string, candidates []catalog.Payload, minSimilarity float64) match {
	wanted := make([]string, 0, len(names))
	for _, n := range names {
		if n = normalize(n); n != "" {
			wanted = append(wanted, n)
		}
	}
	if len(wanted) == 0 {
		return match{index: -1}
	}

	for i := range candidates {
		for _, cn := range candidates[i].Names {
			cn = normalize(cn)
			for _, w := range wanted {
				if cn != "" && cn == w {
					return match{index: i, score: 1, exact: true}
				}
			}
		}
	}

	wantedTokens := make([]map[string]struct{}, len(wanted))
	for i, w := range wanted {
		wantedTokens[i] = tokens(w)
	}
	best := match{index: -1}
	for i := range candidates {
		for _, cn := range candidates[i].Names {
			ct := tokens(normalize(cn))
			for _, wt := range wantedTokens {
				if s := similarity(wt, ct); s >= minSimilarity && s > best.score {
					best = match{index: i, score: s}
				}
			}
		}
	}
	return best
}
