package catalog

import (
	"sort"
	"strings"
	"unicode"
)

// ShortlistSize is the number of closest names returned when the hint does
// not resolve directly.
const ShortlistSize = 10

// MinHintLength is the shortest hint worth narrowing on. Below this the
// full catalog goes to the visual matcher.
const MinHintLength = 3

// Match is a resolved item with a confidence score.
type Match struct {
	Label string
	Score float64
}

// Narrowing is the outcome of text-based candidate narrowing: either an
// immediate match, a shortlist for the visual matcher, or neither (the
// caller falls back to the full catalog).
type Narrowing struct {
	Match     *Match
	Shortlist []string
}

// Narrow resolves an OCR hint against the catalog.
//
// Exact equality with any name or alias is an immediate match at 1.0.
// A near miss (edit distance <= 2) is an immediate match at 0.95 when the
// matched name is longer than 4 characters or the distance is <= 1; the
// length guard keeps short names like "Axe" from false-positive matching
// arbitrary two-letter OCR noise. Anything else yields the ShortlistSize
// closest names.
func (c *Catalog) Narrow(hintText string) Narrowing {
	hint := normalizeHint(hintText)
	if len(hint) < MinHintLength {
		return Narrowing{}
	}

	// Compare both the raw hint and the hint with stack notation removed:
	// "bandage x5" should hit "Bandage" exactly, while names that
	// legitimately contain digits keep working with the raw form.
	variants := []string{hint}
	if stripped := stripQuantityTokens(hint); stripped != hint && stripped != "" {
		variants = append(variants, stripped)
	}

	type ranked struct {
		name    string // canonical name
		matched string // the name or alias that scored best
		dist    int
	}

	distance := func(target string) int {
		best := levenshtein(variants[0], target)
		for _, v := range variants[1:] {
			if d := levenshtein(v, target); d < best {
				best = d
			}
		}
		return best
	}

	best := make([]ranked, 0, len(c.entries))
	for _, e := range c.entries {
		r := ranked{name: e.Name, matched: e.Name, dist: distance(normalizeHint(e.Name))}
		for _, alias := range e.Aliases {
			if d := distance(normalizeHint(alias)); d < r.dist {
				r.dist = d
				r.matched = alias
			}
		}
		best = append(best, r)
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].dist < best[j].dist
	})

	top := best[0]
	if top.dist == 0 {
		return Narrowing{Match: &Match{Label: top.name, Score: 1.0}}
	}
	if top.dist <= 2 && (len(normalizeHint(top.matched)) > 4 || top.dist <= 1) {
		return Narrowing{Match: &Match{Label: top.name, Score: 0.95}}
	}

	n := min(ShortlistSize, len(best))
	shortlist := make([]string, n)
	for i := 0; i < n; i++ {
		shortlist[i] = best[i].name
	}
	return Narrowing{Shortlist: shortlist}
}

// normalizeHint lowercases, strips everything but letters, digits and
// spaces, and collapses whitespace runs.
func normalizeHint(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripQuantityTokens removes stack-notation fields ("x5", "12") from a
// normalized hint.
func stripQuantityTokens(s string) string {
	var kept []string
	for _, field := range strings.Fields(s) {
		if isQuantityToken(field) {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

// isQuantityToken reports whether a field is stack notation: all digits,
// optionally prefixed with "x".
func isQuantityToken(field string) bool {
	digits := strings.TrimPrefix(field, "x")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// levenshtein computes the edit distance between two strings using the
// two-row dynamic programming form.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
