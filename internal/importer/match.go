package importer

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/jantonca/easytax-au-sub002/internal/model"
)

// DefaultMatchThreshold is the similarity a candidate must reach before a
// free-text name resolves to an existing counterparty.
const DefaultMatchThreshold = 0.6

// MatchResult is the outcome of counterparty resolution: an existing
// counterparty with a confidence score, or no match (score 0), meaning a
// new counterparty is created on commit.
type MatchResult struct {
	Counterparty *model.Counterparty
	Score        float64
}

// Matched reports whether an existing counterparty was resolved.
func (r MatchResult) Matched() bool {
	return r.Counterparty != nil
}

// Matcher resolves free-text names against a read-only snapshot of known
// counterparties. Pure: no I/O beyond the snapshot it was built with.
type Matcher struct {
	known     []model.Counterparty
	threshold float64
}

// NewMatcher builds a matcher over a counterparty snapshot. A threshold
// outside (0,1] falls back to DefaultMatchThreshold.
func NewMatcher(known []model.Counterparty, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultMatchThreshold
	}
	return &Matcher{known: known, threshold: threshold}
}

// Match finds the best candidate for a name. Tiers, first match wins:
// case-insensitive exact equality (score 1.0), then similarity at or above
// the threshold. Ties break on highest score, then lexicographically
// smallest name, so imports are reproducible.
func (m *Matcher) Match(name string) MatchResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return MatchResult{}
	}

	for i := range m.known {
		if strings.EqualFold(m.known[i].Name, name) {
			return MatchResult{Counterparty: &m.known[i], Score: 1.0}
		}
	}

	var best *model.Counterparty
	bestScore := 0.0
	for i := range m.known {
		score := similarity(name, m.known[i].Name)
		if score < m.threshold {
			continue
		}
		if score > bestScore || (score == bestScore && best != nil && m.known[i].Name < best.Name) {
			best = &m.known[i]
			bestScore = score
		}
	}
	if best == nil {
		return MatchResult{}
	}
	return MatchResult{Counterparty: best, Score: bestScore}
}

// similarity scores two names in [0,1] as the best of normalized
// containment, Levenshtein similarity, and token overlap (Dice).
func similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}

	score := levenshtein.Similarity(na, nb, levenshtein.NewParams())
	if s := containment(na, nb); s > score {
		score = s
	}
	if s := tokenOverlap(na, nb); s > score {
		score = s
	}
	return score
}

// containment scores one normalized name appearing inside the other,
// weighted by how much of the longer name it covers.
func containment(a, b string) float64 {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 3 || !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}

// tokenOverlap is the Dice coefficient over whitespace-split tokens.
func tokenOverlap(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}
	common := 0
	for _, tok := range tb {
		if set[tok] {
			common++
		}
	}
	return 2 * float64(common) / float64(len(ta)+len(tb))
}

// normalizeName lowercases and strips punctuation, collapsing runs of
// non-alphanumerics to single spaces.
func normalizeName(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
