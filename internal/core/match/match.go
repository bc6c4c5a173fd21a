// Package match resolves free-text event titles to configured need entries
// using approximate string similarity over case-folded text
package match

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"starpass/internal/catalog"
	perr "starpass/internal/platform/errors"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains; chains are stateful and not safe for
// concurrent use
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// normalize case-folds s and collapses whitespace runs to single spaces
func normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return strings.Join(strings.Fields(ns), " ")
}

// Matcher scores a title against one calendar namespace's keyword set.
// The zero MinScore preserves the historical behavior where the best-scoring
// keyword always wins no matter how poor the fit; a positive MinScore makes
// low-confidence titles fall back to the "default" entry instead
type Matcher struct {
	needs    map[string]catalog.Need
	keywords []string // scoring candidates, sorted; excludes "default"
	folded   map[string]string
	minScore float64
	lev      *metrics.Levenshtein
}

// Option configures a Matcher
type Option func(*Matcher)

// WithMinScore sets the similarity floor below which Match falls back to
// the default entry. Zero disables the floor
func WithMinScore(min float64) Option {
	return func(m *Matcher) { m.minScore = min }
}

// New builds a Matcher over a calendar's keyword table
func New(cal catalog.Calendar, opts ...Option) *Matcher {
	m := &Matcher{
		needs:  cal.Needs,
		folded: make(map[string]string, len(cal.Needs)),
		lev:    metrics.NewLevenshtein(),
	}
	for kw := range cal.Needs {
		if kw == catalog.DefaultKeyword {
			continue
		}
		m.keywords = append(m.keywords, kw)
		m.folded[kw] = normalize(kw)
	}
	// deterministic candidate order; ties resolve to the lexicographically
	// smallest keyword
	sort.Strings(m.keywords)
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match returns the best-matching keyword and its need entry for title.
// When no candidate qualifies it falls back to the default entry; a missing
// default at that point is a configuration error
func (m *Matcher) Match(title string) (string, catalog.Need, error) {
	folded := normalize(title)

	bestKW := ""
	bestScore := -1.0
	for _, kw := range m.keywords {
		score := strutil.Similarity(folded, m.folded[kw], m.lev)
		if score > bestScore {
			bestKW, bestScore = kw, score
		}
	}

	if bestKW != "" && (m.minScore <= 0 || bestScore >= m.minScore) {
		return bestKW, m.needs[bestKW], nil
	}

	def, ok := m.needs[catalog.DefaultKeyword]
	if !ok {
		return "", catalog.Need{}, perr.Configf("no keyword match for %q and no %q entry configured", title, catalog.DefaultKeyword)
	}
	return catalog.DefaultKeyword, def, nil
}
