// Package resolve maps normalized production titles to canonical
// Shakespeare plays.
//
// Matching runs locally against the built-in catalog: exact alias lookup,
// token-subset scoring, then a fuzzy similarity floor. When an external
// canonical-play directory is configured, exact and alias lookups there take
// precedence and the local match result is re-looked-up for its directory
// identity.
package resolve

import (
	"context"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/stagefind/stagefind/internal/catalog"
)

// Tuning surface: the coverage floor, noise penalties, accept threshold,
// confidence tiers, and fuzzy cutoff below were tuned empirically against
// live theatre-site titles. They are behavior, not derivation.
const (
	coverageFloor    = 0.5
	acceptScore      = 0.6
	noisePenaltyMild = 0.7
	noisePenaltyHard = 0.5

	confAlias     = 0.9
	confTierHigh  = 0.9 // subset score >= 0.95
	confTierMid   = 0.87
	confTierLow   = 0.85
	confFuzzy     = 0.8
	fuzzyCutoff   = 0.72
	fuzzyMaxToken = 8

	richOverlapTokens = 3
)

// badHints mark generic-entertainment marketing titles; they are rejected
// unless the title still shares enough tokens with some canonical play.
var badHints = map[string]bool{
	"concert":       true,
	"sings":         true,
	"tribute":       true,
	"unforgettable": true,
	"legacy":        true,
}

var (
	wsRe         = regexp.MustCompile(`\s+`)
	tokenSplitRe = regexp.MustCompile(`[^\w']+`)
	parensRe     = regexp.MustCompile(`\([^)]*\)`)
	prefixRe     = regexp.MustCompile(`(?i)^(?:william\s+)?shakespeare'?s[\s:\-–—]+`)
	suffixRe     = regexp.MustCompile(`(?i)(?:[:\-–—]\s*(an\s+adaptation|a\s+new.*|in\s+concert|live).*)$`)
)

// Match is the outcome of a local title match.
type Match struct {
	CanonicalTitle string
	Confidence     float64
}

// Matcher matches titles against an immutable canonical catalog. Build one
// per run and share it; all methods are read-only.
type Matcher struct {
	catalog    *catalog.Catalog
	tokenSets  map[string]map[string]bool // canonical title -> token set
	startHints []string                   // first word of each canonical title, lowercased
}

// NewMatcher builds the token indexes for a catalog.
func NewMatcher(c *catalog.Catalog) *Matcher {
	m := &Matcher{
		catalog:   c,
		tokenSets: make(map[string]map[string]bool, c.Len()),
	}
	for _, title := range c.Titles() {
		set := make(map[string]bool)
		for _, t := range tokenize(title) {
			set[t] = true
		}
		m.tokenSets[title] = set
		if words := strings.Fields(title); len(words) > 0 {
			m.startHints = append(m.startHints, strings.ToLower(words[0]))
		}
	}
	return m
}

// MatchLocal maps a raw title to a canonical play, or to an empty Match at
// confidence 0 when nothing qualifies.
func (m *Matcher) MatchLocal(title string) Match {
	if title == "" {
		return Match{}
	}
	core := m.coreTitle(title)
	if canon, ok := m.catalog.CanonicalTitle(core); ok {
		return Match{CanonicalTitle: canon, Confidence: confAlias}
	}

	tokens := tokenize(core)
	tokenSet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = true
	}

	// Marketing pre-filter: reject concert/tribute noise unless the title
	// still shares a rich token overlap with some play.
	if hasBadHint(tokenSet) && !m.richOverlap(tokenSet) {
		return Match{}
	}

	// Catalog order, strict improvement: score ties resolve to the earliest
	// catalog entry on every call.
	bestTitle, bestScore := "", 0.0
	for _, canon := range m.catalog.Titles() {
		score := subsetScore(tokenSet, m.tokenSets[canon])
		if score >= acceptScore && score > bestScore {
			bestTitle, bestScore = canon, score
		}
	}
	if bestTitle != "" {
		conf := confTierLow
		switch {
		case bestScore >= 0.95:
			conf = confTierHigh
		case bestScore >= 0.8:
			conf = confTierMid
		}
		return Match{CanonicalTitle: bestTitle, Confidence: conf}
	}

	// Fuzzy floor, short titles only, so long marketing titles cannot drift
	// onto short play names.
	if n := len(tokens); n >= 1 && n <= fuzzyMaxToken {
		if canon := m.closestTitle(core); canon != "" {
			return Match{CanonicalTitle: canon, Confidence: confFuzzy}
		}
	}
	return Match{}
}

// coreTitle reduces a display title to its play-like core: parenthetical
// asides removed, Shakespeare prefix and trailing marketing suffix
// stripped, and the left-hand segment of a colon/dash/pipe split kept when
// it starts like a canonical title.
func (m *Matcher) coreTitle(raw string) string {
	t := strings.TrimSpace(raw)
	t = parensRe.ReplaceAllString(t, " ")
	t = prefixRe.ReplaceAllString(t, "")
	t = suffixRe.ReplaceAllString(t, "")
	for _, sep := range []string{":", "—", "–", "-", " | "} {
		if strings.Contains(t, sep) {
			left := strings.TrimSpace(strings.SplitN(t, sep, 2)[0])
			if m.looksLikePlay(left) {
				t = left
				break
			}
		}
	}
	t = wsRe.ReplaceAllString(t, " ")
	return strings.Trim(strings.TrimSpace(t), " .:;,-–—")
}

func (m *Matcher) looksLikePlay(fragment string) bool {
	fl := strings.ToLower(fragment)
	for _, h := range m.startHints {
		if strings.HasPrefix(fl, h) {
			return true
		}
	}
	return false
}

func (m *Matcher) richOverlap(tokenSet map[string]bool) bool {
	for _, canonTokens := range m.tokenSets {
		shared := 0
		for t := range tokenSet {
			if canonTokens[t] {
				shared++
			}
		}
		if shared >= richOverlapTokens {
			return true
		}
	}
	return false
}

// closestTitle returns the canonical title within the fuzzy similarity
// cutoff of core, or "".
func (m *Matcher) closestTitle(core string) string {
	best, bestSim := "", 0.0
	coreLower := strings.ToLower(core)
	for _, title := range m.catalog.Titles() {
		sim := similarity(coreLower, strings.ToLower(title))
		if sim >= fuzzyCutoff && sim > bestSim {
			best, bestSim = title, sim
		}
	}
	return best
}

// subsetScore scores candidate tokens against one canonical token set:
// coverage of the canonical set, zero below the coverage floor, down-
// weighted when the candidate carries much more noise than the canonical
// set has tokens.
func subsetScore(candidate, canon map[string]bool) float64 {
	if len(candidate) == 0 || len(canon) == 0 {
		return 0.0
	}
	inter := 0
	for t := range candidate {
		if canon[t] {
			inter++
		}
	}
	if inter == 0 {
		return 0.0
	}
	coverage := float64(inter) / float64(len(canon))
	if coverage < coverageFloor {
		return 0.0
	}
	noiseRatio := float64(len(candidate)-inter) / float64(max(1, len(canon)))
	if noiseRatio > 1.0 {
		coverage *= noisePenaltyMild
	}
	if noiseRatio > 2.0 {
		coverage *= noisePenaltyHard
	}
	return coverage
}

func hasBadHint(tokenSet map[string]bool) bool {
	for t := range tokenSet {
		if badHints[t] {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	var out []string
	for _, t := range tokenSplitRe.Split(strings.ToLower(s), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// similarity is an edit-distance ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// Play is a canonical play known to an external directory.
type Play struct {
	ID    string
	Title string
}

// Directory is an external canonical-play directory. Implementations must
// not mutate catalog state on lookup.
type Directory interface {
	FindPlayByTitle(ctx context.Context, title string) (*Play, error)
	FindPlayByAlias(ctx context.Context, title string) (*Play, error)
}

// Resolution is the outcome of directory-backed resolution.
type Resolution struct {
	PlayID         string
	CanonicalTitle string
	Confidence     float64
}

// Resolve prefers exact directory lookup, then alias lookup, then the local
// match re-looked-up in the directory at the local confidence. Directory
// errors degrade to the next stage rather than failing the title.
func (m *Matcher) Resolve(ctx context.Context, title string, dir Directory) Resolution {
	if title == "" || dir == nil {
		return Resolution{}
	}
	if play, err := dir.FindPlayByTitle(ctx, title); err == nil && play != nil {
		return Resolution{PlayID: play.ID, CanonicalTitle: play.Title, Confidence: 1.0}
	}
	if play, err := dir.FindPlayByAlias(ctx, title); err == nil && play != nil {
		return Resolution{PlayID: play.ID, CanonicalTitle: play.Title, Confidence: 0.95}
	}
	local := m.MatchLocal(title)
	if local.CanonicalTitle == "" {
		return Resolution{}
	}
	if play, err := dir.FindPlayByTitle(ctx, local.CanonicalTitle); err == nil && play != nil {
		return Resolution{PlayID: play.ID, CanonicalTitle: play.Title, Confidence: local.Confidence}
	}
	return Resolution{}
}
