package search

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Match is one ranked search result.
type Match struct {
	ID    string          `json:"id"`    // CUSIP or accession number
	Name  string          `json:"name"`  // display name
	Score float64         `json:"score"` // 1.0 for exact hits, below fuzzyCeiling for fallback
	Value decimal.Decimal `json:"value"` // aggregate holding value
}

// Options tunes the search engine.
type Options struct {
	CandidateCap int     // max fuzzy candidates scored per query
	MinScore     float64 // results below this are dropped
	Scorer       Scorer  // defaults to FuzzyScorer
}

// Engine answers ranked queries against an Index. Exact token lookup runs
// first; approximate matching over the key set is the bounded fallback.
type Engine struct {
	idx    *Index
	scorer Scorer
	cap    int
	min    float64

	// fallback keys per domain: distinct normalized names -> entity indexes
	secKeys    []string
	secByNorm  map[string][]int
	fundKeys   []string
	fundByNorm map[string][]int
}

// NewEngine creates an engine over a built index.
func NewEngine(idx *Index, opts Options) *Engine {
	if opts.CandidateCap <= 0 {
		opts.CandidateCap = 50
	}
	if opts.Scorer == nil {
		opts.Scorer = FuzzyScorer{}
	}

	e := &Engine{
		idx:    idx,
		scorer: opts.Scorer,
		cap:    opts.CandidateCap,
		min:    opts.MinScore,
	}
	e.secKeys, e.secByNorm = fallbackKeys(&idx.securities)
	e.fundKeys, e.fundByNorm = fallbackKeys(&idx.funds)
	return e
}

// fallbackKeys collects the distinct normalized names of a domain, sorted
// for deterministic fuzzy candidate order.
func fallbackKeys(di *domainIndex) ([]string, map[string][]int) {
	byNorm := make(map[string][]int)
	for pos, e := range di.entities {
		if e.norm == "" {
			continue
		}
		byNorm[e.norm] = append(byNorm[e.norm], pos)
	}

	keys := make([]string, 0, len(byNorm))
	for k := range byNorm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, byNorm
}

// Search returns up to limit ranked matches for a free-text query.
// An empty result is an empty slice, never an error.
func (e *Engine) Search(query string, domain Domain, limit int) []Match {
	di := e.idx.domain(domain)
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []Match{}
	}

	scores := make(map[int]float64)

	// Tier 1: exact token intersection over the posting lists.
	counts := make(map[int]int)
	for _, tok := range tokens {
		for _, pos := range di.byToken[tok] {
			counts[pos]++
		}
	}
	for pos, n := range counts {
		if n == len(tokens) {
			scores[pos] = 1.0
		}
	}

	// Direct identifier lookup (CUSIP or accession) is always exact.
	if pos, ok := di.byID[strings.ToUpper(strings.TrimSpace(query))]; ok {
		scores[pos] = 1.0
	}

	// Tier 2: approximate matching over the distinct key set, bounded by the
	// candidate cap. Runs when the exact tier found nothing, and always for
	// long queries whose token intersection tends to be too strict.
	if len(scores) == 0 || len(tokens) > 2 {
		keys, byNorm := e.secKeys, e.secByNorm
		if domain == DomainFund {
			keys, byNorm = e.fundKeys, e.fundByNorm
		}
		for _, sk := range e.scorer.Rank(Normalize(query), keys, e.cap) {
			for _, pos := range byNorm[sk.Key] {
				if sk.Score > scores[pos] {
					scores[pos] = sk.Score
				}
			}
		}
	}

	matches := make([]Match, 0, len(scores))
	for pos, score := range scores {
		if score < e.min {
			continue
		}
		ent := &di.entities[pos]
		matches = append(matches, Match{
			ID:    ent.id,
			Name:  ent.name,
			Score: score,
			Value: ent.value,
		})
	}

	// Score desc, then aggregate value desc, then name asc, then id asc for
	// full determinism.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if cmp := matches[i].Value.Cmp(matches[j].Value); cmp != 0 {
			return cmp > 0
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].ID < matches[j].ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
