package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// ScoredKey is one fallback candidate with its relevance score in [0,1).
type ScoredKey struct {
	Key   string
	Score float64
}

// Scorer ranks index keys against a normalized query. It is the seam for
// swapping the approximate-matching algorithm without touching the index
// structure.
type Scorer interface {
	Rank(query string, keys []string, cap int) []ScoredKey
}

// FuzzyScorer ranks keys with subsequence matching (sahilm/fuzzy) and scores
// by query coverage of the key. Fallback scores are capped below 1.0 so an
// approximate match never outranks an exact token hit.
type FuzzyScorer struct{}

// fuzzyCeiling keeps fallback scores strictly below exact-match scores.
const fuzzyCeiling = 0.9

func (FuzzyScorer) Rank(query string, keys []string, cap int) []ScoredKey {
	if query == "" || len(keys) == 0 || cap <= 0 {
		return nil
	}

	matches := fuzzy.Find(query, keys)
	if len(matches) > cap {
		matches = matches[:cap]
	}

	out := make([]ScoredKey, 0, len(matches))
	for _, m := range matches {
		key := keys[m.Index]
		out = append(out, ScoredKey{Key: key, Score: coverageScore(query, key)})
	}
	return out
}

// coverageScore scores a key by how much of it the query explains:
// len(query)/len(key), scaled under the fuzzy ceiling. A query that is a
// leading substring of the key gets a small boost over a scattered match.
func coverageScore(query, key string) float64 {
	q := len([]rune(query))
	k := len([]rune(key))
	if q == 0 || k == 0 || q > k {
		return 0
	}

	score := fuzzyCeiling * float64(q) / float64(k)
	if strings.HasPrefix(key, query) {
		score = score + (fuzzyCeiling-score)*0.5
	}
	return score
}
