package services

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// Match weights and acceptance threshold for fuzzy filtering.
const (
	titleWeight    = 1.0
	trackerWeight  = 0.7
	matchThreshold = 0.65
)

// FilterIndex is a fuzzy index over one snapshot of the result collection.
type FilterIndex struct {
	collection []domain.ResultRecord
	titles     [][]string
	trackers   [][]string
}

// NewFilterIndex tokenises titles and trackers of collection.
func NewFilterIndex(collection []domain.ResultRecord) *FilterIndex {
	idx := &FilterIndex{
		collection: collection,
		titles:     make([][]string, len(collection)),
		trackers:   make([][]string, len(collection)),
	}
	for i, r := range collection {
		idx.titles[i] = tokenize(r.Title)
		idx.trackers[i] = tokenize(r.Tracker)
	}
	return idx
}

// Stale reports whether collection is a different snapshot from the one
// the index was built over.
func (x *FilterIndex) Stale(collection []domain.ResultRecord) bool {
	return !sameSlice(x.collection, collection)
}

// Len returns the number of indexed records.
func (x *FilterIndex) Len() int {
	return len(x.collection)
}

// Filter returns the records matching query, best first, narrowed to
// activeSource. A blank query only narrows.
func (x *FilterIndex) Filter(query, activeSource string) []domain.ResultRecord {
	terms := tokenize(query)
	if len(terms) == 0 {
		return Narrow(x.collection, activeSource)
	}

	type scored struct {
		pos   int
		score float64
	}
	hits := make([]scored, 0, len(x.collection))
	for i := range x.collection {
		score := max(
			titleWeight*termScore(terms, x.titles[i]),
			trackerWeight*termScore(terms, x.trackers[i]),
		)
		if score >= matchThreshold {
			hits = append(hits, scored{pos: i, score: score})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	ranked := make([]domain.ResultRecord, 0, len(hits))
	for _, h := range hits {
		ranked = append(ranked, x.collection[h.pos])
	}
	return Narrow(ranked, activeSource)
}

// termScore averages, over the query terms, the best similarity of each
// term to any token of the field.
func termScore(terms, tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var total float64
	for _, term := range terms {
		best := 0.0
		for _, tok := range tokens {
			if s := similarity(term, tok); s > best {
				best = s
				if best == 1 {
					break
				}
			}
		}
		total += best
	}
	return total / float64(len(terms))
}

// similarity is 1 when term occurs inside tok, otherwise the edit
// distance ratio of the two.
func similarity(term, tok string) float64 {
	if strings.Contains(tok, term) {
		return 1
	}
	return levenshtein.RatioForStrings([]rune(term), []rune(tok), levenshtein.DefaultOptions)
}

// tokenize lowercases s and splits it on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// sameSlice reports whether a and b share length and backing array.
func sameSlice(a, b []domain.ResultRecord) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// Highlight returns byte offsets of title runes matched by query.
func Highlight(query, title string) []int {
	query = strings.TrimSpace(query)
	if query == "" || title == "" {
		return nil
	}
	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return nil
	}
	return matches[0].MatchedIndexes
}
