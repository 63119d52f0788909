// Package stopindex maps free-text stop queries to catalogue stop ids.
// The candidate name list is built once at startup and the index is
// read-only afterwards, so concurrent lookups need no locking.
package stopindex

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"journey.transitgo.org/internal/gtfs"
)

// DefaultMinScore is the fuzzy-match floor applied when a caller passes a
// non-positive min score.
const DefaultMinScore = 60

// Match is one fuzzy-lookup candidate. Score is a token-sort similarity in
// [0,100], so word order in the query does not matter.
type Match struct {
	StopID string
	Name   string
	Score  int
}

type candidate struct {
	name   string
	folded string
	ids    []string
}

// Index resolves stop names to global stop ids.
type Index struct {
	byName     map[string][]string
	candidates []candidate
}

// New builds the index from every stop in the catalogue. Stop names need not
// be unique; duplicates are kept as a set of ids under one name.
func New(cat *gtfs.Catalogue) *Index {
	idx := &Index{byName: make(map[string][]string)}

	display := make(map[string]string)
	for _, id := range cat.StopIDs() {
		stop, _ := cat.Stop(id)
		key := foldName(stop.Name)
		if _, ok := display[key]; !ok {
			display[key] = stop.Name
		}
		idx.byName[key] = append(idx.byName[key], id)
	}

	keys := make([]string, 0, len(idx.byName))
	for key := range idx.byName {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		ids := idx.byName[key]
		sort.Strings(ids)
		idx.byName[key] = ids
		idx.candidates = append(idx.candidates, candidate{name: display[key], folded: key, ids: ids})
	}

	return idx
}

// LookupExact returns the ids of every stop whose name matches the query
// exactly, ignoring case and surrounding whitespace.
func (idx *Index) LookupExact(name string) []string {
	ids := idx.byName[foldName(name)]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// LookupFuzzy ranks candidate stop names against the query using token-sort
// similarity and returns up to limit matches scoring at least minScore.
// Results are ordered by descending score with ties broken by name
// ascending; every non-empty query yields a (possibly empty) ranked list.
func (idx *Index) LookupFuzzy(query string, limit, minScore int) []Match {
	query = foldName(query)
	if query == "" {
		return nil
	}
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	if limit <= 0 {
		limit = 10
	}

	var matches []Match
	for _, c := range idx.candidates {
		score := fuzzy.TokenSortRatio(query, c.folded)
		if score < minScore {
			continue
		}
		for _, id := range c.ids {
			matches = append(matches, Match{StopID: id, Name: c.name, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Best returns the single best fuzzy match for a query, if any clears the
// score floor.
func (idx *Index) Best(query string, minScore int) (Match, bool) {
	matches := idx.LookupFuzzy(query, 1, minScore)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

func foldName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
