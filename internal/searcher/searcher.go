package searcher

import (
	"sort"
	"strings"

	"github.com/dshills/stubindex-mcp/internal/index"
	"github.com/dshills/stubindex-mcp/pkg/types"
)

// MatchType describes how a result matched the query.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchPrefix    MatchType = "prefix"
	MatchSubstring MatchType = "substring"
	MatchToken     MatchType = "token"
)

// Match scores per type. Exact always outranks prefix, prefix outranks
// substring, substring outranks a case-insensitive token hit.
const (
	scoreExact     = 1.0
	scorePrefix    = 0.8
	scoreSubstring = 0.6
	scoreToken     = 0.4
)

// Result is one scored search hit.
type Result struct {
	Stub  *types.Stub
	Score float64
	Match MatchType
}

// Searcher performs ranked name lookups over an in-memory index. It does not
// synchronize access; callers must not mutate the index during a search.
type Searcher struct {
	idx *index.Index
}

// New creates a Searcher over the given index.
func New(idx *index.Index) *Searcher {
	return &Searcher{idx: idx}
}

// Search returns up to limit stubs ranked by how well their name matches the
// query. A limit of 0 or less means no limit. Ties keep insertion order, so
// results are stable across runs.
func (s *Searcher) Search(query string, limit int) []Result {
	if s.idx == nil || query == "" {
		return nil
	}

	lowered := strings.ToLower(query)
	results := make([]Result, 0)

	for _, stub := range s.idx.All() {
		score, match, ok := scoreName(stub.Name, query, lowered)
		if !ok {
			continue
		}
		results = append(results, Result{Stub: stub, Score: score, Match: match})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// SearchKind is Search narrowed to one stub kind.
func (s *Searcher) SearchKind(query string, kind types.StubKind, limit int) []Result {
	results := s.Search(query, 0)
	filtered := results[:0]
	for _, r := range results {
		if r.Stub.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// scoreName ranks a candidate name against the query. The strongest matching
// rule wins.
func scoreName(name, query, loweredQuery string) (float64, MatchType, bool) {
	switch {
	case name == query:
		return scoreExact, MatchExact, true
	case strings.HasPrefix(name, query):
		return scorePrefix, MatchPrefix, true
	case strings.Contains(name, query):
		return scoreSubstring, MatchSubstring, true
	case strings.Contains(strings.ToLower(name), loweredQuery):
		return scoreToken, MatchToken, true
	default:
		return 0, "", false
	}
}
