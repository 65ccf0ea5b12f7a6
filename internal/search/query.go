package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query      string    // User's search query; empty matches everything
	Types      []DocType // Document types to include (empty = all)
	GenreSlugs []string  // Filter by exact genre slugs, any of

	Limit  int
	Offset int

	SortBy string // "relevance" (default), "name", "recent"
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	Authors    []string          `json:"authors,omitempty"`
	Genres     []string          `json:"genres,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Types  []FacetCount `json:"types,omitempty"`
	Genres []FacetCount `json:"genres,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	addSorting(req, params.SortBy)

	req.AddFacet("type", bleve.NewFacetRequest("type", 3))
	req.AddFacet("genre_slugs", bleve.NewFacetRequest("genre_slugs", 20))

	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("name")
	req.Highlight.AddField("authors")

	req.Fields = []string{"type", "name", "authors", "genres"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
		Facets: extractFacets(res),
	}

	for _, hit := range res.Hits {
		searchHit := SearchHit{
			ID:      hit.ID,
			Score:   hit.Score,
			Authors: stringsField(hit.Fields["authors"]),
			Genres:  stringsField(hit.Fields["genres"]),
		}
		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string, len(hit.Fragments))
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
// Text clauses are OR'd; filters are AND'd onto them.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		nameMatch := bleve.NewMatchQuery(q)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)

		authorsMatch := bleve.NewMatchQuery(q)
		authorsMatch.SetField("authors")
		authorsMatch.SetBoost(1.5)

		genresMatch := bleve.NewMatchQuery(q)
		genresMatch.SetField("genres")
		genresMatch.SetBoost(1.2)

		descMatch := bleve.NewMatchQuery(q)
		descMatch.SetField("description")

		// Typo tolerance
		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)

		textQueries := []query.Query{nameMatch, authorsMatch, genresMatch, descMatch, fuzzyQuery}

		// Autocomplete on the last word typed
		if len([]rune(q)) >= 2 {
			words := strings.Fields(strings.ToLower(q))
			prefixQuery := bleve.NewPrefixQuery(words[len(words)-1])
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if len(params.Types) > 0 {
		types := make([]string, len(params.Types))
		for i, t := range params.Types {
			types[i] = string(t)
		}
		queries = append(queries, anyTerm("type", types))
	}

	if len(params.GenreSlugs) > 0 {
		queries = append(queries, anyTerm("genre_slugs", params.GenreSlugs))
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// anyTerm matches documents whose field holds any of the given exact terms.
func anyTerm(field string, terms []string) query.Query {
	termQueries := make([]query.Query, len(terms))
	for i, term := range terms {
		tq := bleve.NewTermQuery(term)
		tq.SetField(field)
		termQueries[i] = tq
	}
	return bleve.NewDisjunctionQuery(termQueries...)
}

func addSorting(req *bleve.SearchRequest, sortBy string) {
	switch sortBy {
	case "name":
		req.SortBy([]string{"name", "-_score"})
	case "recent":
		req.SortBy([]string{"-created_at"})
	default:
		req.SortBy([]string{"-_score"})
	}
}

func extractFacets(result *bleve.SearchResult) SearchFacets {
	var facets SearchFacets

	if typeFacet, ok := result.Facets["type"]; ok && typeFacet.Terms != nil {
		for _, term := range typeFacet.Terms.Terms() {
			facets.Types = append(facets.Types, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	if genreFacet, ok := result.Facets["genre_slugs"]; ok && genreFacet.Terms != nil {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}

// stringsField reads a stored field that Bleve returns as a string when it
// holds one value and as a slice when it holds several.
func stringsField(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
