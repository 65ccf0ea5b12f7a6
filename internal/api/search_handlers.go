package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/search"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search across books, genres and authors. Book matches include author and genre names",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains parameters for a catalog search.
type SearchInput struct {
	Query  string   `query:"q" maxLength:"200" doc:"Search text; empty matches everything"`
	Types  []string `query:"type" doc:"Document types to include: book, genre, author"`
	Genres []string `query:"genre" doc:"Genre slugs to filter books by"`
	Sort   string   `query:"sort" enum:"relevance,name,recent" doc:"Result order"`
	Limit  int      `query:"limit" minimum:"0" maximum:"100" doc:"Maximum hits, 0 for the default"`
	Offset int      `query:"offset" minimum:"0" doc:"Hits to skip"`
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*ResultOutput[*search.SearchResult], error) {
	return respond(s.services.Search.Search(ctx, service.SearchRequest{
		Query:      input.Query,
		Types:      input.Types,
		GenreSlugs: input.Genres,
		SortBy:     input.Sort,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}))
}
