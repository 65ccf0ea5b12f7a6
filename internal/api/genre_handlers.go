package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Lists every genre by name",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/genres",
		Summary:     "Create genre",
		Description: "Creates a genre. Names that share a slug with an existing genre are rejected",
		Tags:        []string{"Genres"},
	}, s.handleCreateGenre)
}

// CreateGenreInput wraps the create genre request.
type CreateGenreInput struct {
	Body struct {
		Name string `json:"name" maxLength:"100" doc:"Genre name"`
	}
}

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ResultOutput[[]dto.GenreView], error) {
	return respond(s.services.Book.ListGenres(ctx))
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*ResultOutput[dto.GenreView], error) {
	return respondCreated(s.services.Book.CreateGenre(ctx, service.CreateGenreRequest{Name: input.Body.Name}))
}
