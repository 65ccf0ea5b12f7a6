package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/dto"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPoints",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/points",
		Summary:     "Genre scores",
		Description: "Returns the caller's engagement score per genre, highest first",
		Tags:        []string{"Recommendations"},
	}, s.handleGetPoints)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommendBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/books",
		Summary:     "Recommended books",
		Description: "Returns books from the caller's favourite genres, or random books for new readers",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommendBooks)
}

// RecommendBooksInput contains parameters for book recommendations.
type RecommendBooksInput struct {
	Count int `query:"count" minimum:"0" doc:"Number of books, 0 for the configured default"`
}

func (s *Server) handleGetPoints(ctx context.Context, _ *struct{}) (*ResultOutput[[]dto.PointView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Recommendation.GetPoints(ctx, userID))
}

func (s *Server) handleRecommendBooks(ctx context.Context, input *RecommendBooksInput) (*ResultOutput[[]dto.BookView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Recommendation.RecommendBooks(ctx, userID, input.Count))
}
