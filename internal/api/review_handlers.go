package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addReview",
		Method:      http.MethodPost,
		Path:        "/api/v1/reviews",
		Summary:     "Review a book",
		Description: "Reviews a book. Each user reviews a book at most once",
		Tags:        []string{"Reviews"},
	}, s.handleAddReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Get review",
		Tags:        []string{"Reviews"},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update review",
		Tags:        []string{"Reviews"},
	}, s.handleUpdateReview)
}

// AddReviewInput wraps the add review request.
type AddReviewInput struct {
	Body struct {
		BookID  string `json:"book_id" doc:"Reviewed book"`
		Content string `json:"content,omitempty" maxLength:"10000" doc:"Review text"`
		Rating  int    `json:"rating" minimum:"0" doc:"Rating from 0 to the configured scale"`
	}
}

// UpdateReviewInput wraps the update review request.
type UpdateReviewInput struct {
	ID   string `path:"id" doc:"Review ID"`
	Body struct {
		Content *string `json:"content,omitempty" maxLength:"10000" doc:"New text"`
		Rating  *int    `json:"rating,omitempty" minimum:"0" doc:"New rating"`
	}
}

func (s *Server) handleAddReview(ctx context.Context, input *AddReviewInput) (*ResultOutput[dto.ReviewView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respondCreated(s.services.Community.AddReview(ctx, userID, service.AddReviewRequest{
		BookID:  input.Body.BookID,
		Content: input.Body.Content,
		Rating:  input.Body.Rating,
	}))
}

func (s *Server) handleGetReview(ctx context.Context, input *PostIDInput) (*ResultOutput[dto.ReviewView], error) {
	return respond(s.services.Community.GetReview(ctx, input.ID))
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ResultOutput[dto.ReviewView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.UpdateReview(ctx, userID, input.ID, service.UpdateReviewRequest{
		Content: input.Body.Content,
		Rating:  input.Body.Rating,
	}))
}
