package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

func (s *Server) registerDiscussionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createDiscussion",
		Method:      http.MethodPost,
		Path:        "/api/v1/discussions",
		Summary:     "Create discussion",
		Tags:        []string{"Discussions"},
	}, s.handleCreateDiscussion)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDiscussion",
		Method:      http.MethodGet,
		Path:        "/api/v1/discussions/{id}",
		Summary:     "Get discussion",
		Tags:        []string{"Discussions"},
	}, s.handleGetDiscussion)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateDiscussion",
		Method:      http.MethodPatch,
		Path:        "/api/v1/discussions/{id}",
		Summary:     "Update discussion",
		Description: "Updates discussion metadata. Books are changed through the books endpoints",
		Tags:        []string{"Discussions"},
	}, s.handleUpdateDiscussion)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBooksToDiscussion",
		Method:      http.MethodPost,
		Path:        "/api/v1/discussions/{id}/books",
		Summary:     "Add books to discussion",
		Tags:        []string{"Discussions"},
	}, s.handleAddBooksToDiscussion)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBooksFromDiscussion",
		Method:      http.MethodDelete,
		Path:        "/api/v1/discussions/{id}/books",
		Summary:     "Remove books from discussion",
		Tags:        []string{"Discussions"},
	}, s.handleRemoveBooksFromDiscussion)
}

// CreateDiscussionInput wraps the create discussion request.
type CreateDiscussionInput struct {
	Body struct {
		Title   string   `json:"title" maxLength:"200" doc:"Discussion title"`
		Content string   `json:"content" maxLength:"10000" doc:"Opening text"`
		Tag     string   `json:"tag" enum:"discussion,article,news" doc:"Discussion kind"`
		BookIDs []string `json:"book_ids,omitempty" maxItems:"100" doc:"Books under discussion"`
	}
}

// UpdateDiscussionInput wraps the update discussion request.
type UpdateDiscussionInput struct {
	ID   string `path:"id" doc:"Discussion ID"`
	Body struct {
		Title   *string `json:"title,omitempty" maxLength:"200" doc:"New title"`
		Content *string `json:"content,omitempty" maxLength:"10000" doc:"New text"`
		Tag     *string `json:"tag,omitempty" enum:"discussion,article,news" doc:"New kind"`
	}
}

func (s *Server) handleCreateDiscussion(ctx context.Context, input *CreateDiscussionInput) (*ResultOutput[dto.DiscussionView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respondCreated(s.services.Community.CreateDiscussion(ctx, userID, service.CreateDiscussionRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
		Tag:     domain.DiscussionTag(input.Body.Tag),
		BookIDs: input.Body.BookIDs,
	}))
}

func (s *Server) handleGetDiscussion(ctx context.Context, input *PostIDInput) (*ResultOutput[dto.DiscussionView], error) {
	return respond(s.services.Community.GetDiscussion(ctx, input.ID))
}

func (s *Server) handleUpdateDiscussion(ctx context.Context, input *UpdateDiscussionInput) (*ResultOutput[dto.DiscussionView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	req := service.UpdateDiscussionRequest{
		Title:   input.Body.Title,
		Content: input.Body.Content,
	}
	if input.Body.Tag != nil {
		tag := domain.DiscussionTag(*input.Body.Tag)
		req.Tag = &tag
	}
	return respond(s.services.Community.UpdateDiscussion(ctx, userID, input.ID, req))
}

func (s *Server) handleAddBooksToDiscussion(ctx context.Context, input *PostBooksInput) (*ResultOutput[dto.DiscussionView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.AddBooksToDiscussion(ctx, userID, input.ID, input.Body.IDs))
}

func (s *Server) handleRemoveBooksFromDiscussion(ctx context.Context, input *PostBooksInput) (*ResultOutput[dto.DiscussionView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.RemoveBooksFromDiscussion(ctx, userID, input.ID, input.Body.IDs))
}
