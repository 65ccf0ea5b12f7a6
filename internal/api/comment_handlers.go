package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPostComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "List comments",
		Description: "Lists a post's comments, oldest first",
		Tags:        []string{"Comments"},
	}, s.handleGetPostComments)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "Add comment",
		Tags:        []string{"Comments"},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "getComment",
		Method:      http.MethodGet,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Get comment",
		Tags:        []string{"Comments"},
	}, s.handleGetComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateComment",
		Method:      http.MethodPatch,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Update comment",
		Tags:        []string{"Comments"},
	}, s.handleUpdateComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete comment",
		Tags:        []string{"Comments"},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/comments/{id}/like",
		Summary:     "Toggle comment like",
		Tags:        []string{"Comments"},
	}, s.handleLikeComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "areCommentsLiked",
		Method:      http.MethodPost,
		Path:        "/api/v1/comments/liked",
		Summary:     "Batch comment like status",
		Tags:        []string{"Comments"},
	}, s.handleAreCommentsLiked)
}

// PostCommentsInput contains parameters for listing comments.
type PostCommentsInput struct {
	PageQuery
	ID string `path:"id" doc:"Post ID"`
}

// CommentBody is the request body for writing a comment.
type CommentBody struct {
	Content string `json:"content" maxLength:"5000" doc:"Comment text"`
}

// AddCommentInput wraps the add comment request.
type AddCommentInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body CommentBody
}

// CommentIDInput identifies a comment.
type CommentIDInput struct {
	ID string `path:"id" doc:"Comment ID"`
}

// UpdateCommentInput wraps the update comment request.
type UpdateCommentInput struct {
	ID   string `path:"id" doc:"Comment ID"`
	Body CommentBody
}

func (s *Server) handleGetPostComments(ctx context.Context, input *PostCommentsInput) (*ResultOutput[*store.Page[dto.CommentView]], error) {
	return respond(s.services.Community.GetPostComments(ctx, input.ID, input.params()))
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*ResultOutput[dto.CommentView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respondCreated(s.services.Community.AddComment(ctx, userID, input.ID, service.CommentRequest{Content: input.Body.Content}))
}

func (s *Server) handleGetComment(ctx context.Context, input *CommentIDInput) (*ResultOutput[dto.CommentView], error) {
	return respond(s.services.Community.GetComment(ctx, input.ID))
}

func (s *Server) handleUpdateComment(ctx context.Context, input *UpdateCommentInput) (*ResultOutput[dto.CommentView], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.UpdateComment(ctx, userID, input.ID, service.CommentRequest{Content: input.Body.Content}))
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*ResultOutput[string], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.DeleteComment(ctx, userID, input.ID))
}

func (s *Server) handleLikeComment(ctx context.Context, input *CommentIDInput) (*ResultOutput[domain.LikeState], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if !s.allowLike(userID, domain.SubjectComment) {
		return rateLimitedLike()
	}
	return respond(s.services.Community.LikeComment(ctx, userID, input.ID))
}

func (s *Server) handleAreCommentsLiked(ctx context.Context, input *BatchIDsInput) (*ResultOutput[map[string]bool], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.AreCommentsLiked(ctx, userID, input.Body.IDs))
}
