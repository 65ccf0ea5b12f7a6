package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes one of the caller's posts with its comments and likes",
		Tags:        []string{"Posts"},
	}, s.handleDeletePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "likePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{id}/like",
		Summary:     "Toggle post like",
		Description: "Likes the post, or removes the like if the caller already liked it",
		Tags:        []string{"Posts"},
	}, s.handleLikePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "isPostLiked",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/liked",
		Summary:     "Post like status",
		Tags:        []string{"Posts"},
	}, s.handleIsPostLiked)

	huma.Register(s.api, huma.Operation{
		OperationID: "arePostsLiked",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/liked",
		Summary:     "Batch post like status",
		Description: "Reports, for each post ID, whether the caller likes it",
		Tags:        []string{"Posts"},
	}, s.handleArePostsLiked)
}

// BatchIDsInput wraps a batch of IDs.
type BatchIDsInput struct {
	Body IDsRequest
}

func (s *Server) handleDeletePost(ctx context.Context, input *PostIDInput) (*ResultOutput[string], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.DeletePost(ctx, userID, input.ID))
}

func (s *Server) handleLikePost(ctx context.Context, input *PostIDInput) (*ResultOutput[domain.LikeState], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if !s.allowLike(userID, domain.SubjectPost) {
		return rateLimitedLike()
	}
	return respond(s.services.Community.LikePost(ctx, userID, input.ID))
}

func (s *Server) handleIsPostLiked(ctx context.Context, input *PostIDInput) (*ResultOutput[bool], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.IsPostLiked(ctx, userID, input.ID))
}

func (s *Server) handleArePostsLiked(ctx context.Context, input *BatchIDsInput) (*ResultOutput[map[string]bool], error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	return respond(s.services.Community.ArePostsLiked(ctx, userID, input.Body.IDs))
}
