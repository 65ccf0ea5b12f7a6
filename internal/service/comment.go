package service

import (
	"context"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/id"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// CommentRequest contains the text of a new or edited comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// AddComment replies to a post.
func (s *CommunityService) AddComment(ctx context.Context, userID, postID string, req CommentRequest) (*dto.Result[dto.CommentView], error) {
	req.Content = cleanText(req.Content)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.CommentView](err)
	}

	commentID, err := id.Generate(id.PrefixComment)
	if err != nil {
		return nil, err
	}
	c := &domain.Comment{
		ID:      commentID,
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	c.InitTimestamps()
	if err := s.store.CreateComment(ctx, c); err != nil {
		return fail[dto.CommentView](storeErr(err, "create comment on", "post"))
	}

	s.logger.Info("comment added", "comment_id", c.ID, "post_id", postID, "user_id", userID)
	return dto.Ok(dto.ProjectComment(c)), nil
}

// GetComment returns one comment.
func (s *CommunityService) GetComment(ctx context.Context, commentID string) (*dto.Result[dto.CommentView], error) {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return fail[dto.CommentView](storeErr(err, "get", "comment"))
	}
	return dto.Ok(dto.ProjectComment(c)), nil
}

// UpdateComment replaces the text of the user's comment.
func (s *CommunityService) UpdateComment(ctx context.Context, userID, commentID string, req CommentRequest) (*dto.Result[dto.CommentView], error) {
	req.Content = cleanText(req.Content)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.CommentView](err)
	}
	c, err := s.ownComment(ctx, userID, commentID)
	if err != nil {
		return fail[dto.CommentView](err)
	}
	c.Content = req.Content
	c.Touch()
	if err := s.store.UpdateComment(ctx, c); err != nil {
		return fail[dto.CommentView](storeErr(err, "update", "comment"))
	}

	s.logger.Info("comment updated", "comment_id", c.ID, "user_id", userID)
	return dto.Ok(dto.ProjectComment(c)), nil
}

// DeleteComment deletes the user's comment and its likes.
func (s *CommunityService) DeleteComment(ctx context.Context, userID, commentID string) (*dto.Result[string], error) {
	if _, err := s.ownComment(ctx, userID, commentID); err != nil {
		return fail[string](err)
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fail[string](storeErr(err, "delete", "comment"))
	}

	s.logger.Info("comment deleted", "comment_id", commentID, "user_id", userID)
	return dto.Ok(commentID), nil
}

// GetPostComments returns a page of a post's comments, oldest first.
func (s *CommunityService) GetPostComments(ctx context.Context, postID string, page store.PageParams) (*dto.Result[*store.Page[dto.CommentView]], error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return fail[*store.Page[dto.CommentView]](storeErr(err, "get", "post"))
	}
	page.Validate(s.pages.Comments)
	comments, err := s.store.ListPostComments(ctx, postID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments of post %s: %w", postID, err)
	}
	return dto.Ok(store.MapPage(comments, dto.ProjectComment)), nil
}

// LikeComment toggles the user's like on a comment.
func (s *CommunityService) LikeComment(ctx context.Context, userID, commentID string) (*dto.Result[domain.LikeState], error) {
	state, err := s.commentLikes.Toggle(ctx, commentID, userID)
	if err != nil {
		return fail[domain.LikeState](err)
	}
	return dto.Ok(state), nil
}

// AreCommentsLiked reports, for each comment, whether the user has liked it.
func (s *CommunityService) AreCommentsLiked(ctx context.Context, userID string, commentIDs []string) (*dto.Result[map[string]bool], error) {
	liked, err := s.commentLikes.LikedAmong(ctx, commentIDs, userID)
	if err != nil {
		return nil, err
	}
	return dto.Ok(liked), nil
}

func (s *CommunityService) ownComment(ctx context.Context, userID, commentID string) (*domain.Comment, error) {
	c, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, storeErr(err, "get", "comment")
	}
	if !c.OwnedBy(userID) {
		return nil, domainerrors.Forbidden("you can only modify your own comments")
	}
	return c, nil
}
