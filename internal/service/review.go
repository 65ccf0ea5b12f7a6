package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/id"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// AddReviewRequest contains fields for reviewing a book.
type AddReviewRequest struct {
	BookID  string `json:"book_id" validate:"required"`
	Content string `json:"content" validate:"max=10000"`
	Rating  int    `json:"rating" validate:"rating"`
}

// UpdateReviewRequest contains the review fields to change. Nil fields are
// left as they are.
type UpdateReviewRequest struct {
	Content *string `json:"content" validate:"omitempty,max=10000"`
	Rating  *int    `json:"rating" validate:"omitempty,rating"`
}

// AddReview records the user's review of a book and publishes ReviewAdded.
// A user reviews a book at most once; a second attempt is rejected before
// anything is written.
func (s *CommunityService) AddReview(ctx context.Context, userID string, req AddReviewRequest) (*dto.Result[dto.ReviewView], error) {
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.ReviewView](err)
	}

	reviewed, err := s.store.HasReviewed(ctx, userID, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if reviewed {
		return fail[dto.ReviewView](domainerrors.DuplicateReview("you have already reviewed this book"))
	}

	book, err := s.store.GetBook(ctx, req.BookID)
	if err != nil {
		return fail[dto.ReviewView](storeErr(err, "get", "book"))
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, err
	}
	post := &domain.Post{
		ID:      postID,
		Kind:    domain.PostKindReview,
		UserID:  userID,
		BookID:  book.ID,
		Content: req.Content,
		Rating:  req.Rating,
	}
	post.InitTimestamps()
	if err := s.store.CreatePost(ctx, post); err != nil {
		// Lost a race with a concurrent review of the same book.
		if errors.Is(err, store.ErrAlreadyExists) {
			return fail[dto.ReviewView](domainerrors.DuplicateReview("you have already reviewed this book"))
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	err = s.events.Publish(ctx, events.Event{
		Type:     events.ReviewAdded,
		UserID:   userID,
		BookID:   book.ID,
		PostID:   post.ID,
		Source:   domain.PostKindReview,
		GenreIDs: book.GenreIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", events.ReviewAdded, err)
	}

	s.logger.Info("review added", "post_id", post.ID, "user_id", userID, "book_id", book.ID, "rating", post.Rating)
	return s.reviewView(ctx, post)
}

// GetReview returns a review with its book.
func (s *CommunityService) GetReview(ctx context.Context, reviewID string) (*dto.Result[dto.ReviewView], error) {
	post, err := s.getPost(ctx, reviewID, domain.PostKindReview)
	if err != nil {
		return fail[dto.ReviewView](err)
	}
	return s.reviewView(ctx, post)
}

// UpdateReview changes the content or score of the user's review. The book's
// rating follows on the next read; no engagement is recorded.
func (s *CommunityService) UpdateReview(ctx context.Context, userID, reviewID string, req UpdateReviewRequest) (*dto.Result[dto.ReviewView], error) {
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.ReviewView](err)
	}
	post, err := s.ownPost(ctx, userID, reviewID, domain.PostKindReview)
	if err != nil {
		return fail[dto.ReviewView](err)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Rating != nil {
		post.Rating = *req.Rating
	}
	post.Touch()
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return fail[dto.ReviewView](storeErr(err, "update", "review"))
	}

	s.logger.Info("review updated", "post_id", post.ID, "user_id", userID)
	return s.reviewView(ctx, post)
}

func (s *CommunityService) reviewView(ctx context.Context, post *domain.Post) (*dto.Result[dto.ReviewView], error) {
	idx, err := s.render(ctx, post)
	if err != nil {
		return nil, err
	}
	return dto.Ok(dto.ProjectReview(post, idx)), nil
}
