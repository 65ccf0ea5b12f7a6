package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/engagement"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/store"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

// CommunityService orchestrates user content: playlists, discussions,
// reviews, comments, likes, and feeds.
//
// Operations that newly associate a book with a user's content publish one
// event per book after the association is stored. Subscribers keep the
// recommendation ledger and trending signals in step.
type CommunityService struct {
	store        store.Store
	events       events.Publisher
	postLikes    *engagement.Toggler
	commentLikes *engagement.Toggler
	enricher     *dto.Enricher
	validator    *validation.Validator
	pages        Pagination
	logger       *slog.Logger
}

// NewCommunityService creates a new community service.
func NewCommunityService(
	st store.Store,
	publisher events.Publisher,
	postLikes, commentLikes *engagement.Toggler,
	v *validation.Validator,
	pages Pagination,
	logger *slog.Logger,
) *CommunityService {
	return &CommunityService{
		store:        st,
		events:       publisher,
		postLikes:    postLikes,
		commentLikes: commentLikes,
		enricher:     dto.NewEnricher(st),
		validator:    v,
		pages:        pages,
		logger:       logger,
	}
}

// getPost fetches a post of the given kind. A post of another kind is
// reported as not found.
func (s *CommunityService) getPost(ctx context.Context, postID string, kind domain.PostKind) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, storeErr(err, "get", string(kind))
	}
	if post.Kind != kind {
		return nil, domainerrors.NotFoundf("%s not found", kind)
	}
	return post, nil
}

// ownPost fetches a post of the given kind and checks that userID wrote it.
func (s *CommunityService) ownPost(ctx context.Context, userID, postID string, kind domain.PostKind) (*domain.Post, error) {
	post, err := s.getPost(ctx, postID, kind)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		return nil, domainerrors.Forbiddenf("you can only modify your own %s", kind)
	}
	return post, nil
}

// publish announces one event per book. The genres of each book are read at
// publish time.
func (s *CommunityService) publish(ctx context.Context, typ events.Type, post *domain.Post, bookIDs []string) error {
	genres, err := s.store.GenreIDsForBooks(ctx, bookIDs)
	if err != nil {
		return fmt.Errorf("load genres for %s %s: %w", post.Kind, post.ID, err)
	}
	evts := make([]events.Event, len(bookIDs))
	for i, bookID := range bookIDs {
		evts[i] = events.Event{
			Type:     typ,
			UserID:   post.UserID,
			BookID:   bookID,
			PostID:   post.ID,
			Source:   post.Kind,
			GenreIDs: genres[bookID],
		}
	}
	if err := s.events.Publish(ctx, evts...); err != nil {
		return fmt.Errorf("publish %s: %w", typ, err)
	}
	return nil
}

// render projects a single post with its books.
func (s *CommunityService) render(ctx context.Context, post *domain.Post) (dto.BookIndex, error) {
	return s.enricher.IndexPosts(ctx, []*domain.Post{post})
}

// DeletePost deletes a post the user wrote, with its comments and likes.
// Recommendation points earned by the post are kept.
func (s *CommunityService) DeletePost(ctx context.Context, userID, postID string) (*dto.Result[string], error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return fail[string](storeErr(err, "get", "post"))
	}
	if !post.OwnedBy(userID) {
		return fail[string](domainerrors.Forbidden("you can only delete your own posts"))
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return fail[string](storeErr(err, "delete", "post"))
	}

	s.logger.Info("post deleted", "post_id", postID, "user_id", userID, "kind", post.Kind)
	return dto.Ok(postID), nil
}

// LikePost toggles the user's like on a post.
func (s *CommunityService) LikePost(ctx context.Context, userID, postID string) (*dto.Result[domain.LikeState], error) {
	state, err := s.postLikes.Toggle(ctx, postID, userID)
	if err != nil {
		return fail[domain.LikeState](err)
	}
	return dto.Ok(state), nil
}

// IsPostLiked reports whether the user has liked the post.
func (s *CommunityService) IsPostLiked(ctx context.Context, userID, postID string) (*dto.Result[bool], error) {
	liked, err := s.postLikes.IsLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return dto.Ok(liked), nil
}

// ArePostsLiked reports, for each post, whether the user has liked it.
func (s *CommunityService) ArePostsLiked(ctx context.Context, userID string, postIDs []string) (*dto.Result[map[string]bool], error) {
	liked, err := s.postLikes.LikedAmong(ctx, postIDs, userID)
	if err != nil {
		return nil, err
	}
	return dto.Ok(liked), nil
}
