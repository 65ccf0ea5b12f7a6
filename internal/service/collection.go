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
	"github.com/yaqraapp/yaqra-server/internal/membership"
)

// Playlists and discussions are collections: posts that carry a book set.
// They share creation and membership handling and differ only in metadata.

// CreatePlaylistRequest contains fields for creating a playlist.
type CreatePlaylistRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	BookIDs     []string `json:"book_ids" validate:"max=100"`
}

// UpdatePlaylistRequest contains the playlist metadata to change. Nil fields
// are left as they are.
type UpdatePlaylistRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CreateDiscussionRequest contains fields for starting a discussion.
type CreateDiscussionRequest struct {
	Title   string               `json:"title" validate:"required,max=200"`
	Content string               `json:"content" validate:"required,max=10000"`
	Tag     domain.DiscussionTag `json:"tag" validate:"required,discussion_tag"`
	BookIDs []string             `json:"book_ids" validate:"max=100"`
}

// UpdateDiscussionRequest contains the discussion metadata to change. Nil
// fields are left as they are.
type UpdateDiscussionRequest struct {
	Title   *string               `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string               `json:"content" validate:"omitempty,min=1,max=10000"`
	Tag     *domain.DiscussionTag `json:"tag" validate:"omitempty,discussion_tag"`
}

// CreatePlaylist creates a playlist. Initial books are linked the same way as
// AddBooksToPlaylist, so each one counts as engagement. Unknown book IDs are
// skipped.
func (s *CommunityService) CreatePlaylist(ctx context.Context, userID string, req CreatePlaylistRequest) (*dto.Result[dto.PlaylistView], error) {
	req.Title = cleanText(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.PlaylistView](err)
	}
	post := &domain.Post{
		Kind:    domain.PostKindPlaylist,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Description,
	}
	if err := s.createCollection(ctx, post, req.BookIDs); err != nil {
		return fail[dto.PlaylistView](err)
	}
	return s.playlistView(ctx, post)
}

// GetPlaylist returns a playlist with its books.
func (s *CommunityService) GetPlaylist(ctx context.Context, playlistID string) (*dto.Result[dto.PlaylistView], error) {
	post, err := s.getPost(ctx, playlistID, domain.PostKindPlaylist)
	if err != nil {
		return fail[dto.PlaylistView](err)
	}
	return s.playlistView(ctx, post)
}

// UpdatePlaylist changes a playlist's title or description. The book set is
// changed only through AddBooksToPlaylist and RemoveBooksFromPlaylist.
func (s *CommunityService) UpdatePlaylist(ctx context.Context, userID, playlistID string, req UpdatePlaylistRequest) (*dto.Result[dto.PlaylistView], error) {
	req.Title = cleanOptional(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.PlaylistView](err)
	}
	post, err := s.ownPost(ctx, userID, playlistID, domain.PostKindPlaylist)
	if err != nil {
		return fail[dto.PlaylistView](err)
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Content = *req.Description
	}
	if err := s.updateCollection(ctx, post); err != nil {
		return fail[dto.PlaylistView](err)
	}
	return s.playlistView(ctx, post)
}

// AddBooksToPlaylist links the requested books the playlist does not have yet.
func (s *CommunityService) AddBooksToPlaylist(ctx context.Context, userID, playlistID string, bookIDs []string) (*dto.Result[dto.PlaylistView], error) {
	post, err := s.addBooks(ctx, userID, playlistID, domain.PostKindPlaylist, bookIDs)
	if err != nil {
		return fail[dto.PlaylistView](err)
	}
	return s.playlistView(ctx, post)
}

// RemoveBooksFromPlaylist unlinks the requested books the playlist has.
func (s *CommunityService) RemoveBooksFromPlaylist(ctx context.Context, userID, playlistID string, bookIDs []string) (*dto.Result[dto.PlaylistView], error) {
	post, err := s.removeBooks(ctx, userID, playlistID, domain.PostKindPlaylist, bookIDs)
	if err != nil {
		return fail[dto.PlaylistView](err)
	}
	return s.playlistView(ctx, post)
}

// CreateDiscussion starts a discussion. Initial books are linked the same way
// as AddBooksToDiscussion. Unknown book IDs are skipped.
func (s *CommunityService) CreateDiscussion(ctx context.Context, userID string, req CreateDiscussionRequest) (*dto.Result[dto.DiscussionView], error) {
	req.Title = cleanText(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.DiscussionView](err)
	}
	post := &domain.Post{
		Kind:    domain.PostKindDiscussion,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tag:     req.Tag,
	}
	if err := s.createCollection(ctx, post, req.BookIDs); err != nil {
		return fail[dto.DiscussionView](err)
	}
	return s.discussionView(ctx, post)
}

// GetDiscussion returns a discussion with its books.
func (s *CommunityService) GetDiscussion(ctx context.Context, discussionID string) (*dto.Result[dto.DiscussionView], error) {
	post, err := s.getPost(ctx, discussionID, domain.PostKindDiscussion)
	if err != nil {
		return fail[dto.DiscussionView](err)
	}
	return s.discussionView(ctx, post)
}

// UpdateDiscussion changes a discussion's title, content, or tag.
func (s *CommunityService) UpdateDiscussion(ctx context.Context, userID, discussionID string, req UpdateDiscussionRequest) (*dto.Result[dto.DiscussionView], error) {
	req.Title = cleanOptional(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.DiscussionView](err)
	}
	post, err := s.ownPost(ctx, userID, discussionID, domain.PostKindDiscussion)
	if err != nil {
		return fail[dto.DiscussionView](err)
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Tag != nil {
		post.Tag = *req.Tag
	}
	if err := s.updateCollection(ctx, post); err != nil {
		return fail[dto.DiscussionView](err)
	}
	return s.discussionView(ctx, post)
}

// AddBooksToDiscussion links the requested books the discussion does not have yet.
func (s *CommunityService) AddBooksToDiscussion(ctx context.Context, userID, discussionID string, bookIDs []string) (*dto.Result[dto.DiscussionView], error) {
	post, err := s.addBooks(ctx, userID, discussionID, domain.PostKindDiscussion, bookIDs)
	if err != nil {
		return fail[dto.DiscussionView](err)
	}
	return s.discussionView(ctx, post)
}

// RemoveBooksFromDiscussion unlinks the requested books the discussion has.
func (s *CommunityService) RemoveBooksFromDiscussion(ctx context.Context, userID, discussionID string, bookIDs []string) (*dto.Result[dto.DiscussionView], error) {
	post, err := s.removeBooks(ctx, userID, discussionID, domain.PostKindDiscussion, bookIDs)
	if err != nil {
		return fail[dto.DiscussionView](err)
	}
	return s.discussionView(ctx, post)
}

func (s *CommunityService) createCollection(ctx context.Context, post *domain.Post, bookIDs []string) error {
	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return err
	}
	post.ID = postID
	post.InitTimestamps()
	if err := s.store.CreatePost(ctx, post); err != nil {
		return storeErr(err, "create", string(post.Kind))
	}
	s.logger.Info("post created", "post_id", post.ID, "user_id", post.UserID, "kind", post.Kind)

	if len(bookIDs) == 0 {
		return nil
	}
	if err := s.linkBooks(ctx, post, bookIDs); err != nil {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) && domainErr.Code.Expected() {
			s.logger.Debug("no initial books linked", "post_id", post.ID, "reason", domainErr.Message)
			return nil
		}
		return err
	}
	return nil
}

func (s *CommunityService) updateCollection(ctx context.Context, post *domain.Post) error {
	post.Touch()
	if err := s.store.UpdatePost(ctx, post); err != nil {
		return storeErr(err, "update", string(post.Kind))
	}
	s.logger.Info("post updated", "post_id", post.ID, "kind", post.Kind)
	return nil
}

func (s *CommunityService) addBooks(ctx context.Context, userID, postID string, kind domain.PostKind, bookIDs []string) (*domain.Post, error) {
	post, err := s.ownPost(ctx, userID, postID, kind)
	if err != nil {
		return nil, err
	}
	if err := s.linkBooks(ctx, post, bookIDs); err != nil {
		return nil, err
	}
	return post, nil
}

// linkBooks reconciles the requested books against the post's set, stores the
// new links, and publishes BookLinked for each book actually linked.
func (s *CommunityService) linkBooks(ctx context.Context, post *domain.Post, requested []string) error {
	rel, _ := domain.RelationFor(post.Kind)
	refs, err := membership.Add(rel, post.BookIDs, requested)
	if err != nil {
		s.logger.Debug("nothing to add", "post_id", post.ID, "relation", rel)
		return err
	}

	linked, err := s.store.LinkPostBooks(ctx, post.ID, refs)
	if err != nil {
		return storeErr(err, "link books to", string(post.Kind))
	}
	if len(linked) == 0 {
		return domainerrors.NotFound("books not found")
	}
	post.BookIDs = membership.Apply(post.BookIDs, linked, nil)

	if err := s.publish(ctx, events.BookLinked, post, linked); err != nil {
		return err
	}
	s.logger.Info("books linked", "post_id", post.ID, "kind", post.Kind, "count", len(linked))
	return nil
}

// removeBooks reconciles the requested books against the post's set, removes
// the links, and publishes BookUnlinked for each book removed.
func (s *CommunityService) removeBooks(ctx context.Context, userID, postID string, kind domain.PostKind, requested []string) (*domain.Post, error) {
	post, err := s.ownPost(ctx, userID, postID, kind)
	if err != nil {
		return nil, err
	}
	rel, _ := domain.RelationFor(kind)
	toRemove, err := membership.Remove(rel, post.BookIDs, requested)
	if err != nil {
		s.logger.Debug("nothing to remove", "post_id", post.ID, "relation", rel)
		return nil, err
	}

	// The snapshot may be stale; only rows this call deleted move points.
	removed, err := s.store.UnlinkPostBooks(ctx, post.ID, toRemove)
	if err != nil {
		return nil, fmt.Errorf("unlink books from %s %s: %w", kind, post.ID, err)
	}
	if len(removed) == 0 {
		s.logger.Debug("books already unlinked", "post_id", post.ID, "relation", rel)
		return nil, domainerrors.NoChange("no " + rel.Members() + " to remove")
	}
	post.BookIDs = membership.Apply(post.BookIDs, nil, removed)

	if err := s.publish(ctx, events.BookUnlinked, post, removed); err != nil {
		return nil, err
	}
	s.logger.Info("books unlinked", "post_id", post.ID, "kind", kind, "count", len(removed))
	return post, nil
}

func (s *CommunityService) playlistView(ctx context.Context, post *domain.Post) (*dto.Result[dto.PlaylistView], error) {
	idx, err := s.render(ctx, post)
	if err != nil {
		return nil, err
	}
	return dto.Ok(dto.ProjectPlaylist(post, idx)), nil
}

func (s *CommunityService) discussionView(ctx context.Context, post *domain.Post) (*dto.Result[dto.DiscussionView], error) {
	idx, err := s.render(ctx, post)
	if err != nil {
		return nil, err
	}
	return dto.Ok(dto.ProjectDiscussion(post, idx)), nil
}
