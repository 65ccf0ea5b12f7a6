package service

import (
	"context"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/feed"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// FeedPage is one page of merged feed entries.
type FeedPage = store.Page[feed.Entry]

// GetFeed returns a page of every post, newest first. When viewerID is set,
// each entry says whether the viewer has liked it.
func (s *CommunityService) GetFeed(ctx context.Context, viewerID string, page store.PageParams) (*dto.Result[*FeedPage], error) {
	return s.feedPage(ctx, viewerID, store.PostFilter{}, page)
}

// GetFollowingsFeed returns a page of posts written by the given users.
// Following nobody yields an empty page.
func (s *CommunityService) GetFollowingsFeed(ctx context.Context, viewerID string, followingIDs []string, page store.PageParams) (*dto.Result[*FeedPage], error) {
	if followingIDs == nil {
		followingIDs = []string{}
	}
	return s.feedPage(ctx, viewerID, store.PostFilter{UserIDs: followingIDs}, page)
}

// GetUserPosts returns a page of one user's posts, optionally of one kind.
func (s *CommunityService) GetUserPosts(ctx context.Context, viewerID, userID string, kind domain.PostKind, page store.PageParams) (*dto.Result[*FeedPage], error) {
	if kind != "" && !kind.Valid() {
		return fail[*FeedPage](domainerrors.Validationf("unknown post kind %q", kind))
	}
	return s.feedPage(ctx, viewerID, store.PostFilter{Kind: kind, UserIDs: []string{userID}}, page)
}

func (s *CommunityService) feedPage(ctx context.Context, viewerID string, filter store.PostFilter, page store.PageParams) (*dto.Result[*FeedPage], error) {
	page.Validate(s.pages.Posts)
	posts, err := s.store.ListPosts(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	books, err := s.enricher.IndexPosts(ctx, posts.Items)
	if err != nil {
		return nil, err
	}
	entries, err := feed.Merge(posts.Items, books)
	if err != nil {
		return nil, err
	}

	if viewerID != "" && len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID()
		}
		liked, err := s.postLikes.LikedAmong(ctx, ids, viewerID)
		if err != nil {
			return nil, err
		}
		feed.MarkLiked(entries, liked)
	}

	return dto.Ok(store.NewPage(entries, page, posts.Total)), nil
}
