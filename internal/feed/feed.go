// Package feed merges reviews, playlists, and discussions into one typed,
// ordered sequence.
package feed

import (
	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// Entry is one feed item. Exactly one of Review, Playlist, or Discussion is
// set, matching Kind.
type Entry struct {
	Kind       domain.PostKind     `json:"kind"`
	Review     *dto.ReviewView     `json:"review,omitempty"`
	Playlist   *dto.PlaylistView   `json:"playlist,omitempty"`
	Discussion *dto.DiscussionView `json:"discussion,omitempty"`
	IsLiked    bool                `json:"is_liked"`
}

// ID returns the ID of the post behind the entry.
func (e Entry) ID() string {
	switch {
	case e.Review != nil:
		return e.Review.ID
	case e.Playlist != nil:
		return e.Playlist.ID
	case e.Discussion != nil:
		return e.Discussion.ID
	default:
		return ""
	}
}

// Merge projects posts into entries, keeping their order. A post of a kind
// the feed does not know is an error; it is never coerced into another kind.
func Merge(posts []*domain.Post, books dto.BookIndex) ([]Entry, error) {
	entries := make([]Entry, 0, len(posts))
	for _, p := range posts {
		e := Entry{Kind: p.Kind}
		switch p.Kind {
		case domain.PostKindReview:
			v := dto.ProjectReview(p, books)
			e.Review = &v
		case domain.PostKindPlaylist:
			v := dto.ProjectPlaylist(p, books)
			e.Playlist = &v
		case domain.PostKindDiscussion:
			v := dto.ProjectDiscussion(p, books)
			e.Discussion = &v
		default:
			return nil, domainerrors.UnknownContentKind(string(p.Kind))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarkLiked sets IsLiked on every entry whose post is in liked.
func MarkLiked(entries []Entry, liked map[string]bool) {
	for i := range entries {
		entries[i].IsLiked = liked[entries[i].ID()]
	}
}
