package domain

import "slices"

// PostKind discriminates the content variants a post can be.
type PostKind string

// Post kinds.
const (
	PostKindReview     PostKind = "review"
	PostKindPlaylist   PostKind = "playlist"
	PostKindDiscussion PostKind = "discussion"
)

// Valid reports whether k is one of the known post kinds.
func (k PostKind) Valid() bool {
	switch k {
	case PostKindReview, PostKindPlaylist, PostKindDiscussion:
		return true
	default:
		return false
	}
}

// DiscussionTag classifies a discussion post.
type DiscussionTag string

// Discussion tags.
const (
	DiscussionTagDiscussion DiscussionTag = "discussion"
	DiscussionTagArticle    DiscussionTag = "article"
	DiscussionTagNews       DiscussionTag = "news"
)

// Post is a piece of community content. It is a closed tagged variant: Kind
// decides which of the variant fields are meaningful.
//
//   - review: BookID, Rating, Content
//   - playlist: Title, Content (description), BookIDs
//   - discussion: Title, Content, Tag, BookIDs
//
// LikeCount always equals the number of like rows stored for the post.
type Post struct {
	Timestamps
	ID        string   `json:"id"`
	Kind      PostKind `json:"kind"`
	UserID    string   `json:"user_id"`
	LikeCount int      `json:"like_count"`
	Content   string   `json:"content,omitempty"`

	// Review.
	BookID string `json:"book_id,omitempty"`
	Rating int    `json:"rating,omitempty"`

	// Playlist and discussion.
	Title   string        `json:"title,omitempty"`
	Tag     DiscussionTag `json:"tag,omitempty"`
	BookIDs []string      `json:"book_ids,omitempty"`
}

// OwnedBy reports whether userID authored the post.
func (p *Post) OwnedBy(userID string) bool {
	return p.UserID == userID
}

// ContainsBook checks if a book ID is linked to this post.
func (p *Post) ContainsBook(bookID string) bool {
	if p.Kind == PostKindReview {
		return p.BookID == bookID
	}
	return slices.Contains(p.BookIDs, bookID)
}

// Books returns every book the post references.
func (p *Post) Books() []string {
	if p.Kind == PostKindReview {
		if p.BookID == "" {
			return nil
		}
		return []string{p.BookID}
	}
	return p.BookIDs
}
