package dto

import (
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// PostHeader holds the fields every post view shares.
type PostHeader struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LikeCount int       `json:"like_count"`
}

// ReviewView is a review with its single book.
type ReviewView struct {
	PostHeader
	Book    *BookView `json:"book,omitempty"`
	Content string    `json:"content"`
	Rating  int       `json:"rating"`
}

// PlaylistView is a playlist with its books.
type PlaylistView struct {
	PostHeader
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Books       []BookView `json:"books"`
}

// DiscussionView is a discussion with its books.
type DiscussionView struct {
	PostHeader
	Title   string               `json:"title"`
	Content string               `json:"content"`
	Tag     domain.DiscussionTag `json:"tag"`
	Books   []BookView           `json:"books"`
}

// CommentView is the client-facing representation of a comment.
type CommentView struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	LikeCount int       `json:"like_count"`
}

func projectHeader(p *domain.Post) PostHeader {
	return PostHeader{CreatedAt: p.CreatedAt, ID: p.ID, UserID: p.UserID, LikeCount: p.LikeCount}
}

// ProjectReview copies a review post into its view.
func ProjectReview(p *domain.Post, books BookIndex) ReviewView {
	v := ReviewView{PostHeader: projectHeader(p), Content: p.Content, Rating: p.Rating}
	if b, ok := books.Get(p.BookID); ok {
		v.Book = &b
	}
	return v
}

// ProjectPlaylist copies a playlist post into its view.
func ProjectPlaylist(p *domain.Post, books BookIndex) PlaylistView {
	return PlaylistView{
		PostHeader:  projectHeader(p),
		Title:       p.Title,
		Description: p.Content,
		Books:       books.Lookup(p.BookIDs),
	}
}

// ProjectDiscussion copies a discussion post into its view.
func ProjectDiscussion(p *domain.Post, books BookIndex) DiscussionView {
	return DiscussionView{
		PostHeader: projectHeader(p),
		Title:      p.Title,
		Content:    p.Content,
		Tag:        p.Tag,
		Books:      books.Lookup(p.BookIDs),
	}
}

// ProjectComment copies a comment into its view.
func ProjectComment(c *domain.Comment) CommentView {
	return CommentView{
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		LikeCount: c.LikeCount,
	}
}
