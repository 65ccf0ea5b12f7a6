package domain

import "time"

// LikeState is the outcome of a like toggle.
type LikeState struct {
	IsLiked    bool `json:"is_liked"`
	LikesCount int  `json:"likes_count"`
}

// SubjectKind names what a like is attached to.
type SubjectKind string

// Like subjects.
const (
	SubjectPost    SubjectKind = "post"
	SubjectComment SubjectKind = "comment"
)

// RecommendationPoint is the engagement score of one user for one genre.
// Points never go below zero.
type RecommendationPoint struct {
	UserID    string    `json:"user_id"`
	GenreID   string    `json:"genre_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrendingSignal records one engagement with a book.
type TrendingSignal struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// BookTally is a book with the number of signals it received in a window.
type BookTally struct {
	BookID  string `json:"book_id"`
	Signals int    `json:"signals"`
}
