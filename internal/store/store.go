// Package store defines the persistence contracts for the Yaqra server.
//
// The membership and engagement logic never decides how data is stored; it
// calls these operations and relies on them for two guarantees: links are
// made by identity without duplicating rows, and counter updates are single
// atomic read-modify-write requests.
package store

import (
	"context"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// PostFilter narrows a post listing. Zero values match everything.
type PostFilter struct {
	Kind    domain.PostKind
	UserIDs []string
}

// ReviewSort orders a book's reviews.
type ReviewSort struct {
	Field string // "created_at" or "rating"
	Desc  bool
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error)
	ListBooks(ctx context.Context, title string, page PageParams) (*Page[*domain.Book], error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	// LinkBookMembers attaches genre or author references to a book and
	// returns the IDs that were linked. References to unknown rows are skipped.
	LinkBookMembers(ctx context.Context, bookID string, refs []domain.Ref) ([]string, error)
	// UnlinkBookMembers removes links and returns the IDs actually unlinked.
	UnlinkBookMembers(ctx context.Context, bookID string, rel domain.Relation, ids []string) ([]string, error)
	GenreIDsForBooks(ctx context.Context, bookIDs []string) (map[string][]string, error)
	BookRatings(ctx context.Context, bookID string) ([]int, error)
	BookRatingsForBooks(ctx context.Context, bookIDs []string) (map[string][]int, error)
	RandomBooksInGenre(ctx context.Context, genreID string, count int) ([]*domain.Book, error)
	RandomBooks(ctx context.Context, count int) ([]*domain.Book, error)

	// Genres
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	GetGenre(ctx context.Context, id string) (*domain.Genre, error)
	GetGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error)
	ListGenres(ctx context.Context) ([]*domain.Genre, error)

	// Authors
	CreateAuthor(ctx context.Context, author *domain.Author) error
	GetAuthor(ctx context.Context, id string) (*domain.Author, error)
	GetAuthorsByIDs(ctx context.Context, ids []string) ([]*domain.Author, error)
	ListAuthors(ctx context.Context) ([]*domain.Author, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, filter PostFilter, page PageParams) (*Page[*domain.Post], error)
	// LinkPostBooks attaches book references to a playlist or discussion and
	// returns the IDs that were linked. References to unknown books are skipped.
	LinkPostBooks(ctx context.Context, postID string, refs []domain.Ref) ([]string, error)
	// UnlinkPostBooks removes links and returns the IDs actually unlinked.
	UnlinkPostBooks(ctx context.Context, postID string, bookIDs []string) ([]string, error)
	HasReviewed(ctx context.Context, userID, bookID string) (bool, error)
	ListBookReviews(ctx context.Context, bookID string, sort ReviewSort, page PageParams) (*Page[*domain.Post], error)

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListPostComments(ctx context.Context, postID string, page PageParams) (*Page[*domain.Comment], error)

	// Likes. Toggles are single atomic requests.
	TogglePostLike(ctx context.Context, postID, userID string) (domain.LikeState, error)
	PostsLikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	ToggleCommentLike(ctx context.Context, commentID, userID string) (domain.LikeState, error)
	CommentsLikedBy(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error)

	// Recommendation points. Increments and decrements are single atomic requests.
	IncrementPoints(ctx context.Context, userID, genreID string) (int, error)
	DecrementPoints(ctx context.Context, userID, genreID string) (int, error)
	ListPoints(ctx context.Context, userID string) ([]domain.RecommendationPoint, error)

	// Trending signals
	RecordSignal(ctx context.Context, signal domain.TrendingSignal) error
	TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.BookTally, error)
}
