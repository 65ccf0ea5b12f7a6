package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `id, created_at, updated_at, kind, user_id, like_count, content, book_id, rating, title, tag`

func scanPost(sc scanner) (*domain.Post, error) {
	var (
		p         domain.Post
		createdAt string
		updatedAt string
		content   sql.NullString
		bookID    sql.NullString
		rating    sql.NullInt64
		title     sql.NullString
		tag       sql.NullString
	)
	err := sc.Scan(&p.ID, &createdAt, &updatedAt, &p.Kind, &p.UserID, &p.LikeCount,
		&content, &bookID, &rating, &title, &tag)
	if err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	p.Content = content.String
	p.BookID = bookID.String
	p.Rating = int(rating.Int64)
	p.Title = title.String
	p.Tag = domain.DiscussionTag(tag.String)
	return &p, nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadPostBooks(ctx, posts); err != nil {
		return nil, fmt.Errorf("load post books: %w", err)
	}
	return posts, nil
}

// loadPostBooks fills BookIDs for playlists and discussions.
func (s *Store) loadPostBooks(ctx context.Context, posts []*domain.Post) error {
	var ids []string
	for _, p := range posts {
		if p.Kind != domain.PostKindReview {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	books, err := s.memberIDs(ctx, "post_books", "post_id", "book_id", ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if p.Kind != domain.PostKindReview {
			p.BookIDs = books[p.ID]
			if p.BookIDs == nil {
				p.BookIDs = []string{}
			}
		}
	}
	return nil
}

// CreatePost inserts a post row. Book links of playlists and discussions are
// made separately through LinkPostBooks.
// Returns store.ErrAlreadyExists on duplicate ID, or when the user already
// reviewed the book.
func (s *Store) CreatePost(ctx context.Context, p *domain.Post) error {
	var rating sql.NullInt64
	if p.Kind == domain.PostKindReview {
		rating = sql.NullInt64{Int64: int64(p.Rating), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, created_at, updated_at, kind, user_id, like_count, content, book_id, rating, title, tag)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`,
		p.ID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		string(p.Kind),
		p.UserID,
		nullString(p.Content),
		nullString(p.BookID),
		rating,
		nullString(p.Title),
		nullString(string(p.Tag)),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetPost retrieves a post with its book IDs.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, store.ErrNotFound
	}
	return posts[0], nil
}

// UpdatePost updates the editable fields of a post: content, rating, title,
// and tag. Kind, owner, like count, and links are untouched.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) UpdatePost(ctx context.Context, p *domain.Post) error {
	var rating sql.NullInt64
	if p.Kind == domain.PostKindReview {
		rating = sql.NullInt64{Int64: int64(p.Rating), Valid: true}
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE posts SET updated_at = ?, content = ?, rating = ?, title = ?, tag = ?
		WHERE id = ?`,
		formatTime(p.UpdatedAt),
		nullString(p.Content),
		rating,
		nullString(p.Title),
		nullString(string(p.Tag)),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeletePost hard-deletes a post. Links, likes, and comments cascade.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "posts", id)
}

// ListPosts returns posts newest first.
func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter, page store.PageParams) (*store.Page[*domain.Post], error) {
	var (
		conds []string
		args  []any
	)
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.UserIDs != nil {
		users := dedupe(filter.UserIDs)
		if len(users) == 0 {
			return store.NewPage[*domain.Post](nil, page, 0), nil
		}
		in, userArgs := inClause(users)
		conds = append(conds, "user_id IN ("+in+")")
		args = append(args, userArgs...)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts`+where, args...)
	if err != nil {
		return nil, err
	}
	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+` FROM posts`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, err
	}
	return store.NewPage(posts, page, total), nil
}

// HasReviewed reports whether the user already reviewed the book.
func (s *Store) HasReviewed(ctx context.Context, userID, bookID string) (bool, error) {
	n, err := s.count(ctx,
		`SELECT COUNT(*) FROM posts WHERE kind = 'review' AND user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var reviewSortColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"rating":     "rating",
}

// ListBookReviews returns a page of the book's reviews.
func (s *Store) ListBookReviews(ctx context.Context, bookID string, sort store.ReviewSort, page store.PageParams) (*store.Page[*domain.Post], error) {
	col, ok := reviewSortColumns[sort.Field]
	if !ok {
		return nil, fmt.Errorf("unknown review sort field %q", sort.Field)
	}
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts WHERE kind = 'review' AND book_id = ?`, bookID)
	if err != nil {
		return nil, err
	}
	posts, err := s.queryPosts(ctx,
		`SELECT `+postColumns+` FROM posts WHERE kind = 'review' AND book_id = ?
		ORDER BY `+col+` `+dir+`, id `+dir+` LIMIT ? OFFSET ?`,
		bookID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return store.NewPage(posts, page, total), nil
}
