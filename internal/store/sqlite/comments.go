package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

const commentColumns = `id, created_at, updated_at, post_id, user_id, content, like_count`

func scanComment(sc scanner) (*domain.Comment, error) {
	var (
		c         domain.Comment
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&c.ID, &createdAt, &updatedAt, &c.PostID, &c.UserID, &c.Content, &c.LikeCount); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComment inserts a comment.
// Returns store.ErrNotFound if the parent post does not exist.
func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, created_at, updated_at, post_id, user_id, content, like_count)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		c.ID, formatTime(c.CreatedAt), formatTime(c.UpdatedAt), c.PostID, c.UserID, c.Content,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound
		}
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
	}
	return err
}

// GetComment retrieves a comment by ID.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return c, err
}

// UpdateComment updates a comment's content.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) UpdateComment(ctx context.Context, c *domain.Comment) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET updated_at = ?, content = ? WHERE id = ?`,
		formatTime(c.UpdatedAt), c.Content, c.ID)
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

// DeleteComment hard-deletes a comment and its likes.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "comments", id)
}

// ListPostComments returns a page of a post's comments, oldest first.
func (s *Store) ListPostComments(ctx context.Context, postID string, page store.PageParams) (*store.Page[*domain.Comment], error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ?
		ORDER BY created_at, id LIMIT ? OFFSET ?`,
		postID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return store.NewPage(comments, page, total), nil
}
