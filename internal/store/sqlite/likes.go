package sqlite

import (
	"context"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// likeTable describes where likes of one subject kind are stored.
type likeTable struct {
	subjects   string // table holding the subject and its like_count
	likes      string // table holding one row per (subject, user)
	subjectCol string
}

var (
	postLikes    = likeTable{subjects: "posts", likes: "post_likes", subjectCol: "post_id"}
	commentLikes = likeTable{subjects: "comments", likes: "comment_likes", subjectCol: "comment_id"}
)

// toggle removes the user's like row if present or inserts it if absent, and
// moves the subject's counter by one, all in one IMMEDIATE transaction.
func (s *Store) toggle(ctx context.Context, lt likeTable, subjectID, userID string) (domain.LikeState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LikeState{}, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM `+lt.likes+` WHERE `+lt.subjectCol+` = ? AND user_id = ?`, subjectID, userID)
	if err != nil {
		return domain.LikeState{}, err
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return domain.LikeState{}, err
	}

	state := domain.LikeState{IsLiked: removed == 0}
	delta := -1
	if state.IsLiked {
		result, err = tx.ExecContext(ctx, `
			INSERT INTO `+lt.likes+` (`+lt.subjectCol+`, user_id, created_at)
			SELECT id, ?, ? FROM `+lt.subjects+` WHERE id = ?`,
			userID, formatTime(time.Now()), subjectID)
		if err != nil {
			return domain.LikeState{}, err
		}
		inserted, err := result.RowsAffected()
		if err != nil {
			return domain.LikeState{}, err
		}
		if inserted == 0 {
			return domain.LikeState{}, store.ErrNotFound
		}
		delta = 1
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE `+lt.subjects+` SET like_count = like_count + ? WHERE id = ? RETURNING like_count`,
		delta, subjectID).Scan(&state.LikesCount)
	if err != nil {
		return domain.LikeState{}, err
	}
	return state, tx.Commit()
}

func (s *Store) likedBy(ctx context.Context, lt likeTable, userID string, subjectIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	subjectIDs = dedupe(subjectIDs)
	if len(subjectIDs) == 0 {
		return out, nil
	}
	in, args := inClause(subjectIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+lt.subjectCol+` FROM `+lt.likes+` WHERE user_id = ? AND `+lt.subjectCol+` IN (`+in+`)`,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// TogglePostLike flips the user's like on a post.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) TogglePostLike(ctx context.Context, postID, userID string) (domain.LikeState, error) {
	return s.toggle(ctx, postLikes, postID, userID)
}

// PostsLikedBy returns which of postIDs the user has liked.
func (s *Store) PostsLikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return s.likedBy(ctx, postLikes, userID, postIDs)
}

// ToggleCommentLike flips the user's like on a comment.
// Returns store.ErrNotFound if the comment does not exist.
func (s *Store) ToggleCommentLike(ctx context.Context, commentID, userID string) (domain.LikeState, error) {
	return s.toggle(ctx, commentLikes, commentID, userID)
}

// CommentsLikedBy returns which of commentIDs the user has liked.
func (s *Store) CommentsLikedBy(ctx context.Context, userID string, commentIDs []string) (map[string]bool, error) {
	return s.likedBy(ctx, commentLikes, userID, commentIDs)
}

// Likes adapts one subject kind of a store to a single toggle/check pair.
type Likes struct {
	store *Store
	table likeTable
}

// PostLikes returns the like operations for posts.
func (s *Store) PostLikes() *Likes { return &Likes{store: s, table: postLikes} }

// CommentLikes returns the like operations for comments.
func (s *Store) CommentLikes() *Likes { return &Likes{store: s, table: commentLikes} }

// ToggleLike flips the user's like on the subject.
func (l *Likes) ToggleLike(ctx context.Context, subjectID, userID string) (domain.LikeState, error) {
	return l.store.toggle(ctx, l.table, subjectID, userID)
}

// LikedBy returns which of subjectIDs the user has liked.
func (l *Likes) LikedBy(ctx context.Context, userID string, subjectIDs []string) (map[string]bool, error) {
	return l.store.likedBy(ctx, l.table, userID, subjectIDs)
}
