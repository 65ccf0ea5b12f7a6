package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// joinTable describes where a relation's association rows live.
type joinTable struct {
	table       string
	ownerCol    string
	memberCol   string
	memberTable string
}

var joinTables = map[domain.Relation]joinTable{
	domain.RelationBookGenre:      {table: "book_genres", ownerCol: "book_id", memberCol: "genre_id", memberTable: "genres"},
	domain.RelationBookAuthor:     {table: "book_authors", ownerCol: "book_id", memberCol: "author_id", memberTable: "authors"},
	domain.RelationPlaylistBook:   {table: "post_books", ownerCol: "post_id", memberCol: "book_id", memberTable: "books"},
	domain.RelationDiscussionBook: {table: "post_books", ownerCol: "post_id", memberCol: "book_id", memberTable: "books"},
}

func relationOf(refs []domain.Ref) (domain.Relation, joinTable, error) {
	rel := refs[0].Relation
	for _, ref := range refs[1:] {
		if ref.Relation != rel {
			return "", joinTable{}, fmt.Errorf("mixed relations %s and %s in one link", rel, ref.Relation)
		}
	}
	jt, ok := joinTables[rel]
	if !ok {
		return "", joinTable{}, fmt.Errorf("unknown relation %q", rel)
	}
	return rel, jt, nil
}

// linkRefs inserts association rows for refs inside tx. A reference to a
// member row that does not exist, or that is already linked, is skipped; the
// member row itself is never written.
func linkRefs(ctx context.Context, tx *sql.Tx, jt joinTable, ownerID string, refs []domain.Ref) ([]string, error) {
	now := formatTime(time.Now())
	var linked []string
	for _, ref := range refs {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO `+jt.table+` (`+jt.ownerCol+`, `+jt.memberCol+`, added_at)
			SELECT ?, id, ? FROM `+jt.memberTable+` WHERE id = ?
			ON CONFLICT DO NOTHING`,
			ownerID, now, ref.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("link %s %s: %w", ref.Relation, ref.ID, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 1 {
			linked = append(linked, ref.ID)
		}
	}
	return linked, nil
}

// unlinkIDs deletes association rows inside tx and returns the member IDs
// whose rows it removed. IDs that were not linked are left out.
func unlinkIDs(ctx context.Context, tx *sql.Tx, jt joinTable, ownerID string, ids []string) ([]string, error) {
	in, args := inClause(ids)
	rows, err := tx.QueryContext(ctx,
		`DELETE FROM `+jt.table+` WHERE `+jt.ownerCol+` = ? AND `+jt.memberCol+` IN (`+in+`)
		RETURNING `+jt.memberCol,
		append([]any{ownerID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var removed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		removed = append(removed, id)
	}
	return removed, rows.Err()
}

// LinkBookMembers attaches genre or author references to a book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) LinkBookMembers(ctx context.Context, bookID string, refs []domain.Ref) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	rel, jt, err := relationOf(refs)
	if err != nil {
		return nil, err
	}
	if rel != domain.RelationBookGenre && rel != domain.RelationBookAuthor {
		return nil, fmt.Errorf("relation %s does not belong to books", rel)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, "books", bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}

	linked, err := linkRefs(ctx, tx, jt, bookID, refs)
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, tx, "books", bookID); err != nil {
		return nil, err
	}
	return linked, tx.Commit()
}

// UnlinkBookMembers removes genre or author links from a book and returns
// the IDs whose links were removed.
func (s *Store) UnlinkBookMembers(ctx context.Context, bookID string, rel domain.Relation, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	jt, ok := joinTables[rel]
	if !ok || (rel != domain.RelationBookGenre && rel != domain.RelationBookAuthor) {
		return nil, fmt.Errorf("relation %s does not belong to books", rel)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	removed, err := unlinkIDs(ctx, tx, jt, bookID, ids)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.touch(ctx, tx, "books", bookID); err != nil {
		return nil, err
	}
	return removed, tx.Commit()
}

// LinkPostBooks attaches book references to a playlist or discussion.
// Returns store.ErrNotFound if the post does not exist.
func (s *Store) LinkPostBooks(ctx context.Context, postID string, refs []domain.Ref) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	rel, jt, err := relationOf(refs)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var kind domain.PostKind
	err = tx.QueryRowContext(ctx, `SELECT kind FROM posts WHERE id = ?`, postID).Scan(&kind)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if want, ok := domain.RelationFor(kind); !ok || want != rel {
		return nil, fmt.Errorf("cannot link %s to a %s post", rel, kind)
	}

	linked, err := linkRefs(ctx, tx, jt, postID, refs)
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, tx, "posts", postID); err != nil {
		return nil, err
	}
	return linked, tx.Commit()
}

// UnlinkPostBooks removes books from a playlist or discussion and returns the
// IDs whose links were removed. Concurrent callers removing the same book see
// it in exactly one result.
func (s *Store) UnlinkPostBooks(ctx context.Context, postID string, bookIDs []string) ([]string, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	removed, err := unlinkIDs(ctx, tx, joinTables[domain.RelationPlaylistBook], postID, bookIDs)
	if err != nil {
		return nil, err
	}
	if len(removed) == 0 {
		return nil, nil
	}
	if err := s.touch(ctx, tx, "posts", postID); err != nil {
		return nil, err
	}
	return removed, tx.Commit()
}

func (s *Store) touch(ctx context.Context, tx *sql.Tx, table, id string) error {
	_, err := tx.ExecContext(ctx, `UPDATE `+table+` SET updated_at = ? WHERE id = ?`, formatTime(time.Now()), id)
	return err
}
