package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `b.id, b.created_at, b.updated_at, b.title, b.description, b.number_of_pages`

func scanBook(sc scanner) (*domain.Book, error) {
	var (
		b           domain.Book
		createdAt   string
		updatedAt   string
		description sql.NullString
	)
	if err := sc.Scan(&b.ID, &createdAt, &updatedAt, &b.Title, &description, &b.NumberOfPages); err != nil {
		return nil, err
	}

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	b.Description = description.String
	b.GenreIDs = []string{}
	b.AuthorIDs = []string{}
	return &b, nil
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadBookMembers(ctx, books); err != nil {
		return nil, fmt.Errorf("load book members: %w", err)
	}
	return books, nil
}

// loadBookMembers fills GenreIDs and AuthorIDs for books, one query per relation.
func (s *Store) loadBookMembers(ctx context.Context, books []*domain.Book) error {
	if len(books) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Book, len(books))
	ids := make([]string, 0, len(books))
	for _, b := range books {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	genres, err := s.memberIDs(ctx, "book_genres", "book_id", "genre_id", ids)
	if err != nil {
		return err
	}
	authors, err := s.memberIDs(ctx, "book_authors", "book_id", "author_id", ids)
	if err != nil {
		return err
	}
	for id, b := range byID {
		if g := genres[id]; g != nil {
			b.GenreIDs = g
		}
		if a := authors[id]; a != nil {
			b.AuthorIDs = a
		}
	}
	return nil
}

// memberIDs selects (owner, member) pairs from a join table restricted to
// owners, returning members grouped by owner in link order.
func (s *Store) memberIDs(ctx context.Context, table, ownerCol, memberCol string, owners []string) (map[string][]string, error) {
	out := make(map[string][]string, len(owners))
	if len(owners) == 0 {
		return out, nil
	}
	in, args := inClause(owners)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ownerCol+`, `+memberCol+` FROM `+table+
			` WHERE `+ownerCol+` IN (`+in+`) ORDER BY added_at, rowid`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var owner, member string
		if err := rows.Scan(&owner, &member); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], member)
	}
	return out, rows.Err()
}

// CreateBook inserts a new book. Genre and author links are made separately.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, description, number_of_pages)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		nullString(book.Description),
		book.NumberOfPages,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetBook retrieves a book with its genre and author IDs.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	books, err := s.queryBooks(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, store.ErrNotFound
	}
	return books[0], nil
}

// GetBooksByIDs retrieves the books that exist among ids, in no particular order.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	return s.queryBooks(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id IN (`+in+`)`, args...)
}

// ListBooks returns books newest first. A non-empty title filters by a
// case-insensitive substring match.
func (s *Store) ListBooks(ctx context.Context, title string, page store.PageParams) (*store.Page[*domain.Book], error) {
	where := ""
	var args []any
	if title != "" {
		where = ` WHERE b.title LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(title)+"%")
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM books b`+where, args...)
	if err != nil {
		return nil, err
	}

	books, err := s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books b`+where+` ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?`,
		append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, err
	}
	return store.NewPage(books, page, total), nil
}

// UpdateBook updates a book's own fields. Links are untouched.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET updated_at = ?, title = ?, description = ?, number_of_pages = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		nullString(book.Description),
		book.NumberOfPages,
		book.ID,
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

// DeleteBook hard-deletes a book. Links, reviews, and signals cascade.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "books", id)
}

// GenreIDsForBooks returns the genres linked to each of bookIDs.
func (s *Store) GenreIDsForBooks(ctx context.Context, bookIDs []string) (map[string][]string, error) {
	return s.memberIDs(ctx, "book_genres", "book_id", "genre_id", dedupe(bookIDs))
}

// BookRatings returns the review scores of a book.
func (s *Store) BookRatings(ctx context.Context, bookID string) ([]int, error) {
	byBook, err := s.BookRatingsForBooks(ctx, []string{bookID})
	if err != nil {
		return nil, err
	}
	return byBook[bookID], nil
}

// BookRatingsForBooks returns review scores grouped by book.
func (s *Store) BookRatingsForBooks(ctx context.Context, bookIDs []string) (map[string][]int, error) {
	bookIDs = dedupe(bookIDs)
	out := make(map[string][]int, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	in, args := inClause(bookIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, rating FROM posts
		WHERE kind = 'review' AND book_id IN (`+in+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bookID string
		var score int
		if err := rows.Scan(&bookID, &score); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], score)
	}
	return out, rows.Err()
}

// RandomBooksInGenre returns up to count random books linked to genreID.
func (s *Store) RandomBooksInGenre(ctx context.Context, genreID string, count int) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `
		SELECT `+bookColumns+` FROM books b
		JOIN book_genres bg ON bg.book_id = b.id
		WHERE bg.genre_id = ?
		ORDER BY RANDOM() LIMIT ?`, genreID, count)
}

// RandomBooks returns up to count random books.
func (s *Store) RandomBooks(ctx context.Context, count int) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `SELECT `+bookColumns+` FROM books b ORDER BY RANDOM() LIMIT ?`, count)
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
