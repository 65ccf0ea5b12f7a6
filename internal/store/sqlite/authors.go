package sqlite

import (
	"context"
	"database/sql"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

const authorColumns = `id, created_at, updated_at, name, bio`

func scanAuthor(sc scanner) (*domain.Author, error) {
	var (
		a         domain.Author
		createdAt string
		updatedAt string
		bio       sql.NullString
	)
	if err := sc.Scan(&a.ID, &createdAt, &updatedAt, &a.Name, &bio); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	a.Bio = bio.String
	return &a, nil
}

// CreateAuthor inserts a new author.
func (s *Store) CreateAuthor(ctx context.Context, a *domain.Author) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (id, created_at, updated_at, name, bio)
		VALUES (?, ?, ?, ?, ?)`,
		a.ID, formatTime(a.CreatedAt), formatTime(a.UpdatedAt), a.Name, nullString(a.Bio),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetAuthor retrieves an author by ID.
// Returns store.ErrNotFound if the author does not exist.
func (s *Store) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	a, err := scanAuthor(s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return a, err
}

// GetAuthorsByIDs retrieves the authors that exist among ids.
func (s *Store) GetAuthorsByIDs(ctx context.Context, ids []string) ([]*domain.Author, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	return s.queryAuthors(ctx, `SELECT `+authorColumns+` FROM authors WHERE id IN (`+in+`) ORDER BY name`, args...)
}

// ListAuthors returns every author ordered by name.
func (s *Store) ListAuthors(ctx context.Context) ([]*domain.Author, error) {
	return s.queryAuthors(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name`)
}

func (s *Store) queryAuthors(ctx context.Context, query string, args ...any) ([]*domain.Author, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*domain.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
