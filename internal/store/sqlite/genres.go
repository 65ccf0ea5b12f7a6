package sqlite

import (
	"context"
	"database/sql"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// genreColumns is the ordered list of columns selected in genre queries.
// Must match the scan order in scanGenre.
const genreColumns = `id, created_at, updated_at, name, slug`

func scanGenre(sc scanner) (*domain.Genre, error) {
	var (
		g         domain.Genre
		createdAt string
		updatedAt string
	)
	if err := sc.Scan(&g.ID, &createdAt, &updatedAt, &g.Name, &g.Slug); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGenre inserts a new genre.
// Returns store.ErrAlreadyExists on duplicate ID or slug.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO genres (id, created_at, updated_at, name, slug)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, formatTime(g.CreatedAt), formatTime(g.UpdatedAt), g.Name, g.Slug,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithCause(err)
	}
	return err
}

// GetGenre retrieves a genre by ID.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	g, err := scanGenre(s.db.QueryRowContext(ctx, `SELECT `+genreColumns+` FROM genres WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return g, err
}

// GetGenresByIDs retrieves the genres that exist among ids.
func (s *Store) GetGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	in, args := inClause(ids)
	return s.queryGenres(ctx, `SELECT `+genreColumns+` FROM genres WHERE id IN (`+in+`) ORDER BY name`, args...)
}

// ListGenres returns every genre ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return s.queryGenres(ctx, `SELECT `+genreColumns+` FROM genres ORDER BY name`)
}

func (s *Store) queryGenres(ctx context.Context, query string, args ...any) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
