package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// IncrementPoints adds one point in a single upsert.
func (s *Store) IncrementPoints(ctx context.Context, userID, genreID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO recommendation_points (user_id, genre_id, points, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, genre_id) DO UPDATE SET
			points = points + 1,
			updated_at = excluded.updated_at
		RETURNING points`,
		userID, genreID, formatTime(time.Now())).Scan(&points)
	return points, err
}

// DecrementPoints removes one point in a single update, clamping at zero.
// A missing row is left missing and reports zero.
func (s *Store) DecrementPoints(ctx context.Context, userID, genreID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx, `
		UPDATE recommendation_points SET
			points = MAX(points - 1, 0),
			updated_at = ?
		WHERE user_id = ? AND genre_id = ?
		RETURNING points`,
		formatTime(time.Now()), userID, genreID).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return points, err
}

// ListPoints returns every recommendation row of the user.
func (s *Store) ListPoints(ctx context.Context, userID string) ([]domain.RecommendationPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, genre_id, points, updated_at FROM recommendation_points
		WHERE user_id = ? ORDER BY points DESC, genre_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecommendationPoint
	for rows.Next() {
		var (
			p         domain.RecommendationPoint
			updatedAt string
		)
		if err := rows.Scan(&p.UserID, &p.GenreID, &p.Points, &updatedAt); err != nil {
			return nil, err
		}
		if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
