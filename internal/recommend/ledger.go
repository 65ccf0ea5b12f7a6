// Package recommend keeps per-user genre scores and turns them into book
// recommendations.
package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/events"
)

// PointStore persists recommendation points. IncrementPoints and
// DecrementPoints must each be a single atomic read-modify-write so that
// concurrent callers on the same (user, genre) key never lose an update.
type PointStore interface {
	// IncrementPoints adds one point, creating the row if absent, and returns the new score.
	IncrementPoints(ctx context.Context, userID, genreID string) (int, error)
	// DecrementPoints removes one point, never going below zero. An absent row
	// stays absent and reports zero.
	DecrementPoints(ctx context.Context, userID, genreID string) (int, error)
	// ListPoints returns every row for the user.
	ListPoints(ctx context.Context, userID string) ([]domain.RecommendationPoint, error)
}

// Ledger is the only writer of recommendation points.
type Ledger struct {
	points PointStore
	logger *slog.Logger
}

// NewLedger creates a ledger over the given store.
func NewLedger(points PointStore, logger *slog.Logger) *Ledger {
	return &Ledger{points: points, logger: logger}
}

// Increment adds one point to (userID, genreID).
func (l *Ledger) Increment(ctx context.Context, userID, genreID string) (int, error) {
	score, err := l.points.IncrementPoints(ctx, userID, genreID)
	if err != nil {
		return 0, fmt.Errorf("increment points for user %s genre %s: %w", userID, genreID, err)
	}
	return score, nil
}

// Decrement removes one point from (userID, genreID), clamping at zero.
func (l *Ledger) Decrement(ctx context.Context, userID, genreID string) (int, error) {
	score, err := l.points.DecrementPoints(ctx, userID, genreID)
	if err != nil {
		return 0, fmt.Errorf("decrement points for user %s genre %s: %w", userID, genreID, err)
	}
	return score, nil
}

// Points returns the user's scores, highest first. Ties are ordered by genre ID.
func (l *Ledger) Points(ctx context.Context, userID string) ([]domain.RecommendationPoint, error) {
	pts, err := l.points.ListPoints(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list points for user %s: %w", userID, err)
	}
	sort.SliceStable(pts, func(i, j int) bool {
		if pts[i].Points != pts[j].Points {
			return pts[i].Points > pts[j].Points
		}
		return pts[i].GenreID < pts[j].GenreID
	})
	return pts, nil
}

// TopGenres returns up to n genre IDs with a positive score, highest first.
func (l *Ledger) TopGenres(ctx context.Context, userID string, n int) ([]string, error) {
	pts, err := l.Points(ctx, userID)
	if err != nil {
		return nil, err
	}
	genres := make([]string, 0, n)
	for _, p := range pts {
		if len(genres) == n {
			break
		}
		if p.Points > 0 {
			genres = append(genres, p.GenreID)
		}
	}
	return genres, nil
}

// HandleEvent applies one point per linked genre: up for new links and new
// reviews, down for unlinks.
func (l *Ledger) HandleEvent(ctx context.Context, e events.Event) error {
	var apply func(context.Context, string, string) (int, error)
	switch e.Type {
	case events.BookLinked, events.ReviewAdded:
		apply = l.Increment
	case events.BookUnlinked:
		apply = l.Decrement
	default:
		return nil
	}

	for _, genreID := range e.GenreIDs {
		score, err := apply(ctx, e.UserID, genreID)
		if err != nil {
			return err
		}
		l.logger.Debug("recommendation points updated",
			"user_id", e.UserID,
			"genre_id", genreID,
			"event", e.Type,
			"points", score,
		)
	}
	return nil
}
