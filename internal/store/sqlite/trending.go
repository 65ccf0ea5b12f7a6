package sqlite

import (
	"context"
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// RecordSignal appends one trending signal.
func (s *Store) RecordSignal(ctx context.Context, signal domain.TrendingSignal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trending_signals (id, book_id, recorded_at) VALUES (?, ?, ?)`,
		signal.ID, signal.BookID, formatTime(signal.RecordedAt))
	return err
}

// TopBooks counts signals recorded at or after since, most signalled first.
func (s *Store) TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.BookTally, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT book_id, COUNT(*) AS signals FROM trending_signals
		WHERE recorded_at >= ?
		GROUP BY book_id
		ORDER BY signals DESC, book_id
		LIMIT ?`,
		formatTime(since), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookTally
	for rows.Next() {
		var t domain.BookTally
		if err := rows.Scan(&t.BookID, &t.Signals); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Prune deletes signals recorded before cutoff and returns how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM trending_signals WHERE recorded_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
