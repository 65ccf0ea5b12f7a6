// Package trending records engagement signals for books and ranks books by
// the signals they received recently.
//
// Recording is append-only: no dedup and no decay. Ranking policy lives
// entirely in the query, which counts signals inside a configurable window.
package trending

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/events"
)

// SignalSink stores trending signals.
type SignalSink interface {
	RecordSignal(ctx context.Context, signal domain.TrendingSignal) error
}

// SignalSource counts stored signals per book.
type SignalSource interface {
	// TopBooks returns up to limit books with the most signals recorded at or
	// after since, most signalled first.
	TopBooks(ctx context.Context, since time.Time, limit int) ([]domain.BookTally, error)
}

// Signals is a sink that can also be queried.
type Signals interface {
	SignalSink
	SignalSource
}

// Pruner is implemented by signal stores that can drop old signals.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// Options controls the trending query.
type Options struct {
	Window time.Duration
	Limit  int
	// Retention is how long signals are kept before Prune drops them.
	// Zero keeps them forever.
	Retention time.Duration
}

// Tracker records and ranks trending signals.
type Tracker struct {
	signals Signals
	opts    Options
	now     func() time.Time
	logger  *slog.Logger
}

// NewTracker creates a tracker over the given signal store.
func NewTracker(signals Signals, opts Options, logger *slog.Logger) *Tracker {
	if opts.Window <= 0 {
		opts.Window = 7 * 24 * time.Hour
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	return &Tracker{
		signals: signals,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
}

// RecordSignal appends one signal for bookID.
func (t *Tracker) RecordSignal(ctx context.Context, bookID string) error {
	signalID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate signal id: %w", err)
	}
	signal := domain.TrendingSignal{
		ID:         signalID.String(),
		BookID:     bookID,
		RecordedAt: t.now(),
	}
	if err := t.signals.RecordSignal(ctx, signal); err != nil {
		return fmt.Errorf("record trending signal for book %s: %w", bookID, err)
	}
	return nil
}

// HandleEvent records a signal for new links and new reviews. Removals are
// not signals.
func (t *Tracker) HandleEvent(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.BookLinked, events.ReviewAdded:
		return t.RecordSignal(ctx, e.BookID)
	default:
		return nil
	}
}

// Trending returns the most signalled books inside the window. A limit of
// zero or less uses the configured limit.
func (t *Tracker) Trending(ctx context.Context, limit int) ([]domain.BookTally, error) {
	if limit <= 0 {
		limit = t.opts.Limit
	}
	since := t.now().Add(-t.opts.Window)
	tallies, err := t.signals.TopBooks(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query trending books: %w", err)
	}
	t.logger.Debug("trending books computed", "since", since, "count", len(tallies))
	return tallies, nil
}

// Prune drops signals older than the retention period. It is a no-op when
// retention is disabled or the store cannot prune.
func (t *Tracker) Prune(ctx context.Context) (int, error) {
	p, ok := t.signals.(Pruner)
	if !ok || t.opts.Retention <= 0 {
		return 0, nil
	}
	n, err := p.Prune(ctx, t.now().Add(-t.opts.Retention))
	if err != nil {
		return 0, fmt.Errorf("prune trending signals: %w", err)
	}
	if n > 0 {
		t.logger.Debug("pruned trending signals", "deleted", n)
	}
	return n, nil
}
