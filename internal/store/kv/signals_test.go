package kv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

func setupTestLog(t *testing.T) *SignalLog {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "signals")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	l, err := Open(dbPath, 0, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func record(t *testing.T, l *SignalLog, id, bookID string, at time.Time) {
	t.Helper()
	require.NoError(t, l.RecordSignal(context.Background(), domain.TrendingSignal{
		ID: id, BookID: bookID, RecordedAt: at,
	}))
}

func TestTopBooks_CountsInsideWindow(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record(t, l, "s1", "book-a", now.Add(-48*time.Hour))
	record(t, l, "s2", "book-a", now.Add(-47*time.Hour))
	record(t, l, "s3", "book-b", now.Add(-time.Hour))
	record(t, l, "s4", "book-b", now.Add(-time.Minute))
	record(t, l, "s5", "book-a", now.Add(-time.Minute))

	top, err := l.TopBooks(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{
		{BookID: "book-b", Signals: 2},
		{BookID: "book-a", Signals: 1},
	}, top)

	top, err = l.TopBooks(ctx, now.Add(-72*time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{{BookID: "book-a", Signals: 3}}, top)
}

func TestTopBooks_TiesOrderedByBookID(t *testing.T) {
	l := setupTestLog(t)
	now := time.Now().UTC()

	record(t, l, "s1", "book-z", now)
	record(t, l, "s2", "book-m", now)

	top, err := l.TopBooks(context.Background(), now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "book-m", top[0].BookID)
	assert.Equal(t, "book-z", top[1].BookID)
}

func TestTopBooks_Empty(t *testing.T) {
	l := setupTestLog(t)

	top, err := l.TopBooks(context.Background(), time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecordSignal_DuplicatesAllCount(t *testing.T) {
	l := setupTestLog(t)
	now := time.Now().UTC()

	var wg sync.WaitGroup
	for i := range 25 {
		wg.Go(func() {
			err := l.RecordSignal(context.Background(), domain.TrendingSignal{
				ID: fmt.Sprintf("s%02d", i), BookID: "book-a", RecordedAt: now,
			})
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	top, err := l.TopBooks(context.Background(), now.Add(-time.Second), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{{BookID: "book-a", Signals: 25}}, top)
}

func TestPrune(t *testing.T) {
	l := setupTestLog(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	record(t, l, "old-1", "book-a", now.Add(-30*24*time.Hour))
	record(t, l, "old-2", "book-b", now.Add(-10*24*time.Hour))
	record(t, l, "new-1", "book-a", now.Add(-time.Hour))

	n, err := l.Prune(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	top, err := l.TopBooks(ctx, time.Unix(0, 0), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{{BookID: "book-a", Signals: 1}}, top)
}

func TestTimestampFromKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 5, time.UTC)
	key := string(signalKey(domain.TrendingSignal{ID: "abc", RecordedAt: at}))

	ts, ok := timestampFromKey(key)
	require.True(t, ok)
	assert.Equal(t, at.UnixNano(), ts)

	_, ok = timestampFromKey("other:123:abc")
	assert.False(t, ok)
}
