package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestBook(t *testing.T, s *Store, title string) *domain.Book {
	t.Helper()
	b := &domain.Book{ID: id.MustGenerate(id.PrefixBook), Title: title}
	b.InitTimestamps()
	require.NoError(t, s.CreateBook(context.Background(), b))
	return b
}

func createTestGenre(t *testing.T, s *Store, name string) *domain.Genre {
	t.Helper()
	g := &domain.Genre{ID: id.MustGenerate(id.PrefixGenre), Name: name, Slug: name}
	g.InitTimestamps()
	require.NoError(t, s.CreateGenre(context.Background(), g))
	return g
}

func createTestAuthor(t *testing.T, s *Store, name string) *domain.Author {
	t.Helper()
	a := &domain.Author{ID: id.MustGenerate(id.PrefixAuthor), Name: name}
	a.InitTimestamps()
	require.NoError(t, s.CreateAuthor(context.Background(), a))
	return a
}

func createTestPost(t *testing.T, s *Store, p *domain.Post) *domain.Post {
	t.Helper()
	if p.ID == "" {
		p.ID = id.MustGenerate(id.PrefixPost)
	}
	if p.CreatedAt.IsZero() {
		p.InitTimestamps()
	}
	require.NoError(t, s.CreatePost(context.Background(), p))
	return p
}

func createTestComment(t *testing.T, s *Store, postID, userID string) *domain.Comment {
	t.Helper()
	c := &domain.Comment{ID: id.MustGenerate(id.PrefixComment), PostID: postID, UserID: userID, Content: "nice"}
	c.InitTimestamps()
	require.NoError(t, s.CreateComment(context.Background(), c))
	return c
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"books", "genres", "authors", "book_genres", "book_authors",
		"posts", "post_books", "post_likes", "comments", "comment_likes",
		"recommendation_points", "trending_signals",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 30, 0, 120, time.UTC)
	got, err := parseTime(formatTime(now))
	require.NoError(t, err)
	require.True(t, now.Equal(got))

	// Fixed width keeps lexical and chronological order aligned.
	require.Less(t, formatTime(now), formatTime(now.Add(time.Nanosecond)))
	require.Less(t, formatTime(now.Add(-time.Second)), formatTime(now))
}
