package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

func TestTogglePostLike_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := createTestPost(t, s, &domain.Post{Kind: domain.PostKindPlaylist, UserID: "u1", Title: "Mix"})

	_, err := s.TogglePostLike(ctx, p.ID, "u2")
	require.NoError(t, err)

	first, err := s.TogglePostLike(ctx, p.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{IsLiked: true, LikesCount: 2}, first)

	second, err := s.TogglePostLike(ctx, p.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.LikeState{IsLiked: false, LikesCount: 1}, second)

	liked, err := s.PostsLikedBy(ctx, "u2", []string{p.ID, "post-other"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{p.ID: true}, liked)
}

func TestToggleLike_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.TogglePostLike(ctx, "post-missing", "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.CommentLikes().ToggleLike(ctx, "comment-missing", "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestToggleLike_ConcurrentTogglesKeepCountConsistent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := createTestPost(t, s, &domain.Post{Kind: domain.PostKindPlaylist, UserID: "u1", Title: "Mix"})
	c := createTestComment(t, s, p.ID, "u1")
	likes := s.CommentLikes()

	// Ten users like once; one user toggles an even number of times.
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Go(func() {
			_, err := likes.ToggleLike(ctx, c.ID, fmt.Sprintf("user-%d", i))
			assert.NoError(t, err)
		})
	}
	for range 4 {
		wg.Go(func() {
			_, err := likes.ToggleLike(ctx, c.ID, "flipper")
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	got, err := s.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.LikeCount)

	var rows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM comment_likes WHERE comment_id = ?`, c.ID).Scan(&rows))
	assert.Equal(t, got.LikeCount, rows)
}

func TestPoints_IncrementDecrementClamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := createTestGenre(t, s, "scifi")

	n, err := s.DecrementPoints(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	pts, err := s.ListPoints(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, pts, "decrement must not create a row")

	n, err = s.IncrementPoints(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for range 3 {
		n, err = s.DecrementPoints(ctx, "u1", g.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, n)

	pts, err = s.ListPoints(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, 0, pts[0].Points)
}

func TestPoints_ConcurrentIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	g := createTestGenre(t, s, "scifi")

	var wg sync.WaitGroup
	for range 40 {
		wg.Go(func() {
			_, err := s.IncrementPoints(ctx, "u1", g.ID)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	pts, err := s.ListPoints(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, 40, pts[0].Points)
}

func TestTrendingSignals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b1 := createTestBook(t, s, "Dune")
	b2 := createTestBook(t, s, "Emma")
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	signals := []domain.TrendingSignal{
		{ID: "s1", BookID: b1.ID, RecordedAt: now.Add(-48 * time.Hour)},
		{ID: "s2", BookID: b1.ID, RecordedAt: now.Add(-48 * time.Hour)},
		{ID: "s3", BookID: b1.ID, RecordedAt: now.Add(-48 * time.Hour)},
		{ID: "s4", BookID: b2.ID, RecordedAt: now.Add(-time.Hour)},
		{ID: "s5", BookID: b2.ID, RecordedAt: now.Add(-time.Minute)},
		{ID: "s6", BookID: b1.ID, RecordedAt: now.Add(-time.Minute)},
	}
	for _, sig := range signals {
		require.NoError(t, s.RecordSignal(ctx, sig))
	}

	top, err := s.TopBooks(ctx, now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{
		{BookID: b2.ID, Signals: 2},
		{BookID: b1.ID, Signals: 1},
	}, top)

	top, err = s.TopBooks(ctx, now.Add(-72*time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookTally{{BookID: b1.ID, Signals: 4}}, top)
}
