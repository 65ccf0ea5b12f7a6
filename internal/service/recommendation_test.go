package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationService_FollowsEngagement(t *testing.T) {
	ts := setupTestServices(t)
	ctx := context.Background()
	poetry := ts.genre(t, "Poetry")
	crime := ts.genre(t, "Crime")

	seed := ts.book(t, "Leaves of Grass", poetry)
	ts.book(t, "Ariel", poetry)
	ts.book(t, "The Big Sleep", crime)
	ts.playlist(t, "user-1", seed)

	points, err := ts.recs.GetPoints(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, points.Result, 1)
	assert.Equal(t, "Poetry", points.Result[0].Genre.Name)
	assert.Equal(t, 1, points.Result[0].Points)

	recs, err := ts.recs.RecommendBooks(ctx, "user-1", 5)
	require.NoError(t, err)
	require.True(t, recs.Succeeded)
	require.Len(t, recs.Result, 2)
	for _, b := range recs.Result {
		require.Len(t, b.Genres, 1)
		assert.Equal(t, "Poetry", b.Genres[0].Name)
	}
}

func TestRecommendationService_NewUserGetsRandomBooks(t *testing.T) {
	ts := setupTestServices(t)
	for _, title := range []string{"A", "B", "C"} {
		ts.book(t, title)
	}

	points, err := ts.recs.GetPoints(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Empty(t, points.Result)

	recs, err := ts.recs.RecommendBooks(context.Background(), "newcomer", 0)
	require.NoError(t, err)
	assert.Len(t, recs.Result, 3)
}

func TestRecommendationService_CountIsCapped(t *testing.T) {
	ts := setupTestServices(t)
	svc := NewRecommendationService(ts.store, ts.ledger, 2, 3, slog.New(slog.DiscardHandler))
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ts.book(t, title)
	}

	recs, err := svc.RecommendBooks(context.Background(), "u", 0)
	require.NoError(t, err)
	assert.Len(t, recs.Result, 2)

	recs, err = svc.RecommendBooks(context.Background(), "u", 100)
	require.NoError(t, err)
	assert.Len(t, recs.Result, 3)
}
