package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

type fakePicker struct {
	byGenre map[string][]*domain.Book
	all     []*domain.Book
}

func (f *fakePicker) RandomBooksInGenre(_ context.Context, genreID string, count int) ([]*domain.Book, error) {
	books := f.byGenre[genreID]
	if len(books) > count {
		books = books[:count]
	}
	return books, nil
}

func (f *fakePicker) RandomBooks(_ context.Context, count int) ([]*domain.Book, error) {
	if len(f.all) > count {
		return f.all[:count], nil
	}
	return f.all, nil
}

func TestRecommender_FallsBackToRandomBooks(t *testing.T) {
	ledger, _ := setupTestLedger()
	picker := &fakePicker{all: []*domain.Book{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}}}

	books, err := NewRecommender(ledger, picker).Recommend(context.Background(), "u1", 2)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestRecommender_PrefersTopGenresWithoutDuplicates(t *testing.T) {
	ledger, _ := setupTestLedger()
	ctx := context.Background()
	_, _ = ledger.Increment(ctx, "u1", "g1")
	_, _ = ledger.Increment(ctx, "u1", "g1")
	_, _ = ledger.Increment(ctx, "u1", "g2")

	shared := &domain.Book{ID: "shared"}
	picker := &fakePicker{byGenre: map[string][]*domain.Book{
		"g1": {{ID: "a"}, shared},
		"g2": {shared, {ID: "b"}},
	}}

	books, err := NewRecommender(ledger, picker).Recommend(ctx, "u1", 10)
	require.NoError(t, err)

	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	assert.Equal(t, []string{"a", "shared", "b"}, ids)
}

func TestRecommender_ZeroCount(t *testing.T) {
	ledger, _ := setupTestLedger()
	books, err := NewRecommender(ledger, &fakePicker{}).Recommend(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, books)
}
