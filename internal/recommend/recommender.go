package recommend

import (
	"context"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// BookPicker draws random books from the catalogue.
type BookPicker interface {
	RandomBooksInGenre(ctx context.Context, genreID string, count int) ([]*domain.Book, error)
	RandomBooks(ctx context.Context, count int) ([]*domain.Book, error)
}

// maxGenres bounds how many of a user's top genres are sampled.
const maxGenres = 3

// Recommender suggests books from the genres a user engages with most.
type Recommender struct {
	ledger *Ledger
	books  BookPicker
}

// NewRecommender creates a recommender.
func NewRecommender(ledger *Ledger, books BookPicker) *Recommender {
	return &Recommender{ledger: ledger, books: books}
}

// Recommend returns up to count distinct books. Books come from the user's
// highest scoring genres in order; a user with no points gets random books.
func (r *Recommender) Recommend(ctx context.Context, userID string, count int) ([]*domain.Book, error) {
	if count <= 0 {
		return nil, nil
	}

	genres, err := r.ledger.TopGenres(ctx, userID, maxGenres)
	if err != nil {
		return nil, err
	}

	if len(genres) == 0 {
		books, err := r.books.RandomBooks(ctx, count)
		if err != nil {
			return nil, fmt.Errorf("pick random books: %w", err)
		}
		return books, nil
	}

	seen := make(map[string]struct{}, count)
	out := make([]*domain.Book, 0, count)
	for _, genreID := range genres {
		if len(out) == count {
			break
		}
		books, err := r.books.RandomBooksInGenre(ctx, genreID, count)
		if err != nil {
			return nil, fmt.Errorf("pick books in genre %s: %w", genreID, err)
		}
		for _, b := range books {
			if len(out) == count {
				break
			}
			if _, dup := seen[b.ID]; dup {
				continue
			}
			seen[b.ID] = struct{}{}
			out = append(out, b)
		}
	}
	return out, nil
}
