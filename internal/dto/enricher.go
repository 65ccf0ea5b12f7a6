package dto

import (
	"context"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// Store defines the reads the Enricher needs.
type Store interface {
	GetBooksByIDs(ctx context.Context, ids []string) ([]*domain.Book, error)
	GetGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error)
	GetAuthorsByIDs(ctx context.Context, ids []string) ([]*domain.Author, error)
	BookRatingsForBooks(ctx context.Context, bookIDs []string) (map[string][]int, error)
}

// Enricher fetches everything needed to project a set of books.
//
// One query per entity type, not per book. Missing related rows are left out
// of the views rather than failing the read.
type Enricher struct {
	store Store
}

// NewEnricher creates a new enricher.
func NewEnricher(store Store) *Enricher {
	return &Enricher{store: store}
}

// Books projects the given books.
func (e *Enricher) Books(ctx context.Context, books []*domain.Book) ([]BookView, error) {
	idx, err := e.index(ctx, books)
	if err != nil {
		return nil, err
	}
	out := make([]BookView, 0, len(books))
	for _, b := range books {
		out = append(out, idx[b.ID])
	}
	return out, nil
}

// Book projects a single book.
func (e *Enricher) Book(ctx context.Context, book *domain.Book) (BookView, error) {
	views, err := e.Books(ctx, []*domain.Book{book})
	if err != nil {
		return BookView{}, err
	}
	return views[0], nil
}

// IndexPosts builds a BookIndex covering every book referenced by posts.
func (e *Enricher) IndexPosts(ctx context.Context, posts []*domain.Post) (BookIndex, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range posts {
		for _, id := range p.Books() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return BookIndex{}, nil
	}
	books, err := e.store.GetBooksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch books: %w", err)
	}
	return e.index(ctx, books)
}

func (e *Enricher) index(ctx context.Context, books []*domain.Book) (BookIndex, error) {
	if len(books) == 0 {
		return BookIndex{}, nil
	}

	var bookIDs, genreIDs, authorIDs []string
	for _, b := range books {
		bookIDs = append(bookIDs, b.ID)
		genreIDs = append(genreIDs, b.GenreIDs...)
		authorIDs = append(authorIDs, b.AuthorIDs...)
	}

	genres, err := e.store.GetGenresByIDs(ctx, genreIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	authors, err := e.store.GetAuthorsByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}
	scores, err := e.store.BookRatingsForBooks(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch ratings: %w", err)
	}

	genreByID := make(map[string]*domain.Genre, len(genres))
	for _, g := range genres {
		genreByID[g.ID] = g
	}
	authorByID := make(map[string]*domain.Author, len(authors))
	for _, a := range authors {
		authorByID[a.ID] = a
	}

	idx := make(BookIndex, len(books))
	for _, b := range books {
		idx[b.ID] = ProjectBook(b, genreByID, authorByID, scores[b.ID])
	}
	return idx, nil
}
