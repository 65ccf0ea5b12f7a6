package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/search"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// SearchIndexer keeps the search index in step with catalogue writes.
// BookService calls it after each successful change.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	IndexGenre(ctx context.Context, g *domain.Genre) error
	IndexAuthor(ctx context.Context, a *domain.Author) error
}

// NoopSearchIndexer is a SearchIndexer that does nothing.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// IndexGenre is a no-op.
func (NoopSearchIndexer) IndexGenre(context.Context, *domain.Genre) error { return nil }

// IndexAuthor is a no-op.
func (NoopSearchIndexer) IndexAuthor(context.Context, *domain.Author) error { return nil }

// SearchService provides full-text search across books, genres, and authors.
// It bridges the search index with the store, building denormalized
// documents and executing queries.
type SearchService struct {
	index        *search.SearchIndex
	store        store.Store
	defaultLimit int
	logger       *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, st store.Store, defaultLimit int, logger *slog.Logger) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = store.DefaultPageSize
	}
	return &SearchService{
		index:        index,
		store:        st,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// SearchRequest describes a catalogue search.
type SearchRequest struct {
	Query      string
	Types      []string
	GenreSlugs []string
	SortBy     string
	Limit      int
	Offset     int
}

// Search runs a catalogue search. Unknown document types or sort orders
// fail validation; the limit is clamped to the maximum page size.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*dto.Result[*search.SearchResult], error) {
	params := search.SearchParams{
		Query:      cleanText(req.Query),
		GenreSlugs: req.GenreSlugs,
		Limit:      req.Limit,
		Offset:     max(req.Offset, 0),
		SortBy:     req.SortBy,
	}
	for _, t := range req.Types {
		dt := search.DocType(strings.ToLower(strings.TrimSpace(t)))
		if !dt.Valid() {
			return fail[*search.SearchResult](domainerrors.Validationf("unknown search type %q", t))
		}
		params.Types = append(params.Types, dt)
	}
	switch params.SortBy {
	case "", "relevance", "name", "recent":
	default:
		return fail[*search.SearchResult](domainerrors.Validationf("cannot sort search results by %q", params.SortBy))
	}
	if params.Limit <= 0 {
		params.Limit = s.defaultLimit
	}
	params.Limit = min(params.Limit, store.MaxPageSize)

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("search executed", "query", params.Query, "total", result.Total, "took_ms", result.TookMs)
	return dto.Ok(result), nil
}

// IndexBook indexes a book with its genre and author names.
func (s *SearchService) IndexBook(ctx context.Context, book *domain.Book) error {
	doc, err := s.buildBookDocument(ctx, book)
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	if err := s.index.IndexDocument(doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	s.logger.Debug("indexed book", "id", book.ID, "title", book.Title)
	return nil
}

// DeleteBook removes a book from the index.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// IndexGenre indexes a single genre.
func (s *SearchService) IndexGenre(_ context.Context, g *domain.Genre) error {
	if err := s.index.IndexDocument(search.GenreToSearchDocument(g)); err != nil {
		return fmt.Errorf("index genre: %w", err)
	}
	s.logger.Debug("indexed genre", "id", g.ID, "name", g.Name)
	return nil
}

// IndexAuthor indexes a single author.
func (s *SearchService) IndexAuthor(_ context.Context, a *domain.Author) error {
	if err := s.index.IndexDocument(search.AuthorToSearchDocument(a)); err != nil {
		return fmt.Errorf("index author: %w", err)
	}
	s.logger.Debug("indexed author", "id", a.ID, "name", a.Name)
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll drops the index and rebuilds it from the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	indexedBooks := 0
	page := store.PageParams{Page: 1, Size: store.MaxPageSize}
	for {
		books, err := s.store.ListBooks(ctx, "", page)
		if err != nil {
			return fmt.Errorf("list books: %w", err)
		}
		docs := make([]*search.SearchDocument, 0, len(books.Items))
		for _, book := range books.Items {
			doc, err := s.buildBookDocument(ctx, book)
			if err != nil {
				s.logger.Warn("failed to build book document", "id", book.ID, "error", err)
				continue
			}
			docs = append(docs, doc)
		}
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index books: %w", err)
		}
		indexedBooks += len(docs)
		if !books.HasMore {
			break
		}
		page.Page++
	}
	s.logger.Info("indexed books", "count", indexedBooks)

	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return fmt.Errorf("list genres: %w", err)
	}
	genreDocs := make([]*search.SearchDocument, len(genres))
	for i, g := range genres {
		genreDocs[i] = search.GenreToSearchDocument(g)
	}
	if err := s.index.IndexDocuments(genreDocs); err != nil {
		return fmt.Errorf("index genres: %w", err)
	}
	s.logger.Info("indexed genres", "count", len(genreDocs))

	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return fmt.Errorf("list authors: %w", err)
	}
	authorDocs := make([]*search.SearchDocument, len(authors))
	for i, a := range authors {
		authorDocs[i] = search.AuthorToSearchDocument(a)
	}
	if err := s.index.IndexDocuments(authorDocs); err != nil {
		return fmt.Errorf("index authors: %w", err)
	}
	s.logger.Info("indexed authors", "count", len(authorDocs))

	total, _ := s.index.DocumentCount()
	s.logger.Info("full reindex complete", "total_documents", total)
	return nil
}

// buildBookDocument resolves the book's genres and authors in one query each.
func (s *SearchService) buildBookDocument(ctx context.Context, book *domain.Book) (*search.SearchDocument, error) {
	genres, err := s.store.GetGenresByIDs(ctx, book.GenreIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	authors, err := s.store.GetAuthorsByIDs(ctx, book.AuthorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch authors: %w", err)
	}
	return search.BookToSearchDocument(book, genres, authors), nil
}
