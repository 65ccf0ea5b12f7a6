package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/genre"
	"github.com/yaqraapp/yaqra-server/internal/id"
	"github.com/yaqraapp/yaqra-server/internal/membership"
	"github.com/yaqraapp/yaqra-server/internal/store"
	"github.com/yaqraapp/yaqra-server/internal/trending"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

// BookService orchestrates the book catalogue: books, their genre and author
// sets, reviews listings, and trending books.
type BookService struct {
	store     store.Store
	enricher  *dto.Enricher
	tracker   *trending.Tracker
	validator *validation.Validator
	pages     Pagination
	logger    *slog.Logger

	searchIndexer SearchIndexer
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, tracker *trending.Tracker, v *validation.Validator, pages Pagination, logger *slog.Logger) *BookService {
	return &BookService{
		store:     st,
		enricher:  dto.NewEnricher(st),
		tracker:   tracker,
		validator: v,
		pages:     pages,
		logger:    logger,

		searchIndexer: NoopSearchIndexer{},
	}
}

// SetSearchIndexer sets the indexer that keeps search in sync with the
// catalogue. A nil indexer disables indexing.
func (s *BookService) SetSearchIndexer(indexer SearchIndexer) {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	s.searchIndexer = indexer
}

// syncBook reindexes a book after a write. Index failures are logged and
// do not fail the write.
func (s *BookService) syncBook(ctx context.Context, bookID string) {
	book, err := s.store.GetBook(ctx, bookID)
	if err == nil {
		err = s.searchIndexer.IndexBook(ctx, book)
	}
	if err != nil {
		s.logger.Warn("failed to index book", "book_id", bookID, "error", err)
	}
}

// AddBookRequest contains fields for adding a book to the catalogue.
type AddBookRequest struct {
	Title         string   `json:"title" validate:"required,max=300"`
	Description   string   `json:"description" validate:"max=5000"`
	NumberOfPages int      `json:"number_of_pages" validate:"gte=0"`
	GenreIDs      []string `json:"genre_ids" validate:"max=20"`
	AuthorIDs     []string `json:"author_ids" validate:"max=20"`
}

// AddBook creates a book and links the given genres and authors.
// Unknown genre or author IDs are skipped.
func (s *BookService) AddBook(ctx context.Context, req AddBookRequest) (*dto.Result[dto.BookView], error) {
	req.Title = cleanText(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.BookView](err)
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, err
	}
	book := &domain.Book{
		ID:            bookID,
		Title:         req.Title,
		Description:   req.Description,
		NumberOfPages: req.NumberOfPages,
	}
	book.InitTimestamps()
	if err := s.store.CreateBook(ctx, book); err != nil {
		return fail[dto.BookView](storeErr(err, "create", "book"))
	}

	for rel, ids := range map[domain.Relation][]string{
		domain.RelationBookGenre:  req.GenreIDs,
		domain.RelationBookAuthor: req.AuthorIDs,
	} {
		diff := membership.Reconcile(membership.OpAdd, nil, ids)
		if diff.NoOp {
			continue
		}
		if _, err := s.store.LinkBookMembers(ctx, bookID, membership.References(rel, diff.ToAdd)); err != nil {
			return nil, fmt.Errorf("link %s to book %s: %w", rel.Members(), bookID, err)
		}
	}

	s.logger.Info("book added", "book_id", bookID, "title", book.Title)
	s.syncBook(ctx, bookID)
	return s.view(ctx, bookID)
}

// GetBook returns a book with its genres, authors, and rating.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*dto.Result[dto.BookView], error) {
	return s.view(ctx, bookID)
}

// DeleteBook removes a book and every association, review, and signal
// attached to it. The result is the deleted book's ID.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) (*dto.Result[string], error) {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fail[string](storeErr(err, "delete", "book"))
	}
	s.logger.Info("book deleted", "book_id", bookID)
	if err := s.searchIndexer.DeleteBook(ctx, bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}
	return dto.Ok(bookID), nil
}

// UpdateBookRequest contains the book fields to change. Nil fields are left
// as they are.
type UpdateBookRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=300"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	NumberOfPages *int    `json:"number_of_pages" validate:"omitempty,gte=0"`
}

// UpdateBook edits a book's own fields. Genre and author sets are changed
// through the membership operations.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req UpdateBookRequest) (*dto.Result[dto.BookView], error) {
	req.Title = cleanOptional(req.Title)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.BookView](err)
	}
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return fail[dto.BookView](storeErr(err, "get", "book"))
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.NumberOfPages != nil {
		book.NumberOfPages = *req.NumberOfPages
	}
	book.Touch()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return fail[dto.BookView](storeErr(err, "update", "book"))
	}

	s.logger.Info("book updated", "book_id", bookID)
	s.syncBook(ctx, bookID)
	return s.view(ctx, bookID)
}

// ListBooks returns a page of books, newest first, optionally filtered by a
// title substring. Without a filter it is the recently added listing.
func (s *BookService) ListBooks(ctx context.Context, title string, page store.PageParams) (*dto.Result[*store.Page[dto.BookView]], error) {
	page.Validate(s.pages.Books)
	books, err := s.store.ListBooks(ctx, cleanText(title), page)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	views, err := s.enricher.Books(ctx, books.Items)
	if err != nil {
		return nil, err
	}
	return dto.Ok(store.NewPage(views, page, books.Total)), nil
}

// AddGenresToBook links the genres the book does not have yet.
func (s *BookService) AddGenresToBook(ctx context.Context, bookID string, genreIDs []string) (*dto.Result[dto.BookView], error) {
	return s.addMembers(ctx, bookID, domain.RelationBookGenre, genreIDs)
}

// RemoveGenresFromBook unlinks the requested genres the book has.
func (s *BookService) RemoveGenresFromBook(ctx context.Context, bookID string, genreIDs []string) (*dto.Result[dto.BookView], error) {
	return s.removeMembers(ctx, bookID, domain.RelationBookGenre, genreIDs)
}

// AddAuthorsToBook links the authors the book does not have yet.
func (s *BookService) AddAuthorsToBook(ctx context.Context, bookID string, authorIDs []string) (*dto.Result[dto.BookView], error) {
	return s.addMembers(ctx, bookID, domain.RelationBookAuthor, authorIDs)
}

// RemoveAuthorsFromBook unlinks the requested authors the book has.
func (s *BookService) RemoveAuthorsFromBook(ctx context.Context, bookID string, authorIDs []string) (*dto.Result[dto.BookView], error) {
	return s.removeMembers(ctx, bookID, domain.RelationBookAuthor, authorIDs)
}

func (s *BookService) addMembers(ctx context.Context, bookID string, rel domain.Relation, requested []string) (*dto.Result[dto.BookView], error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return fail[dto.BookView](storeErr(err, "get", "book"))
	}

	refs, err := membership.Add(rel, bookMembers(book, rel), requested)
	if err != nil {
		s.logger.Debug("nothing to add", "book_id", bookID, "relation", rel)
		return fail[dto.BookView](err)
	}

	linked, err := s.store.LinkBookMembers(ctx, bookID, refs)
	if err != nil {
		return fail[dto.BookView](storeErr(err, "link "+rel.Members()+" to", "book"))
	}
	if len(linked) == 0 {
		return fail[dto.BookView](domainerrors.NotFoundf("%s not found", rel.Members()))
	}

	s.logger.Info("book members added", "book_id", bookID, "relation", rel, "count", len(linked))
	s.syncBook(ctx, bookID)
	return s.view(ctx, bookID)
}

func (s *BookService) removeMembers(ctx context.Context, bookID string, rel domain.Relation, requested []string) (*dto.Result[dto.BookView], error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return fail[dto.BookView](storeErr(err, "get", "book"))
	}

	toRemove, err := membership.Remove(rel, bookMembers(book, rel), requested)
	if err != nil {
		s.logger.Debug("nothing to remove", "book_id", bookID, "relation", rel)
		return fail[dto.BookView](err)
	}

	removed, err := s.store.UnlinkBookMembers(ctx, bookID, rel, toRemove)
	if err != nil {
		return nil, fmt.Errorf("unlink %s from book %s: %w", rel.Members(), bookID, err)
	}
	if len(removed) == 0 {
		return fail[dto.BookView](domainerrors.NoChange("no " + rel.Members() + " to remove"))
	}

	s.logger.Info("book members removed", "book_id", bookID, "relation", rel, "count", len(removed))
	s.syncBook(ctx, bookID)
	return s.view(ctx, bookID)
}

func bookMembers(b *domain.Book, rel domain.Relation) []string {
	if rel == domain.RelationBookAuthor {
		return b.AuthorIDs
	}
	return b.GenreIDs
}

func (s *BookService) view(ctx context.Context, bookID string) (*dto.Result[dto.BookView], error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return fail[dto.BookView](storeErr(err, "get", "book"))
	}
	v, err := s.enricher.Book(ctx, book)
	if err != nil {
		return nil, err
	}
	return dto.Ok(v), nil
}

// GetBookReviews returns a page of the book's reviews. An empty sort field
// lists the newest reviews first.
func (s *BookService) GetBookReviews(ctx context.Context, bookID string, sort store.ReviewSort, page store.PageParams) (*dto.Result[*store.Page[dto.ReviewView]], error) {
	if sort.Field == "" {
		sort = store.ReviewSort{Field: "created_at", Desc: true}
	}
	if sort.Field != "created_at" && sort.Field != "rating" {
		return fail[*store.Page[dto.ReviewView]](domainerrors.Validationf("cannot sort reviews by %q", sort.Field))
	}
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return fail[*store.Page[dto.ReviewView]](storeErr(err, "get", "book"))
	}

	page.Validate(s.pages.Posts)
	reviews, err := s.store.ListBookReviews(ctx, bookID, sort, page)
	if err != nil {
		return nil, fmt.Errorf("list reviews of book %s: %w", bookID, err)
	}
	idx, err := s.enricher.IndexPosts(ctx, reviews.Items)
	if err != nil {
		return nil, err
	}
	return dto.Ok(store.MapPage(reviews, func(p *domain.Post) dto.ReviewView {
		return dto.ProjectReview(p, idx)
	})), nil
}

// GetTrendingBooks returns the books with the most engagement inside the
// trending window. A limit of zero uses the configured default.
func (s *BookService) GetTrendingBooks(ctx context.Context, limit int) (*dto.Result[[]dto.TrendingBookView], error) {
	tallies, err := s.tracker.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tallies))
	for i, t := range tallies {
		ids[i] = t.BookID
	}
	books, err := s.store.GetBooksByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch trending books: %w", err)
	}
	views, err := s.enricher.Books(ctx, books)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]dto.BookView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}

	out := make([]dto.TrendingBookView, 0, len(tallies))
	for _, t := range tallies {
		if v, ok := byID[t.BookID]; ok {
			out = append(out, dto.TrendingBookView{Book: v, Signals: t.Signals})
		}
	}
	return dto.Ok(out), nil
}

// CreateGenreRequest contains fields for creating a genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateGenre creates a genre. Names that slugify to an existing genre's slug
// are rejected.
func (s *BookService) CreateGenre(ctx context.Context, req CreateGenreRequest) (*dto.Result[dto.GenreView], error) {
	req.Name = cleanText(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.GenreView](err)
	}
	slug := genre.Slugify(req.Name)
	if slug == "" {
		return fail[dto.GenreView](domainerrors.Validation("genre name must contain letters or digits"))
	}

	genreID, err := id.Generate(id.PrefixGenre)
	if err != nil {
		return nil, err
	}
	g := &domain.Genre{ID: genreID, Name: req.Name, Slug: slug}
	g.InitTimestamps()
	if err := s.store.CreateGenre(ctx, g); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return fail[dto.GenreView](domainerrors.AlreadyExists(fmt.Sprintf("genre %q already exists", req.Name)))
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.logger.Info("genre created", "genre_id", g.ID, "name", g.Name, "slug", g.Slug)
	if err := s.searchIndexer.IndexGenre(ctx, g); err != nil {
		s.logger.Warn("failed to index genre", "genre_id", g.ID, "error", err)
	}
	return dto.Ok(dto.ProjectGenre(g)), nil
}

// ListGenres returns every genre ordered by name.
func (s *BookService) ListGenres(ctx context.Context) (*dto.Result[[]dto.GenreView], error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	out := make([]dto.GenreView, len(genres))
	for i, g := range genres {
		out[i] = dto.ProjectGenre(g)
	}
	return dto.Ok(out), nil
}

// CreateAuthorRequest contains fields for creating an author.
type CreateAuthorRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Bio  string `json:"bio" validate:"max=5000"`
}

// CreateAuthor creates an author.
func (s *BookService) CreateAuthor(ctx context.Context, req CreateAuthorRequest) (*dto.Result[dto.AuthorView], error) {
	req.Name = cleanText(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return fail[dto.AuthorView](err)
	}

	authorID, err := id.Generate(id.PrefixAuthor)
	if err != nil {
		return nil, err
	}
	a := &domain.Author{ID: authorID, Name: req.Name, Bio: req.Bio}
	a.InitTimestamps()
	if err := s.store.CreateAuthor(ctx, a); err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	s.logger.Info("author created", "author_id", a.ID, "name", a.Name)
	if err := s.searchIndexer.IndexAuthor(ctx, a); err != nil {
		s.logger.Warn("failed to index author", "author_id", a.ID, "error", err)
	}
	return dto.Ok(dto.ProjectAuthor(a)), nil
}
