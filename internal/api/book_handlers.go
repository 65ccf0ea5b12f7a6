package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Add book",
		Description: "Adds a book to the catalog and links the given genres and authors",
		Tags:        []string{"Books"},
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Lists books newest first, optionally filtered by title",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTrendingBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/trending",
		Summary:     "Trending books",
		Description: "Returns the books with the most engagement in the trending window",
		Tags:        []string{"Books"},
	}, s.handleGetTrendingBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its genres, authors and rating",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates a book's title, description or page count",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book and unlinks it from every post",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/reviews",
		Summary:     "Book reviews",
		Description: "Lists reviews of a book, newest first unless sorted otherwise",
		Tags:        []string{"Books"},
	}, s.handleGetBookReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "addGenresToBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/genres",
		Summary:     "Add genres to book",
		Description: "Links genres to a book. Genres already linked are ignored",
		Tags:        []string{"Books"},
	}, s.handleAddGenresToBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeGenresFromBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/genres",
		Summary:     "Remove genres from book",
		Description: "Unlinks genres from a book. Genres not linked are ignored",
		Tags:        []string{"Books"},
	}, s.handleRemoveGenresFromBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "addAuthorsToBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/authors",
		Summary:     "Add authors to book",
		Tags:        []string{"Books"},
	}, s.handleAddAuthorsToBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAuthorsFromBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/authors",
		Summary:     "Remove authors from book",
		Tags:        []string{"Books"},
	}, s.handleRemoveAuthorsFromBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAuthor",
		Method:      http.MethodPost,
		Path:        "/api/v1/authors",
		Summary:     "Create author",
		Tags:        []string{"Authors"},
	}, s.handleCreateAuthor)
}

// === DTOs ===

// AddBookBody is the request body for adding a book.
type AddBookBody struct {
	Title         string   `json:"title" maxLength:"300" doc:"Book title"`
	Description   string   `json:"description,omitempty" maxLength:"5000" doc:"Book description"`
	NumberOfPages int      `json:"number_of_pages,omitempty" minimum:"0" doc:"Page count"`
	GenreIDs      []string `json:"genre_ids,omitempty" maxItems:"20" doc:"Genres to link"`
	AuthorIDs     []string `json:"author_ids,omitempty" maxItems:"20" doc:"Authors to link"`
}

// AddBookInput wraps the add book request.
type AddBookInput struct {
	Body AddBookBody
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	PageQuery
	Title string `query:"title" doc:"Case-insensitive title filter"`
}

// TrendingBooksInput contains parameters for trending books.
type TrendingBooksInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"100" doc:"Number of books, 0 for the configured default"`
}

// BookIDInput identifies a book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookBody is the request body for updating a book.
type UpdateBookBody struct {
	Title         *string `json:"title,omitempty" maxLength:"300" doc:"New title"`
	Description   *string `json:"description,omitempty" maxLength:"5000" doc:"New description"`
	NumberOfPages *int    `json:"number_of_pages,omitempty" minimum:"0" doc:"New page count"`
}

// UpdateBookInput wraps the update book request.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookBody
}

// BookReviewsInput contains parameters for listing a book's reviews.
type BookReviewsInput struct {
	PageQuery
	ID   string `path:"id" doc:"Book ID"`
	Sort string `query:"sort" enum:"created_at,rating" doc:"Sort field"`
	Desc bool   `query:"desc" default:"true" doc:"Sort descending"`
}

// BookMembersInput adds or removes genres or authors on a book.
type BookMembersInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body IDsRequest
}

// CreateAuthorBody is the request body for creating an author.
type CreateAuthorBody struct {
	Name string `json:"name" maxLength:"200" doc:"Author name"`
	Bio  string `json:"bio,omitempty" maxLength:"5000" doc:"Short biography"`
}

// CreateAuthorInput wraps the create author request.
type CreateAuthorInput struct {
	Body CreateAuthorBody
}

// === Handlers ===

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*ResultOutput[dto.BookView], error) {
	return respondCreated(s.services.Book.AddBook(ctx, service.AddBookRequest{
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		NumberOfPages: input.Body.NumberOfPages,
		GenreIDs:      input.Body.GenreIDs,
		AuthorIDs:     input.Body.AuthorIDs,
	}))
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ResultOutput[*store.Page[dto.BookView]], error) {
	return respond(s.services.Book.ListBooks(ctx, input.Title, input.params()))
}

func (s *Server) handleGetTrendingBooks(ctx context.Context, input *TrendingBooksInput) (*ResultOutput[[]dto.TrendingBookView], error) {
	return respond(s.services.Book.GetTrendingBooks(ctx, input.Limit))
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.GetBook(ctx, input.ID))
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.UpdateBook(ctx, input.ID, service.UpdateBookRequest{
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		NumberOfPages: input.Body.NumberOfPages,
	}))
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*ResultOutput[string], error) {
	return respond(s.services.Book.DeleteBook(ctx, input.ID))
}

func (s *Server) handleGetBookReviews(ctx context.Context, input *BookReviewsInput) (*ResultOutput[*store.Page[dto.ReviewView]], error) {
	sort := store.ReviewSort{Field: input.Sort, Desc: input.Desc}
	return respond(s.services.Book.GetBookReviews(ctx, input.ID, sort, input.params()))
}

func (s *Server) handleAddGenresToBook(ctx context.Context, input *BookMembersInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.AddGenresToBook(ctx, input.ID, input.Body.IDs))
}

func (s *Server) handleRemoveGenresFromBook(ctx context.Context, input *BookMembersInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.RemoveGenresFromBook(ctx, input.ID, input.Body.IDs))
}

func (s *Server) handleAddAuthorsToBook(ctx context.Context, input *BookMembersInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.AddAuthorsToBook(ctx, input.ID, input.Body.IDs))
}

func (s *Server) handleRemoveAuthorsFromBook(ctx context.Context, input *BookMembersInput) (*ResultOutput[dto.BookView], error) {
	return respond(s.services.Book.RemoveAuthorsFromBook(ctx, input.ID, input.Body.IDs))
}

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*ResultOutput[dto.AuthorView], error) {
	return respondCreated(s.services.Book.CreateAuthor(ctx, service.CreateAuthorRequest{
		Name: input.Body.Name,
		Bio:  input.Body.Bio,
	}))
}
