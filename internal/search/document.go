// Package search provides full-text search over the book catalogue using
// Bleve. Books, genres, and authors share one index and are told apart by
// document type.
package search

import (
	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook   DocType = "book"
	DocTypeGenre  DocType = "genre"
	DocTypeAuthor DocType = "author"
)

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	switch t {
	case DocTypeBook, DocTypeGenre, DocTypeAuthor:
		return true
	default:
		return false
	}
}

// SearchDocument is the unified document structure for the Bleve index.
// Author and genre names are copied into book documents so that one query
// finds a book by any of them.
type SearchDocument struct {
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// Book: title, Genre and Author: name
	Name        string `json:"name"`
	Description string `json:"description,omitempty"` // book description or author bio

	// Book-only
	Authors    []string `json:"authors,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	GenreSlugs []string `json:"genre_slugs,omitempty"`
	Pages      int      `json:"pages,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"created_at": d.CreatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Authors) > 0 {
		m["authors"] = d.Authors
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	if d.Pages > 0 {
		m["pages"] = d.Pages
	}

	return m
}

// BookToSearchDocument converts a book and its resolved genres and authors
// to a SearchDocument.
func BookToSearchDocument(book *domain.Book, genres []*domain.Genre, authors []*domain.Author) *SearchDocument {
	doc := &SearchDocument{
		ID:          book.ID,
		Type:        DocTypeBook,
		Name:        book.Title,
		Description: book.Description,
		Pages:       book.NumberOfPages,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
	for _, g := range genres {
		doc.Genres = append(doc.Genres, g.Name)
		doc.GenreSlugs = append(doc.GenreSlugs, g.Slug)
	}
	for _, a := range authors {
		doc.Authors = append(doc.Authors, a.Name)
	}
	return doc
}

// GenreToSearchDocument converts a genre to a SearchDocument.
func GenreToSearchDocument(g *domain.Genre) *SearchDocument {
	return &SearchDocument{
		ID:         g.ID,
		Type:       DocTypeGenre,
		Name:       g.Name,
		GenreSlugs: []string{g.Slug},
		CreatedAt:  g.CreatedAt.UnixMilli(),
	}
}

// AuthorToSearchDocument converts an author to a SearchDocument.
func AuthorToSearchDocument(a *domain.Author) *SearchDocument {
	return &SearchDocument{
		ID:          a.ID,
		Type:        DocTypeAuthor,
		Name:        a.Name,
		Description: a.Bio,
		CreatedAt:   a.CreatedAt.UnixMilli(),
	}
}
