// Package dto holds the views returned to callers and the pure functions that
// project domain records into them.
//
// Projections are plain field copies over already fetched data. Fetching the
// related records is the Enricher's job, done in batches before projecting.
package dto

import (
	"time"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/rating"
)

// GenreView is the client-facing representation of a genre.
type GenreView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuthorView is the client-facing representation of an author.
type AuthorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookView is the client-facing representation of a book with its genres,
// authors, and derived rating.
type BookView struct {
	AddedAt       time.Time    `json:"added_at"`
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Rating        string       `json:"rating"` // "4.3" or "no rating"
	NumberOfPages int          `json:"number_of_pages,omitempty"`
	Genres        []GenreView  `json:"genres"`
	Authors       []AuthorView `json:"authors"`
}

// ProjectGenre copies a genre into its view.
func ProjectGenre(g *domain.Genre) GenreView {
	return GenreView{ID: g.ID, Name: g.Name}
}

// ProjectAuthor copies an author into its view.
func ProjectAuthor(a *domain.Author) AuthorView {
	return AuthorView{ID: a.ID, Name: a.Name}
}

// ProjectBook copies a book into its view. Genre and author IDs missing from
// the lookup maps are left out.
func ProjectBook(b *domain.Book, genres map[string]*domain.Genre, authors map[string]*domain.Author, scores []int) BookView {
	v := BookView{
		AddedAt:       b.CreatedAt,
		ID:            b.ID,
		Title:         b.Title,
		Description:   b.Description,
		NumberOfPages: b.NumberOfPages,
		Rating:        rating.Aggregate(scores).String(),
		Genres:        make([]GenreView, 0, len(b.GenreIDs)),
		Authors:       make([]AuthorView, 0, len(b.AuthorIDs)),
	}
	for _, id := range b.GenreIDs {
		if g, ok := genres[id]; ok {
			v.Genres = append(v.Genres, ProjectGenre(g))
		}
	}
	for _, id := range b.AuthorIDs {
		if a, ok := authors[id]; ok {
			v.Authors = append(v.Authors, ProjectAuthor(a))
		}
	}
	return v
}

// BookIndex maps book IDs to their projected views.
type BookIndex map[string]BookView

// Get returns the view for id.
func (idx BookIndex) Get(id string) (BookView, bool) {
	v, ok := idx[id]
	return v, ok
}

// Lookup returns views for ids in order, skipping unknown books.
func (idx BookIndex) Lookup(ids []string) []BookView {
	out := make([]BookView, 0, len(ids))
	for _, id := range ids {
		if v, ok := idx[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// TrendingBookView is a book with the number of signals it received inside
// the trending window.
type TrendingBookView struct {
	Book    BookView `json:"book"`
	Signals int      `json:"signals"`
}

// PointView is one of a user's genre engagement scores.
type PointView struct {
	Genre  GenreView `json:"genre"`
	Points int       `json:"points"`
}
