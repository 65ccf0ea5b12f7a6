package genre

import (
	"context"
	"fmt"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/id"
)

// DefaultGenres is the genre catalogue a fresh server starts with.
// Slugs are derived from the names.
var DefaultGenres = []string{
	"Fiction",
	"Novels",
	"Short Stories",
	"Poetry",
	"Classics",
	"Fantasy",
	"Science Fiction",
	"Mystery",
	"Thriller",
	"Horror",
	"Romance",
	"Historical Fiction",
	"Young Adult",
	"Children",
	"Non-Fiction",
	"Biography",
	"History",
	"Philosophy",
	"Religion",
	"Psychology",
	"Self Help",
	"Science",
	"Politics",
	"Economics",
	"Travel",
	"Art",
	"Comics",
}

// Catalogue is the part of the store that seeding needs.
type Catalogue interface {
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	CreateGenre(ctx context.Context, genre *domain.Genre) error
}

// Seed creates every name whose slug is not already present and returns the
// genres it created. Running it twice creates nothing the second time.
func Seed(ctx context.Context, c Catalogue, names []string) ([]*domain.Genre, error) {
	existing, err := c.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, g := range existing {
		seen[g.Slug] = struct{}{}
	}

	var created []*domain.Genre
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}

		g := &domain.Genre{ID: id.MustGenerate(id.PrefixGenre), Name: name, Slug: slug}
		g.InitTimestamps()
		if err := c.CreateGenre(ctx, g); err != nil {
			return created, fmt.Errorf("create genre %q: %w", name, err)
		}
		created = append(created, g)
	}
	return created, nil
}
