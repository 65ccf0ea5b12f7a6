package genre

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

type memCatalogue struct {
	genres []*domain.Genre
}

func (m *memCatalogue) ListGenres(context.Context) ([]*domain.Genre, error) {
	return m.genres, nil
}

func (m *memCatalogue) CreateGenre(_ context.Context, g *domain.Genre) error {
	m.genres = append(m.genres, g)
	return nil
}

func TestSeed_Idempotent(t *testing.T) {
	c := &memCatalogue{}
	ctx := context.Background()

	created, err := Seed(ctx, c, []string{"Poetry", "Science Fiction", "science-fiction", "???"})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "poetry", created[0].Slug)
	assert.Equal(t, "science-fiction", created[1].Slug)
	assert.NotEmpty(t, created[0].ID)

	created, err = Seed(ctx, c, []string{"Poetry", "Science Fiction"})
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Len(t, c.genres, 2)
}

func TestDefaultGenres_UniqueSlugs(t *testing.T) {
	seen := map[string]string{}
	for _, name := range DefaultGenres {
		slug := Slugify(name)
		require.NotEmpty(t, slug, name)
		if prev, ok := seen[slug]; ok {
			t.Fatalf("%q and %q share slug %q", prev, name, slug)
		}
		seen[slug] = name
	}
}
