package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
)

// setupTestIndex creates an on-disk search index in a temp dir.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func catalogue() []*SearchDocument {
	return []*SearchDocument{
		{ID: "book-1", Type: DocTypeBook, Name: "The Hobbit", Authors: []string{"J.R.R. Tolkien"}, Genres: []string{"Fantasy"}, GenreSlugs: []string{"fantasy"}},
		{ID: "book-2", Type: DocTypeBook, Name: "The Silmarillion", Authors: []string{"J.R.R. Tolkien"}, Genres: []string{"Fantasy"}, GenreSlugs: []string{"fantasy"}},
		{ID: "book-3", Type: DocTypeBook, Name: "Gone Girl", Authors: []string{"Gillian Flynn"}, Genres: []string{"Crime"}, GenreSlugs: []string{"crime"}},
		{ID: "book-4", Type: DocTypeBook, Name: "موسم الهجرة إلى الشمال", Authors: []string{"الطيب صالح"}},
		{ID: "author-1", Type: DocTypeAuthor, Name: "J.R.R. Tolkien", Description: "Philologist and novelist"},
		{ID: "genre-1", Type: DocTypeGenre, Name: "Fantasy", GenreSlugs: []string{"fantasy"}},
	}
}

func TestNewSearchIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewSearchIndex_InMemory(t *testing.T) {
	index, err := NewSearchIndex(Options{})
	require.NoError(t, err)
	defer index.Close()

	require.NoError(t, index.IndexDocuments(catalogue()))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), count)

	require.NoError(t, index.Rebuild())
	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexAndDelete(t *testing.T) {
	index := setupTestIndex(t)

	doc := &SearchDocument{ID: "book-123", Type: DocTypeBook, Name: "Middlemarch"}
	require.NoError(t, index.IndexDocument(doc))

	// Reindexing the same ID replaces the document.
	doc.Name = "Middlemarch: A Study of Provincial Life"
	require.NoError(t, index.IndexDocument(doc))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, index.DeleteDocument("book-123"))
	require.NoError(t, index.DeleteDocument("book-123"))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexDocuments(catalogue()))
	ctx := context.Background()

	t.Run("matches authors on books", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{
			Query: "Tolkien",
			Types: []DocType{DocTypeBook},
			Limit: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), result.Total)
		for _, hit := range result.Hits {
			assert.Equal(t, DocTypeBook, hit.Type)
			assert.Equal(t, []string{"J.R.R. Tolkien"}, hit.Authors)
		}
	})

	t.Run("name match ranks first", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{Query: "Tolkien", Limit: 10})
		require.NoError(t, err)
		require.Equal(t, uint64(3), result.Total)
		assert.Equal(t, "author-1", result.Hits[0].ID)
	})

	t.Run("prefix", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{Query: "Hobb", Limit: 10})
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.Total, uint64(1))
		assert.Equal(t, "book-1", result.Hits[0].ID)
	})

	t.Run("typo", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{Query: "hobit", Limit: 10})
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.Total, uint64(1))
		assert.Equal(t, "book-1", result.Hits[0].ID)
	})

	t.Run("arabic title", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{Query: "الهجرة", Limit: 10})
		require.NoError(t, err)
		require.Equal(t, uint64(1), result.Total)
		assert.Equal(t, "book-4", result.Hits[0].ID)
	})

	t.Run("genre filter", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{
			Types:      []DocType{DocTypeBook},
			GenreSlugs: []string{"crime"},
			Limit:      10,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(1), result.Total)
		assert.Equal(t, "Gone Girl", result.Hits[0].Name)
	})

	t.Run("empty query matches all with facets", func(t *testing.T) {
		result, err := index.Search(ctx, SearchParams{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, uint64(6), result.Total)
		assert.Len(t, result.Hits, 2)

		types := map[string]int{}
		for _, f := range result.Facets.Types {
			types[f.Value] = f.Count
		}
		assert.Equal(t, map[string]int{"book": 4, "author": 1, "genre": 1}, types)
	})
}

func TestSearchIndex_Persistence(t *testing.T) {
	dir := t.TempDir()

	index1, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index1.IndexDocument(&SearchDocument{ID: "book-1", Type: DocTypeBook, Name: "Test Book"}))
	require.NoError(t, index1.Close())

	index2, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer index2.Close()

	count, err := index2.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	result, err := index2.Search(context.Background(), SearchParams{Query: "Test", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.Total)
}

func TestBookToSearchDocument(t *testing.T) {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	book := &domain.Book{
		Timestamps:    domain.Timestamps{CreatedAt: created},
		ID:            "book-123",
		Title:         "The Great Book",
		Description:   "A wonderful tale",
		NumberOfPages: 320,
	}
	genres := []*domain.Genre{{ID: "genre-1", Name: "Science Fiction", Slug: "science-fiction"}}
	authors := []*domain.Author{{ID: "author-1", Name: "Jane Author"}, {ID: "author-2", Name: "John Writer"}}

	doc := BookToSearchDocument(book, genres, authors)

	assert.Equal(t, "book-123", doc.ID)
	assert.Equal(t, DocTypeBook, doc.Type)
	assert.Equal(t, "The Great Book", doc.Name)
	assert.Equal(t, "A wonderful tale", doc.Description)
	assert.Equal(t, []string{"Jane Author", "John Writer"}, doc.Authors)
	assert.Equal(t, []string{"Science Fiction"}, doc.Genres)
	assert.Equal(t, []string{"science-fiction"}, doc.GenreSlugs)
	assert.Equal(t, created.UnixMilli(), doc.CreatedAt)

	m := doc.ToMap()
	assert.Equal(t, 320, m["pages"])
	assert.Equal(t, "book", m["type"])
}

func TestGenreAndAuthorDocuments(t *testing.T) {
	g := GenreToSearchDocument(&domain.Genre{ID: "genre-1", Name: "Poetry", Slug: "poetry"})
	assert.Equal(t, DocTypeGenre, g.Type)
	assert.Equal(t, []string{"poetry"}, g.GenreSlugs)

	a := AuthorToSearchDocument(&domain.Author{ID: "author-1", Name: "Mahmoud Darwish", Bio: "Palestinian poet"})
	assert.Equal(t, DocTypeAuthor, a.Type)
	assert.Equal(t, "Palestinian poet", a.Description)
	assert.NotContains(t, a.ToMap(), "authors")
}

func TestSearchIndex_LargeBatch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large batch test in short mode")
	}

	index := setupTestIndex(t)

	// Crosses the 500 document batch boundary.
	docs := make([]*SearchDocument, 1000)
	for i := range docs {
		docs[i] = &SearchDocument{
			ID:   fmt.Sprintf("book-%04d", i),
			Type: DocTypeBook,
			Name: fmt.Sprintf("Book Number %d", i),
		}
	}

	require.NoError(t, index.IndexDocuments(docs))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), count)
}

func TestDocType_Valid(t *testing.T) {
	assert.True(t, DocTypeBook.Valid())
	assert.True(t, DocTypeAuthor.Valid())
	assert.False(t, DocType("series").Valid())
}
