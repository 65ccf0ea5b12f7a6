package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostKind_Valid(t *testing.T) {
	assert.True(t, PostKindReview.Valid())
	assert.True(t, PostKindPlaylist.Valid())
	assert.True(t, PostKindDiscussion.Valid())
	assert.False(t, PostKind("poll").Valid())
	assert.False(t, PostKind("").Valid())
}

func TestPost_Books(t *testing.T) {
	review := &Post{Kind: PostKindReview, BookID: "book-1"}
	assert.Equal(t, []string{"book-1"}, review.Books())
	assert.True(t, review.ContainsBook("book-1"))

	playlist := &Post{Kind: PostKindPlaylist, BookIDs: []string{"book-1", "book-2"}}
	assert.Equal(t, []string{"book-1", "book-2"}, playlist.Books())
	assert.True(t, playlist.ContainsBook("book-2"))
	assert.False(t, playlist.ContainsBook("book-3"))

	assert.Nil(t, (&Post{Kind: PostKindReview}).Books())
}

func TestRelationFor(t *testing.T) {
	rel, ok := RelationFor(PostKindPlaylist)
	assert.True(t, ok)
	assert.Equal(t, RelationPlaylistBook, rel)

	rel, ok = RelationFor(PostKindDiscussion)
	assert.True(t, ok)
	assert.Equal(t, RelationDiscussionBook, rel)

	_, ok = RelationFor(PostKindReview)
	assert.False(t, ok)
}

func TestRelation_Members(t *testing.T) {
	assert.Equal(t, "genres", RelationBookGenre.Members())
	assert.Equal(t, "authors", RelationBookAuthor.Members())
	assert.Equal(t, "books", RelationPlaylistBook.Members())
	assert.Equal(t, "books", RelationDiscussionBook.Members())
}
