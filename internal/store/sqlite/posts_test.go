package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

func TestPosts_ReviewUniquePerUserAndBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := createTestBook(t, s, "Dune")

	createTestPost(t, s, &domain.Post{Kind: domain.PostKindReview, UserID: "u1", BookID: b.ID, Rating: 4})

	reviewed, err := s.HasReviewed(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)

	second := &domain.Post{ID: "post-second", Kind: domain.PostKindReview, UserID: "u1", BookID: b.ID, Rating: 2}
	second.InitTimestamps()
	assert.ErrorIs(t, s.CreatePost(ctx, second), store.ErrAlreadyExists)

	// A different user may review the same book.
	createTestPost(t, s, &domain.Post{Kind: domain.PostKindReview, UserID: "u2", BookID: b.ID, Rating: 5})

	scores, err := s.BookRatings(ctx, b.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{4, 5}, scores)
}

func TestLinkPostBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b1 := createTestBook(t, s, "Dune")
	b2 := createTestBook(t, s, "Emma")

	playlist := createTestPost(t, s, &domain.Post{Kind: domain.PostKindPlaylist, UserID: "u1", Title: "Mix"})

	linked, err := s.LinkPostBooks(ctx, playlist.ID, []domain.Ref{
		{Relation: domain.RelationPlaylistBook, ID: b1.ID},
		{Relation: domain.RelationPlaylistBook, ID: "book-missing"},
		{Relation: domain.RelationPlaylistBook, ID: b2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b1.ID, b2.ID}, linked)

	got, err := s.GetPost(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b1.ID, b2.ID}, got.BookIDs)

	removed, err := s.UnlinkPostBooks(ctx, playlist.ID, []string{b1.ID, "book-missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{b1.ID}, removed)
	got, err = s.GetPost(ctx, playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b2.ID}, got.BookIDs)

	// A second unlink of the same book removes nothing.
	removed, err = s.UnlinkPostBooks(ctx, playlist.ID, []string{b1.ID})
	require.NoError(t, err)
	assert.Empty(t, removed)

	// Relation must match the post kind.
	_, err = s.LinkPostBooks(ctx, playlist.ID, []domain.Ref{{Relation: domain.RelationDiscussionBook, ID: b1.ID}})
	assert.Error(t, err)

	_, err = s.LinkPostBooks(ctx, "post-missing", []domain.Ref{{Relation: domain.RelationPlaylistBook, ID: b1.ID}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListPosts_OrderAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := createTestBook(t, s, "Dune")
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	at := func(d time.Duration) domain.Timestamps {
		return domain.Timestamps{CreatedAt: base.Add(d), UpdatedAt: base.Add(d)}
	}
	createTestPost(t, s, &domain.Post{ID: "post-1", Kind: domain.PostKindReview, UserID: "u1", BookID: b.ID, Rating: 3, Timestamps: at(0)})
	createTestPost(t, s, &domain.Post{ID: "post-2", Kind: domain.PostKindPlaylist, UserID: "u2", Title: "p", Timestamps: at(time.Minute)})
	createTestPost(t, s, &domain.Post{ID: "post-3", Kind: domain.PostKindDiscussion, UserID: "u1", Title: "d",
		Tag: domain.DiscussionTagNews, Timestamps: at(2 * time.Minute)})

	all, err := s.ListPosts(ctx, store.PostFilter{}, store.PageParams{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	assert.Equal(t, "post-3", all.Items[0].ID)
	assert.Equal(t, "post-2", all.Items[1].ID)
	assert.Equal(t, "post-1", all.Items[2].ID)
	assert.Equal(t, domain.DiscussionTagNews, all.Items[0].Tag)
	assert.NotNil(t, all.Items[1].BookIDs)

	mine, err := s.ListPosts(ctx, store.PostFilter{UserIDs: []string{"u1"}}, store.PageParams{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Total)

	reviews, err := s.ListPosts(ctx, store.PostFilter{Kind: domain.PostKindReview, UserIDs: []string{"u1"}}, store.PageParams{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, reviews.Total)

	nobody, err := s.ListPosts(ctx, store.PostFilter{UserIDs: []string{}}, store.PageParams{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Zero(t, nobody.Total)
}

func TestListBookReviews_Sort(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := createTestBook(t, s, "Dune")

	createTestPost(t, s, &domain.Post{ID: "post-a", Kind: domain.PostKindReview, UserID: "u1", BookID: b.ID, Rating: 2})
	createTestPost(t, s, &domain.Post{ID: "post-b", Kind: domain.PostKindReview, UserID: "u2", BookID: b.ID, Rating: 5})

	page, err := s.ListBookReviews(ctx, b.ID, store.ReviewSort{Field: "rating", Desc: true}, store.PageParams{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Items[0].Rating)

	_, err = s.ListBookReviews(ctx, b.ID, store.ReviewSort{Field: "title; DROP TABLE posts"}, store.PageParams{Page: 1, Size: 10})
	assert.Error(t, err)
}

func TestUpdateAndDeletePost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	b := createTestBook(t, s, "Dune")

	d := createTestPost(t, s, &domain.Post{Kind: domain.PostKindDiscussion, UserID: "u1", Title: "Old", Content: "x",
		Tag: domain.DiscussionTagDiscussion})
	_, err := s.LinkPostBooks(ctx, d.ID, []domain.Ref{{Relation: domain.RelationDiscussionBook, ID: b.ID}})
	require.NoError(t, err)

	d.Title = "New"
	d.Tag = domain.DiscussionTagArticle
	d.Touch()
	require.NoError(t, s.UpdatePost(ctx, d))

	got, err := s.GetPost(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, domain.DiscussionTagArticle, got.Tag)
	assert.Equal(t, []string{b.ID}, got.BookIDs)

	c := createTestComment(t, s, d.ID, "u2")
	require.NoError(t, s.DeletePost(ctx, d.ID))
	_, err = s.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePost(ctx, d), store.ErrNotFound)
}

func TestComments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := createTestPost(t, s, &domain.Post{Kind: domain.PostKindPlaylist, UserID: "u1", Title: "Mix"})

	c1 := createTestComment(t, s, p.ID, "u2")
	createTestComment(t, s, p.ID, "u3")

	page, err := s.ListPostComments(ctx, p.ID, store.PageParams{Page: 1, Size: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 1)

	c1.Content = "edited"
	c1.Touch()
	require.NoError(t, s.UpdateComment(ctx, c1))
	got, err := s.GetComment(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	orphan := &domain.Comment{ID: "comment-orphan", PostID: "post-missing", UserID: "u1", Content: "?"}
	orphan.InitTimestamps()
	assert.ErrorIs(t, s.CreateComment(ctx, orphan), store.ErrNotFound)

	require.NoError(t, s.DeleteComment(ctx, c1.ID))
	assert.ErrorIs(t, s.DeleteComment(ctx, c1.ID), store.ErrNotFound)
}
