package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/engagement"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/metrics"
	"github.com/yaqraapp/yaqra-server/internal/ratelimit"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/search"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/store/sqlite"
	"github.com/yaqraapp/yaqra-server/internal/trending"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

const asUser = userHeader + ": user-1"

type testServer struct {
	*Server
	api     humatest.TestAPI
	metrics *metrics.Metrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	ledger := recommend.NewLedger(st, logger)
	tracker := trending.NewTracker(st, trending.Options{}, logger)
	bus := events.NewBus()
	bus.Subscribe("recommend", ledger)
	bus.Subscribe("trending", tracker)
	bus.Subscribe("metrics", m)

	pages := service.Pagination{Posts: 10, Comments: 20, Books: 20}
	v := validation.New(5)
	postLikes := engagement.NewToggler(domain.SubjectPost, st.PostLikes(), m, logger)
	commentLikes := engagement.NewToggler(domain.SubjectComment, st.CommentLikes(), m, logger)

	index, err := search.NewSearchIndex(search.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	searchSvc := service.NewSearchService(index, st, 20, logger)
	books := service.NewBookService(st, tracker, v, pages, logger)
	books.SetSearchIndexer(searchSvc)

	services := &Services{
		Book:           books,
		Community:      service.NewCommunityService(st, bus, postLikes, commentLikes, v, pages, logger),
		Recommendation: service.NewRecommendationService(st, ledger, 10, 50, logger),
		Search:         searchSvc,
	}

	limiter := ratelimit.New(0.001, 2)
	t.Cleanup(limiter.Stop)

	s := NewServer(services, st, Options{LikeLimiter: limiter, Metrics: m}, logger)
	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		metrics: m,
	}
}

// envelope is the decoded form of every JSON response.
type envelope struct {
	Result       json.RawMessage `json:"result"`
	ErrorMessage string          `json:"error_message"`
	Succeeded    bool            `json:"succeeded"`
	Code         string          `json:"code"`
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func decodeResult[T any](t *testing.T, body []byte) T {
	t.Helper()
	env := decode(t, body)
	require.True(t, env.Succeeded, env.ErrorMessage)
	var out T
	require.NoError(t, json.Unmarshal(env.Result, &out))
	return out
}

func (ts *testServer) createGenre(t *testing.T, name string) string {
	t.Helper()
	resp := ts.api.Post("/api/v1/genres", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeResult[dto.GenreView](t, resp.Body.Bytes()).ID
}

func (ts *testServer) createBook(t *testing.T, title string, genreIDs ...string) string {
	t.Helper()
	body := map[string]any{"title": title}
	if len(genreIDs) > 0 {
		body["genre_ids"] = genreIDs
	}
	resp := ts.api.Post("/api/v1/books", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeResult[dto.BookView](t, resp.Body.Bytes()).ID
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("disk gone") }

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t)
	ts.db = failingPinger{}

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestBookRoutes(t *testing.T) {
	ts := setupTestServer(t)
	genreID := ts.createGenre(t, "Mystery")
	bookID := ts.createBook(t, "The Moonstone", genreID)

	t.Run("get book", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books/" + bookID)
		require.Equal(t, http.StatusOK, resp.Code)
		book := decodeResult[dto.BookView](t, resp.Body.Bytes())
		assert.Equal(t, "The Moonstone", book.Title)
		require.Len(t, book.Genres, 1)
		assert.Equal(t, "Mystery", book.Genres[0].Name)
	})

	t.Run("missing book keeps the envelope", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books/book-missing")
		require.Equal(t, http.StatusNotFound, resp.Code)
		env := decode(t, resp.Body.Bytes())
		assert.False(t, env.Succeeded)
		assert.Equal(t, "book not found", env.ErrorMessage)
	})

	t.Run("adding a linked genre is no change", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/books/"+bookID+"/genres", map[string]any{"ids": []string{genreID}})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "genres already exist", decode(t, resp.Body.Bytes()).ErrorMessage)
	})

	t.Run("remove genre", func(t *testing.T) {
		resp := ts.api.Delete("/api/v1/books/"+bookID+"/genres", map[string]any{"ids": []string{genreID}})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		assert.Empty(t, decodeResult[dto.BookView](t, resp.Body.Bytes()).Genres)
	})

	t.Run("list books by title", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/books?title=moon")
		require.Equal(t, http.StatusOK, resp.Code)
		page := decodeResult[struct {
			Items []dto.BookView `json:"items"`
			Total int            `json:"total"`
		}](t, resp.Body.Bytes())
		assert.Equal(t, 1, page.Total)
	})

	t.Run("update book", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/books/"+bookID, map[string]any{"number_of_pages": 528})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		book := decodeResult[dto.BookView](t, resp.Body.Bytes())
		assert.Equal(t, "The Moonstone", book.Title)
		assert.Equal(t, 528, book.NumberOfPages)
	})

	t.Run("missing title fails request validation", func(t *testing.T) {
		resp := ts.api.Post("/api/v1/books", map[string]any{"description": "untitled"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		env := decode(t, resp.Body.Bytes())
		assert.False(t, env.Succeeded)
		assert.Equal(t, "VALIDATION", env.Code)
	})
}

func TestSearchRoutes(t *testing.T) {
	ts := setupTestServer(t)
	genreID := ts.createGenre(t, "Gothic")
	bookID := ts.createBook(t, "Wuthering Heights", genreID)
	ts.createBook(t, "Middlemarch")

	t.Run("finds book by title", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?q=wuthering")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		res := decodeResult[search.SearchResult](t, resp.Body.Bytes())
		require.Equal(t, uint64(1), res.Total)
		assert.Equal(t, bookID, res.Hits[0].ID)
		assert.Equal(t, []string{"Gothic"}, res.Hits[0].Genres)
	})

	t.Run("filters by type and genre", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?type=book&genre=gothic")
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		res := decodeResult[search.SearchResult](t, resp.Body.Bytes())
		require.Len(t, res.Hits, 1)
		assert.Equal(t, search.DocTypeBook, res.Hits[0].Type)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		resp := ts.api.Get("/api/v1/search?type=series")
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION", decode(t, resp.Body.Bytes()).Code)
	})
}

func TestPlaylistRoutes_DriveRecommendations(t *testing.T) {
	ts := setupTestServer(t)
	genreID := ts.createGenre(t, "Poetry")
	bookID := ts.createBook(t, "Ariel", genreID)

	resp := ts.api.Post("/api/v1/playlists", map[string]any{"title": "Favourites"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decode(t, resp.Body.Bytes()).Code)

	resp = ts.api.Post("/api/v1/playlists", asUser, map[string]any{"title": "Favourites"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	playlistID := decodeResult[dto.PlaylistView](t, resp.Body.Bytes()).ID

	resp = ts.api.Post("/api/v1/playlists/"+playlistID+"/books", asUser, map[string]any{"ids": []string{bookID}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/playlists/"+playlistID+"/books", userHeader+": user-2", map[string]any{"ids": []string{bookID}})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/recommendations/points", asUser)
	require.Equal(t, http.StatusOK, resp.Code)
	points := decodeResult[[]dto.PointView](t, resp.Body.Bytes())
	require.Len(t, points, 1)
	assert.Equal(t, 1, points[0].Points)

	resp = ts.api.Get("/api/v1/books/trending")
	require.Equal(t, http.StatusOK, resp.Code)
	trending := decodeResult[[]dto.TrendingBookView](t, resp.Body.Bytes())
	require.Len(t, trending, 1)
	assert.Equal(t, bookID, trending[0].Book.ID)

	resp = ts.api.Get("/api/v1/recommendations/books?count=3", asUser)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeResult[[]dto.BookView](t, resp.Body.Bytes()), 1)
}

func TestReviewRoutes_Duplicate(t *testing.T) {
	ts := setupTestServer(t)
	bookID := ts.createBook(t, "Emma")

	body := map[string]any{"book_id": bookID, "rating": 4, "content": "Sharp."}
	resp := ts.api.Post("/api/v1/reviews", asUser, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/reviews", asUser, body)
	assert.Equal(t, http.StatusConflict, resp.Code)
	env := decode(t, resp.Body.Bytes())
	assert.False(t, env.Succeeded)
	assert.NotEmpty(t, env.ErrorMessage)

	resp = ts.api.Get("/api/v1/books/" + bookID)
	assert.Equal(t, "4.0", decodeResult[dto.BookView](t, resp.Body.Bytes()).Rating)
}

func TestLikeRoutes_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	bookID := ts.createBook(t, "Emma")
	resp := ts.api.Post("/api/v1/reviews", asUser, map[string]any{"book_id": bookID, "rating": 3})
	require.Equal(t, http.StatusCreated, resp.Code)
	reviewID := decodeResult[dto.ReviewView](t, resp.Body.Bytes()).ID

	resp = ts.api.Post("/api/v1/posts/"+reviewID+"/like", asUser)
	require.Equal(t, http.StatusOK, resp.Code)
	state := decodeResult[domain.LikeState](t, resp.Body.Bytes())
	assert.True(t, state.IsLiked)
	assert.Equal(t, 1, state.LikesCount)

	resp = ts.api.Post("/api/v1/posts/"+reviewID+"/like", asUser)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decodeResult[domain.LikeState](t, resp.Body.Bytes()).IsLiked)

	resp = ts.api.Post("/api/v1/posts/"+reviewID+"/like", asUser)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.False(t, decode(t, resp.Body.Bytes()).Succeeded)
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.APIRateLimitHits.WithLabelValues("post")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.LikeToggles.WithLabelValues("post", "like")))

	// Another user has their own bucket.
	resp = ts.api.Post("/api/v1/posts/"+reviewID+"/like", userHeader+": user-2")
	assert.Equal(t, http.StatusOK, resp.Code)

	// A false answer is still a result.
	resp = ts.api.Get("/api/v1/posts/"+reviewID+"/liked", asUser)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "false", string(decode(t, resp.Body.Bytes()).Result))
}

func TestCommentRoutes(t *testing.T) {
	ts := setupTestServer(t)
	resp := ts.api.Post("/api/v1/discussions", asUser, map[string]any{
		"title":   "Best openings",
		"content": "Which first line hooked you?",
		"tag":     "discussion",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	postID := decodeResult[dto.DiscussionView](t, resp.Body.Bytes()).ID

	resp = ts.api.Post("/api/v1/posts/"+postID+"/comments", userHeader+": user-2", map[string]any{"content": "Call me Ishmael."})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	commentID := decodeResult[dto.CommentView](t, resp.Body.Bytes()).ID

	resp = ts.api.Patch("/api/v1/comments/"+commentID, asUser, map[string]any{"content": "hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/posts/" + postID + "/comments")
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeResult[struct {
		Items []dto.CommentView `json:"items"`
	}](t, resp.Body.Bytes())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Call me Ishmael.", page.Items[0].Content)

	resp = ts.api.Post("/api/v1/comments/liked", asUser, map[string]any{"ids": []string{commentID}})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]bool{commentID: false}, decodeResult[map[string]bool](t, resp.Body.Bytes()))
}

func TestFeedRoutes(t *testing.T) {
	ts := setupTestServer(t)
	bookID := ts.createBook(t, "Persuasion")
	resp := ts.api.Post("/api/v1/reviews", asUser, map[string]any{"book_id": bookID, "rating": 5})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = ts.api.Post("/api/v1/playlists", userHeader+": user-2", map[string]any{"title": "Austen"})
	require.Equal(t, http.StatusCreated, resp.Code)

	type feedPage struct {
		Items []struct {
			Kind domain.PostKind `json:"kind"`
		} `json:"items"`
		Total int `json:"total"`
	}

	resp = ts.api.Get("/api/v1/feed")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	page := decodeResult[feedPage](t, resp.Body.Bytes())
	require.Len(t, page.Items, 2)
	assert.Equal(t, domain.PostKindPlaylist, page.Items[0].Kind)

	resp = ts.api.Get("/api/v1/feed/following?user_ids=user-1")
	require.Equal(t, http.StatusOK, resp.Code)
	page = decodeResult[feedPage](t, resp.Body.Bytes())
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.PostKindReview, page.Items[0].Kind)

	resp = ts.api.Get("/api/v1/users/user-2/posts?kind=poll")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestFallbackRoutes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nothing-here")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "route not found", decode(t, resp.Body.Bytes()).ErrorMessage)

	resp = ts.api.Get("/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "api_requests_total")
}

func TestSchemaNamer(t *testing.T) {
	one := schemaNamer(reflect.TypeFor[dto.Result[dto.BookView]](), "")
	many := schemaNamer(reflect.TypeFor[dto.Result[[]dto.BookView]](), "")
	assert.Equal(t, "ResultBookView", one)
	assert.Equal(t, "ResultListBookView", many)
	assert.Equal(t, "ResultMapStringBool", schemaNamer(reflect.TypeFor[*dto.Result[map[string]bool]](), ""))
}
