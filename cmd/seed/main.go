// Package main provides a tool to seed the database with demo catalogue and
// community data.
//
// It creates the default genres, a shelf of sample books, and playlists and
// reviews from a handful of demo users. Everything goes through the service
// layer, so recommendation points and trending signals fill in as they would
// in production.
//
// Usage:
//
//	DB_PATH=./data/yaqra.db go run ./cmd/seed
//	DB_PATH=./data/yaqra.db go run ./cmd/seed --users 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	"github.com/yaqraapp/yaqra-server/internal/engagement"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/genre"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/store/sqlite"
	"github.com/yaqraapp/yaqra-server/internal/trending"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

var users = flag.Int("users", 5, "Number of demo users to create activity for")

// sampleBooks maps titles to the genres they belong to.
var sampleBooks = []struct {
	title  string
	pages  int
	genres []string
}{
	{"Season of Migration to the North", 169, []string{"Fiction", "Classics"}},
	{"The Cairo Trilogy", 1313, []string{"Fiction", "Historical Fiction"}},
	{"Men in the Sun", 110, []string{"Short Stories", "Classics"}},
	{"The Prophet", 96, []string{"Poetry", "Philosophy"}},
	{"Dune", 412, []string{"Science Fiction"}},
	{"The Left Hand of Darkness", 304, []string{"Science Fiction", "Fiction"}},
	{"The Name of the Rose", 536, []string{"Mystery", "Historical Fiction"}},
	{"Murder on the Orient Express", 256, []string{"Mystery"}},
	{"The Hobbit", 310, []string{"Fantasy", "Young Adult"}},
	{"Sapiens", 443, []string{"History", "Non-Fiction"}},
	{"The Muqaddimah", 512, []string{"History", "Philosophy"}},
	{"Thinking, Fast and Slow", 499, []string{"Psychology", "Science"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/yaqra.db"
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	st, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	created, err := genre.Seed(ctx, st, genre.DefaultGenres)
	if err != nil {
		log.Fatalf("Failed to seed genres: %v", err)
	}
	fmt.Printf("Created %d genres\n", len(created))

	genres, err := st.ListGenres(ctx)
	if err != nil {
		log.Fatalf("Failed to list genres: %v", err)
	}
	genreIDs := make(map[string]string, len(genres))
	for _, g := range genres {
		genreIDs[g.Name] = g.ID
	}

	ledger := recommend.NewLedger(st, logger)
	tracker := trending.NewTracker(st, trending.Options{}, logger)
	bus := events.NewBus()
	bus.Subscribe("recommend", ledger)
	bus.Subscribe("trending", tracker)

	v := validation.New(5)
	pages := service.Pagination{}
	books := service.NewBookService(st, tracker, v, pages, logger)
	community := service.NewCommunityService(st, bus,
		engagement.NewToggler(domain.SubjectPost, st.PostLikes(), nil, logger),
		engagement.NewToggler(domain.SubjectComment, st.CommentLikes(), nil, logger),
		v, pages, logger)

	bookIDs := make([]string, 0, len(sampleBooks))
	for _, b := range sampleBooks {
		ids := make([]string, 0, len(b.genres))
		for _, name := range b.genres {
			if id, ok := genreIDs[name]; ok {
				ids = append(ids, id)
			}
		}
		res, err := books.AddBook(ctx, service.AddBookRequest{Title: b.title, NumberOfPages: b.pages, GenreIDs: ids})
		if err != nil {
			log.Fatalf("Failed to add book %q: %v", b.title, err)
		}
		if !res.Succeeded {
			log.Printf("Skipping book %q: %s", b.title, res.ErrorMessage)
			continue
		}
		bookIDs = append(bookIDs, res.Result.ID)
	}
	fmt.Printf("Added %d books\n", len(bookIDs))

	var previous string
	for n := range *users {
		userID := fmt.Sprintf("demo-user-%d", n+1)
		picks := pick(bookIDs, 3)

		playlist, err := community.CreatePlaylist(ctx, userID, service.CreatePlaylistRequest{
			Title:   "Favourites",
			BookIDs: picks,
		})
		if err != nil {
			log.Fatalf("Failed to create playlist for %s: %v", userID, err)
		}

		reviews := 0
		for _, bookID := range picks {
			res, err := community.AddReview(ctx, userID, service.AddReviewRequest{
				BookID: bookID,
				Rating: rand.IntN(6),
			})
			if err != nil {
				log.Fatalf("Failed to review book for %s: %v", userID, err)
			}
			if res.Succeeded {
				reviews++
			}
		}

		// Each user likes the playlist of the user before them.
		if previous != "" {
			if _, err := community.LikePost(ctx, userID, previous); err != nil {
				log.Printf("Failed to like playlist: %v", err)
			}
		}
		if playlist.Succeeded {
			previous = playlist.Result.ID
		}
		fmt.Printf("Seeded %s: 1 playlist, %d reviews\n", userID, reviews)
	}

	fmt.Println("\nDone!")
}

// pick returns up to n distinct random IDs.
func pick(ids []string, n int) []string {
	shuffled := append([]string(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(n, len(shuffled))]
}
