package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// RecommendationService exposes a user's genre scores and the books picked
// from them.
type RecommendationService struct {
	store        store.Store
	ledger       *recommend.Ledger
	recommender  *recommend.Recommender
	enricher     *dto.Enricher
	defaultCount int
	maxCount     int
	logger       *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(st store.Store, ledger *recommend.Ledger, defaultCount, maxCount int, logger *slog.Logger) *RecommendationService {
	if defaultCount <= 0 {
		defaultCount = 10
	}
	if maxCount < defaultCount {
		maxCount = defaultCount
	}
	return &RecommendationService{
		store:        st,
		ledger:       ledger,
		recommender:  recommend.NewRecommender(ledger, st),
		enricher:     dto.NewEnricher(st),
		defaultCount: defaultCount,
		maxCount:     maxCount,
		logger:       logger,
	}
}

// GetPoints returns the user's genre scores, highest first.
func (s *RecommendationService) GetPoints(ctx context.Context, userID string) (*dto.Result[[]dto.PointView], error) {
	points, err := s.ledger.Points(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.GenreID
	}
	genres, err := s.store.GetGenresByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch genres: %w", err)
	}
	byID := make(map[string]dto.GenreView, len(genres))
	for _, g := range genres {
		byID[g.ID] = dto.ProjectGenre(g)
	}

	out := make([]dto.PointView, 0, len(points))
	for _, p := range points {
		g, ok := byID[p.GenreID]
		if !ok {
			continue
		}
		out = append(out, dto.PointView{Genre: g, Points: p.Points})
	}
	return dto.Ok(out), nil
}

// RecommendBooks returns up to count books from the user's favourite genres.
// A count of zero uses the default; larger counts are capped.
func (s *RecommendationService) RecommendBooks(ctx context.Context, userID string, count int) (*dto.Result[[]dto.BookView], error) {
	if count <= 0 {
		count = s.defaultCount
	}
	count = min(count, s.maxCount)

	books, err := s.recommender.Recommend(ctx, userID, count)
	if err != nil {
		return nil, err
	}
	views, err := s.enricher.Books(ctx, books)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("books recommended", "user_id", userID, "requested", count, "returned", len(views))
	return dto.Ok(views), nil
}
