package providers

import (
	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/events"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/recommend"
	"github.com/yaqraapp/yaqra-server/internal/service"
	"github.com/yaqraapp/yaqra-server/internal/trending"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return validation.New(cfg.Rating.Scale), nil
}

func pagination(cfg *config.Config) service.Pagination {
	return service.Pagination{
		Posts:    cfg.Pagination.Posts,
		Comments: cfg.Pagination.Comments,
		Books:    cfg.Pagination.Books,
	}
}

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tracker := do.MustInvoke[*trending.Tracker](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, tracker, v, pagination(cfg), log.Logger), nil
}

// ProvideCommunityService provides the community service.
func ProvideCommunityService(i do.Injector) (*service.CommunityService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bus := do.MustInvoke[*events.Bus](i)
	likes := do.MustInvoke[*Likes](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommunityService(storeHandle.Store, bus, likes.Posts, likes.Comments, v, pagination(cfg), log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	ledger := do.MustInvoke[*recommend.Ledger](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(storeHandle.Store, ledger, cfg.Recommend.DefaultCount, cfg.Recommend.MaxCount, log.Logger), nil
}
