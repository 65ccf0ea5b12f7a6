package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/yaqraapp/yaqra-server/internal/config"
	"github.com/yaqraapp/yaqra-server/internal/logger"
	"github.com/yaqraapp/yaqra-server/internal/search"
	"github.com/yaqraapp/yaqra-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.SearchIndex == nil {
		return nil
	}
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index. The handle is empty
// when search is disabled.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.Enabled {
		log.Info("Search disabled")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Search.Path,
		Logger:   log.WithComponent("search").Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service and hooks it into the
// book service so catalogue writes keep the index current. It is nil when
// search is disabled.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	if indexHandle.SearchIndex == nil {
		return nil, nil
	}
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, cfg.Search.DefaultLimit, log.Logger)
	books.SetSearchIndexer(svc)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index from the store in the
// background. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	if searchService == nil {
		return
	}
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	log.Info("Search index is empty, triggering initial reindex")

	go func() {
		if err := searchService.ReindexAll(context.Background()); err != nil {
			log.WithError(err).Error("Initial search reindex failed")
			return
		}
		count, _ := searchService.DocumentCount()
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
