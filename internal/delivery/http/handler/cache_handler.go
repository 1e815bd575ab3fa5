package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/utils"
)

// CacheCleaner - кеш ответов одного внешнего источника
type CacheCleaner interface {
	Upstream() string
	ClearCache(ctx context.Context) (int, error)
}

type CacheHandler struct {
	cleaners []CacheCleaner
	logger   *zap.Logger
}

func NewCacheHandler(logger *zap.Logger, cleaners ...CacheCleaner) *CacheHandler {
	return &CacheHandler{
		cleaners: cleaners,
		logger:   logger,
	}
}

// Clear godoc
// @Summary Очистка кеша
// @Description Удаляет закешированные ответы внешних источников
// @Tags Cache
// @Produce json
// @Param upstream query string false "Источник (overpass, refuges, wikidata, commons, nominatim); пусто - все"
// @Success 200 {object} utils.SuccessResponse{data=map[string]int}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/cache [delete]
func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	upstream := c.Query("upstream")

	deleted := map[string]int{}
	for _, cl := range h.cleaners {
		if upstream != "" && cl.Upstream() != upstream {
			continue
		}
		n, err := cl.ClearCache(c.Context())
		if err != nil {
			h.logger.Error("Failed to clear cache", zap.String("upstream", cl.Upstream()), zap.Error(err))
			return utils.SendError(c, errors.ErrCacheError)
		}
		deleted[cl.Upstream()] = n
	}
	if upstream != "" && len(deleted) == 0 {
		return utils.SendError(c, errors.ErrNotFound.WithMessage("unknown upstream "+upstream))
	}

	h.logger.Info("Cache cleared", zap.Any("deleted", deleted))
	return utils.SendSuccess(c, deleted, &utils.Meta{Total: len(deleted)})
}
