package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/utils"
	"github.com/hut-services/internal/service"
)

// ServicesHandler - загрузка и конвертация хижин зарегистрированными сервисами
type ServicesHandler struct {
	registry *service.Registry
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewServicesHandler(registry *service.Registry, metrics *observability.Metrics, logger *zap.Logger) *ServicesHandler {
	return &ServicesHandler{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// List godoc
// @Summary Список сервисов
// @Description Зарегистрированные источники и поддерживаемые ими параметры
// @Tags Services
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]service.Info}
// @Router /api/v1/services [get]
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	list := h.registry.List()
	return utils.SendSuccess(c, list, &utils.Meta{Total: len(list)})
}

// Sources godoc
// @Summary Записи источника
// @Description Исходные записи источника в общем формате HutSource
// @Tags Services
// @Produce json
// @Param source path string true "Имя сервиса (osm, refuges, wikidata)"
// @Param limit query int false "Количество записей" default(1)
// @Param offset query int false "Смещение"
// @Param bbox query string false "south,west,north,east"
// @Param photos query bool false "Загружать фото" default(false)
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/services/{source}/sources [get]
func (h *ServicesHandler) Sources(c *fiber.Ctx) error {
	svc, err := h.registry.Get(c.Params("source"))
	if err != nil {
		return utils.SendError(c, err)
	}
	q, err := parseHutsQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	sources, err := svc.Sources(c.Context(), q)
	if err != nil {
		h.logger.Error("Failed to get sources", zap.String("source", svc.Name()), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, sources, &utils.Meta{
		Total:    len(sources),
		Limit:    q.Limit,
		Offset:   q.Offset,
		Source:   svc.Name(),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Huts godoc
// @Summary Хижины источника
// @Description Загружает записи источника и конвертирует их в общую схему хижины
// @Tags Services
// @Produce json
// @Param source path string true "Имя сервиса (osm, refuges, wikidata)"
// @Param limit query int false "Количество записей" default(1)
// @Param offset query int false "Смещение"
// @Param bbox query string false "south,west,north,east"
// @Param photos query bool false "Загружать фото" default(false)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Hut}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/services/{source}/huts [get]
func (h *ServicesHandler) Huts(c *fiber.Ctx) error {
	svc, err := h.registry.Get(c.Params("source"))
	if err != nil {
		return utils.SendError(c, err)
	}
	q, err := parseHutsQuery(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	huts, err := svc.Huts(c.Context(), q)
	if err != nil {
		h.metrics.ObserveConversion(svc.Name(), err)
		h.logger.Error("Failed to get huts", zap.String("source", svc.Name()), zap.Error(err))
		return utils.SendError(c, err)
	}
	for range huts {
		h.metrics.ObserveConversion(svc.Name(), nil)
	}

	return utils.SendSuccess(c, huts, &utils.Meta{
		Total:    len(huts),
		Limit:    q.Limit,
		Offset:   q.Offset,
		Source:   svc.Name(),
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Convert godoc
// @Summary Конвертация записи
// @Description Конвертирует запись источника (HutSource или сама запись) в общую схему хижины
// @Tags Services
// @Accept json
// @Produce json
// @Param source path string true "Имя сервиса"
// @Param photos query bool false "Загружать фото" default(false)
// @Param request body object true "Запись источника"
// @Success 200 {object} utils.SuccessResponse{data=domain.Hut}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/services/{source}/convert [post]
func (h *ServicesHandler) Convert(c *fiber.Ctx) error {
	svc, err := h.registry.Get(c.Params("source"))
	if err != nil {
		return utils.SendError(c, err)
	}
	if !svc.Capabilities().Convert {
		return utils.SendError(c, errors.ErrNotSupported)
	}
	body := c.Body()
	if len(body) == 0 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Request body is empty"))
	}

	hut, err := svc.ConvertRaw(c.Context(), body, c.QueryBool("photos", false))
	h.metrics.ObserveConversion(svc.Name(), err)
	if err != nil {
		h.logger.Warn("Conversion failed", zap.String("source", svc.Name()), zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, hut, nil)
}

// Bookings godoc
// @Summary Бронирования хижин
// @Tags Services
// @Produce json
// @Param source path string true "Имя сервиса"
// @Param ids query string true "id записей через запятую"
// @Param days query int false "Количество дней" default(1)
// @Success 200 {object} utils.SuccessResponse{data=map[string]domain.HutBookings}
// @Failure 501 {object} utils.ErrorResponse
// @Router /api/v1/services/{source}/bookings [get]
func (h *ServicesHandler) Bookings(c *fiber.Ctx) error {
	svc, err := h.registry.Get(c.Params("source"))
	if err != nil {
		return utils.SendError(c, err)
	}
	ids := strings.Split(c.Query("ids"), ",")
	days := c.QueryInt("days", 1)
	if c.Query("ids") == "" || days < 1 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	bookings, err := svc.Bookings(c.Context(), ids, days)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, bookings, &utils.Meta{Total: len(bookings), Source: svc.Name()})
}
