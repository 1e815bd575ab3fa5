package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/utils"
	"github.com/hut-services/internal/pkg/validator"
	"github.com/hut-services/internal/service/geocode"
)

// GeocodeHandler - координаты по названию и высоты по координатам
type GeocodeHandler struct {
	geocode *geocode.Service
	logger  *zap.Logger
}

func NewGeocodeHandler(svc *geocode.Service, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocode: svc,
		logger:  logger,
	}
}

// Location godoc
// @Summary Координаты по названию
// @Tags Geocode
// @Produce json
// @Param name query string true "Название хижины"
// @Success 200 {object} utils.SuccessResponse{data=domain.Location}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode/location [get]
func (h *GeocodeHandler) Location(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("name is required"))
	}
	loc, err := h.geocode.GetLocationByName(c.Context(), name)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, loc, nil)
}

// Elevations godoc
// @Summary Высоты по координатам
// @Description Заполняет высоту у точек, где она не задана (до 100 точек)
// @Tags Geocode
// @Accept json
// @Produce json
// @Param request body ElevationsRequest true "Точки"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Location}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/geocode/elevations [post]
func (h *GeocodeHandler) Elevations(c *fiber.Ctx) error {
	var req ElevationsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	locations, err := h.geocode.GetElevations(c.Context(), req.Locations)
	if err != nil {
		h.logger.Error("Failed to get elevations", zap.Int("count", len(req.Locations)), zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, locations, &utils.Meta{Total: len(locations)})
}
