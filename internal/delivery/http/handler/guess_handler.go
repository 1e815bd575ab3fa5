package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hut-services/internal/guess"
	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/utils"
	"github.com/hut-services/internal/pkg/validator"
)

// GuessHandler - определение типа хижины и slug без обращения к источникам
type GuessHandler struct {
	logger *zap.Logger
}

func NewGuessHandler(logger *zap.Logger) *GuessHandler {
	return &GuessHandler{logger: logger}
}

// HutType godoc
// @Summary Тип хижины
// @Description Определяет тип хижины (открытой и закрытой части) по названию, вместимости, высоте и тегам
// @Tags Guess
// @Accept json
// @Produce json
// @Param request body guess.Input true "Признаки хижины"
// @Success 200 {object} utils.SuccessResponse{data=domain.HutTypeSchema}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/guess/type [post]
func (h *GuessHandler) HutType(c *fiber.Ctx) error {
	var in guess.Input
	if err := c.BodyParser(&in); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	return utils.SendSuccess(c, guess.HutType(in), nil)
}

// Slug godoc
// @Summary Slug хижины
// @Description Короткий slug из названия хижины без служебных слов
// @Tags Guess
// @Produce json
// @Param name query string true "Название"
// @Param max query int false "Максимальная длина" default(25)
// @Param min query int false "Минимальная длина" default(4)
// @Success 200 {object} utils.SuccessResponse{data=string}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/guess/slug [get]
func (h *GuessHandler) Slug(c *fiber.Ctx) error {
	req := GuessSlugRequest{
		Name: c.Query("name"),
		Max:  c.QueryInt("max", 25),
		Min:  c.QueryInt("min", 4),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}
	return utils.SendSuccess(c, guess.SlugName(req.Name, req.Max, req.Min), nil)
}
