package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/pkg/errors"
	"github.com/hut-services/internal/pkg/validator"
	"github.com/hut-services/internal/service"
)

const defaultLimit = 1

// HutsRequest - параметры загрузки записей источника
type HutsRequest struct {
	Limit         int    `json:"limit" validate:"gte=1,lte=1000"`
	Offset        int    `json:"offset" validate:"gte=0"`
	BBox          string `json:"bbox"`
	IncludePhotos bool   `json:"photos"`
}

// GuessSlugRequest - параметры /guess/slug
type GuessSlugRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Max  int    `json:"max" validate:"gte=1,lte=100"`
	Min  int    `json:"min" validate:"gte=0,ltefield=Max"`
}

// ElevationsRequest - координаты для поиска высоты
type ElevationsRequest struct {
	Locations []domain.Location `json:"locations" validate:"required,min=1,max=100,dive"`
}

// параметры запроса, которые передаются сервису как есть (refuges: massif, type_points)
var passthroughParams = []string{"massif", "type_points"}

func parseHutsQuery(c *fiber.Ctx) (service.Query, error) {
	req := HutsRequest{
		Limit:         c.QueryInt("limit", defaultLimit),
		Offset:        c.QueryInt("offset", 0),
		BBox:          c.Query("bbox"),
		IncludePhotos: c.QueryBool("photos", false),
	}
	if err := validator.Validate(&req); err != nil {
		return service.Query{}, errors.ErrInvalidRequest.WithMessage(err.Error())
	}

	q := service.Query{
		Limit:         req.Limit,
		Offset:        req.Offset,
		IncludePhotos: req.IncludePhotos,
		Params:        map[string]string{},
	}
	if req.BBox != "" {
		bbox, err := domain.ParseBBox(req.BBox)
		if err != nil {
			return service.Query{}, errors.ErrInvalidBBox.WithDetails(map[string]interface{}{"bbox": req.BBox})
		}
		q.BBox = bbox
	}
	for _, name := range passthroughParams {
		if v := c.Query(name); v != "" {
			q.Params[name] = v
		}
	}
	return q, nil
}
