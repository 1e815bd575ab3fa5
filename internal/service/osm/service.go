package osm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/service"
	"github.com/hut-services/internal/service/photos"
)

const queryTemplate = `[out:json];
(
nw["tourism"="alpine_hut"]["name"](%[1]s);
nw["tourism"="wilderness_hut"]["name"](%[1]s);
);
out qt center %[2]d;`

// Service - хижины из OpenStreetMap через Overpass API
type Service struct {
	service.Base
	overpass repository.OverpassRepository
	photos   *photos.Finder
	logger   *zap.Logger
}

// NewService создает сервис OSM. finder может быть nil, тогда фото не загружаются.
func NewService(overpass repository.OverpassRepository, finder *photos.Finder, logger *zap.Logger) *Service {
	return &Service{
		Base: service.NewBase(SourceName, service.Capabilities{
			BBox:    true,
			Limit:   true,
			Convert: true,
		}),
		overpass: overpass,
		photos:   finder,
		logger:   logger.With(zap.String("service", SourceName)),
	}
}

// Query возвращает Overpass запрос. Без bbox используется часть Alps по limit и offset.
func Query(q service.Query) string {
	q = q.Normalize()
	bbox := domain.DefaultBBox(q.Limit, q.Offset)
	if q.BBox != nil {
		bbox = *q.BBox
	}
	return fmt.Sprintf(queryTemplate, bbox.String(), q.Limit)
}

// GetHutsFromSource возвращает узлы, затем пути. Таймаут Overpass дает пустой список.
func (s *Service) GetHutsFromSource(ctx context.Context, q service.Query) ([]Source, error) {
	var resp overpassResponse
	if err := s.overpass.Query(ctx, Query(q), &resp); err != nil {
		if errors.Is(err, domain.ErrUpstreamTimeout) {
			s.logger.Warn("Overpass timeout, returning no huts", zap.Error(err))
			return []Source{}, nil
		}
		return nil, fmt.Errorf("failed to get osm huts: %w", err)
	}

	sources := make([]Source, 0, len(resp.Elements))
	for _, osmType := range []string{"node", "way"} {
		for _, el := range resp.Elements {
			if el.Type != osmType {
				continue
			}
			h := el.hut()
			if err := domain.Validate(h); err != nil {
				s.logger.Warn("Skipping invalid osm element",
					zap.Int64("id", el.ID),
					zap.Error(err))
				continue
			}
			sources = append(sources, domain.NewHutSource[Hut, domain.NoProperties](SourceName, h, nil))
		}
	}

	s.logger.Debug("Got osm huts", zap.Int("count", len(sources)))
	return sources, nil
}

// Convert конвертирует запись OSM в каноническую хижину
func (s *Service) Convert(ctx context.Context, src Source, includePhotos bool) (*domain.Hut, error) {
	rec, err := service.CheckSource(src)
	if err != nil {
		return nil, err
	}
	hut, err := converter.GetHut(ctx, newConverter(rec, includePhotos, s.photos, s.logger))
	return hut, service.WrapConversion(SourceName, src.SourceID, err)
}

func (s *Service) Sources(ctx context.Context, q service.Query) ([]any, error) {
	sources, err := s.GetHutsFromSource(ctx, q)
	if err != nil {
		return nil, err
	}
	return service.AnySources(sources), nil
}

func (s *Service) Huts(ctx context.Context, q service.Query) ([]*domain.Hut, error) {
	return service.GetHuts[Hut, domain.NoProperties](ctx, s, q)
}

func (s *Service) ConvertRaw(ctx context.Context, raw any, includePhotos bool) (*domain.Hut, error) {
	src, err := service.DecodeSource[Hut, domain.NoProperties](SourceName, raw)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, src, includePhotos)
}
