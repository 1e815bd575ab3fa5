package refuges

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/service"
)

// DefaultTypePoints - неохраняемые хижины, охраняемые, gîtes и здания в горах
var DefaultTypePoints = []string{"7", "10", "9", "28"}

// Service - хижины из refuges.info
type Service struct {
	service.Base
	client  repository.RefugesRepository
	massifs []string
	logger  *zap.Logger
}

// NewService создает сервис. massifs - id массивов, из которых загружаются точки.
func NewService(client repository.RefugesRepository, massifs []string, logger *zap.Logger) *Service {
	return &Service{
		Base: service.NewBase(SourceName, service.Capabilities{
			Limit:   true,
			Convert: true,
		}),
		client:  client,
		massifs: massifs,
		logger:  logger.With(zap.String("service", SourceName)),
	}
}

// Params собирает параметры /api/massif.
// q.Params["massif"] и q.Params["type_points"] заменяют значения по умолчанию.
func (s *Service) Params(q service.Query) url.Values {
	q = q.Normalize()
	massif := strings.Join(s.massifs, ",")
	if v := q.Params["massif"]; v != "" {
		massif = v
	}
	typePoints := strings.Join(DefaultTypePoints, ",")
	if v := q.Params["type_points"]; v != "" {
		typePoints = v
	}

	params := url.Values{}
	params.Set("nb_points", strconv.Itoa(q.Limit))
	params.Set("type_points", typePoints)
	params.Set("massif", massif)
	params.Set("format", "geojson")
	params.Set("format_texte", "texte")
	params.Set("detail", "complet")
	return params
}

func (s *Service) GetHutsFromSource(ctx context.Context, q service.Query) ([]Source, error) {
	var fc FeatureCollection
	if err := s.client.GetPoints(ctx, s.Params(q), &fc); err != nil {
		return nil, fmt.Errorf("failed to get refuges.info huts: %w", err)
	}

	sources := make([]Source, 0, len(fc.Features))
	for _, f := range fc.Features {
		if err := domain.Validate(f); err != nil {
			s.logger.Warn("Skipping invalid refuges.info point",
				zap.Int("id", f.Properties.ID),
				zap.Error(err))
			continue
		}
		props := f.GetProperties()
		sources = append(sources, domain.NewHutSource(SourceName, f, &props))
	}

	s.logger.Info("Got refuges.info huts", zap.Int("count", len(sources)))
	return sources, nil
}

// Convert конвертирует точку refuges.info в каноническую хижину
func (s *Service) Convert(ctx context.Context, src Source, includePhotos bool) (*domain.Hut, error) {
	rec, err := service.CheckSource(src)
	if err != nil {
		return nil, err
	}
	hut, err := converter.GetHut(ctx, newConverter(rec, includePhotos, s.client, s.logger))
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
	return service.GetHuts[Feature, SourceProperties](ctx, s, q)
}

func (s *Service) ConvertRaw(ctx context.Context, raw any, includePhotos bool) (*domain.Hut, error) {
	src, err := service.DecodeSource[Feature, SourceProperties](SourceName, raw)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, src, includePhotos)
}
