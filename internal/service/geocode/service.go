package geocode

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/service"
)

// Service - поиск координат и высот по названию хижины.
// Загрузка хижин из источника не поддерживается, только конвертация.
type Service struct {
	service.Base
	client repository.GeocodeRepository
	logger *zap.Logger
}

func NewService(client repository.GeocodeRepository, logger *zap.Logger) *Service {
	return &Service{
		Base:   service.NewBase(SourceName, service.Capabilities{Convert: true}),
		client: client,
		logger: logger.With(zap.String("service", SourceName)),
	}
}

// Search возвращает лучшее совпадение Nominatim или domain.ErrNotFound
func (s *Service) Search(ctx context.Context, name string) (*Source, error) {
	var places []Place
	if err := s.client.Search(ctx, name, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("place '%s': %w", name, domain.ErrNotFound)
	}
	if err := domain.Validate(places[0]); err != nil {
		return nil, fmt.Errorf("invalid place '%s': %w", name, err)
	}
	src := domain.NewHutSource[Place, domain.NoProperties](SourceName, places[0], nil)
	return &src, nil
}

// GetLocationByName возвращает координаты места по названию
func (s *Service) GetLocationByName(ctx context.Context, name string) (*domain.Location, error) {
	src, err := s.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	rec, _ := src.Record()
	loc, err := rec.GetLocation()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Got location by name", zap.String("name", name),
		zap.Float64("lat", loc.Lat), zap.Float64("lon", loc.Lon))
	return loc, nil
}

// GetElevations заполняет высоту у координат без нее.
// Координаты с высотой возвращаются без изменений, запрос делается одним батчем.
func (s *Service) GetElevations(ctx context.Context, locations []domain.Location) ([]domain.Location, error) {
	result := make([]domain.Location, len(locations))
	copy(result, locations)

	missing := make([]int, 0, len(locations))
	query := make([]domain.Location, 0, len(locations))
	for i, loc := range locations {
		if loc.Ele == nil {
			missing = append(missing, i)
			query = append(query, loc)
		}
	}
	if len(query) == 0 {
		return result, nil
	}

	eles, err := s.client.Elevations(ctx, query)
	if err != nil {
		return nil, err
	}
	for j, i := range missing {
		result[i].Ele = domain.Float64(eles[j])
	}
	return result, nil
}

// GetElevation - GetElevations для одной точки
func (s *Service) GetElevation(ctx context.Context, loc domain.Location) (domain.Location, error) {
	res, err := s.GetElevations(ctx, []domain.Location{loc})
	if err != nil {
		return domain.Location{}, err
	}
	return res[0], nil
}

func (s *Service) GetHutsFromSource(ctx context.Context, q service.Query) ([]Source, error) {
	return nil, s.NotImplemented("get_huts_from_source")
}

func (s *Service) Convert(ctx context.Context, src Source, includePhotos bool) (*domain.Hut, error) {
	rec, err := service.CheckSource(src)
	if err != nil {
		return nil, err
	}
	hut, err := converter.GetHut(ctx, newConverter(rec, includePhotos))
	return hut, service.WrapConversion(SourceName, src.SourceID, err)
}

func (s *Service) Sources(ctx context.Context, q service.Query) ([]any, error) {
	return nil, s.NotImplemented("get_huts_from_source")
}

func (s *Service) Huts(ctx context.Context, q service.Query) ([]*domain.Hut, error) {
	return service.GetHuts[Place, domain.NoProperties](ctx, s, q)
}

func (s *Service) ConvertRaw(ctx context.Context, raw any, includePhotos bool) (*domain.Hut, error) {
	src, err := service.DecodeSource[Place, domain.NoProperties](SourceName, raw)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, src, includePhotos)
}
