package wikidata

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/service"
	"github.com/hut-services/internal/service/osm"
	"github.com/hut-services/internal/service/photos"
)

const (
	// osmFactor - запрос к OSM больше limit, т.к. тег wikidata есть не у всех хижин
	osmFactor     = 10
	entityWorkers = 4
)

// OSMSource - источник хижин OSM с тегом wikidata
type OSMSource interface {
	GetHutsFromSource(ctx context.Context, q service.Query) ([]osm.Source, error)
}

// Service - хижины OSM, обогащенные данными Wikidata
type Service struct {
	service.Base
	osm      OSMSource
	wikidata repository.WikidataRepository
	photos   *photos.Finder
	logger   *zap.Logger
}

func NewService(osmSource OSMSource, wikidata repository.WikidataRepository, finder *photos.Finder, logger *zap.Logger) *Service {
	return &Service{
		Base: service.NewBase(SourceName, service.Capabilities{
			BBox:    true,
			Limit:   true,
			Offset:  true,
			Convert: true,
		}),
		osm:      osmSource,
		wikidata: wikidata,
		photos:   finder,
		logger:   logger.With(zap.String("service", SourceName)),
	}
}

type candidate struct {
	qid  string
	name string
	loc  *domain.Location
	id   string
}

// GetHutsFromSource выбирает хижины OSM с тегом wikidata и загружает их сущности.
// Сущности загружаются параллельно, порядок хижин OSM сохраняется.
func (s *Service) GetHutsFromSource(ctx context.Context, q service.Query) ([]Source, error) {
	q = q.Normalize()
	osmQuery := q
	osmQuery.Limit = q.Limit * osmFactor

	osmHuts, err := s.osm.GetHutsFromSource(ctx, osmQuery)
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, q.Limit)
	for _, oh := range osmHuts {
		rec, ok := oh.Record()
		if !ok || rec.Tags.Wikidata == "" {
			continue
		}
		candidates = append(candidates, candidate{qid: rec.Tags.Wikidata, name: oh.Name, loc: oh.Location, id: oh.SourceID})
		if len(candidates) >= q.Limit {
			break
		}
	}

	huts := make([]*Hut, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(entityWorkers)
	for i, c := range candidates {
		g.Go(func() error {
			entity, err := s.wikidata.GetEntity(gctx, c.qid)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					s.logger.Warn("Wikidata entity not found",
						zap.String("qid", c.qid),
						zap.String("name", c.name))
					return nil
				}
				return err
			}
			h := newHut(c.qid, c.name, c.loc, c.id, entity)
			if q.IncludePhotos && s.photos != nil {
				found, err := s.photos.ByFilename(gctx, h.Image)
				if err != nil {
					s.logger.Warn("Failed to get photos", zap.String("qid", c.qid), zap.Error(err))
				} else {
					h.Photos = found
				}
			}
			huts[i] = &h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to get wikidata entities: %w", err)
	}

	sources := make([]Source, 0, len(huts))
	for _, h := range huts {
		if h == nil {
			continue
		}
		sources = append(sources, domain.NewHutSource[Hut, domain.NoProperties](SourceName, *h, nil))
	}
	s.logger.Debug("Got wikidata huts", zap.Int("count", len(sources)))
	return sources, nil
}

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
