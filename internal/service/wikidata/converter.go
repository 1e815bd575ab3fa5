package wikidata

import (
	"context"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/guess"
	"github.com/hut-services/internal/service/photos"
)

type hutConverter struct {
	converter.Base[Hut]
	photos *photos.Finder
	logger *zap.Logger
}

func newConverter(h Hut, includePhotos bool, finder *photos.Finder, logger *zap.Logger) *hutConverter {
	return &hutConverter{
		Base:   converter.NewBase(SourceName, h, includePhotos),
		photos: finder,
		logger: logger,
	}
}

// Name - метки сущности, иначе имя из OSM
func (c *hutConverter) Name() converter.Result[domain.Translation] {
	if !c.Source.Labels.IsEmpty() {
		return converter.Ok(c.Source.Labels)
	}
	return converter.Ok(domain.Translation{DE: c.Source.Name})
}

func (c *hutConverter) Description() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{})
}

func (c *hutConverter) URL() converter.Result[string] {
	return converter.Ok(converter.FirstURL(c.Source.Website))
}

func (c *hutConverter) Capacity() converter.Result[domain.Capacity] {
	return converter.Ok(domain.Capacity{Open: c.Source.Capacity})
}

func (c *hutConverter) HutType() converter.Result[domain.HutTypeSchema] {
	capacity := domain.Capacity{Open: c.Source.Capacity}
	return converter.Ok(guess.HutType(guess.Input{
		Name:      c.Source.Name,
		Capacity:  &capacity,
		Elevation: c.Source.Elevation,
	}))
}

func (c *hutConverter) Extras() converter.Result[map[string]any] {
	extras := map[string]any{"wikidata": c.Source.WikidataID}
	if c.Source.OSMID != "" {
		extras["osm"] = c.Source.OSMID
	}
	return converter.Ok(extras)
}

// Photos - загруженные вместе с записью, иначе из Commons по P18
func (c *hutConverter) Photos(ctx context.Context) converter.Result[[]domain.Photo] {
	if !c.IncludePhotos {
		return converter.Ok([]domain.Photo{})
	}
	if len(c.Source.Photos) > 0 {
		return converter.Ok(c.Source.Photos)
	}
	if c.Source.Image == "" || c.photos == nil {
		return converter.Ok([]domain.Photo{})
	}
	found, err := c.photos.ByFilename(ctx, c.Source.Image)
	if err != nil {
		c.logger.Warn("Failed to get photos",
			zap.String("source_id", c.Source.WikidataID),
			zap.String("image", c.Source.Image),
			zap.Error(err))
		return converter.Ok([]domain.Photo{})
	}
	return converter.Ok(found)
}
