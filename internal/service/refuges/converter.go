package refuges

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/guess"
)

const (
	keyNoteFR = "Clés nécessaires"
	keyNoteDE = "Schlüssel erforderlich"
)

type featureConverter struct {
	converter.Base[Feature]
	client repository.RefugesRepository
	logger *zap.Logger
}

func newConverter(f Feature, includePhotos bool, client repository.RefugesRepository, logger *zap.Logger) *featureConverter {
	return &featureConverter{
		Base:   converter.NewBase(SourceName, f, includePhotos),
		client: client,
		logger: logger,
	}
}

func (c *featureConverter) props() Properties { return c.Source.Properties }

func (c *featureConverter) Name() converter.Result[domain.Translation] {
	name := c.Source.GetName()
	return converter.Ok(domain.Translation{FR: name, DE: name})
}

func (c *featureConverter) Description() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{FR: c.props().Remark.Value.String()})
}

// Notes - замечание и, если ключ нужно забрать, предупреждение об этом
func (c *featureConverter) Notes() converter.Result[[]domain.Translation] {
	fr := c.props().Remark.Value.String()
	de := ""
	if c.props().State.ID == StateKeyNeeded {
		fr = strings.TrimSpace(keyNoteFR + " \n\n" + fr)
		de = keyNoteDE
	}
	if fr == "" {
		return converter.Ok([]domain.Translation{})
	}
	return converter.Ok([]domain.Translation{{FR: fr, DE: de}})
}

func (c *featureConverter) URL() converter.Result[string] {
	return converter.Ok(converter.FirstURL(c.props().InfoComp.OfficialSite.URL))
}

func (c *featureConverter) Capacity() converter.Result[domain.Capacity] {
	return converter.Ok(domain.Capacity{Open: converter.ParseCapacity(c.props().Places.Value.String())})
}

func (c *featureConverter) HutType() converter.Result[domain.HutTypeSchema] {
	def, ok := hutTypes[c.props().Type.ID]
	if !ok {
		def = domain.HutTypeUnknown
	}
	capacity := domain.Capacity{Open: converter.ParseCapacity(c.props().Places.Value.String())}
	missingWalls := c.props().InfoComp.MissingWall.Value.String()
	if missingWalls == "" {
		missingWalls = "0"
	}
	name := c.Source.GetName()

	var ele *float64
	if loc, err := c.Source.GetLocation(); err == nil {
		ele = loc.Ele
	}
	return converter.Ok(guess.HutType(guess.Input{
		Name:         name,
		Default:      def,
		Capacity:     &capacity,
		Elevation:    ele,
		MissingWalls: missingWalls,
	}))
}

// IsPublic - открыта, ключ у хранителя или состояние неизвестно
func (c *featureConverter) IsPublic() converter.Result[bool] {
	switch strings.ToLower(c.props().State.ID.String()) {
	case StateOpen, StateKeyNeeded, "", "null":
		return converter.Ok(true)
	}
	return converter.Ok(false)
}

func (c *featureConverter) Photos(ctx context.Context) converter.Result[[]domain.Photo] {
	if !c.IncludePhotos || c.client == nil {
		return converter.Ok([]domain.Photo{})
	}
	photos, err := c.client.GetPhotos(ctx, c.Source.GetID())
	if err != nil {
		c.logger.Warn("Failed to get photos",
			zap.String("source_id", c.Source.GetID()),
			zap.Error(err))
		return converter.Ok([]domain.Photo{})
	}
	return converter.Ok(photos)
}
