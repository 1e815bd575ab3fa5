package osm

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/guess"
	"github.com/hut-services/internal/service/photos"
)

const (
	maxNameLength = 69
	phoneRegion   = "CH"
)

// клуб-оператор только целым словом: "Gemeinde Sachseln" не SAC
var clubOperator = regexp.MustCompile(`(?i)\b(sac|dav)\b`)

// operatorClub возвращает "sac" или "dav", если оператор - альпийский клуб
func operatorClub(operator string) string {
	return strings.ToLower(clubOperator.FindString(operator))
}

// значения access, при которых хижина открыта для всех
var publicAccess = map[string]bool{"yes": true, "public": true, "customers": true, "permissive": true}

// hutConverter - конвертер версии 0
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

func (c *hutConverter) tags() Tags { return c.Source.Tags }

func (c *hutConverter) Slug() converter.Result[string] {
	return converter.Ok("osm-" + c.Source.GetID())
}

func (c *hutConverter) Name() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{DE: converter.Truncate(c.tags().Name, maxNameLength)})
}

func (c *hutConverter) Description() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{DE: strings.TrimSpace(c.tags().Description)})
}

func (c *hutConverter) Comment() converter.Result[string] {
	if c.tags().Note == "" {
		return converter.Ok("")
	}
	return converter.Ok("OSM note: " + c.tags().Note + "\n")
}

func (c *hutConverter) Extras() converter.Result[map[string]any] {
	extras := map[string]any{}
	if c.tags().Wikidata != "" {
		extras["wikidata"] = c.tags().Wikidata
	}
	return converter.Ok(extras)
}

func (c *hutConverter) URL() converter.Result[string] {
	return converter.Ok(converter.FirstURL(c.tags().Website, c.tags().ContactWebsite))
}

func (c *hutConverter) capacityOpen() *int {
	t := c.tags()
	return converter.ParseCapacity(t.Capacity, t.Beds, t.Bed)
}

// capacityShelter - winter_room с числом мест, у wilderness_hut вся хижина
func (c *hutConverter) capacityShelter() *int {
	t := c.tags()
	if t.WinterRoom != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(t.WinterRoom)); err == nil && n >= 0 {
			return &n
		}
	}
	if t.Tourism == "wilderness_hut" {
		return c.capacityOpen()
	}
	return nil
}

func (c *hutConverter) Capacity() converter.Result[domain.Capacity] {
	return converter.Ok(converter.NewCapacity(c.capacityOpen(), c.capacityShelter()))
}

func (c *hutConverter) HutType() converter.Result[domain.HutTypeSchema] {
	t := c.tags()
	operator := operatorClub(t.Operator)
	// для определения типа нужна вместимость до схлопывания closed == open
	capacity := domain.Capacity{Open: c.capacityOpen(), Closed: c.capacityShelter()}
	return converter.Ok(guess.HutType(guess.Input{
		Name:      converter.Truncate(t.Name, maxNameLength),
		Capacity:  &capacity,
		Elevation: t.Elevation(),
		Operator:  operator,
		OSMTag:    t.Tourism,
	}))
}

func (c *hutConverter) Owner() converter.Result[*domain.Owner] {
	return converter.Ok(converter.NewOwner(c.tags().Operator))
}

func (c *hutConverter) access() bool {
	if c.tags().Access == "" {
		return true
	}
	return publicAccess[c.tags().Access]
}

func (c *hutConverter) IsActive() converter.Result[bool] { return converter.Ok(c.access()) }
func (c *hutConverter) IsPublic() converter.Result[bool] { return converter.Ok(c.access()) }

func (c *hutConverter) Contacts() converter.Result[[]domain.Contact] {
	t := c.tags()
	phones := t.Phone
	if phones == "" {
		phones = t.ContactPhone
	}
	email := strings.TrimSpace(t.Email)
	if email == "" {
		email = strings.TrimSpace(t.ContactEmail)
	}
	return converter.Ok(converter.NewContacts(phones, email, phoneRegion))
}

// Photos - фото из Wikidata P18, если у узла есть тег wikidata.
// Ошибка загрузки фото не ломает конвертацию.
func (c *hutConverter) Photos(ctx context.Context) converter.Result[[]domain.Photo] {
	qid := c.tags().Wikidata
	if !c.IncludePhotos || qid == "" || c.photos == nil {
		return converter.Ok([]domain.Photo{})
	}
	found, err := c.photos.ByQID(ctx, qid)
	if err != nil {
		c.logger.Warn("Failed to get photos",
			zap.String("source_id", c.Source.GetID()),
			zap.String("wikidata", qid),
			zap.Error(err))
		return converter.Ok([]domain.Photo{})
	}
	return converter.Ok(found)
}
