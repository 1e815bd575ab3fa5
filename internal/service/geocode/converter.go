package geocode

import (
	"strconv"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/guess"
)

type placeConverter struct {
	converter.Base[Place]
}

func newConverter(p Place, includePhotos bool) *placeConverter {
	return &placeConverter{Base: converter.NewBase(SourceName, p, includePhotos)}
}

func (c *placeConverter) Name() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{DE: converter.Truncate(c.Source.Name, 69)})
}

func (c *placeConverter) Description() converter.Result[domain.Translation] {
	return converter.Ok(domain.Translation{})
}

func (c *placeConverter) HutType() converter.Result[domain.HutTypeSchema] {
	in := guess.Input{Name: c.Source.Name, OSMTag: c.Source.OSMTag()}
	if loc, err := c.Source.GetLocation(); err == nil {
		in.Elevation = loc.Ele
	}
	return converter.Ok(guess.HutType(in))
}

func (c *placeConverter) Extras() converter.Result[map[string]any] {
	extras := map[string]any{}
	if c.Source.OSMID != 0 && c.Source.OSMType != "" {
		extras["osm"] = c.Source.OSMType + "/" + strconv.FormatInt(c.Source.OSMID, 10)
	}
	if c.Source.DisplayName != "" {
		extras["display_name"] = c.Source.DisplayName
	}
	return converter.Ok(extras)
}
