package wikidata

import (
	"github.com/hut-services/internal/domain"
)

// SourceName - имя источника в HutSource и реестре сервисов
const SourceName = "wikidata"

// Hut - хижина OSM с тегом wikidata и данными сущности Wikidata
type Hut struct {
	WikidataID string             `json:"id" validate:"required"`
	Name       string             `json:"name" validate:"required"`
	Lat        *float64           `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon        *float64           `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Elevation  *float64           `json:"ele,omitempty" validate:"omitempty,gte=0,lt=9000"`
	Labels     domain.Translation `json:"labels"`
	Image      string             `json:"image,omitempty"`
	Website    string             `json:"website,omitempty"`
	Capacity   *int               `json:"capacity,omitempty" validate:"omitempty,gte=0"`
	OSMID      string             `json:"osm_id,omitempty"`
	Photos     []domain.Photo     `json:"photos" validate:"dive"`
}

func (h Hut) GetID() string {
	return h.WikidataID
}

func (h Hut) GetName() string {
	return h.Name
}

// GetLocation - координаты OSM или P625
func (h Hut) GetLocation() (*domain.Location, error) {
	if h.Lat == nil || h.Lon == nil {
		return nil, &domain.CoordinatesMissingError{Source: SourceName, ID: h.GetID(), Name: h.GetName()}
	}
	loc, err := domain.NewLocation(*h.Lat, *h.Lon, h.Elevation)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Source - запись Wikidata в общем формате
type Source = domain.HutSource[Hut, domain.NoProperties]

// newHut собирает запись из хижины OSM и сущности
func newHut(qid, name string, loc *domain.Location, osmID string, entity *domain.WikidataEntity) Hut {
	h := Hut{
		WikidataID: qid,
		Name:       name,
		Labels:     entity.Label(),
		Image:      entity.String(domain.WikidataImage),
		Website:    entity.String(domain.WikidataWebsite),
		OSMID:      osmID,
		Photos:     []domain.Photo{},
	}
	if loc != nil {
		h.Lat, h.Lon = domain.Float64(loc.Lat), domain.Float64(loc.Lon)
		h.Elevation = loc.Ele
	} else if c, ok := entity.Coordinates(); ok {
		h.Lat, h.Lon = domain.Float64(c.Latitude), domain.Float64(c.Longitude)
	}
	if ele, ok := entity.Quantity(domain.WikidataElevation); ok && ele >= 0 && ele < 9000 {
		h.Elevation = domain.Float64(ele)
	}
	if capacity, ok := entity.Quantity(domain.WikidataCapacity); ok && capacity >= 0 {
		h.Capacity = domain.Int(int(capacity))
	}
	return h
}
