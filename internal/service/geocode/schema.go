package geocode

import (
	"strconv"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/service/osm"
)

// SourceName - имя источника в HutSource и реестре сервисов
const SourceName = "geocode"

// Place - результат поиска Nominatim (format=jsonv2)
type Place struct {
	PlaceID     int64             `json:"place_id,omitempty"`
	Name        string            `json:"name" validate:"required"`
	DisplayName string            `json:"display_name,omitempty"`
	Lat         float64           `json:"lat,string" validate:"gte=-90,lte=90"`
	Lon         float64           `json:"lon,string" validate:"gte=-180,lte=180"`
	Licence     string            `json:"licence,omitempty"`
	OSMType     string            `json:"osm_type,omitempty"`
	OSMID       int64             `json:"osm_id,omitempty"`
	Category    string            `json:"category,omitempty"`
	Type        string            `json:"type,omitempty"`
	PlaceRank   int               `json:"place_rank,omitempty"`
	Importance  float64           `json:"importance,omitempty"`
	AddressType string            `json:"addresstype,omitempty"`
	ExtraTags   map[string]string `json:"extratags,omitempty"`
	// BoundingBox - [south, north, west, east]
	BoundingBox []string `json:"boundingbox,omitempty"`
}

func (p Place) GetID() string {
	return strconv.FormatInt(p.PlaceID, 10)
}

func (p Place) GetName() string {
	return p.Name
}

// GetLocation - высота из extratags, если она есть и разбирается
func (p Place) GetLocation() (*domain.Location, error) {
	ele := osm.Tags{Ele: p.ExtraTags["ele"]}.Elevation()
	loc, err := domain.NewLocation(p.Lat, p.Lon, ele)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// OSMTag - значение тега tourism, если место найдено как хижина OSM
func (p Place) OSMTag() string {
	if p.Category == "tourism" {
		return p.Type
	}
	return ""
}

// Source - результат геокодирования в общем формате
type Source = domain.HutSource[Place, domain.NoProperties]
