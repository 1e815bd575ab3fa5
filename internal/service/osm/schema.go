package osm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hut-services/internal/domain"
)

// SourceName - имя источника в HutSource и реестре сервисов
const SourceName = "osm"

// Tags - теги OSM, которые используются при конвертации
type Tags struct {
	Tourism  string `json:"tourism" validate:"oneof=alpine_hut wilderness_hut"`
	Wikidata string `json:"wikidata,omitempty"`

	Name           string `json:"name" validate:"required"`
	Operator       string `json:"operator,omitempty"`
	Email          string `json:"email,omitempty"`
	ContactEmail   string `json:"contact:email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ContactPhone   string `json:"contact:phone,omitempty"`
	Website        string `json:"website,omitempty"`
	ContactWebsite string `json:"contact:website,omitempty"`
	Note           string `json:"note,omitempty"`
	Description    string `json:"description,omitempty"`

	Bed         string `json:"bed,omitempty"`
	Beds        string `json:"beds,omitempty"`
	Capacity    string `json:"capacity,omitempty"`
	Access      string `json:"access,omitempty"`
	Fireplace   string `json:"fireplace,omitempty"`
	Wall        string `json:"wall,omitempty"`
	Amenity     string `json:"amenity,omitempty"`
	ShelterType string `json:"shelter_type,omitempty"`
	WinterRoom  string `json:"winter_room,omitempty"`
	Reservation string `json:"reservation,omitempty"`

	// Ele - как в OSM, бывает "2345", "2'345 m" или "2345.5"
	Ele string `json:"ele,omitempty"`
}

var (
	eleSeparators = strings.NewReplacer("'", "", "’", "", " ", "", "\u00a0", "")
	eleNumber     = regexp.MustCompile(`^\d+(?:[.,]\d+)?`)
)

// Elevation разбирает тег ele. Нечитаемое или вне диапазона значение дает nil.
func (t Tags) Elevation() *float64 {
	s := eleSeparators.Replace(strings.TrimSpace(t.Ele))
	m := eleNumber.FindString(s)
	if m == "" {
		return nil
	}
	ele, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil || ele < 0 || ele >= 9000 {
		return nil
	}
	return &ele
}

// Hut - узел или путь OSM с тегом tourism=alpine_hut|wilderness_hut
type Hut struct {
	OSMType   string   `json:"osm_type,omitempty" validate:"omitempty,oneof=node way area"`
	OSMID     int64    `json:"id" validate:"required"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lon       *float64 `json:"lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	CenterLat *float64 `json:"center_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	CenterLon *float64 `json:"center_lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Tags      Tags     `json:"tags"`
}

func (h Hut) GetID() string {
	return strconv.FormatInt(h.OSMID, 10)
}

func (h Hut) GetName() string {
	return h.Tags.Name
}

// GetLocation использует координаты узла, для путей - центр
func (h Hut) GetLocation() (*domain.Location, error) {
	var lat, lon *float64
	switch {
	case nonZero(h.Lat) && nonZero(h.Lon):
		lat, lon = h.Lat, h.Lon
	case nonZero(h.CenterLat) && nonZero(h.CenterLon):
		lat, lon = h.CenterLat, h.CenterLon
	default:
		return nil, &domain.CoordinatesMissingError{Source: SourceName, ID: h.GetID(), Name: h.GetName()}
	}
	loc, err := domain.NewLocation(*lat, *lon, h.Tags.Elevation())
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func nonZero(v *float64) bool {
	return v != nil && *v != 0
}

// Source - запись OSM в общем формате
type Source = domain.HutSource[Hut, domain.NoProperties]

// overpassResponse - ответ Overpass с "out center"
type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string   `json:"type"`
	ID     int64    `json:"id"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags Tags `json:"tags"`
}

func (e element) hut() Hut {
	h := Hut{
		OSMType: e.Type,
		OSMID:   e.ID,
		Lat:     e.Lat,
		Lon:     e.Lon,
		Tags:    e.Tags,
	}
	if e.Center != nil {
		h.CenterLat = domain.Float64(e.Center.Lat)
		h.CenterLon = domain.Float64(e.Center.Lon)
	}
	return h
}
