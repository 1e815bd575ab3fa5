package refuges

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hut-services/internal/domain"
)

// SourceName - имя источника в HutSource и реестре сервисов
const SourceName = "refuges"

// Типы точек refuges.info
const (
	PointTypeUnattended = 7
	PointTypeGite       = 9
	PointTypeGuarded    = 10
	PointTypeBuilding   = 28
)

// HutType - тип точки в терминах refuges.info
type HutType string

const (
	HutTypeMissing    HutType = "missing"
	HutTypeUnattended HutType = "cabane-non-gardee"
	HutTypeGuarded    HutType = "refuge-garde"
	HutTypeGite       HutType = "gite-d-etape"
	HutTypeBuilding   HutType = "batiment-en-montagne"
)

var refugesTypes = map[int]HutType{
	PointTypeUnattended: HutTypeUnattended,
	PointTypeGuarded:    HutTypeGuarded,
	PointTypeGite:       HutTypeGite,
	PointTypeBuilding:   HutTypeBuilding,
}

// hutTypes - тип по умолчанию для определения типа хижины
var hutTypes = map[int]domain.HutType{
	PointTypeUnattended: domain.HutTypeSelfhut,
	PointTypeGuarded:    domain.HutTypeHut,
	PointTypeGite:       domain.HutTypeHut,
	PointTypeBuilding:   domain.HutTypeBasicHotel,
}

// Состояния точки (etat.id)
const (
	StateOpen      = "ouverture"
	StateClosed    = "fermeture"
	StateKeyNeeded = "cle_a_recuperer"
	StateDestroyed = "detruit"
)

// Text - значение API, которое приходит строкой, числом или null
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

func (t Text) String() string { return string(t) }

type ValueName struct {
	Name  string `json:"nom"`
	Value Text   `json:"valeur"`
}

type Coord struct {
	Alt       float64           `json:"alt" validate:"gte=0,lt=9000"`
	Long      float64           `json:"long" validate:"gte=-180,lte=180"`
	Lat       float64           `json:"lat" validate:"gte=-90,lte=90"`
	Precision map[string]string `json:"precision,omitempty"`
}

type PointType struct {
	ID    int    `json:"id"`
	Value Text   `json:"valeur"`
	Icon  string `json:"icone,omitempty"`
}

type State struct {
	ID    Text `json:"id"`
	Value Text `json:"valeur"`
}

type Dates struct {
	LastModified string `json:"derniere_modif"`
	Created      string `json:"creation"`
}

type OfficialSite struct {
	Name  string `json:"nom"`
	Value Text   `json:"valeur"`
	URL   string `json:"url"`
}

type InfoComp struct {
	OfficialSite OfficialSite `json:"site_officiel"`
	MissingWall  ValueName    `json:"manque_un_mur"`
	Fireplace    ValueName    `json:"cheminee"`
	Stove        ValueName    `json:"poele"`
	Blankets     ValueName    `json:"couvertures"`
	Mattresses   ValueName    `json:"places_matelas"`
	Latrines     ValueName    `json:"latrines"`
	Wood         ValueName    `json:"bois"`
	Water        ValueName    `json:"eau"`
}

type Properties struct {
	ID          int       `json:"id" validate:"required"`
	Link        string    `json:"lien"`
	Name        string    `json:"nom" validate:"required"`
	Sym         string    `json:"sym,omitempty"`
	Coord       *Coord    `json:"coord,omitempty"`
	Type        PointType `json:"type"`
	Places      ValueName `json:"places"`
	State       State     `json:"etat"`
	Date        Dates     `json:"date"`
	Remark      ValueName `json:"remarque"`
	Access      ValueName `json:"acces"`
	Owner       ValueName `json:"proprio"`
	InfoComp    InfoComp  `json:"info_comp"`
	Description struct {
		Value Text `json:"valeur"`
	} `json:"description"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Feature - точка refuges.info в формате GeoJSON
type Feature struct {
	Type       string     `json:"type"`
	ID         any        `json:"id,omitempty"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

func (f Feature) GetID() string {
	return strconv.Itoa(f.Properties.ID)
}

// GetName убирает кавычки вокруг названия
func (f Feature) GetName() string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(f.Properties.Name), `"`))
}

// GetLocation - coord, иначе точка geometry (lon, lat[, alt]); известные ошибки исправляются по id
func (f Feature) GetLocation() (*domain.Location, error) {
	var (
		lat, lon float64
		ele      *float64
		found    bool
	)
	switch c, g := f.Properties.Coord, f.Geometry.Coordinates; {
	case c != nil:
		lat, lon, ele, found = c.Lat, c.Long, domain.Float64(c.Alt), true
	case len(g) >= 2:
		lon, lat, found = g[0], g[1], true
		if len(g) > 2 {
			ele = domain.Float64(g[2])
		}
	}
	if c, ok := corrections[f.Properties.ID]; ok {
		lat, lon, found = c[0], c[1], true
	}
	if !found {
		return nil, &domain.CoordinatesMissingError{Source: SourceName, ID: f.GetID(), Name: f.GetName()}
	}
	loc, err := domain.NewLocation(lat, lon, ele)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// SourceProperties сохраняются вместе с записью
type SourceProperties struct {
	Slug    string  `json:"slug"`
	HutType HutType `json:"hut_type"`
}

// GetProperties - slug из ссылки .../point/123/slug/ и тип точки
func (f Feature) GetProperties() SourceProperties {
	slug := ""
	parts := strings.Split(f.Properties.Link, "/")
	if len(parts) >= 2 {
		slug = parts[len(parts)-2]
	}
	hutType, ok := refugesTypes[f.Properties.Type.ID]
	if !ok {
		hutType = HutTypeMissing
	}
	return SourceProperties{Slug: slug, HutType: hutType}
}

// FeatureCollection - ответ /api/massif
type FeatureCollection struct {
	Type      string    `json:"type"`
	Generator string    `json:"generator"`
	Copyright string    `json:"copyright"`
	Timestamp string    `json:"timestamp"`
	Size      Text      `json:"size"`
	Features  []Feature `json:"features"`
}

// Source - запись refuges.info в общем формате
type Source = domain.HutSource[Feature, SourceProperties]
