package domain

import (
	"fmt"

	"github.com/hut-services/internal/pkg/swissgrid"
)

// Location - координаты в WGS84 с необязательной высотой
type Location struct {
	Lat float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64  `json:"lon" validate:"gte=-180,lte=180"`
	Ele *float64 `json:"ele" validate:"omitempty,gte=0,lt=9000"`
}

// NewLocation создает и валидирует Location
func NewLocation(lat, lon float64, ele *float64) (Location, error) {
	loc := Location{Lat: lat, Lon: lon, Ele: ele}
	if err := Validate(loc); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// FromSwiss создает Location из швейцарских координат LV03 или LV95
func FromSwiss(east, north float64, ele *float64) (Location, error) {
	height := 0.0
	if ele != nil {
		height = *ele
	}
	lat, lon, h := swissgrid.ToWGS84(east, north, height)
	return NewLocation(lat, lon, &h)
}

// Elevation возвращает высоту или 0, если она не задана
func (l Location) Elevation() float64 {
	if l.Ele == nil {
		return 0
	}
	return *l.Ele
}

// LonLat возвращает координаты в порядке GeoJSON
func (l Location) LonLat() [2]float64 {
	return [2]float64{l.Lon, l.Lat}
}

func (l Location) String() string {
	if l.Ele == nil {
		return fmt.Sprintf("lon=%v,lat=%v,ele=None", l.Lon, l.Lat)
	}
	return fmt.Sprintf("lon=%v,lat=%v,ele=%v", l.Lon, l.Lat, *l.Ele)
}

// Float64 - хелпер для необязательных значений
func Float64(v float64) *float64 {
	return &v
}

// Int - хелпер для необязательных значений
func Int(v int) *int {
	return &v
}
