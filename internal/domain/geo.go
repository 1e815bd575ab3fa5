package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BBox - прямоугольник в порядке Overpass: south, west, north, east
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// ParseBBox разбирает строку "south,west,north,east"
func ParseBBox(s string) (*BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 comma separated values, got %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	b := &BBox{South: v[0], West: v[1], North: v[2], East: v[3]}
	if !ValidCoordinates(b.South, b.West) || !ValidCoordinates(b.North, b.East) {
		return nil, fmt.Errorf("bbox %s is out of range", s)
	}
	if b.South > b.North || b.West > b.East {
		return nil, fmt.Errorf("bbox %s is inverted", s)
	}
	return b, nil
}

// ValidCoordinates проверяет диапазоны широты и долготы
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// String - формат для Overpass запроса
func (b BBox) String() string {
	return fmt.Sprintf("%s,%s,%s,%s",
		strconv.FormatFloat(b.South, 'f', -1, 64),
		strconv.FormatFloat(b.West, 'f', -1, 64),
		strconv.FormatFloat(b.North, 'f', -1, 64),
		strconv.FormatFloat(b.East, 'f', -1, 64),
	)
}

// Contains проверяет, что точка внутри прямоугольника
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

// Alps - границы по умолчанию (Швейцария)
var Alps = BBox{South: 45.7553, West: 5.7127, North: 47.6203, East: 10.5796}

// DefaultBBox возвращает часть прямоугольника Alps вокруг центра.
// Размер растет с limit и offset, чтобы небольшие запросы не грузили всю страну.
func DefaultBBox(limit, offset int) BBox {
	const bounder = 100.0
	latDiff := Alps.North - Alps.South
	lonDiff := Alps.East - Alps.West
	latRange := latDiff/bounder*float64(limit) + latDiff/bounder*2*float64(offset)
	if latRange > latDiff {
		latRange = latDiff
	}
	lonRange := lonDiff/bounder*float64(limit) + lonDiff/bounder*2*float64(offset)
	if lonRange > lonDiff {
		lonRange = lonDiff
	}
	south := Alps.South + (latDiff-latRange)/2
	west := Alps.West + (lonDiff-lonRange)/2
	return BBox{South: south, West: west, North: south + latRange, East: west + lonRange}
}
