package domain

import (
	"fmt"
	"time"
)

// SourceRecord - запись провайдера (OSM, refuges.info, Wikidata, geocode).
// Конвертеры зависят только от этого контракта.
type SourceRecord interface {
	GetID() string
	GetName() string
	GetLocation() (*Location, error)
}

// HutSource - запись одного провайдера, которая передается между загрузкой и конвертацией
type HutSource[T SourceRecord, P any] struct {
	SourceName       string    `json:"source_name"`
	Name             string    `json:"name"`
	Location         *Location `json:"location"`
	SourceID         string    `json:"source_id" validate:"required"`
	SourceData       *T        `json:"source_data"`
	SourceProperties *P        `json:"source_properties"`
	Version          int       `json:"version"`
	Created          time.Time `json:"created"`
}

// NewHutSource создает HutSource из записи провайдера.
// Ошибка координат не фатальна: Location остается nil, конвертация вернет ошибку позже.
func NewHutSource[T SourceRecord, P any](sourceName string, record T, props *P) HutSource[T, P] {
	loc, err := record.GetLocation()
	if err != nil {
		loc = nil
	}
	return HutSource[T, P]{
		SourceName:       sourceName,
		Name:             record.GetName(),
		Location:         loc,
		SourceID:         record.GetID(),
		SourceData:       &record,
		SourceProperties: props,
		Version:          0,
		Created:          Now(),
	}
}

// Record возвращает исходную запись провайдера
func (s HutSource[T, P]) Record() (T, bool) {
	if s.SourceData == nil {
		var zero T
		return zero, false
	}
	return *s.SourceData, true
}

func (s HutSource[T, P]) String() string {
	loc := "(no location)"
	if s.Location != nil {
		loc = fmt.Sprintf("(%v,%v)", s.Location.Lon, s.Location.Lat)
	}
	return fmt.Sprintf("<%s #%s - %s %s>", s.SourceName, s.SourceID, s.Name, loc)
}

// NoProperties - для провайдеров без дополнительных свойств
type NoProperties struct{}
