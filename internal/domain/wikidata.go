package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Свойства Wikidata, которые используются при конвертации
const (
	WikidataImage      = "P18"
	WikidataCoordinate = "P625"
	WikidataElevation  = "P2044"
	WikidataWebsite    = "P856"
	WikidataCapacity   = "P1083"
)

// WikidataEntityResponse - ответ Special:EntityData/{id}.json
type WikidataEntityResponse struct {
	Entities map[string]WikidataEntity `json:"entities"`
}

// Entity возвращает сущность по id. При редиректе ключ отличается от запрошенного,
// поэтому возвращается единственная сущность ответа.
func (r WikidataEntityResponse) Entity(id string) (WikidataEntity, bool) {
	if e, ok := r.Entities[strings.ToUpper(id)]; ok {
		return e, true
	}
	for _, e := range r.Entities {
		return e, true
	}
	return WikidataEntity{}, false
}

type WikidataEntity struct {
	ID     string                         `json:"id"`
	Labels map[string]WikidataLabel       `json:"labels"`
	Claims map[string][]WikidataStatement `json:"claims"`
}

type WikidataLabel struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type WikidataStatement struct {
	MainSnak struct {
		SnakType  string `json:"snaktype"`
		DataValue struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
	Rank string `json:"rank"`
}

// WikidataCoordinates - значение globecoordinate
type WikidataCoordinates struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
}

type wikidataQuantity struct {
	Amount string `json:"amount"`
}

// Label возвращает перевод названия на de/en/fr/it
func (e WikidataEntity) Label() Translation {
	get := func(lang string) string {
		if l, ok := e.Labels[lang]; ok {
			return l.Value
		}
		return ""
	}
	return Translation{DE: get("de"), EN: get("en"), FR: get("fr"), IT: get("it")}
}

// value возвращает значение первого не устаревшего утверждения
func (e WikidataEntity) value(prop string) (json.RawMessage, bool) {
	for _, st := range e.Claims[prop] {
		if st.Rank == "deprecated" || st.MainSnak.SnakType != "value" {
			continue
		}
		if len(st.MainSnak.DataValue.Value) == 0 {
			continue
		}
		return st.MainSnak.DataValue.Value, true
	}
	return nil, false
}

// String возвращает строковое значение свойства (P18, P856)
func (e WikidataEntity) String(prop string) string {
	raw, ok := e.value(prop)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Quantity возвращает числовое значение свойства (P2044, P1083)
func (e WikidataEntity) Quantity(prop string) (float64, bool) {
	raw, ok := e.value(prop)
	if !ok {
		return 0, false
	}
	var q wikidataQuantity
	if err := json.Unmarshal(raw, &q); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(q.Amount, "+"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Coordinates возвращает P625
func (e WikidataEntity) Coordinates() (WikidataCoordinates, bool) {
	raw, ok := e.value(WikidataCoordinate)
	if !ok {
		return WikidataCoordinates{}, false
	}
	var c WikidataCoordinates
	if err := json.Unmarshal(raw, &c); err != nil {
		return WikidataCoordinates{}, false
	}
	return c, true
}
