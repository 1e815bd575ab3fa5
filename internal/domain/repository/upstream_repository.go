package repository

import (
	"context"
	"net/url"

	"github.com/hut-services/internal/domain"
)

// OverpassRepository выполняет запросы Overpass QL
type OverpassRepository interface {
	// Query выполняет запрос и декодирует JSON ответ в out
	Query(ctx context.Context, query string, out any) error
}

// RefugesRepository - API refuges.info
type RefugesRepository interface {
	// GetPoints запрашивает /api/massif и декодирует GeoJSON в out
	GetPoints(ctx context.Context, params url.Values, out any) error

	// GetPhotos собирает фотографии со страницы точки
	GetPhotos(ctx context.Context, pointID string) ([]domain.Photo, error)
}

// WikidataRepository - Wikidata entity API
type WikidataRepository interface {
	GetEntity(ctx context.Context, id string) (*domain.WikidataEntity, error)
}

// PhotoRepository - информация о фото Wikimedia Commons
type PhotoRepository interface {
	// GetPhoto возвращает фото по имени файла (без префикса "File:")
	GetPhoto(ctx context.Context, filename string) (*domain.Photo, error)
}

// GeocodeRepository - поиск координат по названию и высоты по координатам
type GeocodeRepository interface {
	// Search ищет место по названию и декодирует ответ в out
	Search(ctx context.Context, name string, out any) error

	// Elevations возвращает высоты для координат в том же порядке
	Elevations(ctx context.Context, locations []domain.Location) ([]float64, error)
}
