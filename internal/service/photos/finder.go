package photos

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
)

// Finder ищет фото хижины по ссылке на Wikidata: P18 -> Wikimedia Commons
type Finder struct {
	wikidata repository.WikidataRepository
	commons  repository.PhotoRepository
	logger   *zap.Logger
}

func NewFinder(wikidata repository.WikidataRepository, commons repository.PhotoRepository, logger *zap.Logger) *Finder {
	return &Finder{wikidata: wikidata, commons: commons, logger: logger}
}

// ByFilename возвращает фото Commons по имени файла
func (f *Finder) ByFilename(ctx context.Context, filename string) ([]domain.Photo, error) {
	if filename == "" {
		return []domain.Photo{}, nil
	}
	photo, err := f.commons.GetPhoto(ctx, filename)
	if err != nil {
		return nil, err
	}
	return []domain.Photo{*photo}, nil
}

// ByEntity возвращает фото из P18 уже загруженной сущности
func (f *Finder) ByEntity(ctx context.Context, entity *domain.WikidataEntity) ([]domain.Photo, error) {
	photos, err := f.ByFilename(ctx, entity.String(domain.WikidataImage))
	if err != nil {
		return nil, fmt.Errorf("photo of %s: %w", entity.ID, err)
	}
	return photos, nil
}

// ByQID загружает сущность и возвращает ее фото
func (f *Finder) ByQID(ctx context.Context, qid string) ([]domain.Photo, error) {
	if qid == "" {
		return []domain.Photo{}, nil
	}
	entity, err := f.wikidata.GetEntity(ctx, qid)
	if err != nil {
		return nil, fmt.Errorf("photos for %s: %w", qid, err)
	}
	photos, err := f.ByEntity(ctx, entity)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("Found wikidata photos",
		zap.String("qid", qid),
		zap.Int("count", len(photos)))
	return photos, nil
}
