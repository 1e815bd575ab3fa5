// Package app собирает клиенты внешних источников и сервисы хижин.
// Используется обоими бинарниками.
package app

import (
	"go.uber.org/zap"

	"github.com/hut-services/internal/config"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/infrastructure/httpclient"
	"github.com/hut-services/internal/infrastructure/nominatim"
	"github.com/hut-services/internal/infrastructure/overpass"
	"github.com/hut-services/internal/infrastructure/refuges"
	"github.com/hut-services/internal/infrastructure/wikicommons"
	"github.com/hut-services/internal/infrastructure/wikidata"
	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/service"
	"github.com/hut-services/internal/service/geocode"
	"github.com/hut-services/internal/service/osm"
	"github.com/hut-services/internal/service/photos"
	refugesService "github.com/hut-services/internal/service/refuges"
	wikidataService "github.com/hut-services/internal/service/wikidata"
)

// Upstream names, они же префиксы ключей кеша
const (
	UpstreamOverpass  = "overpass"
	UpstreamRefuges   = "refuges"
	UpstreamWikidata  = "wikidata"
	UpstreamCommons   = "commons"
	UpstreamNominatim = "nominatim"
)

// Services - собранные сервисы и HTTP клиенты источников
type Services struct {
	Registry *service.Registry
	Geocode  *geocode.Service
	// Clients - по одному на источник, владеют кешем его ответов
	Clients []*httpclient.Client
}

// NewServices создает клиенты всех источников и регистрирует сервисы.
// cache может быть nil, тогда ответы не кешируются.
func NewServices(
	cfg *config.Config,
	cache repository.CacheRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Services {
	newClient := func(upstream string) *httpclient.Client {
		return httpclient.New(httpclient.OptionsFromConfig(upstream, cfg), cache, metrics, logger)
	}

	overpassHC := newClient(UpstreamOverpass)
	refugesHC := newClient(UpstreamRefuges)
	wikidataHC := newClient(UpstreamWikidata)
	commonsHC := newClient(UpstreamCommons)
	nominatimHC := newClient(UpstreamNominatim)

	u := cfg.Upstream
	overpassClient := overpass.NewOverpassClient(u.OverpassURL, overpassHC, logger)
	refugesClient := refuges.NewRefugesClient(u.RefugesURL, refugesHC, logger)
	wikidataClient := wikidata.NewWikidataClient(u.WikidataURL, wikidataHC, logger)
	commonsClient := wikicommons.NewCommonsClient(u.CommonsURL, u.PhotoMaxSize, commonsHC, logger)
	geocodeClient := nominatim.NewGeocodeClient(u.NominatimURL, u.ElevationURL, nominatimHC, logger)

	finder := photos.NewFinder(wikidataClient, commonsClient, logger)

	osmSvc := osm.NewService(overpassClient, finder, logger)
	geocodeSvc := geocode.NewService(geocodeClient, logger)

	registry := service.NewRegistry(
		osmSvc,
		refugesService.NewService(refugesClient, u.RefugesMassifs, logger),
		wikidataService.NewService(osmSvc, wikidataClient, finder, logger),
		geocodeSvc,
	)

	return &Services{
		Registry: registry,
		Geocode:  geocodeSvc,
		Clients:  []*httpclient.Client{overpassHC, refugesHC, wikidataHC, commonsHC, nominatimHC},
	}
}
