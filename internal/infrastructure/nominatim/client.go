package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/infrastructure/httpclient"
)

// CountryCodes - страны, в которых ищутся хижины
const CountryCodes = "ch,de,fr,it,at"

type elevationResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

type client struct {
	http         *httpclient.Client
	searchURL    string
	elevationURL string
	logger       *zap.Logger
}

// NewGeocodeClient создает клиент Nominatim (поиск) и open-elevation (высоты)
func NewGeocodeClient(searchURL, elevationURL string, hc *httpclient.Client, logger *zap.Logger) repository.GeocodeRepository {
	return &client{
		http:         hc,
		searchURL:    strings.TrimRight(searchURL, "/"),
		elevationURL: elevationURL,
		logger:       logger,
	}
}

// Search возвращает лучший результат Nominatim как JSON список в out
func (c *client) Search(ctx context.Context, name string, out any) error {
	params := url.Values{}
	params.Set("q", name)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	params.Set("extratags", "1")
	params.Set("countrycodes", CountryCodes)

	u := c.searchURL + "/search?" + params.Encode()
	c.logger.Debug("Calling Nominatim", zap.String("name", name))

	if err := c.http.GetJSON(ctx, u, out); err != nil {
		return fmt.Errorf("nominatim search '%s': %w", name, err)
	}
	return nil
}

// Elevations запрашивает высоты одним запросом
func (c *client) Elevations(ctx context.Context, locations []domain.Location) ([]float64, error) {
	if len(locations) == 0 {
		return []float64{}, nil
	}
	points := make([]string, 0, len(locations))
	for _, loc := range locations {
		points = append(points,
			strconv.FormatFloat(loc.Lat, 'f', -1, 64)+","+strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	}
	u := c.elevationURL + "?locations=" + url.QueryEscape(strings.Join(points, "|"))

	var resp elevationResponse
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("elevation lookup: %w", err)
	}
	if len(resp.Results) != len(locations) {
		return nil, fmt.Errorf("elevation lookup: got %d results for %d locations", len(resp.Results), len(locations))
	}

	result := make([]float64, len(resp.Results))
	for i, r := range resp.Results {
		result[i] = r.Elevation
	}
	c.logger.Debug("Got elevations", zap.Int("count", len(result)))
	return result, nil
}
