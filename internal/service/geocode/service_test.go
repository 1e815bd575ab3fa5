package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/service"
)

const searchJSON = `[{
  "place_id": 119832345,
  "licence": "Data © OpenStreetMap contributors, ODbL 1.0. http://osm.org/copyright",
  "osm_type": "node",
  "osm_id": 1380357456,
  "lat": "47.0547",
  "lon": "11.19833",
  "category": "tourism",
  "type": "alpine_hut",
  "place_rank": 30,
  "importance": 0.28,
  "addresstype": "tourism",
  "name": "Neue Regensburger Hütte",
  "display_name": "Neue Regensburger Hütte, Neustift im Stubaital, Tirol, Österreich",
  "extratags": {"ele": "2286", "operator": "DAV"},
  "boundingbox": ["47.0546", "47.0548", "11.1982", "11.1984"]
}]`

type fakeGeocode struct {
	search     string
	elevations []float64
	err        error
	queried    []domain.Location
}

func (f *fakeGeocode) Search(ctx context.Context, name string, out any) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.search), out)
}

func (f *fakeGeocode) Elevations(ctx context.Context, locations []domain.Location) ([]float64, error) {
	f.queried = locations
	if f.err != nil {
		return nil, f.err
	}
	return f.elevations[:len(locations)], nil
}

func TestService_GetLocationByName(t *testing.T) {
	svc := NewService(&fakeGeocode{search: searchJSON}, zap.NewNop())

	loc, err := svc.GetLocationByName(context.Background(), "Neue Regensburger Huette")
	require.NoError(t, err)
	assert.InDelta(t, 47.0547, loc.Lat, 1e-9)
	assert.InDelta(t, 11.19833, loc.Lon, 1e-9)
	assert.Equal(t, domain.Float64(2286), loc.Ele)
}

func TestService_GetLocationByName_NotFound(t *testing.T) {
	svc := NewService(&fakeGeocode{search: `[]`}, zap.NewNop())

	_, err := svc.GetLocationByName(context.Background(), "Nirgendwo")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestService_GetLocationByName_UpstreamError(t *testing.T) {
	svc := NewService(&fakeGeocode{err: domain.ErrUpstreamUnavailable}, zap.NewNop())

	_, err := svc.GetLocationByName(context.Background(), "Hütte")
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestService_GetElevations(t *testing.T) {
	client := &fakeGeocode{elevations: []float64{2947, 1087}}
	svc := NewService(client, zap.NewNop())

	locations := []domain.Location{
		{Lat: 47.0, Lon: 11.1},
		{Lat: 46.5, Lon: 8.0, Ele: domain.Float64(3000)},
		{Lat: 46.0, Lon: 10.1},
	}
	res, err := svc.GetElevations(context.Background(), locations)
	require.NoError(t, err)
	require.Len(t, res, 3)

	// запрашиваются только точки без высоты
	assert.Equal(t, []domain.Location{locations[0], locations[2]}, client.queried)
	assert.Equal(t, domain.Float64(2947), res[0].Ele)
	assert.Equal(t, domain.Float64(3000), res[1].Ele)
	assert.Equal(t, domain.Float64(1087), res[2].Ele)
	assert.Nil(t, locations[0].Ele)

	one, err := svc.GetElevation(context.Background(), domain.Location{Lat: 47.0, Lon: 11.1})
	require.NoError(t, err)
	assert.Equal(t, domain.Float64(2947), one.Ele)
}

func TestService_GetElevations_NothingMissing(t *testing.T) {
	client := &fakeGeocode{}
	svc := NewService(client, zap.NewNop())

	res, err := svc.GetElevations(context.Background(), []domain.Location{{Lat: 1, Lon: 2, Ele: domain.Float64(5)}})
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Nil(t, client.queried)
}

func TestService_Convert(t *testing.T) {
	svc := NewService(&fakeGeocode{search: searchJSON}, zap.NewNop())

	src, err := svc.Search(context.Background(), "Neue Regensburger Huette")
	require.NoError(t, err)
	assert.Equal(t, "119832345", src.SourceID)
	assert.Equal(t, SourceName, src.SourceName)

	h, err := svc.Convert(context.Background(), *src, false)
	require.NoError(t, err)
	assert.Equal(t, "Neue Regensburger Hütte", h.Name.DE)
	assert.Equal(t, domain.HutTypeHut, h.Type.Open)
	assert.Equal(t, domain.Float64(2286), h.Location.Ele)
	assert.Equal(t, "node/1380357456", h.Extras["osm"])
}

func TestService_ConvertRaw(t *testing.T) {
	svc := NewService(&fakeGeocode{}, zap.NewNop())

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(searchJSON), &raw))

	h, err := svc.ConvertRaw(context.Background(), raw[0], false)
	require.NoError(t, err)
	assert.InDelta(t, 47.0547, h.Location.Lat, 1e-9)
	assert.Equal(t, domain.Float64(2286), h.Location.Ele)
}

func TestService_GetHutsFromSource_NotImplemented(t *testing.T) {
	svc := NewService(&fakeGeocode{}, zap.NewNop())

	_, err := svc.GetHutsFromSource(context.Background(), service.Query{})
	assert.True(t, errors.Is(err, converter.ErrNotImplemented))

	_, err = svc.Huts(context.Background(), service.Query{})
	var nerr *service.MethodNotImplementedError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, SourceName, nerr.Service)

	assert.Equal(t, service.Capabilities{Convert: true}, svc.Capabilities())
}

func TestPlace_GetLocation(t *testing.T) {
	p := Place{Name: "x", Lat: 46, Lon: 7, ExtraTags: map[string]string{"ele": "kein"}}
	loc, err := p.GetLocation()
	require.NoError(t, err)
	assert.Nil(t, loc.Ele)

	assert.Equal(t, "", p.OSMTag())
	p.Category, p.Type = "tourism", "wilderness_hut"
	assert.Equal(t, "wilderness_hut", p.OSMTag())
}
