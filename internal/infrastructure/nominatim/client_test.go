package nominatim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/infrastructure/httpclient"
)

func newTestClient(searchURL, elevationURL string) *client {
	hc := httpclient.New(httpclient.Options{
		Upstream:   "geocode",
		RateLimit:  100,
		Burst:      10,
		MaxRetries: 1,
		Timeout:    2 * time.Second,
	}, nil, nil, zap.NewNop())
	return NewGeocodeClient(searchURL, elevationURL, hc, zap.NewNop()).(*client)
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Cabane de Moiry", q.Get("q"))
		assert.Equal(t, "jsonv2", q.Get("format"))
		assert.Equal(t, "1", q.Get("limit"))
		assert.Equal(t, "1", q.Get("extratags"))
		assert.Equal(t, CountryCodes, q.Get("countrycodes"))
		_, _ = w.Write([]byte(`[{"place_id":123,"lat":"46.0860","lon":"7.5942","name":"Cabane de Moiry","extratags":{"ele":"2825"}}]`))
	}))
	defer server.Close()

	var out []struct {
		PlaceID int64             `json:"place_id"`
		Lat     float64           `json:"lat,string"`
		Lon     float64           `json:"lon,string"`
		Tags    map[string]string `json:"extratags"`
	}
	err := newTestClient(server.URL+"/", "").Search(context.Background(), "Cabane de Moiry", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(123), out[0].PlaceID)
	assert.InDelta(t, 46.086, out[0].Lat, 1e-9)
	assert.Equal(t, "2825", out[0].Tags["ele"])
}

func TestClient_Elevations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "46.5,7.9|45.9,7.6", r.URL.Query().Get("locations"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]float64{
				{"latitude": 46.5, "longitude": 7.9, "elevation": 2100},
				{"latitude": 45.9, "longitude": 7.6, "elevation": 3260},
			},
		})
	}))
	defer server.Close()

	cl := newTestClient("", server.URL)
	ele, err := cl.Elevations(context.Background(), []domain.Location{
		{Lat: 46.5, Lon: 7.9},
		{Lat: 45.9, Lon: 7.6},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{2100, 3260}, ele)

	ele, err = cl.Elevations(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ele)
}

func TestClient_Elevations_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient("", server.URL).Elevations(context.Background(), []domain.Location{{Lat: 1, Lon: 2}})
	assert.Error(t, err)
}

func TestClient_Search_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var out []map[string]any
	err := newTestClient(server.URL, "").Search(context.Background(), "x", &out)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
