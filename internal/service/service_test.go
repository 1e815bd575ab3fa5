package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
)

type testRecord struct {
	ID   string  `json:"id" validate:"required"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (r testRecord) GetID() string   { return r.ID }
func (r testRecord) GetName() string { return r.Name }

func (r testRecord) GetLocation() (*domain.Location, error) {
	loc, err := domain.NewLocation(r.Lat, r.Lon, nil)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

type testProps struct {
	Slug string `json:"slug"`
}

type testSource = domain.HutSource[testRecord, testProps]

type fakeService struct {
	Base
	sources []testSource
	failID  string
}

func (s *fakeService) GetHutsFromSource(ctx context.Context, q Query) ([]testSource, error) {
	return s.sources, nil
}

func (s *fakeService) Convert(ctx context.Context, src testSource, includePhotos bool) (*domain.Hut, error) {
	rec, err := CheckSource(src)
	if err != nil {
		return nil, err
	}
	if rec.ID == s.failID {
		return nil, WrapConversion("test", rec.ID, errors.New("boom"))
	}
	return &domain.Hut{Slug: rec.ID, Name: domain.Translation{DE: rec.Name}}, nil
}

func (s *fakeService) Sources(ctx context.Context, q Query) ([]any, error) {
	sources, err := s.GetHutsFromSource(ctx, q)
	return AnySources(sources), err
}

func (s *fakeService) Huts(ctx context.Context, q Query) ([]*domain.Hut, error) {
	return GetHuts[testRecord, testProps](ctx, s, q)
}

func (s *fakeService) ConvertRaw(ctx context.Context, raw any, includePhotos bool) (*domain.Hut, error) {
	src, err := DecodeSource[testRecord, testProps]("test", raw)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, src, includePhotos)
}

func newFakeService(name string, caps Capabilities, records ...testRecord) *fakeService {
	s := &fakeService{Base: NewBase(name, caps)}
	for _, r := range records {
		s.sources = append(s.sources, domain.NewHutSource[testRecord, testProps]("test", r, nil))
	}
	return s
}

func TestQuery_Normalize(t *testing.T) {
	q := Query{Limit: 0, Offset: -3}.Normalize()
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)

	q = Query{Limit: 20, Offset: 5}.Normalize()
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 5, q.Offset)
}

func TestRegistry(t *testing.T) {
	osm := newFakeService("osm", Capabilities{BBox: true, Limit: true, Convert: true})
	refuges := newFakeService("refuges", Capabilities{Limit: true, Convert: true})
	r := NewRegistry(refuges, osm)

	assert.Equal(t, []string{"osm", "refuges"}, r.Names())

	s, err := r.Get("osm")
	require.NoError(t, err)
	assert.Equal(t, "osm", s.Name())

	_, err = r.Get("hrs")
	assert.True(t, errors.Is(err, ErrUnknownService))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, Info{Name: "refuges", Capabilities: Capabilities{Limit: true, Convert: true}}, list[1])
}

func TestBase_Bookings(t *testing.T) {
	s := newFakeService("osm", Capabilities{})

	_, err := s.Bookings(context.Background(), []string{"1"}, 3)
	var nerr *MethodNotImplementedError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "get_bookings", nerr.Method)
	assert.True(t, errors.Is(err, converter.ErrNotImplemented))
	assert.Equal(t, "Service 'osm' method 'get_bookings' is not implemented.", err.Error())
}

func TestGetHuts(t *testing.T) {
	s := newFakeService("test", Capabilities{},
		testRecord{ID: "1", Name: "A", Lat: 46, Lon: 7},
		testRecord{ID: "2", Name: "B", Lat: 46, Lon: 8},
	)

	huts, err := s.Huts(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, huts, 2)
	assert.Equal(t, "1", huts[0].Slug)
	assert.Equal(t, "2", huts[1].Slug)

	s.failID = "2"
	_, err = s.Huts(context.Background(), Query{})
	var cerr *ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "2", cerr.SourceID)
}

func TestGetHuts_NoRecords(t *testing.T) {
	s := newFakeService("test", Capabilities{})

	huts, err := s.Huts(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, huts)
	assert.Len(t, huts, 0)
}

func TestGetHuts_Canceled(t *testing.T) {
	s := newFakeService("test", Capabilities{}, testRecord{ID: "1", Name: "A"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Huts(ctx, Query{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCheckSource(t *testing.T) {
	src := domain.NewHutSource[testRecord, testProps]("test", testRecord{ID: "1"}, nil)
	rec, err := CheckSource(src)
	require.NoError(t, err)
	assert.Equal(t, "1", rec.ID)

	src.Version = -1
	_, err = CheckSource(src)
	assert.True(t, errors.Is(err, converter.ErrNotImplemented))

	src.Version = 0
	src.SourceData = nil
	_, err = CheckSource(src)
	assert.True(t, errors.Is(err, ErrMissingSourceData))
	assert.Contains(t, err.Error(), "without 'source_data' not allowed")
}

func TestDecodeSource(t *testing.T) {
	t.Run("record map", func(t *testing.T) {
		src, err := DecodeSource[testRecord, testProps]("test", map[string]any{"id": 7, "name": "Hütte", "lat": "46.5", "lon": 7.5})
		require.NoError(t, err)
		assert.Equal(t, "7", src.SourceID)
		assert.Equal(t, "Hütte", src.Name)
		require.NotNil(t, src.Location)
		assert.Equal(t, 46.5, src.Location.Lat)
	})

	t.Run("hut source json", func(t *testing.T) {
		raw := []byte(`{"source_name":"","source_id":"9","version":2,"created":"2024-05-01T10:00:00Z",
			"source_data":{"id":"9","name":"Biwak","lat":46,"lon":8},"source_properties":{"slug":"biwak"}}`)
		src, err := DecodeSource[testRecord, testProps]("test", raw)
		require.NoError(t, err)
		assert.Equal(t, "test", src.SourceName)
		assert.Equal(t, 2, src.Version)
		assert.Equal(t, 2024, src.Created.Year())
		require.NotNil(t, src.SourceProperties)
		assert.Equal(t, "biwak", src.SourceProperties.Slug)
		rec, ok := src.Record()
		require.True(t, ok)
		assert.Equal(t, "Biwak", rec.Name)
	})

	t.Run("typed record", func(t *testing.T) {
		src, err := DecodeSource[testRecord, testProps]("test", &testRecord{ID: "3", Name: "C"})
		require.NoError(t, err)
		assert.Equal(t, "3", src.SourceID)
	})

	t.Run("invalid record", func(t *testing.T) {
		_, err := DecodeSource[testRecord, testProps]("test", map[string]any{"name": "ohne id"})
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "id", verr.Field)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := DecodeSource[testRecord, testProps]("test", 42)
		assert.EqualError(t, err, "unsupported test record type int")
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := DecodeSource[testRecord, testProps]("test", []byte(`{`))
		assert.ErrorContains(t, err, "invalid test record json")
	})
}
