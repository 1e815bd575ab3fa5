package photos

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
)

type mockWikidata struct{ mock.Mock }

func (m *mockWikidata) GetEntity(ctx context.Context, id string) (*domain.WikidataEntity, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*domain.WikidataEntity), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCommons struct{ mock.Mock }

func (m *mockCommons) GetPhoto(ctx context.Context, filename string) (*domain.Photo, error) {
	args := m.Called(ctx, filename)
	if p := args.Get(0); p != nil {
		return p.(*domain.Photo), args.Error(1)
	}
	return nil, args.Error(1)
}

func entityWithImage(id, image string) *domain.WikidataEntity {
	e := &domain.WikidataEntity{ID: id, Claims: map[string][]domain.WikidataStatement{}}
	if image != "" {
		var st domain.WikidataStatement
		st.Rank = "normal"
		st.MainSnak.SnakType = "value"
		st.MainSnak.DataValue.Type = "string"
		st.MainSnak.DataValue.Value, _ = json.Marshal(image)
		e.Claims[domain.WikidataImage] = []domain.WikidataStatement{st}
	}
	return e
}

func TestFinder_ByQID(t *testing.T) {
	wd := new(mockWikidata)
	cm := new(mockCommons)
	photo := domain.NewPhoto("https://upload.wikimedia.org/a.jpg", "https://commons.wikimedia.org/wiki/File:A.jpg")

	wd.On("GetEntity", mock.Anything, "Q1").Return(entityWithImage("Q1", "A.jpg"), nil)
	cm.On("GetPhoto", mock.Anything, "A.jpg").Return(&photo, nil)

	f := NewFinder(wd, cm, zap.NewNop())
	photos, err := f.ByQID(context.Background(), "Q1")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, photo.RawURL, photos[0].RawURL)

	wd.AssertExpectations(t)
	cm.AssertExpectations(t)
}

func TestFinder_NoImage(t *testing.T) {
	wd := new(mockWikidata)
	cm := new(mockCommons)
	wd.On("GetEntity", mock.Anything, "Q2").Return(entityWithImage("Q2", ""), nil)

	f := NewFinder(wd, cm, zap.NewNop())
	photos, err := f.ByQID(context.Background(), "Q2")
	require.NoError(t, err)
	assert.Empty(t, photos)
	cm.AssertNotCalled(t, "GetPhoto", mock.Anything, mock.Anything)

	photos, err = f.ByQID(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestFinder_Errors(t *testing.T) {
	wd := new(mockWikidata)
	cm := new(mockCommons)
	wd.On("GetEntity", mock.Anything, "Q3").Return(nil, domain.ErrNotFound)
	wd.On("GetEntity", mock.Anything, "Q4").Return(entityWithImage("Q4", "B.jpg"), nil)
	cm.On("GetPhoto", mock.Anything, "B.jpg").Return(nil, domain.ErrUpstreamUnavailable)

	f := NewFinder(wd, cm, zap.NewNop())
	_, err := f.ByQID(context.Background(), "Q3")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ByQID(context.Background(), "Q4")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
