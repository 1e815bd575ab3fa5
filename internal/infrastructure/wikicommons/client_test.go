package wikicommons

import (
	"context"
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

const commonsXML = `<?xml version="1.0" encoding="UTF-8"?>
<response version="0.92">
<file>
<name>Wildhornhuette.jpg</name>
<title>File:Wildhornhuette.jpg</title>
<urls>
<file>https://upload.wikimedia.org/wikipedia/commons/a/ab/Wildhornhuette.jpg</file>
<description>https://commons.wikimedia.org/wiki/File:Wildhornhuette.jpg</description>
</urls>
<width>4000</width>
<height>3000</height>
<date>&lt;time class="dtstart" datetime="2008-08-12"&gt;12 August 2008&lt;/time&gt;</date>
<author>&lt;a href="//commons.wikimedia.org/wiki/User:Hiker"&gt;Hiker&lt;/a&gt;</author>
<source>&lt;span class="int-own-work" lang="en"&gt;Own work&lt;/span&gt;</source>
</file>
<description>
<language code="en" name="English"> Wildhorn hut </language>
<language code="es" name="Spanish">Refugio</language>
</description>
<licenses selection="">
<license><name>CC-BY-SA-3.0-migrated</name><full_name>Creative Commons Attribution-Share Alike 3.0</full_name><license_info_url>https://creativecommons.org/licenses/by-sa/3.0</license_info_url></license>
<license><full_name>GFDL</full_name></license>
</licenses>
</response>`

func newTestClient(apiURL string, maxDim int) *client {
	hc := httpclient.New(httpclient.Options{
		Upstream:   "commons",
		RateLimit:  100,
		Burst:      10,
		MaxRetries: 1,
		Timeout:    2 * time.Second,
	}, nil, nil, zap.NewNop())
	return NewCommonsClient(apiURL, maxDim, hc, zap.NewNop()).(*client)
}

func TestClient_GetPhoto(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Wildhornhuette.jpg", r.URL.Query().Get("image"))
		_, _ = w.Write([]byte(commonsXML))
	}))
	defer server.Close()

	photo, err := newTestClient(server.URL, 3600).GetPhoto(context.Background(), "File:Wildhornhuette.jpg")
	require.NoError(t, err)

	assert.Equal(t,
		"https://upload.wikimedia.org/wikipedia/commons/thumb/a/ab/Wildhornhuette.jpg/3600px-Wildhornhuette.jpg",
		photo.RawURL)
	assert.Equal(t, "https://commons.wikimedia.org/wiki/File:Wildhornhuette.jpg", photo.URL)
	assert.Equal(t, 3600, photo.Width)
	assert.Equal(t, 2700, photo.Height)
	assert.Equal(t, "Wildhorn hut", photo.Caption.EN)
	assert.Empty(t, photo.Caption.DE)

	require.NotNil(t, photo.CaptureDate)
	assert.Equal(t, time.Date(2008, 8, 12, 0, 0, 0, 0, time.UTC), *photo.CaptureDate)

	require.NotNil(t, photo.Author)
	assert.Equal(t, "Hiker", photo.Author.Name)
	assert.Equal(t, "https://commons.wikimedia.org/wiki/User:Hiker", photo.Author.URL)

	require.NotNil(t, photo.Source)
	assert.Equal(t, "wikicommons", photo.Source.Name)
	assert.Equal(t, photo.URL, photo.Source.URL)
	assert.Equal(t, "File:Wildhornhuette.jpg", photo.Source.Ident)

	require.Len(t, photo.Licenses, 2)
	assert.Equal(t, domain.License{
		Slug: "cc-by-sa-3.0",
		Name: "CC-BY-SA-3.0",
		URL:  "https://creativecommons.org/licenses/by-sa/3.0",
	}, photo.Licenses[0])
	assert.Equal(t, "gfdl", photo.Licenses[1].Slug)

	assert.NoError(t, domain.Validate(photo))
}

func TestClient_GetPhoto_NoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><response><error>File does not exist</error></response>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 0).GetPhoto(context.Background(), "Missing.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseSource(t *testing.T) {
	page := "https://commons.wikimedia.org/wiki/File:X.jpg"

	src := parseSource(`<a href="http://www.camptocamp.org/images/123456">camptocamp.org</a>`, "File:X.jpg", page)
	assert.Equal(t, "camptocamp", src.Name)
	assert.Equal(t, "123456", src.Ident)
	assert.Equal(t, "http://www.camptocamp.org/images/123456", src.URL)

	src = parseSource(`<a href="https://www.refuges.info/photos_points/9876-originale.jpeg">refuges.info</a>`, "File:X.jpg", page)
	assert.Equal(t, "refuges.info", src.Name)
	assert.Equal(t, "9876", src.Ident)

	src = parseSource(`<a href="https://www.refuges.info/point/1#C4567">www.refuges.info</a>`, "File:X.jpg", page)
	assert.Equal(t, "#C4567", src.Ident)

	src = parseSource("Scanned postcard", "File:X.jpg", page)
	assert.Equal(t, "Scanned postcard", src.Name)
	assert.Equal(t, page, src.URL)
}

func TestResizeAndScale(t *testing.T) {
	assert.Equal(t,
		"https://upload.wikimedia.org/wikipedia/commons/thumb/1/12/A.jpg/500px-A.jpg",
		ResizeURL("https://upload.wikimedia.org/wikipedia/commons/1/12/A.jpg", 500))

	w, h := scale(4000, 3000, 3600)
	assert.Equal(t, 3600, w)
	assert.Equal(t, 2700, h)

	w, h = scale(1000, 5000, 500)
	assert.Equal(t, 100, w)
	assert.Equal(t, 500, h)

	w, h = scale(4000, 4000, 3600)
	assert.Equal(t, 3600, w)
	assert.Equal(t, 3600, h)
}

func TestParseTimeField(t *testing.T) {
	assert.Nil(t, parseTimeField(""))
	assert.Nil(t, parseTimeField("12 August 2008"))

	ts := parseTimeField(`<time class="dtstart" datetime="2010-01-02 10:11:12">x</time>`)
	require.NotNil(t, ts)
	assert.Equal(t, 10, ts.Hour())
}
