package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hut-services/internal/observability"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func testOptions() Options {
	return Options{Upstream: "test", RateLimit: 100, Burst: 10, MaxRetries: 4, Timeout: 2 * time.Second}
}

func TestClient_GetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			assert.Equal(t, "hut-services/1.0", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"id": 123}`))
		}
	}))
	defer ts.Close()

	metrics := observability.NewMetricsForTesting()
	cl := New(testOptions(), nil, metrics, zap.NewNop())

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, cl.GetJSON(context.Background(), ts.URL, &out))
	assert.Equal(t, 123, out.ID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ExternalRequests.WithLabelValues("test", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ExternalRequests.WithLabelValues("test", "503")))
}

func TestClient_Get_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := New(testOptions(), nil, nil, zap.NewNop())
	_, err := cl.Get(context.Background(), ts.URL, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_Get_ExhaustedRetries(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer ts.Close()

	opts := testOptions()
	opts.MaxRetries = 2
	cl := New(opts, nil, nil, zap.NewNop())

	_, err := cl.Get(context.Background(), ts.URL, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestClient_Get_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	opts := testOptions()
	opts.MaxRetries = 10
	cl := New(opts, nil, nil, zap.NewNop())
	_, err := cl.Get(ctx, ts.URL, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Cache(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write([]byte(r.Method + ":" + string(body)))
	}))
	defer ts.Close()

	opts := testOptions()
	opts.CacheTTL = time.Hour
	cache := newMemCache()
	cl := New(opts, cache, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		body, err := cl.PostForm(ctx, ts.URL, url.Values{"data": {"q1"}})
		require.NoError(t, err)
		assert.Equal(t, "POST:data=q1", string(body))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// другое тело - другой ключ
	_, err := cl.PostForm(ctx, ts.URL, url.Values{"data": {"q2"}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	n, err := cl.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = cl.PostForm(ctx, ts.URL, url.Values{"data": {"q1"}})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClient_NoCacheWithoutTTL(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	cache := newMemCache()
	cl := New(testOptions(), cache, nil, zap.NewNop())
	for i := 0; i < 2; i++ {
		_, err := cl.Get(context.Background(), ts.URL, "")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Empty(t, cache.data)
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), retryAfter(resp))

	resp.Header.Set("Retry-After", "3")
	assert.Equal(t, 3*time.Second, retryAfter(resp))

	resp.Header.Set("Retry-After", time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat))
	assert.Equal(t, time.Duration(0), retryAfter(resp))
}

func TestBackoff(t *testing.T) {
	for i := 0; i < 3; i++ {
		base := time.Duration(1<<i) * 200 * time.Millisecond
		d := backoff(i)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestClient_Open(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer ts.Close()

	cl := New(testOptions(), newMemCache(), nil, zap.NewNop())

	body, err := cl.Open(context.Background(), ts.URL+"/img.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	_, err = cl.Open(context.Background(), ts.URL+"/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_CheckSkipsCache(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("bad"))
	}))
	defer ts.Close()

	opts := testOptions()
	opts.CacheTTL = time.Hour
	cache := newMemCache()
	cl := New(opts, cache, nil, zap.NewNop())

	errBad := errors.New("bad body")
	check := func(body []byte) error {
		if string(body) == "bad" {
			return errBad
		}
		return nil
	}
	for i := 0; i < 2; i++ {
		_, err := cl.Get(context.Background(), ts.URL, "", check)
		assert.ErrorIs(t, err, errBad)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Empty(t, cache.data)
}

func TestClient_Get_RetriesWaitOnRateLimiter(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	// один токен на 100 секунд: повтор не укладывается в дедлайн
	opts := testOptions()
	opts.RateLimit = 0.01
	opts.Burst = 1
	opts.MaxRetries = 3
	cl := New(opts, nil, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := cl.Get(ctx, ts.URL, "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
