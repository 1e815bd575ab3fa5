package httpclient

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hut-services/internal/config"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/observability"
)

// maxBodySize - ответы Overpass для больших bbox бывают в десятки мегабайт
const maxBodySize = 64 << 20

var (
	ErrNotFound     = domain.ErrNotFound
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
	// ErrUnavailable - источник не ответил после всех попыток
	ErrUnavailable = domain.ErrUpstreamUnavailable
)

// StatusError - неуспешный HTTP статус источника
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: bad status %d", e.Upstream, e.StatusCode)
	}
	return fmt.Sprintf("%s: bad status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrUnavailable:
		return retryable(e.StatusCode)
	}
	return false
}

// Options - настройки клиента одного источника
type Options struct {
	Upstream   string
	UserAgent  string
	Timeout    time.Duration
	RateLimit  float64
	Burst      int
	MaxRetries int
	CacheTTL   time.Duration
}

// OptionsFromConfig собирает Options из общей конфигурации источников
func OptionsFromConfig(upstream string, cfg *config.Config) Options {
	ttl := time.Duration(0)
	if cfg.Cache.Enabled {
		ttl = cfg.Cache.UpstreamTTL
	}
	return Options{
		Upstream:   upstream,
		UserAgent:  cfg.Upstream.UserAgent,
		Timeout:    cfg.Upstream.Timeout,
		RateLimit:  cfg.Upstream.RateLimit,
		Burst:      cfg.Upstream.Burst,
		MaxRetries: cfg.Upstream.MaxRetries,
		CacheTTL:   ttl,
	}
}

// Client - HTTP клиент с ограничением частоты, повторами и кешем ответов в Redis.
// Безопасен для конкурентного использования.
type Client struct {
	opts    Options
	hc      *http.Client
	rl      *rate.Limiter
	cache   repository.CacheRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New создает клиент. cache и metrics могут быть nil.
func New(opts Options, cache repository.CacheRepository, metrics *observability.Metrics, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 4
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "hut-services/1.0"
	}
	return &Client{
		opts:    opts,
		hc:      &http.Client{Timeout: opts.Timeout},
		rl:      rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		cache:   cache,
		metrics: metrics,
		logger:  logger.With(zap.String("upstream", opts.Upstream)),
	}
}

// Upstream возвращает имя источника
func (c *Client) Upstream() string {
	return c.opts.Upstream
}

// Check проверяет тело успешного ответа до записи в кеш.
// Ответ, не прошедший проверку, не кешируется.
type Check func(body []byte) error

// Get выполняет GET запрос и возвращает тело ответа
func (c *Client) Get(ctx context.Context, rawURL, accept string, checks ...Check) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil, "", accept, checks)
}

// GetJSON выполняет GET и декодирует JSON в out
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any) error {
	body, err := c.Get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.opts.Upstream, err)
	}
	return nil
}

// PostForm отправляет form-urlencoded POST. Ответ кешируется как у GET,
// используется только для идемпотентных запросов (Overpass).
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, checks ...Check) ([]byte, error) {
	return c.do(ctx, http.MethodPost, rawURL, []byte(form.Encode()), "application/x-www-form-urlencoded", "application/json", checks)
}

// Open выполняет одиночный GET без кеша и повторов (для чтения заголовков изображений).
// Тело закрывает вызывающий.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.ObserveExternal(c.opts.Upstream, 0, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, c.opts.Upstream, err)
	}
	c.metrics.ObserveExternal(c.opts.Upstream, resp.StatusCode, time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readStatusError(c.opts.Upstream, resp)
	}
	return resp.Body, nil
}

// ClearCache удаляет все закешированные ответы источника
func (c *Client) ClearCache(ctx context.Context) (int, error) {
	if c.cache == nil {
		return 0, nil
	}
	return c.cache.DeletePrefix(ctx, c.cachePrefix())
}

func (c *Client) cachePrefix() string {
	return "http:" + c.opts.Upstream + ":"
}

func (c *Client) cacheKey(method, rawURL string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(rawURL))
	h.Write([]byte{0})
	h.Write(body)
	return c.cachePrefix() + hex.EncodeToString(h.Sum(nil))
}

func (c *Client) do(
	ctx context.Context,
	method, rawURL string,
	body []byte,
	contentType, accept string,
	checks []Check,
) ([]byte, error) {
	useCache := c.cache != nil && c.opts.CacheTTL > 0
	key := ""
	if useCache {
		key = c.cacheKey(method, rawURL, body)
		cached, err := c.cache.Get(ctx, key)
		if err != nil {
			// кеш недоступен - идем в источник
			c.logger.Warn("Cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	data, err := c.fetch(ctx, method, rawURL, body, contentType, accept)
	if err != nil {
		return nil, err
	}
	for _, check := range checks {
		if err := check(data); err != nil {
			return nil, err
		}
	}

	if useCache {
		if err := c.cache.Set(ctx, key, data, c.opts.CacheTTL); err != nil {
			c.logger.Warn("Cache write failed", zap.Error(err))
		}
	}
	return data, nil
}

// fetch выполняет запрос с ограничением частоты и повторами.
// Повторяет 429 и временные 5xx, учитывая Retry-After.
func (c *Client) fetch(ctx context.Context, method, rawURL string, body []byte, contentType, accept string) ([]byte, error) {
	attempts := c.opts.MaxRetries
	var lastErr error
	for i := 0; i < attempts; i++ {
		// каждая попытка, включая повторы, проходит через лимитер
		if err := c.rl.Wait(ctx); err != nil {
			return nil, err
		}
		last := i == attempts-1

		req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			c.metrics.ObserveExternal(c.opts.Upstream, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn("Upstream request failed",
				zap.String("url", rawURL),
				zap.Int("attempt", i+1),
				zap.Error(err))
			if !last && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, c.opts.Upstream, lastErr)
		}

		c.metrics.ObserveExternal(c.opts.Upstream, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: failed to read response: %w", c.opts.Upstream, err)
			}
			return data, nil

		case retryable(resp.StatusCode):
			wait := retryAfter(resp)
			statusErr := readStatusError(c.opts.Upstream, resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = statusErr
			c.logger.Warn("Upstream returned retryable status",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", i+1),
				zap.Duration("wait", wait))
			if !last && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			return nil, readStatusError(c.opts.Upstream, resp)
		}
	}

	return nil, lastErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// readStatusError читает небольшой фрагмент тела для диагностики и закрывает его
func readStatusError(upstream string, resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return &StatusError{
		Upstream:   upstream,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
	}
}

// sleepCtx ждет d или возвращает false при отмене ctx
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter разбирает Retry-After (секунды или HTTP дата). 0 если нет.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms, 400ms, 800ms... плюс до 50% случайной добавки
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
