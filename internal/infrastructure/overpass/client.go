package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/infrastructure/httpclient"
)

type client struct {
	http    *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

// NewOverpassClient создает клиент Overpass API. baseURL - адрес interpreter.
func NewOverpassClient(baseURL string, hc *httpclient.Client, logger *zap.Logger) repository.OverpassRepository {
	return &client{
		http:    hc,
		baseURL: baseURL,
		logger:  logger,
	}
}

type remark struct {
	Remark string `json:"remark"`
}

// checkRemark не дает закешировать ответ, прерванный по времени на сервере
func checkRemark(body []byte) error {
	var r remark
	if err := json.Unmarshal(body, &r); err != nil {
		return fmt.Errorf("failed to decode overpass response: %w", err)
	}
	if strings.Contains(r.Remark, "runtime error") {
		return fmt.Errorf("%w: %s", domain.ErrUpstreamTimeout, r.Remark)
	}
	return nil
}

// Query отправляет запрос как form поле data и декодирует ответ в out.
// Таймаут сервера (504 или remark "runtime error") возвращается как domain.ErrUpstreamTimeout.
func (c *client) Query(ctx context.Context, query string, out any) error {
	c.logger.Debug("Calling Overpass API",
		zap.String("url", c.baseURL),
		zap.String("query", query))

	body, err := c.http.PostForm(ctx, c.baseURL, url.Values{"data": {query}}, checkRemark)
	if err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusGatewayTimeout {
			c.logger.Warn("Overpass gateway timeout", zap.Error(err))
			return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
		}
		if errors.Is(err, domain.ErrUpstreamTimeout) {
			c.logger.Warn("Overpass runtime error", zap.Error(err))
			return err
		}
		c.logger.Error("Overpass request failed", zap.Error(err))
		return fmt.Errorf("overpass query failed: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode overpass response: %w", err)
	}
	return nil
}
