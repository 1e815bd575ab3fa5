package wikidata

import (
	"context"
	"fmt"
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

// NewWikidataClient создает клиент Special:EntityData
func NewWikidataClient(baseURL string, hc *httpclient.Client, logger *zap.Logger) repository.WikidataRepository {
	return &client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// GetEntity загружает сущность по Q-id
func (c *client) GetEntity(ctx context.Context, id string) (*domain.WikidataEntity, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if !strings.HasPrefix(id, "Q") {
		return nil, fmt.Errorf("invalid wikidata id '%s'", id)
	}
	u := fmt.Sprintf("%s/wiki/Special:EntityData/%s.json", c.baseURL, url.PathEscape(id))

	var resp domain.WikidataEntityResponse
	if err := c.http.GetJSON(ctx, u, &resp); err != nil {
		c.logger.Warn("Wikidata request failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("wikidata entity %s: %w", id, err)
	}

	entity, ok := resp.Entity(id)
	if !ok {
		return nil, fmt.Errorf("wikidata entity %s: %w", id, domain.ErrNotFound)
	}
	return &entity, nil
}
