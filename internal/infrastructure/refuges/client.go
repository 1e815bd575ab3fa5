package refuges

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/infrastructure/httpclient"
)

// sizeWorkers - параллельные запросы размеров изображений
const sizeWorkers = 4

// License - лицензия всех материалов refuges.info
var License = domain.License{
	Slug: "cc-by-sa-2.0",
	Name: "CC-BY-SA 2.0",
	URL:  "https://creativecommons.org/licenses/by-sa/2.0/",
}

type client struct {
	http    *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

// NewRefugesClient создает клиент refuges.info. baseURL - адрес сайта без слеша в конце.
func NewRefugesClient(baseURL string, hc *httpclient.Client, logger *zap.Logger) repository.RefugesRepository {
	return &client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// GetPoints запрашивает точки массивов в формате GeoJSON
func (c *client) GetPoints(ctx context.Context, params url.Values, out any) error {
	u := c.baseURL + "/api/massif?" + params.Encode()
	c.logger.Debug("Calling refuges.info API", zap.String("url", u))

	if err := c.http.GetJSON(ctx, u, out); err != nil {
		c.logger.Error("refuges.info request failed", zap.Error(err))
		return fmt.Errorf("refuges.info points request failed: %w", err)
	}
	return nil
}

// GetPhotos разбирает страницу точки: каждый комментарий с изображением - одна фотография
func (c *client) GetPhotos(ctx context.Context, pointID string) ([]domain.Photo, error) {
	pageURL := c.baseURL + "/point/" + url.PathEscape(pointID)
	page, err := c.http.Get(ctx, pageURL, "text/html")
	if err != nil {
		return nil, fmt.Errorf("refuges.info point page request failed: %w", err)
	}

	photos, err := c.parsePhotos(pointID, page)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sizeWorkers)
	for i := range photos {
		p := &photos[i]
		g.Go(func() error {
			w, h, err := c.imageSize(gctx, p.RawURL)
			if err != nil {
				// размер не обязателен
				c.logger.Warn("Failed to get image size",
					zap.String("url", p.RawURL),
					zap.Error(err))
				return nil
			}
			p.Width, p.Height = w, h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *client) parsePhotos(pointID string, page []byte) ([]domain.Photo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse refuges.info page: %w", err)
	}

	photos := make([]domain.Photo, 0)
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		img := li.Find("img").First()
		if img.Length() == 0 {
			return
		}
		href, ok := img.Parent().Attr("href")
		if !ok {
			return
		}
		rawURL := strings.SplitN(c.baseURL+href, "?", 2)[0]
		rawURL = strings.ReplaceAll(rawURL, "-reduite", "-originale")

		ident, _ := li.Find("a").First().Attr("id")
		srcURL := fmt.Sprintf("%s/point/%s#%s", c.baseURL, pointID, ident)

		photo := domain.NewPhoto(rawURL, srcURL)
		photo.Licenses = []domain.License{License}
		photo.Caption = domain.Translation{FR: strings.TrimSpace(li.Find("blockquote").First().Text())}
		photo.Source = &domain.Source{Name: "refuges.info", URL: srcURL, Ident: ident}

		if d, err := time.Parse("02/01/2006", strings.TrimSpace(li.Find("div.texte_sur_image").First().Text())); err == nil {
			photo.CaptureDate = &d
		}
		legend := li.Find("p.fauxfieldset-legend").First().Text()
		if parts := strings.SplitN(legend, "par", 2); len(parts) == 2 {
			if name := strings.TrimSpace(parts[1]); name != "" {
				photo.Author = &domain.Author{Name: name}
			}
		}
		photos = append(photos, photo)
	})

	return photos, nil
}

// imageSize читает только заголовок изображения
func (c *client) imageSize(ctx context.Context, rawURL string) (int, int, error) {
	body, err := c.http.Open(ctx, rawURL)
	if err != nil {
		return 0, 0, err
	}
	defer body.Close()

	cfg, _, err := image.DecodeConfig(body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
