package wikicommons

import (
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/infrastructure/httpclient"
)

const (
	commonsWikiURL = "https://commons.wikimedia.org/wiki/"
	// DefaultMaxDimension - большие изображения заменяются миниатюрой этого размера
	DefaultMaxDimension = 3600
)

var (
	reCamptocampIdent = regexp.MustCompile(`\d{3,}`)
	reCamptocampURL   = regexp.MustCompile(`http:.*/\d{3,}`)
	reRefugesOriginal = regexp.MustCompile(`(\d{3,})-originale`)
	reRefugesComment  = regexp.MustCompile(`(#C\d{3,})`)
)

// commonsResponse - XML ответ commonsapi.php
type commonsResponse struct {
	XMLName xml.Name `xml:"response"`
	File    struct {
		Name   string  `xml:"name"`
		Title  string  `xml:"title"`
		URL    string  `xml:"urls>file"`
		Width  string  `xml:"width"`
		Height string  `xml:"height"`
		Date   string  `xml:"date"`
		Author string  `xml:"author"`
		Source *string `xml:"source"`
	} `xml:"file"`
	Description []struct {
		Code string `xml:"code,attr"`
		Text string `xml:",chardata"`
	} `xml:"description>language"`
	Licenses []struct {
		Name     string `xml:"name"`
		FullName string `xml:"full_name"`
		InfoURL  string `xml:"license_info_url"`
	} `xml:"licenses>license"`
}

type client struct {
	http         *httpclient.Client
	apiURL       string
	maxDimension int
	logger       *zap.Logger
}

// NewCommonsClient создает клиент Magnus toolserver commonsapi
func NewCommonsClient(apiURL string, maxDimension int, hc *httpclient.Client, logger *zap.Logger) repository.PhotoRepository {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &client{
		http:         hc,
		apiURL:       apiURL,
		maxDimension: maxDimension,
		logger:       logger,
	}
}

// GetPhoto возвращает фото с лицензиями, автором и источником
func (c *client) GetPhoto(ctx context.Context, filename string) (*domain.Photo, error) {
	filename = strings.TrimPrefix(filename, "File:")
	u := c.apiURL + "?image=" + url.QueryEscape(filename)

	body, err := c.http.Get(ctx, u, "application/xml")
	if err != nil {
		return nil, fmt.Errorf("commons photo '%s': %w", filename, err)
	}

	var resp commonsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("commons photo '%s': failed to decode response: %w", filename, err)
	}
	if resp.File.URL == "" {
		return nil, fmt.Errorf("commons photo '%s': %w", filename, domain.ErrNotFound)
	}

	photo := c.toPhoto(&resp)
	c.logger.Debug("Got commons photo",
		zap.String("file", filename),
		zap.Int("licenses", len(photo.Licenses)))
	return photo, nil
}

func (c *client) toPhoto(resp *commonsResponse) *domain.Photo {
	f := resp.File
	title := f.Title
	pageURL := commonsWikiURL + url.PathEscape(title)

	imageURL := strings.TrimSpace(f.URL)
	width, _ := strconv.Atoi(strings.TrimSpace(f.Width))
	height, _ := strconv.Atoi(strings.TrimSpace(f.Height))
	if width > 0 && height > 0 && (width > c.maxDimension || height > c.maxDimension) {
		imageURL = ResizeURL(imageURL, c.maxDimension)
		width, height = scale(width, height, c.maxDimension)
	}

	photo := domain.NewPhoto(imageURL, pageURL)
	photo.Width, photo.Height = width, height
	photo.CaptureDate = parseTimeField(f.Date)

	for _, l := range resp.Licenses {
		name := l.Name
		if name == "" {
			name = l.FullName
		}
		if name == "" {
			name = "missing"
		}
		name = strings.Trim(strings.ReplaceAll(name, "migrated", ""), " -")
		slug := strings.ToLower(name)
		if strings.Contains(slug, "cc") {
			slug = strings.TrimSpace(strings.SplitN(slug, ",", 2)[0])
		}
		photo.Licenses = append(photo.Licenses, domain.License{
			Slug: slug,
			Name: name,
			URL:  absURL(strings.TrimSpace(l.InfoURL)),
		})
	}

	for _, d := range resp.Description {
		text := strings.TrimSpace(d.Text)
		switch d.Code {
		case "de":
			photo.Caption.DE = text
		case "en":
			photo.Caption.EN = text
		case "fr":
			photo.Caption.FR = text
		case "it":
			photo.Caption.IT = text
		}
	}

	if name, href := parseHrefField(f.Author); name != "" {
		photo.Author = &domain.Author{Name: name, URL: href}
	}

	sourceRaw := pageURL
	if f.Source != nil {
		sourceRaw = *f.Source
	}
	photo.Source = parseSource(sourceRaw, title, pageURL)
	return &photo
}

func parseSource(raw, title, pageURL string) *domain.Source {
	name, href := parseHrefField(raw)
	ident := title
	lower := strings.ToLower(name)

	if strings.Contains(name, "int-own-work") {
		href = pageURL
		name = "wikicommons"
	}
	if strings.Contains(lower, "camptocamp.org") {
		name = "camptocamp"
		if m := reCamptocampIdent.FindString(href); m != "" {
			ident = m
		}
		if m := reCamptocampURL.FindString(href); m != "" {
			href = m
		}
	}
	if strings.Contains(lower, "refuges.info") {
		name = "refuges.info"
		if m := reRefugesOriginal.FindStringSubmatch(href); m != nil {
			ident = m[1]
		} else if m := reRefugesComment.FindStringSubmatch(href); m != nil {
			ident = m[1]
		}
	}
	if href == "" {
		href = pageURL
	}
	return &domain.Source{Name: name, URL: href, Ident: ident}
}

// ResizeURL возвращает адрес миниатюры: .../commons/thumb/a/ab/F.jpg/3600px-F.jpg
func ResizeURL(rawURL string, maxDimension int) string {
	filename := rawURL[strings.LastIndex(rawURL, "/")+1:]
	resized := fmt.Sprintf("%s/%dpx-%s", rawURL, maxDimension, filename)
	return strings.ReplaceAll(resized, "commons/", "commons/thumb/")
}

// scale сохраняет пропорции, большая сторона становится maxDimension
func scale(width, height, maxDimension int) (int, int) {
	w, h := float64(width), float64(height)
	m := float64(maxDimension)
	newH := m
	if height <= width {
		newH = math.RoundToEven(h / w * m)
	}
	newW := m
	if width <= height {
		newW = math.RoundToEven(w / h * m)
	}
	return int(newW), int(newH)
}

// parseHrefField возвращает текст и href первой ссылки или весь текст
func parseHrefField(html string) (string, string) {
	if strings.TrimSpace(html) == "" {
		return "", ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html), ""
	}
	a := doc.Find("a").First()
	if a.Length() == 0 {
		return strings.TrimSpace(html), ""
	}
	href, _ := a.Attr("href")
	return a.Text(), absURL(href)
}

// absURL дополняет схему у ссылок вида //commons.wikimedia.org/...
func absURL(href string) string {
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func parseTimeField(html string) *time.Time {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	value, ok := doc.Find("time").First().Attr("datetime")
	if !ok {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
