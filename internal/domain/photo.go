package domain

import "time"

// License - лицензия фотографии
type License struct {
	Slug string `json:"slug" validate:"required"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
	Name string `json:"name" validate:"max=300"`
}

// Author - автор фотографии
type Author struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
}

// Source - источник фотографии
type Source struct {
	Ident string `json:"ident" validate:"max=300"`
	Name  string `json:"name" validate:"max=300"`
	URL   string `json:"url,omitempty" validate:"omitempty,url"`
}

// Photo - фотография хижины с информацией о лицензии.
// Licenses всегда присутствует, пустой список означает что лицензия неизвестна.
type Photo struct {
	Licenses    []License   `json:"licenses" validate:"required,dive"`
	Caption     Translation `json:"caption"`
	Author      *Author     `json:"author"`
	Source      *Source     `json:"source"`
	Comment     string      `json:"comment" validate:"max=20000"`
	RawURL      string      `json:"raw_url" validate:"required,url"`
	URL         string      `json:"url" validate:"required,url"`
	Width       int         `json:"width" validate:"gte=0"`
	Height      int         `json:"height" validate:"gte=0"`
	CaptureDate *time.Time  `json:"capture_date"`
	Tags        []string    `json:"tags,omitempty"`
}

// NewPhoto создает фото с пустым списком лицензий
func NewPhoto(rawURL, url string) Photo {
	return Photo{
		Licenses: []License{},
		RawURL:   rawURL,
		URL:      url,
	}
}
