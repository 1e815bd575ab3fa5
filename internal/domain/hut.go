package domain

import (
	"github.com/go-playground/validator/v10"

	"github.com/hut-services/internal/pkg/slugify"
	pkgvalidator "github.com/hut-services/internal/pkg/validator"
)

// SlugMaxLength - максимальная длина slug хижины и владельца
const SlugMaxLength = 50

// Hut - каноническое представление хижины
type Hut struct {
	Slug        string         `json:"slug" validate:"omitempty,slug,max=50"`
	Name        Translation    `json:"name"`
	Location    Location       `json:"location"`
	Description Translation    `json:"description"`
	Notes       []Translation  `json:"notes"`
	Owner       *Owner         `json:"owner"`
	Contacts    []Contact      `json:"contacts" validate:"dive"`
	URL         string         `json:"url" validate:"max=200"`
	CountryCode *string        `json:"country_code" validate:"omitempty,len=2"`
	Comment     string         `json:"comment" validate:"max=2000"`
	Capacity    Capacity       `json:"capacity"`
	Type        HutTypeSchema  `json:"type"`
	Photos      []Photo        `json:"photos" validate:"dive"`
	OpenMonthly OpenMonthly    `json:"open_monthly"`
	IsActive    bool           `json:"is_active"`
	IsPublic    bool           `json:"is_public"`
	Extras      map[string]any `json:"extras"`
}

func init() {
	pkgvalidator.GetValidator().RegisterStructValidation(hutStructLevel, Hut{})
}

func hutStructLevel(sl validator.StructLevel) {
	h := sl.Current().Interface().(Hut)
	if h.Name.IsEmpty() {
		sl.ReportError(h.Name, "name", "Name", "required", "")
	}
}

// NewHut заполняет значения по умолчанию и валидирует хижину.
// Частично собранная хижина никогда не возвращается.
func NewHut(h Hut) (*Hut, error) {
	if h.Slug == "" {
		h.Slug = slugify.MakeMax(h.Name.I18n(), SlugMaxLength, true)
	}
	if h.Notes == nil {
		h.Notes = []Translation{}
	}
	if h.Contacts == nil {
		h.Contacts = []Contact{}
	}
	if h.Photos == nil {
		h.Photos = []Photo{}
	}
	if h.Extras == nil {
		h.Extras = map[string]any{}
	}
	if err := Validate(h); err != nil {
		return nil, err
	}
	return &h, nil
}
