package converter

import (
	"context"
	"fmt"

	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/guess"
)

// Fields - поля канонической хижины. Каждое поле вычисляется независимо.
// Конкретный конвертер встраивает Base и переопределяет только то, что умеет.
type Fields interface {
	ConverterName() string
	Slug() Result[string]
	Name() Result[domain.Translation]
	Location() Result[domain.Location]
	Description() Result[domain.Translation]
	Notes() Result[[]domain.Translation]
	Owner() Result[*domain.Owner]
	Contacts() Result[[]domain.Contact]
	URL() Result[string]
	CountryCode() Result[*string]
	Comment() Result[string]
	Capacity() Result[domain.Capacity]
	HutType() Result[domain.HutTypeSchema]
	Photos(ctx context.Context) Result[[]domain.Photo]
	OpenMonthly() Result[domain.OpenMonthly]
	IsActive() Result[bool]
	IsPublic() Result[bool]
	Extras() Result[map[string]any]
}

// Base - значения по умолчанию для всех полей
type Base[T domain.SourceRecord] struct {
	Converter     string
	Source        T
	IncludePhotos bool
}

// NewBase создает базовый конвертер для записи источника
func NewBase[T domain.SourceRecord](name string, source T, includePhotos bool) Base[T] {
	return Base[T]{Converter: name, Source: source, IncludePhotos: includePhotos}
}

func (b Base[T]) ConverterName() string { return b.Converter }

// Slug - пустое значение, GetHut выведет slug из имени
func (b Base[T]) Slug() Result[string] { return Ok("") }

func (b Base[T]) Name() Result[domain.Translation] {
	return Ok(domain.Translation{DE: b.Source.GetName()})
}

func (b Base[T]) Location() Result[domain.Location] {
	loc, err := b.Source.GetLocation()
	if err != nil {
		return Fail[domain.Location](err)
	}
	if loc == nil {
		return Fail[domain.Location](&domain.CoordinatesMissingError{ID: b.Source.GetID(), Name: b.Source.GetName()})
	}
	return Ok(*loc)
}

func (b Base[T]) Description() Result[domain.Translation] {
	return NotImplemented[domain.Translation](b.Converter, "description")
}

func (b Base[T]) Notes() Result[[]domain.Translation] { return Ok([]domain.Translation{}) }
func (b Base[T]) Owner() Result[*domain.Owner]        { return Ok[*domain.Owner](nil) }
func (b Base[T]) Contacts() Result[[]domain.Contact]  { return Ok([]domain.Contact{}) }
func (b Base[T]) URL() Result[string]                 { return Ok("") }
func (b Base[T]) CountryCode() Result[*string]        { return Ok[*string](nil) }
func (b Base[T]) Comment() Result[string]             { return Ok("") }
func (b Base[T]) Capacity() Result[domain.Capacity]   { return Ok(domain.Capacity{}) }

func (b Base[T]) HutType() Result[domain.HutTypeSchema] {
	return Ok(domain.HutTypeSchema{Open: domain.HutTypeUnknown})
}

func (b Base[T]) Photos(ctx context.Context) Result[[]domain.Photo] {
	return Ok([]domain.Photo{})
}

func (b Base[T]) OpenMonthly() Result[domain.OpenMonthly] { return Ok(domain.NewOpenMonthly()) }
func (b Base[T]) IsActive() Result[bool]                  { return Ok(true) }
func (b Base[T]) IsPublic() Result[bool]                  { return Ok(true) }
func (b Base[T]) Extras() Result[map[string]any]          { return Ok(map[string]any{}) }

// FieldError - ошибка при вычислении конкретного поля
type FieldError struct {
	Converter string
	Field     string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("converter '%s' field '%s': %v", e.Converter, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// required возвращает значение обязательного поля или ошибку с контекстом
func required[V any](f Fields, field string, r Result[V]) (V, error) {
	if r.Err != nil {
		var zero V
		if r.IsNotImplemented() {
			return zero, r.Err
		}
		return zero, &FieldError{Converter: f.ConverterName(), Field: field, Err: r.Err}
	}
	return r.Value, nil
}

// optional - нереализованное поле молча заменяется значением по умолчанию
func optional[V any](f Fields, field string, r Result[V], fallback V) (V, error) {
	if r.Err != nil {
		if r.IsNotImplemented() {
			return fallback, nil
		}
		var zero V
		return zero, &FieldError{Converter: f.ConverterName(), Field: field, Err: r.Err}
	}
	return r.Value, nil
}

// GetHut собирает каноническую хижину из полей конвертера.
// Возвращает ошибку первого обязательного поля, которое не удалось вычислить,
// или ошибку валидации собранной хижины. Частичная хижина не возвращается.
func GetHut(ctx context.Context, f Fields) (*domain.Hut, error) {
	var (
		h   domain.Hut
		err error
	)

	if h.Name, err = required(f, "name", f.Name()); err != nil {
		return nil, err
	}
	if h.Location, err = required(f, "location", f.Location()); err != nil {
		return nil, err
	}
	if h.Capacity, err = required(f, "capacity", f.Capacity()); err != nil {
		return nil, err
	}
	if h.Type, err = required(f, "type", f.HutType()); err != nil {
		return nil, err
	}
	if h.OpenMonthly, err = required(f, "open_monthly", f.OpenMonthly()); err != nil {
		return nil, err
	}

	if h.Slug, err = optional(f, "slug", f.Slug(), ""); err != nil {
		return nil, err
	}
	if h.Slug == "" {
		h.Slug = guess.SlugNameDefault(h.Name.I18n())
	}
	if h.Description, err = optional(f, "description", f.Description(), domain.Translation{}); err != nil {
		return nil, err
	}
	if h.Notes, err = optional(f, "notes", f.Notes(), []domain.Translation{}); err != nil {
		return nil, err
	}
	if h.Owner, err = optional(f, "owner", f.Owner(), nil); err != nil {
		return nil, err
	}
	if h.Contacts, err = optional(f, "contacts", f.Contacts(), []domain.Contact{}); err != nil {
		return nil, err
	}
	if h.URL, err = optional(f, "url", f.URL(), ""); err != nil {
		return nil, err
	}
	if h.CountryCode, err = optional(f, "country_code", f.CountryCode(), nil); err != nil {
		return nil, err
	}
	if h.Comment, err = optional(f, "comment", f.Comment(), ""); err != nil {
		return nil, err
	}
	if h.Photos, err = optional(f, "photos", f.Photos(ctx), []domain.Photo{}); err != nil {
		return nil, err
	}
	if h.IsActive, err = optional(f, "is_active", f.IsActive(), true); err != nil {
		return nil, err
	}
	if h.IsPublic, err = optional(f, "is_public", f.IsPublic(), true); err != nil {
		return nil, err
	}
	if h.Extras, err = optional(f, "extras", f.Extras(), map[string]any{}); err != nil {
		return nil, err
	}

	return domain.NewHut(h)
}
