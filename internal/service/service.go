package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
)

// Capabilities - какие параметры запроса поддерживает сервис
type Capabilities struct {
	BBox    bool `json:"bbox"`
	Limit   bool `json:"limit"`
	Offset  bool `json:"offset"`
	Convert bool `json:"convert"`
	Booking bool `json:"booking"`
}

// Query - параметры загрузки из источника
type Query struct {
	BBox          *domain.BBox
	Limit         int
	Offset        int
	IncludePhotos bool
	Params        map[string]string
}

// DefaultLimit используется, если limit не задан
const DefaultLimit = 1

// Normalize заполняет значения по умолчанию
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// MethodNotImplementedError - сервис не поддерживает метод
type MethodNotImplementedError struct {
	Service string
	Method  string
}

func (e *MethodNotImplementedError) Error() string {
	return fmt.Sprintf("Service '%s' method '%s' is not implemented.", e.Service, e.Method)
}

func (e *MethodNotImplementedError) Is(target error) bool {
	return target == converter.ErrNotImplemented
}

// ErrMissingSourceData - у HutSource нет исходной записи
var ErrMissingSourceData = errors.New("source data missing")

// ConversionError - ошибка конвертации одной записи источника
type ConversionError struct {
	Source   string
	SourceID string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion of '%s' record '%s' failed: %v", e.Source, e.SourceID, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// HutService - общий интерфейс всех источников (используется HTTP и воркером)
type HutService interface {
	Name() string
	Capabilities() Capabilities
	// Sources возвращает записи источника в виде, пригодном для сериализации
	Sources(ctx context.Context, q Query) ([]any, error)
	// Huts загружает и конвертирует записи
	Huts(ctx context.Context, q Query) ([]*domain.Hut, error)
	// ConvertRaw конвертирует запись, переданную как map, json или типизированная структура
	ConvertRaw(ctx context.Context, raw any, includePhotos bool) (*domain.Hut, error)
	// Bookings возвращает бронирования хижин
	Bookings(ctx context.Context, sourceIDs []string, days int) (map[string]domain.HutBookings, error)
}

// Base - общая часть всех сервисов
type Base struct {
	name string
	caps Capabilities
}

// NewBase создает базу сервиса с флагами возможностей
func NewBase(name string, caps Capabilities) Base {
	return Base{name: name, caps: caps}
}

func (b Base) Name() string               { return b.name }
func (b Base) Capabilities() Capabilities { return b.caps }

// NotImplemented возвращает ошибку для метода сервиса
func (b Base) NotImplemented(method string) error {
	return &MethodNotImplementedError{Service: b.name, Method: method}
}

// Bookings не реализован ни одним сервисом
func (b Base) Bookings(ctx context.Context, sourceIDs []string, days int) (map[string]domain.HutBookings, error) {
	return nil, b.NotImplemented("get_bookings")
}

// Typed - типизированная часть сервиса над записью T
type Typed[T domain.SourceRecord, P any] interface {
	GetHutsFromSource(ctx context.Context, q Query) ([]domain.HutSource[T, P], error)
	Convert(ctx context.Context, src domain.HutSource[T, P], includePhotos bool) (*domain.Hut, error)
}

// GetHuts загружает записи и конвертирует каждую.
// Первая ошибка конвертации прерывает весь батч.
func GetHuts[T domain.SourceRecord, P any](ctx context.Context, svc Typed[T, P], q Query) ([]*domain.Hut, error) {
	sources, err := svc.GetHutsFromSource(ctx, q)
	if err != nil {
		return nil, err
	}
	huts := make([]*domain.Hut, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hut, err := svc.Convert(ctx, src, q.IncludePhotos)
		if err != nil {
			return nil, err
		}
		huts = append(huts, hut)
	}
	return huts, nil
}

// CheckSource проверяет версию и наличие исходной записи перед конвертацией
func CheckSource[T domain.SourceRecord, P any](src domain.HutSource[T, P]) (T, error) {
	if src.Version < 0 {
		var zero T
		return zero, fmt.Errorf("Conversion for '%s' version %d not implemented: %w",
			src.SourceName, src.Version, converter.ErrNotImplemented)
	}
	rec, ok := src.Record()
	if !ok {
		return rec, fmt.Errorf("Conversion for '%s' version %d without 'source_data' not allowed: %w",
			src.SourceName, src.Version, ErrMissingSourceData)
	}
	return rec, nil
}

// AnySources - приведение типизированных записей к []any для HTTP ответа
func AnySources[T domain.SourceRecord, P any](sources []domain.HutSource[T, P]) []any {
	res := make([]any, 0, len(sources))
	for _, s := range sources {
		res = append(res, s)
	}
	return res
}

// WrapConversion добавляет к ошибке источник и id записи
func WrapConversion(source, sourceID string, err error) error {
	if err == nil {
		return nil
	}
	return &ConversionError{Source: source, SourceID: sourceID, Err: err}
}
