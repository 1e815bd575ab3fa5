package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgvalidator "github.com/hut-services/internal/pkg/validator"
)

// ValidationError - значение нарушает ограничения канонической схемы
type ValidationError struct {
	Field string
	Tag   string
	Param string
	Value any
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("validation failed on field '%s': %s=%s (value: %v)", e.Field, e.Tag, e.Param, e.Value)
	}
	return fmt.Sprintf("validation failed on field '%s': %s (value: %v)", e.Field, e.Tag, e.Value)
}

// Validate проверяет структуру и возвращает первую ошибку как *ValidationError
func Validate(v any) error {
	err := pkgvalidator.GetValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	// первая часть namespace - имя типа
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &ValidationError{
		Field: field,
		Tag:   fe.Tag(),
		Param: fe.Param(),
		Value: fe.Value(),
	}
}

// CoordinatesMissingError - у записи источника нет ни координат, ни центра
type CoordinatesMissingError struct {
	Source string
	ID     string
	Name   string
}

func (e *CoordinatesMissingError) Error() string {
	src := strings.ToUpper(e.Source)
	if src == "" {
		src = "Source"
	}
	return fmt.Sprintf("%s coordinates missing for id %s (name: '%s')", src, e.ID, e.Name)
}

// Ошибки внешних источников
var (
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamTimeout - источник не успел выполнить запрос (Overpass gateway timeout)
	ErrUpstreamTimeout = errors.New("upstream timeout")
)
