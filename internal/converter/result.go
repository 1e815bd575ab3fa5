package converter

import (
	"errors"
	"fmt"
)

// ErrNotImplemented - общий признак нереализованного поля или метода
var ErrNotImplemented = errors.New("not implemented")

// FieldNotImplementedError - конвертер не умеет вычислять поле
type FieldNotImplementedError struct {
	Converter string
	Field     string
}

func (e *FieldNotImplementedError) Error() string {
	return fmt.Sprintf("Converter '%s' field '%s' is not implemented.", e.Converter, e.Field)
}

func (e *FieldNotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// Result - значение поля или ошибка его вычисления
type Result[V any] struct {
	Value V
	Err   error
}

// Ok - успешно вычисленное значение
func Ok[V any](v V) Result[V] {
	return Result[V]{Value: v}
}

// Fail - ошибка вычисления (валидация, координаты, внешний источник)
func Fail[V any](err error) Result[V] {
	return Result[V]{Err: err}
}

// NotImplemented - поле не реализовано конвертером
func NotImplemented[V any](converter, field string) Result[V] {
	return Result[V]{Err: &FieldNotImplementedError{Converter: converter, Field: field}}
}

// Get возвращает значение и ошибку
func (r Result[V]) Get() (V, error) {
	return r.Value, r.Err
}

// IsNotImplemented - ошибка означает отсутствие реализации
func (r Result[V]) IsNotImplemented() bool {
	return r.Err != nil && errors.Is(r.Err, ErrNotImplemented)
}
