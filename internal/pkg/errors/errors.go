package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/hut-services/internal/converter"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/service"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

// WithDetails возвращает копию ошибки, ошибки каталога не изменяются
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage - копия с другим сообщением
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// FromError приводит ошибку сервисов к ошибке API
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		validationErr  *domain.ValidationError
		coordinatesErr *domain.CoordinatesMissingError
		methodErr      *service.MethodNotImplementedError
		fieldErr       *converter.FieldNotImplementedError
		conversionErr  *service.ConversionError
	)

	switch {
	case errors.Is(err, service.ErrUnknownService):
		return ErrServiceNotFound.WithMessage(err.Error())
	case errors.As(err, &methodErr):
		return ErrNotSupported.WithMessage(methodErr.Error())
	case errors.As(err, &validationErr):
		return ErrValidation.WithDetails(map[string]interface{}{
			"field": validationErr.Field,
			"tag":   validationErr.Tag,
		}).WithMessage(validationErr.Error())
	case errors.Is(err, domain.ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrUpstreamTimeout
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return ErrUpstreamUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return ErrNotFound.WithMessage(err.Error())
	case errors.As(err, &coordinatesErr), errors.As(err, &fieldErr), errors.As(err, &conversionErr),
		errors.Is(err, service.ErrMissingSourceData):
		return ErrConversionFailed.WithMessage(err.Error())
	case errors.Is(err, converter.ErrNotImplemented):
		return ErrNotSupported.WithMessage(err.Error())
	}
	return ErrInternalServer
}
