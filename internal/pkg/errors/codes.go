package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidBBox = New(
		"INVALID_BBOX",
		"Invalid bbox, expected 'south,west,north,east'",
		http.StatusBadRequest,
	)

	ErrValidation = New(
		"VALIDATION_FAILED",
		"Record validation failed",
		http.StatusUnprocessableEntity,
	)

	ErrServiceNotFound = New(
		"SERVICE_NOT_FOUND",
		"Service not found",
		http.StatusNotFound,
	)

	ErrNotFound = New(
		"NOT_FOUND",
		"Not found",
		http.StatusNotFound,
	)

	ErrNotSupported = New(
		"NOT_SUPPORTED",
		"Operation is not supported by the service",
		http.StatusNotImplemented,
	)

	ErrConversionFailed = New(
		"CONVERSION_FAILED",
		"Conversion of the source record failed",
		http.StatusUnprocessableEntity,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Upstream source is unavailable",
		http.StatusBadGateway,
	)

	ErrUpstreamTimeout = New(
		"UPSTREAM_TIMEOUT",
		"Upstream source timed out",
		http.StatusGatewayTimeout,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
