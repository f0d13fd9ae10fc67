package domain

import "errors"

// Domain errors
var (
	ErrNotFound                 = errors.New("resource not found")
	ErrInvalidInput             = errors.New("invalid input")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrInternalError            = errors.New("internal error")
	ErrOrganizationNotFound     = errors.New("organization not found")
	ErrInvalidHorizon           = errors.New("forecast horizon must not be negative")
	ErrInvalidBaseline          = errors.New("invalid starting cash")
	ErrReportStorageUnavailable = errors.New("report storage unavailable")
)

// Validation constants
const (
	// MaxBaselineDecimalPlaces is the precision accepted for a configured starting cash
	MaxBaselineDecimalPlaces = 2
)
