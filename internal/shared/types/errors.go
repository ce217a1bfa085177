package types

import "errors"

var (
	ErrNoData            = errors.New("no cost data for the requested range")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateRange  = errors.New("invalid date range: end date must be after start date")
	ErrDateInFuture      = errors.New("invalid date range: dates cannot be after today")
	ErrUnsupportedFormat = errors.New("unsupported report format")
	ErrInvalidThreshold  = errors.New("threshold must be in the range [0, 1)")
	ErrInvalidChartSize  = errors.New("chart width and height must be positive")
	ErrEmptyOthersLabel  = errors.New("others label cannot be empty")
)
