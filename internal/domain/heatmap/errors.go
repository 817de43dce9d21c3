package heatmap

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. Every miss wraps ErrNotFound so
// callers that do not care about the reason can test for it alone.
var (
	ErrNotFound        = errors.New("heatmap not found")
	ErrNoInitialData   = fmt.Errorf("%w: initial data assignment absent", ErrNotFound)
	ErrInvalidData     = fmt.Errorf("%w: initial data is not valid json", ErrNotFound)
	ErrNoMarkersEntity = fmt.Errorf("%w: no macro markers entity", ErrNotFound)
)

// Reason maps a locator error to a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrNoInitialData):
		return "no_initial_data"
	case errors.Is(err, ErrInvalidData):
		return "invalid_json"
	case errors.Is(err, ErrNoMarkersEntity):
		return "no_markers_entity"
	default:
		return "unknown"
	}
}
