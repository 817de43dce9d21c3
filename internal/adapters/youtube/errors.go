package youtube

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetch          = errors.New("watch page fetch failed")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	ErrSearch         = errors.New("search request failed")
)
