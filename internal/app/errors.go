package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidURL      = errors.New("no video id in url")
	ErrEmptyQuery      = errors.New("empty search query")
	ErrChannelNotFound = errors.New("channel not found")
	ErrNoSearcher      = errors.New("search is not configured")
)
