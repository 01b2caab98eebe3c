package api

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidDelta     = errors.New("invalid delta")
	ErrTransientNetwork = errors.New("transient network error")
)
