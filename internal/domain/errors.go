package domain

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidURL = errors.New("invalid or unsupported product url")
	// ErrBlocked covers 401/403 responses from storefront anti-scraping
	// measures; callers record a miss instead of failing the whole batch.
	ErrBlocked = errors.New("blocked by storefront")
)
