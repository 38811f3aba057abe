package domain

import "context"

type ReviewRepository interface {
	// Write paths
	UpsertProduct(ctx context.Context, p Product) (int64, error)
	UpsertReviews(ctx context.Context, productID int64, rs []Review) error
	LogMiss(ctx context.Context, url, platform string, status int, reason string) error

	// Read paths
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListReviews(ctx context.Context, productID int64, q ReviewQuery) (ReviewsPage, error)
	// ListAllReviews returns every analyzed review for a product, newest
	// first; insights/trends/exports need the full set, not a page.
	ListAllReviews(ctx context.Context, productID int64) ([]Review, error)
}

// Scraper pulls raw reviews for a product page on a supported storefront.
type Scraper interface {
	Scrape(ctx context.Context, url, platform string, maxReviews int) ([]RawReview, error)
	// ValidateURL reports whether the URL points at a supported storefront.
	ValidateURL(url string) bool
	// ProductName derives a display name from the URL, used when the
	// caller does not supply one.
	ProductName(url string) string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
