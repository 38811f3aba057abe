package domain

import "time"

// Platform identifiers match the storefront names used in scrape targets
// and API payloads.
const (
	PlatformAmazon    = "Amazon"
	PlatformBestBuy   = "Best Buy"
	PlatformWalmart   = "Walmart"
	PlatformTarget    = "Target"
	PlatformEBay      = "eBay"
	PlatformEtsy      = "Etsy"
	PlatformHomeDepot = "Home Depot"
	PlatformNewegg    = "Newegg"
)

// SupportedPlatforms lists every storefront the scraper knows how to read,
// in the order they are presented to clients.
var SupportedPlatforms = []string{
	PlatformAmazon,
	PlatformBestBuy,
	PlatformWalmart,
	PlatformTarget,
	PlatformEBay,
	PlatformEtsy,
	PlatformHomeDepot,
	PlatformNewegg,
}

func PlatformSupported(p string) bool {
	for _, s := range SupportedPlatforms {
		if s == p {
			return true
		}
	}
	return false
}

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Platform    string     `json:"platform"`
	URL         string     `json:"url"`
	ReviewCount int        `json:"review_count"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
