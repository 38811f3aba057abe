package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"reviewpulse/internal/adapters/observability"
	"reviewpulse/internal/domain"
)

// Renderer produces the final DOM of a JS-rendered page. Nil disables the
// render pass; scrapers that need it fall back to a plain GET.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Scraper dispatches to per-storefront scrapers and implements domain.Scraper.
type Scraper struct {
	client *Client
	render Renderer
}

func New(rps int, r Renderer) *Scraper {
	return &Scraper{client: NewClient(rps), render: r}
}

func (s *Scraper) Scrape(ctx context.Context, rawURL, platform string, maxReviews int) ([]domain.RawReview, error) {
	if maxReviews <= 0 {
		maxReviews = 100
	}
	raws, err := s.dispatch(ctx, rawURL, platform, maxReviews)
	if err == nil {
		observability.CountReviews(platform, len(raws))
	}
	return raws, err
}

func (s *Scraper) dispatch(ctx context.Context, rawURL, platform string, maxReviews int) ([]domain.RawReview, error) {
	switch platform {
	case domain.PlatformAmazon:
		return s.scrapeAmazon(ctx, rawURL, maxReviews)
	case domain.PlatformBestBuy:
		return s.scrapeBestBuy(ctx, rawURL, maxReviews)
	case domain.PlatformWalmart:
		return s.scrapeWalmart(ctx, rawURL, maxReviews)
	case domain.PlatformTarget:
		return s.scrapeTarget(ctx, rawURL, maxReviews)
	case domain.PlatformEBay:
		return s.scrapeEBay(ctx, rawURL, maxReviews)
	case domain.PlatformEtsy:
		return s.scrapeEtsy(ctx, rawURL, maxReviews)
	case domain.PlatformHomeDepot:
		return s.scrapeHomeDepot(ctx, rawURL, maxReviews)
	case domain.PlatformNewegg:
		return s.scrapeNewegg(ctx, rawURL, maxReviews)
	default:
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
}

func (s *Scraper) ValidateURL(raw string) bool { return ValidateURL(raw) }

func (s *Scraper) ProductName(raw string) string { return ProductIDFromURL(raw) }

// ---- URL validation & product naming ----

var supportedDomains = map[string][]string{
	"amazon":    {"amazon.com", "amazon.co", "amazon.", "amzn.", "a.co"},
	"bestbuy":   {"bestbuy.com", "bestbuy.", "bby."},
	"walmart":   {"walmart.com", "walmart.", "wmt.co"},
	"target":    {"target.com", "target.", "tgt."},
	"ebay":      {"ebay.com", "ebay.", "ebaystatic."},
	"etsy":      {"etsy.com", "etsy.", "etsy.me"},
	"homedepot": {"homedepot.com", "homedepot.", "thd.co"},
	"newegg":    {"newegg.com", "newegg.", "newegg.ca"},
}

var productPathHints = []string{"/dp/", "/gp/product/", "/product/", "item=", "skuid=", "/ip/"}

// ValidateURL reports whether the URL is well formed and points at a
// supported storefront.
func ValidateURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, domains := range supportedDomains {
		for _, d := range domains {
			if strings.Contains(host, d) {
				return true
			}
		}
	}
	low := strings.ToLower(raw)
	for _, hint := range productPathHints {
		if strings.Contains(low, hint) {
			return true
		}
	}
	return false
}

var (
	walmartItemRe = regexp.MustCompile(`/ip/([^/]+)/(\d+)`)
	ebayItemRe    = regexp.MustCompile(`/itm/([^/]+)/(\d+)`)
	neweggItemRe  = regexp.MustCompile(`[Ii]tem=([A-Z0-9]+)`)
)

// ProductIDFromURL derives a display name for a product from its URL,
// e.g. "Amazon-B0ABC12345" or "Etsy-123456". Used when the caller does
// not provide a name.
func ProductIDFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "Product"
	}
	host := strings.ToLower(u.Host)
	path := u.Path

	between := func(p, marker string) string {
		rest := p[strings.Index(p, marker)+len(marker):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		return rest
	}

	switch {
	case strings.Contains(host, "amazon"):
		for _, marker := range []string{"/dp/", "/product/"} {
			if strings.Contains(path, marker) {
				return "Amazon-" + between(path, marker)
			}
		}
	case strings.Contains(host, "bestbuy"):
		if strings.Contains(path, "/p/") {
			return "BestBuy-" + between(path, "/p/")
		}
	case strings.Contains(host, "walmart"):
		if m := walmartItemRe.FindStringSubmatch(path); m != nil {
			return "Walmart-" + m[1]
		}
	case strings.Contains(host, "target"):
		if strings.Contains(path, "/-/A-") {
			return "Target-" + between(path, "/-/A-")
		}
	case strings.Contains(host, "ebay"):
		if m := ebayItemRe.FindStringSubmatch(path); m != nil {
			return "eBay-" + m[1]
		}
	case strings.Contains(host, "etsy"):
		if strings.Contains(path, "/listing/") {
			return "Etsy-" + between(path, "/listing/")
		}
	case strings.Contains(host, "homedepot"):
		parts := strings.Split(strings.Trim(path, "/"), "/")
		if last := parts[len(parts)-1]; last != "" && isDigits(last) {
			return "HomeDepot-" + last
		}
	case strings.Contains(host, "newegg"):
		if strings.Contains(path, "/p/") {
			return "Newegg-" + between(path, "/p/")
		}
		if m := neweggItemRe.FindStringSubmatch(raw); m != nil {
			return "Newegg-" + m[1]
		}
	}

	// Fallback: domain plus first path segment.
	dom := host
	if i := strings.IndexByte(dom, '.'); i >= 0 {
		dom = dom[:i]
	}
	if seg := strings.SplitN(strings.Trim(path, "/"), "/", 2)[0]; seg != "" {
		return dom + "-" + seg
	}
	if dom != "" {
		return dom
	}
	return "Product"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
