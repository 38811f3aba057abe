package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

var (
	asinRe   = regexp.MustCompile(`[A-Z0-9]{10}`)
	ratingRe = regexp.MustCompile(`(\d+(\.\d+)?)`)
)

func amazonASIN(rawURL string) string {
	for _, marker := range []string{"/dp/", "/product/", "/gp/product/"} {
		if i := strings.Index(rawURL, marker); i >= 0 {
			rest := rawURL[i+len(marker):]
			if j := strings.IndexAny(rest, "/?"); j >= 0 {
				rest = rest[:j]
			}
			if rest != "" {
				return rest
			}
		}
	}
	if strings.Contains(rawURL, "amazon.com") {
		if m := asinRe.FindString(rawURL); m != "" {
			return m
		}
	}
	return ""
}

// scrapeAmazon walks the product-reviews pages for the ASIN until it has
// maxReviews or the pagination runs out. Amazon rotates its markup, so each
// field is read through a chain of selector fallbacks.
func (s *Scraper) scrapeAmazon(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	asin := amazonASIN(rawURL)
	if asin == "" {
		return nil, fmt.Errorf("%w: no ASIN in %s", domain.ErrInvalidURL, rawURL)
	}

	var out []domain.RawReview
	for page := 1; len(out) < maxReviews; page++ {
		pageURL := fmt.Sprintf("https://www.amazon.com/product-reviews/%s/?pageNumber=%d", asin, page)
		body, err := s.client.Get(ctx, domain.PlatformAmazon, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			log.Warn().Err(err).Int("page", page).Msg("amazon page fetch failed, stopping pagination")
			break
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		cards := doc.Find(`div[data-hook="review"]`)
		if cards.Length() == 0 {
			cards = doc.Find("div.a-section.review")
		}
		if cards.Length() == 0 {
			cards = doc.Find("div.a-section.celwidget")
		}
		if cards.Length() == 0 {
			log.Warn().Int("page", page).Msg("no review elements found; amazon may have changed markup")
			break
		}

		cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if len(out) >= maxReviews {
				return false
			}
			text := firstText(card,
				`span[data-hook="review-body"]`,
				"span.a-size-base.review-text",
				"div.review-data")
			if text == "" {
				return true
			}

			ratingText := firstText(card,
				`i[data-hook="review-star-rating"]`,
				"i.a-icon-star",
				"span.a-icon-alt")
			rating := 0.0
			if m := ratingRe.FindString(ratingText); m != "" {
				rating, _ = strconv.ParseFloat(m, 64)
			}

			dateText := firstText(card, `span[data-hook="review-date"]`, "span.review-date")

			out = append(out, domain.RawReview{
				Text:     text,
				Rating:   rating,
				Date:     parseReviewDate(dateText),
				Platform: domain.PlatformAmazon,
			})
			return true
		})

		// Stop when the "next" pagination entry is disabled or absent.
		if doc.Find("ul.a-pagination li.a-disabled.a-last").Length() > 0 ||
			doc.Find("ul.a-pagination").Length() == 0 {
			break
		}
	}

	log.Info().Int("count", len(out)).Str("asin", asin).Msg("amazon scrape done")
	return out, nil
}

// firstText returns the text of the first selector that matches anything.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, q := range selectors {
		if found := sel.Find(q); found.Length() > 0 {
			return strings.TrimSpace(found.First().Text())
		}
	}
	return ""
}
