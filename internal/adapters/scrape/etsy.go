package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

var etsyListingRe = regexp.MustCompile(`listing/(\d+)`)

func (s *Scraper) scrapeEtsy(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := etsyListingRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no listing id in %s", domain.ErrInvalidURL, rawURL)
	}
	listingID := m[1]

	body, err := s.client.Get(ctx, domain.PlatformEtsy, fmt.Sprintf("https://www.etsy.com/listing/%s/reviews", listingID))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []domain.RawReview
	doc.Find("div.review-listing-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(out) >= maxReviews {
			return false
		}
		text := firstText(card, "div.review-text")
		if text == "" {
			return true
		}

		// Star count lives in the title of the stars image.
		rating := 0.0
		if title, ok := card.Find("div.stars img").First().Attr("title"); ok {
			if rm := ratingRe.FindString(title); rm != "" {
				rating, _ = strconv.ParseFloat(rm, 64)
			}
		}

		out = append(out, domain.RawReview{
			Text:     text,
			Rating:   rating,
			Date:     parseReviewDate(firstText(card, "div.review-date")),
			Platform: domain.PlatformEtsy,
		})
		return true
	})

	log.Info().Int("count", len(out)).Str("listing", listingID).Msg("etsy scrape done")
	return out, nil
}
