package scrape

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

// eBay has buyer feedback rather than star reviews; positive/neutral/negative
// map onto the 5/3/1 points of the rating scale.
func (s *Scraper) scrapeEBay(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := ebayItemRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no item id in %s", domain.ErrInvalidURL, rawURL)
	}
	itemID := m[2]

	body, err := s.client.Get(ctx, domain.PlatformEBay, "https://www.ebay.com/fdbk/feedback_profile/"+itemID)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	profile := doc.Find("div#feedback-profile")
	if profile.Length() == 0 {
		return nil, domain.ErrNotFound
	}

	var out []domain.RawReview
	profile.Find("div.feedback-item").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if len(out) >= maxReviews {
			return false
		}
		text := firstText(row, "div.comment")
		if text == "" {
			return true
		}

		rating := 0.0
		ratingEl := row.Find("div.item-rating")
		if ratingEl.Length() > 0 {
			switch {
			case ratingEl.HasClass("positive"):
				rating = 5
			case ratingEl.HasClass("neutral"):
				rating = 3
			case ratingEl.HasClass("negative"):
				rating = 1
			}
		}

		out = append(out, domain.RawReview{
			Text:     text,
			Rating:   rating,
			Date:     parseReviewDate(firstText(row, "div.date")),
			Platform: domain.PlatformEBay,
		})
		return true
	})

	log.Info().Int("count", len(out)).Str("item", itemID).Msg("ebay scrape done")
	return out, nil
}
