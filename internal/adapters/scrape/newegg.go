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

var neweggStarsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+out`)

func (s *Scraper) scrapeNewegg(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := neweggItemRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no item id in %s", domain.ErrInvalidURL, rawURL)
	}
	itemID := m[1]

	body, err := s.client.Get(ctx, domain.PlatformNewegg, "https://www.newegg.com/product/reviews?item="+itemID)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []domain.RawReview
	doc.Find("div.comments").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(out) >= maxReviews {
			return false
		}
		text := firstText(card, "div.comments-content")
		if text == "" {
			return true
		}

		rating := 0.0
		if sm := neweggStarsRe.FindStringSubmatch(card.Find("div.stars").Text()); sm != nil {
			rating, _ = strconv.ParseFloat(sm[1], 64)
		}

		out = append(out, domain.RawReview{
			Text:     text,
			Rating:   rating,
			Date:     parseReviewDate(firstText(card, "time")),
			Platform: domain.PlatformNewegg,
		})
		return true
	})

	log.Info().Int("count", len(out)).Str("item", itemID).Msg("newegg scrape done")
	return out, nil
}
