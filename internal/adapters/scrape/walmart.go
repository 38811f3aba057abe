package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

// Walmart review cells are attached by client-side JS, so a plain GET often
// returns an empty shell. When a Renderer is configured the page goes through
// a headless browser first; otherwise we parse whatever the server sent.
func (s *Scraper) scrapeWalmart(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	if walmartItemRe.FindStringSubmatch(rawURL) == nil {
		return nil, fmt.Errorf("%w: no item id in %s", domain.ErrInvalidURL, rawURL)
	}

	var html string
	if s.render != nil {
		rendered, err := s.render.Render(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("render walmart page: %w", err)
		}
		html = rendered
	} else {
		body, err := s.client.Get(ctx, domain.PlatformWalmart, rawURL)
		if err != nil {
			return nil, err
		}
		html = string(body)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(html)))
	if err != nil {
		return nil, err
	}

	var out []domain.RawReview
	doc.Find(`div[data-testid="review-cell"]`).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if len(out) >= maxReviews {
			return false
		}
		text := firstText(cell, `div[data-testid="review-text"]`)
		if text == "" {
			return true
		}

		rating := 0.0
		if rt := firstText(cell, `div[data-testid="review-star-rating"]`); rt != "" {
			if m := ratingRe.FindString(rt); m != "" {
				rating, _ = strconv.ParseFloat(m, 64)
			}
		}

		out = append(out, domain.RawReview{
			Text:     strings.TrimSpace(text),
			Rating:   rating,
			Date:     parseReviewDate(firstText(cell, `div[data-testid="review-date"]`)),
			Platform: domain.PlatformWalmart,
		})
		return true
	})

	log.Info().Int("count", len(out)).Bool("rendered", s.render != nil).Msg("walmart scrape done")
	return out, nil
}
