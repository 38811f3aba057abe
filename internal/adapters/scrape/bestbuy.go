package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

var bestBuySKURe = regexp.MustCompile(`/(\d+)\.p`)

type bestBuyReview struct {
	ID             json.Number `json:"id"`
	Comment        string      `json:"comment"`
	Rating         float64     `json:"rating"`
	SubmissionTime string      `json:"submissionTime"`
}

type bestBuyResponse struct {
	Reviews []bestBuyReview `json:"reviews"`
}

// Best Buy exposes its reviews through a public JSON endpoint keyed by SKU.
func (s *Scraper) scrapeBestBuy(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := bestBuySKURe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no SKU in %s", domain.ErrInvalidURL, rawURL)
	}
	sku := m[1]

	size := maxReviews
	if size > 100 {
		size = 100
	}
	apiURL := fmt.Sprintf("https://www.bestbuy.com/ugc/v2/reviews?itemId=%s&page=1&size=%d&sort=MOST_RECENT", sku, size)

	var resp bestBuyResponse
	if err := s.client.GetJSON(ctx, domain.PlatformBestBuy, apiURL, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.RawReview, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		if len(out) >= maxReviews || r.Comment == "" {
			continue
		}
		raw, _ := json.Marshal(r)
		var sourceID *string
		if id := r.ID.String(); id != "" {
			sourceID = &id
		}
		out = append(out, domain.RawReview{
			Text:     r.Comment,
			Rating:   r.Rating,
			Date:     parseReviewDate(r.SubmissionTime),
			SourceID: sourceID,
			Platform: domain.PlatformBestBuy,
			RawJSON:  raw,
		})
	}
	log.Info().Int("count", len(out)).Str("sku", sku).Msg("bestbuy scrape done")
	return out, nil
}
