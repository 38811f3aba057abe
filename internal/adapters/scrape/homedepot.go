package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

var homeDepotIDRe = regexp.MustCompile(`/(\d+)(?:$|[/?])`)

type homeDepotReview struct {
	ReviewText     string  `json:"reviewText"`
	Rating         float64 `json:"rating"`
	SubmissionDate string  `json:"submissionDate"`
}

type homeDepotResponse struct {
	Results struct {
		Reviews []homeDepotReview `json:"reviews"`
	} `json:"results"`
}

func (s *Scraper) scrapeHomeDepot(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := homeDepotIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no product id in %s", domain.ErrInvalidURL, rawURL)
	}
	productID := m[1]

	size := maxReviews
	if size > 100 {
		size = 100
	}
	apiURL := fmt.Sprintf("https://www.homedepot.com/product/reviews/v2/prod?productId=%s&page=1&sort=MOST_RECENT&size=%d", productID, size)

	var resp homeDepotResponse
	if err := s.client.GetJSON(ctx, domain.PlatformHomeDepot, apiURL, &resp); err != nil {
		return nil, err
	}

	var out []domain.RawReview
	for _, r := range resp.Results.Reviews {
		if len(out) >= maxReviews || r.ReviewText == "" {
			continue
		}
		raw, _ := json.Marshal(r)
		out = append(out, domain.RawReview{
			Text:     r.ReviewText,
			Rating:   r.Rating,
			Date:     parseReviewDate(r.SubmissionDate),
			Platform: domain.PlatformHomeDepot,
			RawJSON:  raw,
		})
	}
	log.Info().Int("count", len(out)).Str("product_id", productID).Msg("homedepot scrape done")
	return out, nil
}
