package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/domain"
)

var targetTCINRe = regexp.MustCompile(`/-/A-(\d+)`)

type targetReview struct {
	ReviewText     string  `json:"ReviewText"`
	Rating         float64 `json:"Rating"`
	SubmissionTime string  `json:"SubmissionTime"`
}

type targetResponse struct {
	Results []struct {
		Reviews []targetReview `json:"Reviews"`
	} `json:"results"`
}

func (s *Scraper) scrapeTarget(ctx context.Context, rawURL string, maxReviews int) ([]domain.RawReview, error) {
	m := targetTCINRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: no TCIN in %s", domain.ErrInvalidURL, rawURL)
	}
	tcin := m[1]

	size := maxReviews
	if size > 100 {
		size = 100
	}
	apiURL := fmt.Sprintf("https://r2d2.target.com/ggc/reviews/v1/item/%s?reviewType=PRODUCT&size=%d&sortBy=MOST_RECENT", tcin, size)

	var resp targetResponse
	if err := s.client.GetJSON(ctx, domain.PlatformTarget, apiURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, domain.ErrNotFound
	}

	var out []domain.RawReview
	for _, r := range resp.Results[0].Reviews {
		if len(out) >= maxReviews || r.ReviewText == "" {
			continue
		}
		raw, _ := json.Marshal(r)
		out = append(out, domain.RawReview{
			Text:     r.ReviewText,
			Rating:   r.Rating,
			Date:     parseReviewDate(r.SubmissionTime),
			Platform: domain.PlatformTarget,
			RawJSON:  raw,
		})
	}
	log.Info().Int("count", len(out)).Str("tcin", tcin).Msg("target scrape done")
	return out, nil
}
