package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/analysis"
	"reviewpulse/internal/domain"
)

// IngestResult reports what one scrape-and-store run produced.
type IngestResult struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	ReviewCount int    `json:"review_count"`
}

type IngestionService struct {
	scraper    domain.Scraper
	repo       domain.ReviewRepository
	cache      domain.Cache
	scorer     *analysis.SentimentScorer
	maxReviews int
}

func NewIngestionService(sc domain.Scraper, r domain.ReviewRepository, cache domain.Cache, maxReviews int) *IngestionService {
	return &IngestionService{
		scraper:    sc,
		repo:       r,
		cache:      cache,
		scorer:     analysis.NewSentimentScorer(),
		maxReviews: maxReviews,
	}
}

// IngestProduct scrapes a product page, analyzes the reviews and stores
// everything. maxReviews <= 0 falls back to the service default. A scrape
// that finds nothing is an error, not an excuse to invent data: the miss is
// logged and the caller sees what happened.
func (s *IngestionService) IngestProduct(ctx context.Context, rawURL, platform, name string, maxReviews int) (IngestResult, error) {
	if !domain.PlatformSupported(platform) {
		return IngestResult{}, fmt.Errorf("%w: unsupported platform %q", domain.ErrInvalidURL, platform)
	}
	if !s.scraper.ValidateURL(rawURL) {
		_ = s.repo.LogMiss(ctx, rawURL, platform, 400, "invalid url")
		return IngestResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidURL, rawURL)
	}
	if maxReviews <= 0 {
		maxReviews = s.maxReviews
	}

	raws, err := s.scraper.Scrape(ctx, rawURL, platform, maxReviews)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, rawURL, platform, 404, "not found")
		case errors.Is(err, domain.ErrBlocked):
			_ = s.repo.LogMiss(ctx, rawURL, platform, 403, "blocked")
		case errors.Is(err, domain.ErrInvalidURL):
			_ = s.repo.LogMiss(ctx, rawURL, platform, 400, "invalid url")
		}
		return IngestResult{}, err
	}

	if name == "" {
		name = s.scraper.ProductName(rawURL)
	}

	productID, err := s.repo.UpsertProduct(ctx, domain.Product{
		Name:     name,
		Platform: platform,
		URL:      rawURL,
	})
	if err != nil {
		return IngestResult{}, err
	}

	reviews := mapReviews(productID, raws, s.scorer)
	if len(reviews) > 0 {
		if err := s.repo.UpsertReviews(ctx, productID, reviews); err != nil {
			return IngestResult{}, fmt.Errorf("upsert reviews for product %d: %w", productID, err)
		}
	}
	if s.cache != nil {
		s.invalidateProduct(ctx, productID)
	}

	log.Info().
		Int64("product_id", productID).
		Str("platform", platform).
		Int("reviews", len(reviews)).
		Msg("product ingested")
	return IngestResult{
		ProductID:   productID,
		Name:        name,
		Platform:    platform,
		ReviewCount: len(reviews),
	}, nil
}

// invalidateProduct evicts every cached read for the product, plus the
// product listing. Review pages cache per filter combination; clear the
// unfiltered variants at the common limits.
func (s *IngestionService) invalidateProduct(ctx context.Context, id int64) {
	_ = s.cache.Del(ctx, "products")
	_ = s.cache.Del(ctx, fmt.Sprintf("product:%d", id))
	_ = s.cache.Del(ctx, fmt.Sprintf("trends:%d", id))
	for _, period := range []string{analysis.Period30d, analysis.Period90d, analysis.PeriodAll} {
		_ = s.cache.Del(ctx, fmt.Sprintf("insights:%d:%s", id, period))
	}
	for _, lim := range []int{50, 100, 200} {
		_ = s.cache.Del(ctx, fmt.Sprintf("reviews:%d:%d::", id, lim))
	}
	// Comparison results cache per id set; those keys cannot be enumerated
	// from a single product id and are left to expire by TTL.
}
