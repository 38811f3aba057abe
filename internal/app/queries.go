package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"reviewpulse/internal/analysis"
	"reviewpulse/internal/domain"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

func (s *QueryService) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	key := fmt.Sprintf("product:%d", id)
	var p domain.Product
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

func (s *QueryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var ps []domain.Product
	if ok, _ := s.cache.Get(ctx, "products", &ps); ok {
		return ps, nil
	}
	ps, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, "products", ps, int(s.cacheTTL.Seconds()))
	return ps, nil
}

func (s *QueryService) ListReviews(ctx context.Context, id int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	key := fmt.Sprintf("reviews:%d:%d:%s:%s", id, q.Limit, q.Sentiment, q.Topic)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return domain.ReviewsPage{}, err
	}
	page, err := s.repo.ListReviews(ctx, id, q)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyPage := deepCopyReviewsPage(page)

	// size guard: very large pages skip the cache
	if b, _ := json.Marshal(copyPage); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyPage, int(s.cacheTTL.Seconds()))
	}
	return copyPage, nil
}

func (s *QueryService) Insights(ctx context.Context, id int64, period string) (domain.Insights, error) {
	if !analysis.ValidPeriod(period) {
		return domain.Insights{}, fmt.Errorf("invalid period %q", period)
	}

	key := fmt.Sprintf("insights:%d:%s", id, period)
	var ins domain.Insights
	if ok, _ := s.cache.Get(ctx, key, &ins); ok {
		return ins, nil
	}

	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return domain.Insights{}, err
	}
	reviews, err := s.repo.ListAllReviews(ctx, id)
	if err != nil {
		return domain.Insights{}, err
	}

	ins = analysis.BuildInsights(reviews, period, s.now())
	_ = s.cache.Set(ctx, key, ins, int(s.cacheTTL.Seconds()))
	return ins, nil
}

func (s *QueryService) Trends(ctx context.Context, id int64) (domain.TrendSeries, error) {
	key := fmt.Sprintf("trends:%d", id)
	var series domain.TrendSeries
	if ok, _ := s.cache.Get(ctx, key, &series); ok {
		return series, nil
	}

	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return domain.TrendSeries{}, err
	}
	reviews, err := s.repo.ListAllReviews(ctx, id)
	if err != nil {
		return domain.TrendSeries{}, err
	}

	series = analysis.BuildTrends(reviews)
	_ = s.cache.Set(ctx, key, series, int(s.cacheTTL.Seconds()))
	return series, nil
}

// Compare builds side-by-side metrics for two or more products.
func (s *QueryService) Compare(ctx context.Context, ids []int64) (domain.Comparison, error) {
	if len(ids) < 2 {
		return domain.Comparison{}, fmt.Errorf("comparison needs at least 2 products, got %d", len(ids))
	}

	key := compareKey(ids)
	var cmp domain.Comparison
	if ok, _ := s.cache.Get(ctx, key, &cmp); ok {
		return cmp, nil
	}

	products := make([]domain.Product, 0, len(ids))
	byProduct := make(map[int64][]domain.Review, len(ids))
	for _, id := range ids {
		p, err := s.repo.GetProduct(ctx, id)
		if err != nil {
			return domain.Comparison{}, err
		}
		reviews, err := s.repo.ListAllReviews(ctx, id)
		if err != nil {
			return domain.Comparison{}, err
		}
		products = append(products, p)
		byProduct[p.ID] = reviews
	}

	cmp = analysis.Compare(products, byProduct, s.now())
	_ = s.cache.Set(ctx, key, cmp, int(s.cacheTTL.Seconds()))
	return cmp, nil
}

// AllReviews returns the full analyzed set for a product, used by exports.
func (s *QueryService) AllReviews(ctx context.Context, id int64) (domain.Product, []domain.Review, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	reviews, err := s.repo.ListAllReviews(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	return p, reviews, nil
}

func compareKey(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "compare:" + strings.Join(parts, ",")
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	out := domain.ReviewsPage{Total: in.Total}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Review, n)
		copy(out.Items, in.Items)
	}
	return out
}
