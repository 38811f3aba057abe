package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "reviewpulse/internal/adapters/http_server"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	products map[int64]domain.Product
	reviews  map[int64][]domain.Review
}

func (f *fakeRepo) UpsertProduct(ctx context.Context, p domain.Product) (int64, error) {
	return 1, nil
}
func (f *fakeRepo) UpsertReviews(ctx context.Context, productID int64, rs []domain.Review) error {
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, url, platform string, status int, reason string) error {
	return nil
}
func (f *fakeRepo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, productID int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	rs := f.reviews[productID]
	return domain.ReviewsPage{Items: rs, Total: len(rs)}, nil
}
func (f *fakeRepo) ListAllReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return f.reviews[productID], nil
}

type noCache struct{}

func (noCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (noCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return nil
}
func (noCache) Del(ctx context.Context, key string) error { return nil }

type fakeScraper struct {
	raws   []domain.RawReview
	err    error
	gotMax int
}

func (f *fakeScraper) Scrape(ctx context.Context, url, platform string, maxReviews int) ([]domain.RawReview, error) {
	f.gotMax = maxReviews
	return f.raws, f.err
}
func (f *fakeScraper) ValidateURL(url string) bool   { return strings.HasPrefix(url, "https://") }
func (f *fakeScraper) ProductName(url string) string { return "Derived" }

func newTestServer(t *testing.T, repo *fakeRepo, sc *fakeScraper) *httptest.Server {
	t.Helper()
	if sc == nil {
		sc = &fakeScraper{}
	}
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Q: app.NewQueryService(repo, noCache{}, time.Minute),
		I: app.NewIngestionService(sc, repo, noCache{}, 100),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func seededRepo() *fakeRepo {
	d := time.Date(2023, 6, 10, 0, 0, 0, 0, time.UTC)
	return &fakeRepo{
		products: map[int64]domain.Product{
			1: {ID: 1, Name: "Widget", Platform: domain.PlatformAmazon, URL: "https://www.amazon.com/dp/B0X", ReviewCount: 2},
			2: {ID: 2, Name: "Gadget", Platform: domain.PlatformEtsy, URL: "https://www.etsy.com/listing/1/x", ReviewCount: 1},
		},
		reviews: map[int64][]domain.Review{
			1: {
				{ID: 1, ProductID: 1, Text: "love it", SentimentScore: 0.8, Sentiment: domain.SentimentPositive, Topic: "build quality", Date: &d},
				{ID: 2, ProductID: 1, Text: "hate it", SentimentScore: -0.7, Sentiment: domain.SentimentNegative, Topic: "build quality"},
			},
			2: {
				{ID: 3, ProductID: 2, Text: "fine", SentimentScore: 0.1, Sentiment: domain.SentimentPositive, Topic: "price"},
			},
		},
	}
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestListPlatforms(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)
	resp, err := http.Get(ts.URL + "/v1/platforms")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out["platforms"]) != 8 {
		t.Fatalf("expected 8 platforms, got %v", out["platforms"])
	}
}

func TestGetProduct_ETag(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	resp, err := http.Get(ts.URL + "/v1/products/1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	req, _ := http.NewRequest("GET", ts.URL+"/v1/products/1", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp2.StatusCode)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)
	resp, err := http.Get(ts.URL + "/v1/products/999")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem+json, got %s", ct)
	}
}

func TestListReviews_Validation(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	for _, path := range []string{
		"/v1/products/1/reviews?limit=0",
		"/v1/products/1/reviews?limit=201",
		"/v1/products/1/reviews?limit=abc",
		"/v1/products/1/reviews?sentiment=angry",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != 400 {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/v1/products/1/reviews?limit=50&sentiment=positive")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page domain.ReviewsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestGetInsights(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	resp, err := http.Get(ts.URL + "/v1/products/1/insights?period=all")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}

	var ins domain.Insights
	if err := json.NewDecoder(resp.Body).Decode(&ins); err != nil {
		t.Fatal(err)
	}
	if ins.ReviewCount != 2 || ins.PositivePct != 50 {
		t.Fatalf("unexpected insights: %+v", ins)
	}

	bad, err := http.Get(ts.URL + "/v1/products/1/insights?period=7d")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != 400 {
		t.Fatalf("expected 400 for bad period, got %d", bad.StatusCode)
	}
}

func TestGetTrends_Granularity(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	resp, err := http.Get(ts.URL + "/v1/products/1/trends?granularity=day")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out map[string][]domain.TrendPoint
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out["points"]) != 1 { // only one dated review
		t.Fatalf("unexpected points: %v", out["points"])
	}

	bad, err := http.Get(ts.URL + "/v1/products/1/trends?granularity=hour")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != 400 {
		t.Fatalf("expected 400 for bad granularity, got %d", bad.StatusCode)
	}
}

func TestCompare(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	resp, err := http.Get(ts.URL + "/v1/compare?ids=1,2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var cmp domain.Comparison
	if err := json.NewDecoder(resp.Body).Decode(&cmp); err != nil {
		t.Fatal(err)
	}
	if len(cmp.Metrics) != 2 {
		t.Fatalf("unexpected comparison: %+v", cmp)
	}

	bad, err := http.Get(ts.URL + "/v1/compare?ids=1")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != 400 {
		t.Fatalf("expected 400 for single id, got %d", bad.StatusCode)
	}
}

func TestExport_CSV(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	resp, err := http.Get(ts.URL + "/v1/products/1/export?format=csv")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %s", resp.Header.Get("Content-Type"))
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "reviews_1.csv") {
		t.Fatalf("unexpected disposition %s", cd)
	}

	bad, err := http.Get(ts.URL + "/v1/products/1/export?format=pdf")
	if err != nil {
		t.Fatal(err)
	}
	bad.Body.Close()
	if bad.StatusCode != 400 {
		t.Fatalf("expected 400 for bad format, got %d", bad.StatusCode)
	}
}

func TestIngestProduct_Endpoint(t *testing.T) {
	sc := &fakeScraper{raws: []domain.RawReview{
		{Text: "Fantastic product, highly recommend!", Rating: 5},
		{Text: "Did not work at all, very disappointed.", Rating: 1},
	}}
	ts := newTestServer(t, seededRepo(), sc)

	body := `{"url":"https://www.amazon.com/dp/B0NEW","platform":"Amazon","max_reviews":25}`
	resp, err := http.Post(ts.URL+"/v1/products", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var res app.IngestResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.ProductID != 1 || res.ReviewCount != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Name != "Derived" || res.Platform != "Amazon" {
		t.Fatalf("expected product identity in response, got %+v", res)
	}
	if sc.gotMax != 25 {
		t.Errorf("expected max_reviews=25 passed through, scraper got %d", sc.gotMax)
	}
}

func TestIngestProduct_BadRequest(t *testing.T) {
	ts := newTestServer(t, seededRepo(), nil)

	for _, body := range []string{
		`not json`,
		`{"url":"","platform":"Amazon"}`,
		`{"url":"ftp://x","platform":"Amazon"}`, // fails scraper validation
	} {
		resp, err := http.Post(ts.URL+"/v1/products", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != 400 {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestIngestProduct_ScrapeNotFound(t *testing.T) {
	ts := newTestServer(t, seededRepo(), &fakeScraper{err: domain.ErrNotFound})

	body := `{"url":"https://www.amazon.com/dp/B0GONE","platform":"Amazon"}`
	resp, err := http.Post(ts.URL+"/v1/products", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
