package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"reviewpulse/internal/analysis"
	"reviewpulse/internal/app"
	"reviewpulse/internal/domain"
	"reviewpulse/internal/export"
)

type Handlers struct {
	Q *app.QueryService
	I *app.IngestionService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/platforms", h.listPlatforms)
	s.mux.Post("/v1/products", h.ingestProduct)
	s.mux.Get("/v1/products", h.listProducts)
	s.mux.Get("/v1/products/{id}", h.getProduct)
	s.mux.Get("/v1/products/{id}/reviews", h.listReviews)
	s.mux.Get("/v1/products/{id}/insights", h.getInsights)
	s.mux.Get("/v1/products/{id}/trends", h.getTrends)
	s.mux.Get("/v1/products/{id}/export", h.exportReviews)
	s.mux.Get("/v1/compare", h.compare)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends the value with an ETag, honoring If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handlers) listPlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string][]string{"platforms": domain.SupportedPlatforms})
}

type ingestRequest struct {
	URL        string `json:"url"`
	Platform   string `json:"platform"`
	Name       string `json:"name,omitempty"`
	MaxReviews int    `json:"max_reviews,omitempty"` // 0 = server default
}

func (h *Handlers) ingestProduct(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON with url and platform")
		return
	}
	if req.URL == "" || req.Platform == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "url and platform are required")
		return
	}

	res, err := h.I.IngestProduct(r.Context(), req.URL, req.Platform, req.Name, req.MaxReviews)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidURL):
			writeProblem(w, http.StatusBadRequest, "Invalid URL", err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "product page not found")
		case errors.Is(err, domain.ErrBlocked):
			writeProblem(w, http.StatusBadGateway, "Blocked", "storefront refused the scrape")
		default:
			writeProblem(w, http.StatusBadGateway, "Scrape Failed", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Error().Err(err).Msg("failed to write ingest response")
	}
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Q.ListProducts(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal", "list products failed")
		return
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	writeJSON(w, r, map[string][]domain.Product{"products": ps})
}

func (h *Handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	p, err := h.Q.GetProduct(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	sentiment := r.URL.Query().Get("sentiment")
	switch sentiment {
	case "", domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid sentiment", "sentiment must be positive, negative or neutral")
		return
	}

	q := domain.ReviewQuery{Limit: limit, Sentiment: sentiment, Topic: r.URL.Query().Get("topic")}
	out, err := h.Q.ListReviews(r.Context(), id, q)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = analysis.PeriodAll
	}
	if !analysis.ValidPeriod(period) {
		writeProblem(w, http.StatusBadRequest, "Invalid period", "period must be 30d, 90d or all")
		return
	}

	ins, err := h.Q.Insights(r.Context(), id, period)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal", "insights failed")
		return
	}
	writeJSON(w, r, ins)
}

func (h *Handlers) getTrends(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	series, err := h.Q.Trends(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal", "trends failed")
		return
	}

	switch g := r.URL.Query().Get("granularity"); g {
	case "":
		writeJSON(w, r, series)
	case "day":
		writeJSON(w, r, map[string][]domain.TrendPoint{"points": series.Daily})
	case "week":
		writeJSON(w, r, map[string][]domain.TrendPoint{"points": series.Weekly})
	case "month":
		writeJSON(w, r, map[string][]domain.TrendPoint{"points": series.Monthly})
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid granularity", "granularity must be day, week or month")
	}
}

func (h *Handlers) compare(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid ids", "ids must be a comma-separated list of product ids")
		return
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid ids", "ids must be numbers")
			return
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		writeProblem(w, http.StatusBadRequest, "Invalid ids", "comparison needs at least 2 product ids")
		return
	}

	cmp, err := h.Q.Compare(r.Context(), ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "one or more products not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal", "comparison failed")
		return
	}
	writeJSON(w, r, cmp)
}

func (h *Handlers) exportReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if !export.ValidFormat(format) {
		writeProblem(w, http.StatusBadRequest, "Invalid format", "format must be csv, json or xlsx")
		return
	}

	p, reviews, err := h.Q.AllReviews(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "product not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal", "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("reviews_%d.%s", id, format)))

	switch format {
	case export.FormatCSV:
		err = export.CSV(w, reviews)
	case export.FormatXLSX:
		err = export.XLSX(w, p, reviews)
	default:
		err = export.JSON(w, p, reviews)
	}
	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("failed to write export")
	}
}
