package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"reviewpulse/internal/analysis"
	"reviewpulse/internal/domain"
)

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptrFloat(f float64) *float64 { return &f }

// normalizeRatings rescales a batch of raw ratings onto the 1-5 star
// scale. Storefronts report on different scales (5, 10, or 100); the
// batch maximum tells us which one we got.
func normalizeRatings(raws []domain.RawReview) {
	var max float64
	for _, r := range raws {
		if r.Rating > max {
			max = r.Rating
		}
	}
	var div float64
	switch {
	case max > 10:
		div = 20
	case max > 5:
		div = 2
	default:
		return
	}
	for i := range raws {
		raws[i].Rating /= div
	}
}

// mapReviews turns scraped reviews into analyzed domain reviews: clean
// the text, drop empties, score sentiment, assign topics and make sure
// every review carries a stable source ID for dedup on upsert.
func mapReviews(productID int64, raws []domain.RawReview, scorer *analysis.SentimentScorer) []domain.Review {
	normalizeRatings(raws)

	out := make([]domain.Review, 0, len(raws))
	for _, r := range raws {
		text := analysis.CleanText(r.Text)
		if text == "" {
			continue
		}

		rv := domain.Review{
			ProductID: productID,
			Author:    r.Author,
			Text:      text,
			Date:      r.Date,
		}
		if r.Rating > 0 {
			rv.Rating = ptrFloat(r.Rating)
		}
		rv.SentimentScore, rv.Sentiment = scorer.Score(text)

		if r.SourceID != nil && *r.SourceID != "" {
			rv.SourceID = r.SourceID
		} else {
			rv.SourceID = ptrStr(synthesizeSourceID(rv))
		}

		if len(r.RawJSON) > 0 {
			rv.RawJSON = r.RawJSON
		} else if raw, err := json.Marshal(r); err == nil {
			rv.RawJSON = raw
		} else {
			log.Error().Err(err).Str("context", "mapReviews").Msg("marshal raw review failed")
		}

		out = append(out, rv)
	}

	texts := make([]string, len(out))
	for i, rv := range out {
		texts[i] = rv.Text
	}
	topics := analysis.AssignTopics(texts)
	for i := range out {
		out[i].Topic = topics[i]
	}
	return out
}

// synthesizeSourceID builds a stable hash over the fields that identify
// a review, so re-scrapes upsert instead of duplicating.
func synthesizeSourceID(rv domain.Review) string {
	author := ""
	if rv.Author != nil {
		author = *rv.Author
	}
	rating := ""
	if rv.Rating != nil {
		rating = fmt.Sprintf("%.3f", *rv.Rating)
	}
	date := ""
	if rv.Date != nil {
		date = rv.Date.Format(time.DateOnly)
	}
	sig := strings.Join([]string{rv.Text, author, rating, date}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}
