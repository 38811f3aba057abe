package domain

import "time"

// Sentiment labels derived from the VADER compound score.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// RawReview is a review as it comes off a storefront page, before cleaning,
// rating normalization and analysis.
type RawReview struct {
	Text     string
	Rating   float64
	Date     *time.Time
	Author   *string
	SourceID *string
	Platform string
	RawJSON  []byte
}

// Review is the analyzed, persisted form.
type Review struct {
	ID             int64      `json:"id"`
	ProductID      int64      `json:"product_id"`
	SourceID       *string    `json:"source_id,omitempty"`
	Author         *string    `json:"author,omitempty"`
	Rating         *float64   `json:"rating,omitempty"`
	Text           string     `json:"text"`
	Date           *time.Time `json:"date,omitempty"`
	SentimentScore float64    `json:"sentiment_score"`
	Sentiment      string     `json:"sentiment"`
	Topic          string     `json:"topic"`
	RawJSON        []byte     `json:"-"`
}

type ReviewQuery struct {
	Limit     int
	Sentiment string // optional filter
	Topic     string // optional filter
}

type ReviewsPage struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
}
