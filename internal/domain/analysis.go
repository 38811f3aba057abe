package domain

import "time"

// TrendPoint is one bucket of the temporal series. Rolling fields carry
// 7/30/90-day moving averages and are populated for daily granularity only.
type TrendPoint struct {
	Date         time.Time `json:"date"`
	AvgSentiment float64   `json:"avg_sentiment"`
	ReviewCount  int       `json:"review_count"`
	Sentiment7d  float64   `json:"sentiment_7d,omitempty"`
	Sentiment30d float64   `json:"sentiment_30d,omitempty"`
	Sentiment90d float64   `json:"sentiment_90d,omitempty"`
	Volume7d     float64   `json:"volume_7d,omitempty"`
	Volume30d    float64   `json:"volume_30d,omitempty"`
	Volume90d    float64   `json:"volume_90d,omitempty"`
}

type TrendSeries struct {
	Daily   []TrendPoint `json:"daily"`
	Weekly  []TrendPoint `json:"weekly"`
	Monthly []TrendPoint `json:"monthly"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ReviewHighlight is a notable review surfaced in insights.
type ReviewHighlight struct {
	Text           string     `json:"text"`
	SentimentScore float64    `json:"sentiment_score"`
	Date           *time.Time `json:"date,omitempty"`
}

// TrendDelta compares the most recent window against the one before it.
type TrendDelta struct {
	SentimentChange       float64  `json:"sentiment_change"`
	VolumeChange          int      `json:"volume_change"`
	RecentAvgSentiment    float64  `json:"recent_avg_sentiment"`
	PreviousAvgSentiment  float64  `json:"previous_avg_sentiment"`
	RatingChange          *float64 `json:"rating_change,omitempty"`
	RecentAvgRating       *float64 `json:"recent_avg_rating,omitempty"`
	PreviousAvgRating     *float64 `json:"previous_avg_rating,omitempty"`
}

type Insights struct {
	ReviewCount        int               `json:"review_count"`
	AvgSentiment       float64           `json:"avg_sentiment"`
	PositivePct        float64           `json:"positive_pct"`
	NegativePct        float64           `json:"negative_pct"`
	NeutralPct         float64           `json:"neutral_pct"`
	AvgRating          *float64          `json:"avg_rating,omitempty"`
	RatingDistribution map[string]int    `json:"rating_distribution,omitempty"`
	TopTopics          []TopicCount      `json:"top_topics,omitempty"`
	RecentVsPrevious   *TrendDelta       `json:"recent_vs_previous,omitempty"`
	MostPositive       []ReviewHighlight `json:"most_positive,omitempty"`
	MostNegative       []ReviewHighlight `json:"most_negative,omitempty"`
	MostRecent         []ReviewHighlight `json:"most_recent,omitempty"`
	WordFrequencies    []WordCount       `json:"word_frequencies,omitempty"`
}

// ProductMetrics is one row of a product comparison.
type ProductMetrics struct {
	ProductID    int64    `json:"product_id"`
	Product      string   `json:"product"`
	ReviewCount  int      `json:"review_count"`
	AvgSentiment float64  `json:"avg_sentiment"`
	PositivePct  float64  `json:"positive_pct"`
	NegativePct  float64  `json:"negative_pct"`
	NeutralPct   float64  `json:"neutral_pct"`
	AvgRating    *float64 `json:"avg_rating,omitempty"`
}

type Comparison struct {
	Metrics []ProductMetrics        `json:"metrics"`
	Topics  map[string][]TopicCount `json:"topics"`
}
