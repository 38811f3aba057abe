package analysis_test

import (
	"math"
	"testing"
	"time"

	"reviewpulse/internal/analysis"
	"reviewpulse/internal/domain"
)

func rating(v float64) *float64 { return &v }

func TestBuildInsights_All(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{Text: "love the battery", SentimentScore: 0.8, Sentiment: domain.SentimentPositive, Rating: rating(5), Topic: "battery life", Date: day(2023, 6, 10)},
		{Text: "battery dies fast", SentimentScore: -0.6, Sentiment: domain.SentimentNegative, Rating: rating(2), Topic: "battery life", Date: day(2023, 6, 1)},
		{Text: "it is a phone", SentimentScore: 0.0, Sentiment: domain.SentimentNeutral, Rating: rating(3), Topic: "screen display", Date: day(2023, 5, 1)},
		{Text: "no date on this one", SentimentScore: 0.3, Sentiment: domain.SentimentPositive},
	}

	ins := analysis.BuildInsights(reviews, analysis.PeriodAll, now)

	if ins.ReviewCount != 4 {
		t.Fatalf("expected 4 reviews, got %d", ins.ReviewCount)
	}
	if math.Abs(ins.AvgSentiment-0.125) > 1e-9 {
		t.Errorf("avg sentiment = %v, want 0.125", ins.AvgSentiment)
	}
	if math.Abs(ins.PositivePct-50) > 1e-9 || math.Abs(ins.NegativePct-25) > 1e-9 || math.Abs(ins.NeutralPct-25) > 1e-9 {
		t.Errorf("pcts = %v/%v/%v", ins.PositivePct, ins.NegativePct, ins.NeutralPct)
	}
	if ins.AvgRating == nil || math.Abs(*ins.AvgRating-10.0/3) > 1e-9 {
		t.Errorf("avg rating = %v", ins.AvgRating)
	}
	if ins.RatingDistribution["5"] != 1 || ins.RatingDistribution["2"] != 1 || ins.RatingDistribution["3"] != 1 {
		t.Errorf("rating distribution = %v", ins.RatingDistribution)
	}
	if len(ins.TopTopics) != 2 || ins.TopTopics[0].Topic != "battery life" || ins.TopTopics[0].Count != 2 {
		t.Errorf("top topics = %v", ins.TopTopics)
	}
	if len(ins.MostPositive) != 3 || ins.MostPositive[0].SentimentScore != 0.8 {
		t.Errorf("most positive = %v", ins.MostPositive)
	}
	if len(ins.MostNegative) != 3 || ins.MostNegative[0].SentimentScore != -0.6 {
		t.Errorf("most negative = %v", ins.MostNegative)
	}
	if len(ins.MostRecent) != 3 || ins.MostRecent[0].SentimentScore != 0.8 {
		t.Errorf("most recent = %v", ins.MostRecent)
	}
	if len(ins.WordFrequencies) == 0 {
		t.Error("expected word frequencies")
	}
}

func TestBuildInsights_PeriodFilter(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{SentimentScore: 0.5, Sentiment: domain.SentimentPositive, Date: day(2023, 6, 10)},
		{SentimentScore: -0.5, Sentiment: domain.SentimentNegative, Date: day(2023, 1, 1)},
		{SentimentScore: 0.3, Sentiment: domain.SentimentPositive}, // undated
	}

	ins := analysis.BuildInsights(reviews, analysis.Period30d, now)
	if ins.ReviewCount != 1 {
		t.Fatalf("30d window should keep 1 review, got %d", ins.ReviewCount)
	}
	if ins.AvgSentiment != 0.5 {
		t.Errorf("avg sentiment = %v", ins.AvgSentiment)
	}

	ins = analysis.BuildInsights(reviews, analysis.PeriodAll, now)
	if ins.ReviewCount != 3 {
		t.Fatalf("all window should keep 3 reviews, got %d", ins.ReviewCount)
	}
}

func TestBuildInsights_RecentVsPrevious(t *testing.T) {
	now := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{SentimentScore: 0.6, Sentiment: domain.SentimentPositive, Rating: rating(5), Date: day(2023, 6, 20)},
		{SentimentScore: 0.4, Sentiment: domain.SentimentPositive, Rating: rating(4), Date: day(2023, 6, 10)},
		{SentimentScore: -0.2, Sentiment: domain.SentimentNegative, Rating: rating(2), Date: day(2023, 5, 15)},
	}

	ins := analysis.BuildInsights(reviews, analysis.PeriodAll, now)
	d := ins.RecentVsPrevious
	if d == nil {
		t.Fatal("expected a delta")
	}
	if math.Abs(d.RecentAvgSentiment-0.5) > 1e-9 || math.Abs(d.PreviousAvgSentiment+0.2) > 1e-9 {
		t.Errorf("delta sentiment: recent=%v previous=%v", d.RecentAvgSentiment, d.PreviousAvgSentiment)
	}
	if math.Abs(d.SentimentChange-0.7) > 1e-9 {
		t.Errorf("sentiment change = %v", d.SentimentChange)
	}
	if d.VolumeChange != 1 {
		t.Errorf("volume change = %d", d.VolumeChange)
	}
	if d.RatingChange == nil || math.Abs(*d.RatingChange-2.5) > 1e-9 {
		t.Errorf("rating change = %v", d.RatingChange)
	}
}

func TestBuildInsights_Period30dDeltaSpansFilter(t *testing.T) {
	now := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{SentimentScore: 0.6, Sentiment: domain.SentimentPositive, Date: day(2023, 6, 25)}, // 5 days old
		{SentimentScore: -0.2, Sentiment: domain.SentimentNegative, Date: day(2023, 5, 16)}, // 45 days old
	}

	ins := analysis.BuildInsights(reviews, analysis.Period30d, now)
	if ins.ReviewCount != 1 {
		t.Fatalf("30d summary should keep 1 review, got %d", ins.ReviewCount)
	}
	d := ins.RecentVsPrevious
	if d == nil {
		t.Fatal("expected a delta: the previous window lies outside the summary filter but must still be compared")
	}
	if math.Abs(d.RecentAvgSentiment-0.6) > 1e-9 || math.Abs(d.PreviousAvgSentiment+0.2) > 1e-9 {
		t.Errorf("delta sentiment: recent=%v previous=%v", d.RecentAvgSentiment, d.PreviousAvgSentiment)
	}
	if d.VolumeChange != 0 {
		t.Errorf("volume change = %d", d.VolumeChange)
	}
}

func TestBuildInsights_Period90dDeltaWindowsScale(t *testing.T) {
	now := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{SentimentScore: 0.4, Sentiment: domain.SentimentPositive, Date: day(2023, 4, 15)}, // 76 days old: recent for 90d
		{SentimentScore: -0.3, Sentiment: domain.SentimentNegative, Date: day(2023, 2, 1)}, // 149 days old: previous for 90d
	}

	d := analysis.BuildInsights(reviews, analysis.Period90d, now).RecentVsPrevious
	if d == nil {
		t.Fatal("expected a delta with 90-day windows")
	}
	if math.Abs(d.RecentAvgSentiment-0.4) > 1e-9 || math.Abs(d.PreviousAvgSentiment+0.3) > 1e-9 {
		t.Errorf("delta sentiment: recent=%v previous=%v", d.RecentAvgSentiment, d.PreviousAvgSentiment)
	}

	// With 30-day windows both reviews fall outside the comparison entirely.
	if d30 := analysis.BuildInsights(reviews, analysis.Period30d, now).RecentVsPrevious; d30 != nil {
		t.Errorf("expected no delta for 30d windows, got %+v", d30)
	}
}

func TestBuildInsights_Empty(t *testing.T) {
	ins := analysis.BuildInsights(nil, analysis.PeriodAll, time.Now())
	if ins.ReviewCount != 0 || ins.AvgSentiment != 0 || ins.RecentVsPrevious != nil {
		t.Errorf("unexpected insights for empty input: %+v", ins)
	}
}

func TestCompare(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	products := []domain.Product{
		{ID: 1, Name: "Widget A"},
		{ID: 2, Name: "Widget B"},
	}
	byProduct := map[int64][]domain.Review{
		1: {
			{Text: "great", SentimentScore: 0.7, Sentiment: domain.SentimentPositive, Topic: "build quality"},
			{Text: "bad", SentimentScore: -0.4, Sentiment: domain.SentimentNegative, Topic: "build quality"},
		},
		2: {
			{Text: "fine", SentimentScore: 0.1, Sentiment: domain.SentimentPositive, Topic: "price value"},
		},
	}

	cmp := analysis.Compare(products, byProduct, now)
	if len(cmp.Metrics) != 2 {
		t.Fatalf("expected 2 metric rows, got %d", len(cmp.Metrics))
	}
	if cmp.Metrics[0].Product != "Widget A" || cmp.Metrics[0].ReviewCount != 2 {
		t.Errorf("row 0 = %+v", cmp.Metrics[0])
	}
	if math.Abs(cmp.Metrics[0].AvgSentiment-0.15) > 1e-9 {
		t.Errorf("row 0 avg sentiment = %v", cmp.Metrics[0].AvgSentiment)
	}
	if got := cmp.Topics["Widget B"]; len(got) != 1 || got[0].Topic != "price value" {
		t.Errorf("topics for Widget B = %v", got)
	}
}
