package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"reviewpulse/internal/domain"
)

// Analysis periods accepted by BuildInsights.
const (
	Period30d = "30d"
	Period90d = "90d"
	PeriodAll = "all"
)

const (
	topTopicCount      = 5
	highlightCount     = 3
	wordFrequencyCount = 30
)

// ValidPeriod reports whether p is an accepted analysis period.
func ValidPeriod(p string) bool {
	return p == Period30d || p == Period90d || p == PeriodAll
}

// BuildInsights summarizes a product's reviews over the given period.
// Periods other than "all" keep only reviews dated within the window;
// undated reviews count only under "all".
func BuildInsights(reviews []domain.Review, period string, now time.Time) domain.Insights {
	// The delta looks at the full history: its "previous" window reaches
	// back twice the period, which the summary filter below would cut off.
	delta := recentVsPrevious(reviews, period, now)

	switch period {
	case Period30d:
		reviews = filterSince(reviews, now.AddDate(0, 0, -30))
	case Period90d:
		reviews = filterSince(reviews, now.AddDate(0, 0, -90))
	}

	ins := domain.Insights{ReviewCount: len(reviews), RecentVsPrevious: delta}
	if len(reviews) == 0 {
		return ins
	}

	var sentSum float64
	var pos, neg, neu int
	var ratingSum float64
	var rated int
	dist := make(map[string]int)

	for _, r := range reviews {
		sentSum += r.SentimentScore
		switch r.Sentiment {
		case domain.SentimentPositive:
			pos++
		case domain.SentimentNegative:
			neg++
		default:
			neu++
		}
		if r.Rating != nil && *r.Rating > 0 {
			ratingSum += *r.Rating
			rated++
			star := int(math.Round(*r.Rating))
			if star < 1 {
				star = 1
			} else if star > 5 {
				star = 5
			}
			dist[fmt.Sprintf("%d", star)]++
		}
	}

	total := float64(len(reviews))
	ins.AvgSentiment = sentSum / total
	ins.PositivePct = 100 * float64(pos) / total
	ins.NegativePct = 100 * float64(neg) / total
	ins.NeutralPct = 100 * float64(neu) / total
	if rated > 0 {
		avg := ratingSum / float64(rated)
		ins.AvgRating = &avg
		ins.RatingDistribution = dist
	}

	ins.TopTopics = topTopics(reviews, topTopicCount)
	ins.MostPositive, ins.MostNegative, ins.MostRecent = highlights(reviews)
	ins.WordFrequencies = wordFrequencies(reviews, wordFrequencyCount)
	return ins
}

// Compare builds side-by-side metrics and topic breakdowns for a set of
// products. Keys in reviewsByProduct are product IDs.
func Compare(products []domain.Product, reviewsByProduct map[int64][]domain.Review, now time.Time) domain.Comparison {
	cmp := domain.Comparison{Topics: make(map[string][]domain.TopicCount, len(products))}
	for _, p := range products {
		reviews := reviewsByProduct[p.ID]
		ins := BuildInsights(reviews, PeriodAll, now)
		cmp.Metrics = append(cmp.Metrics, domain.ProductMetrics{
			ProductID:    p.ID,
			Product:      p.Name,
			ReviewCount:  ins.ReviewCount,
			AvgSentiment: ins.AvgSentiment,
			PositivePct:  ins.PositivePct,
			NegativePct:  ins.NegativePct,
			NeutralPct:   ins.NeutralPct,
			AvgRating:    ins.AvgRating,
		})
		cmp.Topics[p.Name] = ins.TopTopics
	}
	return cmp
}

func filterSince(reviews []domain.Review, cutoff time.Time) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Date != nil && !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func topTopics(reviews []domain.Review, n int) []domain.TopicCount {
	counts := make(map[string]int)
	for _, r := range reviews {
		if r.Topic != "" && r.Topic != UnknownTopic {
			counts[r.Topic]++
		}
	}
	out := make([]domain.TopicCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, domain.TopicCount{Topic: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// recentVsPrevious compares two consecutive windows sized by the period:
// 30d and 90d use the trailing N days against the N days before that,
// all-time splits the dated reviews at their median date. Nil when either
// window is empty.
func recentVsPrevious(reviews []domain.Review, period string, now time.Time) *domain.TrendDelta {
	var recent, previous []domain.Review
	switch period {
	case Period30d, Period90d:
		days := 30
		if period == Period90d {
			days = 90
		}
		recentCutoff := now.AddDate(0, 0, -days)
		previousCutoff := now.AddDate(0, 0, -2*days)
		for _, r := range reviews {
			switch {
			case r.Date == nil:
			case !r.Date.Before(recentCutoff):
				recent = append(recent, r)
			case !r.Date.Before(previousCutoff):
				previous = append(previous, r)
			}
		}
	default:
		dated := make([]domain.Review, 0, len(reviews))
		for _, r := range reviews {
			if r.Date != nil {
				dated = append(dated, r)
			}
		}
		sort.SliceStable(dated, func(i, j int) bool { return dated[i].Date.Before(*dated[j].Date) })
		mid := len(dated) / 2
		previous, recent = dated[:mid], dated[mid:]
	}
	if len(recent) == 0 || len(previous) == 0 {
		return nil
	}

	d := &domain.TrendDelta{
		RecentAvgSentiment:   meanSentiment(recent),
		PreviousAvgSentiment: meanSentiment(previous),
		VolumeChange:         len(recent) - len(previous),
	}
	d.SentimentChange = d.RecentAvgSentiment - d.PreviousAvgSentiment

	if ra, ok := meanRating(recent); ok {
		if pa, ok2 := meanRating(previous); ok2 {
			change := ra - pa
			d.RecentAvgRating = &ra
			d.PreviousAvgRating = &pa
			d.RatingChange = &change
		}
	}
	return d
}

func meanSentiment(reviews []domain.Review) float64 {
	var sum float64
	for _, r := range reviews {
		sum += r.SentimentScore
	}
	return sum / float64(len(reviews))
}

func meanRating(reviews []domain.Review) (float64, bool) {
	var sum float64
	var n int
	for _, r := range reviews {
		if r.Rating != nil && *r.Rating > 0 {
			sum += *r.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func highlights(reviews []domain.Review) (pos, neg, recent []domain.ReviewHighlight) {
	byScore := make([]domain.Review, len(reviews))
	copy(byScore, reviews)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].SentimentScore > byScore[j].SentimentScore
	})

	take := func(rs []domain.Review) []domain.ReviewHighlight {
		n := highlightCount
		if n > len(rs) {
			n = len(rs)
		}
		out := make([]domain.ReviewHighlight, 0, n)
		for _, r := range rs[:n] {
			out = append(out, domain.ReviewHighlight{
				Text:           r.Text,
				SentimentScore: r.SentimentScore,
				Date:           r.Date,
			})
		}
		return out
	}

	pos = take(byScore)
	reversed := make([]domain.Review, len(byScore))
	for i, r := range byScore {
		reversed[len(byScore)-1-i] = r
	}
	neg = take(reversed)

	dated := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Date != nil {
			dated = append(dated, r)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].Date.After(*dated[j].Date) })
	recent = take(dated)
	return pos, neg, recent
}

// wordFrequencies counts stemmed tokens across the corpus, most frequent
// first. Feeds the dashboard word cloud.
func wordFrequencies(reviews []domain.Review, n int) []domain.WordCount {
	counts := make(map[string]int)
	for _, r := range reviews {
		for _, w := range strings.Fields(Preprocess(r.Text)) {
			counts[w]++
		}
	}
	out := make([]domain.WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, domain.WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
