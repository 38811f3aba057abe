package analysis

import (
	"sort"
	"time"

	"reviewpulse/internal/domain"
)

// BuildTrends buckets reviews into daily, weekly and monthly sentiment
// series. Reviews without a parsed date are excluded. Daily points also
// carry 7/30/90-day moving averages of sentiment and volume, computed
// over the days that have data (a single day is its own average).
func BuildTrends(reviews []domain.Review) domain.TrendSeries {
	daily := bucket(reviews, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	})
	addRollingWindows(daily)

	weekly := bucket(reviews, startOfWeek)
	monthly := bucket(reviews, func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	})

	return domain.TrendSeries{Daily: daily, Weekly: weekly, Monthly: monthly}
}

func bucket(reviews []domain.Review, truncate func(time.Time) time.Time) []domain.TrendPoint {
	type agg struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*agg)
	for _, r := range reviews {
		if r.Date == nil {
			continue
		}
		key := truncate(r.Date.UTC())
		a := buckets[key]
		if a == nil {
			a = &agg{}
			buckets[key] = a
		}
		a.sum += r.SentimentScore
		a.count++
	}

	points := make([]domain.TrendPoint, 0, len(buckets))
	for day, a := range buckets {
		points = append(points, domain.TrendPoint{
			Date:         day,
			AvgSentiment: a.sum / float64(a.count),
			ReviewCount:  a.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// startOfWeek truncates to the Monday of the ISO week.
func startOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func addRollingWindows(points []domain.TrendPoint) {
	windows := []struct {
		days      int
		sentiment func(*domain.TrendPoint, float64)
		volume    func(*domain.TrendPoint, float64)
	}{
		{7, func(p *domain.TrendPoint, v float64) { p.Sentiment7d = v }, func(p *domain.TrendPoint, v float64) { p.Volume7d = v }},
		{30, func(p *domain.TrendPoint, v float64) { p.Sentiment30d = v }, func(p *domain.TrendPoint, v float64) { p.Volume30d = v }},
		{90, func(p *domain.TrendPoint, v float64) { p.Sentiment90d = v }, func(p *domain.TrendPoint, v float64) { p.Volume90d = v }},
	}

	for i := range points {
		for _, w := range windows {
			cutoff := points[i].Date.AddDate(0, 0, -w.days+1)
			var sentSum, volSum float64
			var n int
			for j := i; j >= 0 && !points[j].Date.Before(cutoff); j-- {
				sentSum += points[j].AvgSentiment
				volSum += float64(points[j].ReviewCount)
				n++
			}
			w.sentiment(&points[i], sentSum/float64(n))
			w.volume(&points[i], volSum/float64(n))
		}
	}
}
