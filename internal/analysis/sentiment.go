package analysis

import (
	"github.com/jonreiter/govader"

	"reviewpulse/internal/domain"
)

// Compound-score cutoffs for labelling. Scores in (-0.05, 0.05) are
// treated as neutral.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// SentimentScorer wraps a VADER analyzer. Safe for concurrent use; the
// underlying lexicon is read-only after construction.
type SentimentScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewSentimentScorer() *SentimentScorer {
	return &SentimentScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the compound polarity in [-1, 1] and its label.
func (s *SentimentScorer) Score(text string) (float64, string) {
	if text == "" {
		return 0, domain.SentimentNeutral
	}
	compound := s.analyzer.PolarityScores(text).Compound
	return compound, Label(compound)
}

// Label maps a compound score to positive, negative or neutral.
func Label(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return domain.SentimentPositive
	case compound <= negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
