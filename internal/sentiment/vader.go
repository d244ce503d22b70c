package sentiment

import (
	"context"
	"math"

	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER lexicon and rules. The analyzer is read-only
// after construction, so one scorer can be shared across goroutines.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the compiled VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score implements Scorer. It returns VADER's compound score and never fails.
func (s *VaderScorer) Score(_ context.Context, text string) (float64, error) {
	compound := s.analyzer.PolarityScores(text).Compound
	return math.Max(-1, math.Min(1, compound)), nil
}
