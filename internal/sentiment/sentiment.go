// Package sentiment maps free text to one of five coarse moods using a compound
// polarity score in [-1, 1] supplied by a Scorer.
package sentiment

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Label is a coarse mood derived from a polarity score.
type Label string

const (
	Sad        Label = "sad"
	Frustrated Label = "frustrated"
	Neutral    Label = "neutral"
	Happy      Label = "happy"
	Excited    Label = "excited"
)

// IsNegative reports whether the label warrants offering support resources.
func (l Label) IsNegative() bool {
	return l == Sad || l == Frustrated
}

// Scorer produces a compound polarity score in [-1, 1] for a piece of text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Classify partitions a compound score into a Label. Boundaries fall into the
// lower-magnitude bucket: -0.1 is frustrated, 0.1 is happy.
func Classify(score float64) Label {
	switch {
	case score <= -0.5:
		return Sad
	case score <= -0.1:
		return Frustrated
	case score < 0.1:
		return Neutral
	case score < 0.5:
		return Happy
	default:
		return Excited
	}
}

// Classifier turns text into a Label using its Scorer.
type Classifier struct {
	scorer Scorer
}

// NewClassifier returns a Classifier backed by scorer.
func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify scores text and maps it to a Label. Scorer errors are returned unchanged.
func (c *Classifier) Classify(ctx context.Context, text string) (Label, error) {
	score, err := c.scorer.Score(ctx, text)
	if err != nil {
		return "", err
	}
	label := Classify(score)
	log.Debug().Float64("compound", score).Str("label", string(label)).Msg("Classified message sentiment")
	return label, nil
}
