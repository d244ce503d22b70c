// Package resources resolves campus support resources and motivational quotes. Both
// directories are compiled in.
package resources

import (
	"context"
	"math/rand/v2"

	"github.com/karolswdev/campuscare/internal/profile"
)

const (
	endorsementPrefix = "If you need support, check out "
	fallbackMessage   = "I recommend checking your university's website for student wellness resources."
)

// Directory maps an exact university name to its support resource.
var Directory = map[string]string{
	"Centennial College":    "Visit the Student Wellness Centre: https://www.centennialcollege.ca/student-health",
	"University of Toronto": "Check U of T’s mental health services: https://mentalhealth.utoronto.ca/",
}

// ProfileReader is the read side of the profile service.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (profile.UserProfile, error)
}

// Resolver picks the support sentence for a user's university.
type Resolver struct {
	profiles  ProfileReader
	directory map[string]string
}

// NewResolver returns a resolver over the compiled Directory.
func NewResolver(profiles ProfileReader) *Resolver {
	return &Resolver{profiles: profiles, directory: Directory}
}

// Resolve returns the support sentence for the user. Matching is exact and
// case-sensitive; anything else gets the generic fallback.
func (r *Resolver) Resolve(ctx context.Context, userID string) (string, error) {
	p, err := r.profiles.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return ForUniversity(r.directory, p.University), nil
}

// ForUniversity looks a university up in directory.
func ForUniversity(directory map[string]string, university string) string {
	if entry, ok := directory[university]; ok {
		return endorsementPrefix + entry
	}
	return fallbackMessage
}

// DefaultQuotes are the compiled motivational quotes.
var DefaultQuotes = []string{
	"Stay focused! Every small step brings you closer to success. 💪",
	"You’re capable of amazing things—keep pushing forward!",
	"Don’t let stress take over! Take breaks, breathe, and keep going. 🚀",
}

// Quotes picks motivational quotes from a fixed list using an injected random source.
type Quotes struct {
	rng    *rand.Rand
	quotes []string
}

// NewQuotes returns a picker over DefaultQuotes. rng must not be nil; tests pass a
// seeded source for determinism.
func NewQuotes(rng *rand.Rand) *Quotes {
	return &Quotes{rng: rng, quotes: DefaultQuotes}
}

// Pick returns one quote.
func (q *Quotes) Pick() string {
	return q.quotes[q.rng.IntN(len(q.quotes))]
}
