// Package prompt assembles the single text prompt handed to the LLM for a chat turn.
package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/campuscare/internal/deadline"
	"github.com/karolswdev/campuscare/internal/profile"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

const (
	scheduleKeyword = "schedule"
	helpKeyword     = "help"
)

// Turn is one completed user/assistant exchange.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ProfileReader is the read side of the profile service.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (profile.UserProfile, error)
}

// DeadlineSource lists a user's upcoming tasks.
type DeadlineSource interface {
	Upcoming(ctx context.Context, userID string, today time.Time) ([]string, error)
}

// ResourceSource resolves the support sentence for a user.
type ResourceSource interface {
	Resolve(ctx context.Context, userID string) (string, error)
}

// SentimentSource labels a message.
type SentimentSource interface {
	Classify(ctx context.Context, text string) (sentiment.Label, error)
}

// Result carries the prompt and the sentiment label computed while building it.
type Result struct {
	Prompt string
	Label  sentiment.Label
}

// Builder decides which situational context goes into a turn's prompt.
type Builder struct {
	profiles  ProfileReader
	deadlines DeadlineSource
	resources ResourceSource
	sentiment SentimentSource
	now       func() time.Time
}

// NewBuilder wires a builder. The clock defaults to time.Now.
func NewBuilder(profiles ProfileReader, deadlines DeadlineSource, resources ResourceSource, classifier SentimentSource) *Builder {
	return &Builder{
		profiles:  profiles,
		deadlines: deadlines,
		resources: resources,
		sentiment: classifier,
		now:       time.Now,
	}
}

// WithClock returns a copy of b that reads "today" from now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	c := *b
	c.now = now
	return &c
}

// Build renders the prompt for message given the prior turns. The system block always
// carries the profile; the deadline clause is added when the message mentions the
// schedule and the resource clause when the message reads negative or asks for help.
func (b *Builder) Build(ctx context.Context, userID, message string, history []Turn) (Result, error) {
	p, err := b.profiles.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	var system strings.Builder
	system.WriteString(baseInstruction(userID, p))

	lowered := strings.ToLower(message)
	if strings.Contains(lowered, scheduleKeyword) {
		tasks, err := b.deadlines.Upcoming(ctx, userID, b.now())
		if err != nil {
			return Result{}, err
		}
		fmt.Fprintf(&system, "\n- Upcoming deadlines: %s\nInclude these deadlines in your response.", deadline.Reminder(tasks))
	}

	label, err := b.sentiment.Classify(ctx, message)
	if err != nil {
		return Result{}, err
	}
	if label.IsNegative() || strings.Contains(lowered, helpKeyword) {
		resource, err := b.resources.Resolve(ctx, userID)
		if err != nil {
			return Result{}, err
		}
		fmt.Fprintf(&system, "\n- Mental health resources: %s\nIf resources are provided, include them in your response to support the user.", resource)
	}

	log.Debug().Str("user_id", userID).Str("sentiment", string(label)).Int("turns", len(history)).Msg("Built prompt")
	return Result{Prompt: Render(system.String(), history, message), Label: label}, nil
}

func baseInstruction(userID string, p profile.UserProfile) string {
	return fmt.Sprintf("You are a mental health assistant for students. The user is studying %s.\n"+
		"- Name: %s\n"+
		"- Last emotion: %s\n"+
		"- Last conversation: %s\n\n"+
		"Respond with empathy and helpful advice. Keep your responses brief and focused.\n"+
		"Ask at most one follow-up question per response. Prioritize clarity and conciseness.",
		p.MajorOrDefault(), userID, p.LastEmotionOrDefault(), p.LastConversationOrDefault())
}

// Render serialises the system block, the history oldest first and the current message,
// one role-prefixed line each.
func Render(system string, history []Turn, message string) string {
	var b strings.Builder
	writeLine(&b, "System", system)
	for _, turn := range history {
		writeLine(&b, "User", turn.User)
		writeLine(&b, "Assistant", turn.Assistant)
	}
	writeLine(&b, "User", message)
	return b.String()
}

// RenderHistory renders only the turns, for summarisation.
func RenderHistory(history []Turn) string {
	var b strings.Builder
	for _, turn := range history {
		writeLine(&b, "User", turn.User)
		writeLine(&b, "Assistant", turn.Assistant)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeLine(b *strings.Builder, role, content string) {
	b.WriteString(role)
	b.WriteString(": ")
	b.WriteString(content)
	b.WriteByte('\n')
}
