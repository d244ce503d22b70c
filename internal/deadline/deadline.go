// Package deadline finds the tasks a user should be reminded about.
package deadline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/campuscare/internal/profile"
)

// DefaultHorizonDays is how many days ahead a deadline counts as upcoming.
const DefaultHorizonDays = 3

const noDeadlinesMessage = "No major deadlines soon. Keep up the good work!"

// ProfileReader is the read side of the profile service.
type ProfileReader interface {
	Get(ctx context.Context, userID string) (profile.UserProfile, error)
}

// Tracker filters a user's deadlines down to the ones due within the horizon.
type Tracker struct {
	profiles    ProfileReader
	horizonDays int
}

// NewTracker returns a tracker with the given horizon; a non-positive horizon falls back
// to DefaultHorizonDays.
func NewTracker(profiles ProfileReader, horizonDays int) *Tracker {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Tracker{profiles: profiles, horizonDays: horizonDays}
}

// HorizonDays returns the configured horizon.
func (t *Tracker) HorizonDays() int {
	return t.horizonDays
}

// Upcoming returns the tasks due on or before today + horizon, earliest first. Overdue
// tasks are included. A user without deadlines gets an empty slice.
func (t *Tracker) Upcoming(ctx context.Context, userID string, today time.Time) ([]string, error) {
	p, err := t.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Filter(p.Deadlines, today, t.horizonDays), nil
}

type dueTask struct {
	name string
	due  time.Time
}

// Filter applies the horizon rule to a deadlines map. Entries with malformed dates are
// skipped.
func Filter(deadlines map[string]string, today time.Time, horizonDays int) []string {
	y, m, d := today.Date()
	limit := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, horizonDays)

	tasks := make([]dueTask, 0, len(deadlines))
	for name, raw := range deadlines {
		due, err := profile.ParseDate(raw)
		if err != nil {
			log.Warn().Str("task", name).Str("due", raw).Msg("Skipping deadline with malformed date")
			continue
		}
		if !due.After(limit) {
			tasks = append(tasks, dueTask{name: name, due: due})
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].due.Equal(tasks[j].due) {
			return tasks[i].name < tasks[j].name
		}
		return tasks[i].due.Before(tasks[j].due)
	})

	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.name
	}
	return names
}

// Reminder renders the sentence injected into the prompt for a set of upcoming tasks.
func Reminder(tasks []string) string {
	if len(tasks) == 0 {
		return noDeadlinesMessage
	}
	return fmt.Sprintf("Reminder! You have upcoming deadlines: %s. Don’t forget to plan ahead!", strings.Join(tasks, ", "))
}
