// Package profile holds the per-user profile attributes and session facts the assistant
// reads when building context, together with the stores that persist them.
package profile

import "time"

// DateLayout is the ISO calendar date format used for deadline values.
const DateLayout = "2006-01-02"

const (
	defaultMajor = "student"
	defaultFact  = "None"
)

// Field keys accepted by Service.UpdateField. They double as the JSON keys of the
// persisted document.
const (
	FieldName             = "name"
	FieldMajor            = "major"
	FieldYearOfStudy      = "year_of_study"
	FieldCommonStressors  = "common_stressors"
	FieldUniversity       = "university"
	FieldLastEmotion      = "last_emotion"
	FieldLastConversation = "last_conversation"
	FieldDeadlines        = "deadlines"
)

// UserProfile is everything known about one user. Every attribute is optional.
type UserProfile struct {
	Name             string            `json:"name,omitempty" yaml:"name,omitempty"`
	Major            string            `json:"major,omitempty" yaml:"major,omitempty"`
	YearOfStudy      string            `json:"year_of_study,omitempty" yaml:"year_of_study,omitempty"`
	CommonStressors  string            `json:"common_stressors,omitempty" yaml:"common_stressors,omitempty"`
	University       string            `json:"university,omitempty" yaml:"university,omitempty"`
	LastEmotion      string            `json:"last_emotion,omitempty" yaml:"last_emotion,omitempty"`
	LastConversation string            `json:"last_conversation,omitempty" yaml:"last_conversation,omitempty"`
	Deadlines        map[string]string `json:"deadlines,omitzero" yaml:"deadlines,omitempty"`
}

// Profiles maps user ids to their profiles. It is the unit a Store loads and saves.
type Profiles map[string]UserProfile

// MajorOrDefault returns the user's major, or "student" when none was recorded.
func (p UserProfile) MajorOrDefault() string {
	if p.Major == "" {
		return defaultMajor
	}
	return p.Major
}

// LastEmotionOrDefault returns the last recorded emotion, or "None".
func (p UserProfile) LastEmotionOrDefault() string {
	if p.LastEmotion == "" {
		return defaultFact
	}
	return p.LastEmotion
}

// LastConversationOrDefault returns the last conversation summary, or "None".
func (p UserProfile) LastConversationOrDefault() string {
	if p.LastConversation == "" {
		return defaultFact
	}
	return p.LastConversation
}

// ParseDate parses an ISO calendar date as used in the deadlines map.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// Clone returns a deep copy so callers can modify the result without aliasing the
// deadlines map of the original.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Deadlines != nil {
		out.Deadlines = make(map[string]string, len(p.Deadlines))
		for task, due := range p.Deadlines {
			out.Deadlines[task] = due
		}
	}
	return out
}
