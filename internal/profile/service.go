package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Service layers read-modify-write helpers over a Store. It holds no state of its own;
// every call loads the store fresh, so the single-writer assumption of the Store applies.
type Service struct {
	store Store
}

// NewService wraps store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Ping checks that the backing store answers. Stores without a native health check are
// probed with a Load.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := s.store.Load(ctx)
	return err
}

// Get returns the profile for userID. An unknown user yields the zero profile.
func (s *Service) Get(ctx context.Context, userID string) (UserProfile, error) {
	profiles, err := s.store.Load(ctx)
	if err != nil {
		return UserProfile{}, err
	}
	return profiles[userID], nil
}

// UpdateField sets a single attribute, creating the profile if needed. key is one of the
// Field* constants; for FieldDeadlines value must be a JSON object of task -> date.
func (s *Service) UpdateField(ctx context.Context, userID, key, value string) error {
	return s.update(ctx, userID, func(p *UserProfile) error {
		return setField(p, key, value)
	})
}

// UpdateProfile sets the four descriptive attributes collected at setup.
func (s *Service) UpdateProfile(ctx context.Context, userID, major, yearOfStudy, stressors, university string) error {
	return s.update(ctx, userID, func(p *UserProfile) error {
		p.Major = major
		p.YearOfStudy = yearOfStudy
		p.CommonStressors = stressors
		p.University = university
		return nil
	})
}

// SetDeadline records (or moves) a task's due date.
func (s *Service) SetDeadline(ctx context.Context, userID, task, due string) error {
	task = strings.TrimSpace(task)
	if task == "" {
		return fmt.Errorf("deadline task name cannot be empty")
	}
	if _, err := ParseDate(due); err != nil {
		return fmt.Errorf("%w: %q", err, due)
	}
	return s.update(ctx, userID, func(p *UserProfile) error {
		if p.Deadlines == nil {
			p.Deadlines = map[string]string{}
		}
		p.Deadlines[task] = due
		return nil
	})
}

// RemoveDeadline drops a task. It reports whether the task existed; a missing task
// leaves the store untouched.
func (s *Service) RemoveDeadline(ctx context.Context, userID, task string) (bool, error) {
	profiles, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	p, ok := profiles[userID]
	if !ok {
		return false, nil
	}
	if _, ok := p.Deadlines[task]; !ok {
		return false, nil
	}
	p = p.Clone()
	delete(p.Deadlines, task)
	profiles[userID] = p
	return true, s.store.Save(ctx, profiles)
}

func (s *Service) update(ctx context.Context, userID string, mutate func(*UserProfile) error) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	profiles, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if profiles == nil {
		profiles = Profiles{}
	}
	p := profiles[userID].Clone()
	if err := mutate(&p); err != nil {
		return err
	}
	profiles[userID] = p
	if err := s.store.Save(ctx, profiles); err != nil {
		return err
	}
	log.Debug().Str("user_id", userID).Msg("Profile updated")
	return nil
}

func setField(p *UserProfile, key, value string) error {
	switch key {
	case FieldName:
		p.Name = value
	case FieldMajor:
		p.Major = value
	case FieldYearOfStudy:
		p.YearOfStudy = value
	case FieldCommonStressors:
		p.CommonStressors = value
	case FieldUniversity:
		p.University = value
	case FieldLastEmotion:
		p.LastEmotion = value
	case FieldLastConversation:
		p.LastConversation = value
	case FieldDeadlines:
		deadlines := map[string]string{}
		if err := json.Unmarshal([]byte(value), &deadlines); err != nil {
			return fmt.Errorf("deadlines must be a JSON object of task to date: %w", err)
		}
		for task, due := range deadlines {
			if _, err := ParseDate(due); err != nil {
				return fmt.Errorf("%w: %s=%q", err, task, due)
			}
		}
		p.Deadlines = deadlines
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return nil
}
