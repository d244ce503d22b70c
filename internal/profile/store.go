package profile

import (
	"context"
	"sync"
)

// Store persists the complete set of profiles. Implementations replace the whole
// document on Save; partial updates are done by callers through load-modify-save.
type Store interface {
	// Load returns every persisted profile. A store that has never been written
	// returns an empty, non-nil map and no error.
	Load(ctx context.Context) (Profiles, error)

	// Save atomically replaces the persisted profiles with the given set.
	Save(ctx context.Context, profiles Profiles) error
}

// MemoryStore keeps profiles in process memory. It is used by tests and by the
// "memory" backend for throwaway sessions.
type MemoryStore struct {
	mu       sync.Mutex
	profiles Profiles
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: Profiles{}}
}

// Load returns a deep copy of the stored profiles.
func (s *MemoryStore) Load(_ context.Context) (Profiles, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfiles(s.profiles), nil
}

// Save replaces the stored profiles with a deep copy of the given set.
func (s *MemoryStore) Save(_ context.Context, profiles Profiles) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = copyProfiles(profiles)
	return nil
}

func copyProfiles(in Profiles) Profiles {
	out := make(Profiles, len(in))
	for id, p := range in {
		out[id] = p.Clone()
	}
	return out
}
