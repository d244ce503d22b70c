package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// DefaultFileName is the file name of the JSON profile store inside the config directory.
const DefaultFileName = "profiles.json"

// JSONFileStore keeps all profiles in a single human-readable JSON document.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore returns a store backed by the JSON document at path. The file is not
// touched until the first Load or Save.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Load reads the document. A missing file is a valid empty store.
func (s *JSONFileStore) Load(_ context.Context) (Profiles, error) {
	log.Debug().Str("path", s.path).Msg("Loading profile store")

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", s.path).Msg("Profile store not found, starting empty")
			return Profiles{}, nil
		}
		log.Error().Err(err).Str("path", s.path).Msg("Failed to read profile store")
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}

	profiles := Profiles{}
	if err := json.Unmarshal(data, &profiles); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to decode profile store")
		return nil, fmt.Errorf("%w: %w", ErrStoreDecode, err)
	}
	if profiles == nil {
		// A document holding only null.
		profiles = Profiles{}
	}
	log.Debug().Str("path", s.path).Int("profiles", len(profiles)).Msg("Loaded profile store")
	return profiles, nil
}

// Save writes the document to a temporary file next to the target and renames it into
// place, so readers never observe a half-written store.
func (s *JSONFileStore) Save(_ context.Context, profiles Profiles) error {
	if profiles == nil {
		profiles = Profiles{}
	}
	data, err := json.MarshalIndent(profiles, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreEncode, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		log.Error().Err(err).Str("path", s.path).Msg("Failed to replace profile store")
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	log.Debug().Str("path", s.path).Int("profiles", len(profiles)).Msg("Saved profile store")
	return nil
}
