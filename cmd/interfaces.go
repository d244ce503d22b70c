package cmd

import (
	"context"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/config"
	"github.com/karolswdev/campuscare/internal/profile"
)

// ConfigProvider defines an interface for components that load the CampusCare
// configuration and API key, and manage the configuration directory. This abstraction
// allows commands to be tested without touching the real home directory.
type ConfigProvider interface {
	LoadConfig() (*config.AppConfig, error)
	GetAPIKey() (string, error)
	CreateDefaultConfigFiles() (string, error)
	EnsureConfigDir() (string, error)
}

// KeyringClient defines an interface for components that interact with the
// operating system's secure credential store (keychain/keyring).
type KeyringClient interface {
	Set(service, user, password string) error
	GetAPIKey() (string, error)
}

// ChatRunner runs conversation turns. *chat.Orchestrator satisfies it.
type ChatRunner interface {
	HandleTurn(ctx context.Context, session *chat.Session, message string) ([]chat.DisplayMessage, error)
}

// ProfileManager is the slice of the profile service the profile and deadline commands
// use. *profile.Service satisfies it.
type ProfileManager interface {
	Get(ctx context.Context, userID string) (profile.UserProfile, error)
	UpdateField(ctx context.Context, userID, key, value string) error
	UpdateProfile(ctx context.Context, userID, major, yearOfStudy, stressors, university string) error
	SetDeadline(ctx context.Context, userID, task, due string) error
	RemoveDeadline(ctx context.Context, userID, task string) (bool, error)
}
