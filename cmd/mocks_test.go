package cmd

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/config"
	"github.com/karolswdev/campuscare/internal/profile"
)

// --- Mock ConfigProvider ---

type MockConfigProvider struct {
	mock.Mock // Implements ConfigProvider
}

// LoadConfig matches ConfigProvider interface
func (m *MockConfigProvider) LoadConfig() (*config.AppConfig, error) {
	args := m.Called()
	cfg, _ := args.Get(0).(*config.AppConfig)
	return cfg, args.Error(1)
}

// GetAPIKey matches ConfigProvider interface
func (m *MockConfigProvider) GetAPIKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// CreateDefaultConfigFiles matches ConfigProvider interface
func (m *MockConfigProvider) CreateDefaultConfigFiles() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// EnsureConfigDir matches ConfigProvider interface
func (m *MockConfigProvider) EnsureConfigDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// --- Mock KeyringClient ---

type MockKeyringClient struct {
	mock.Mock // Implements KeyringClient
}

// Set matches KeyringClient interface
func (m *MockKeyringClient) Set(service, user, password string) error {
	args := m.Called(service, user, password)
	return args.Error(0)
}

// GetAPIKey matches KeyringClient interface
func (m *MockKeyringClient) GetAPIKey() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// --- Mock ChatRunner ---

type MockChatRunner struct {
	mock.Mock // Implements ChatRunner
}

// HandleTurn matches ChatRunner interface. A successful call appends the turn to the
// session the way the orchestrator does, using the reply given to Return.
func (m *MockChatRunner) HandleTurn(ctx context.Context, session *chat.Session, message string) ([]chat.DisplayMessage, error) {
	args := m.Called(ctx, session, message)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	session.History = append(session.History, chat.Turn{User: message, Assistant: args.String(0)})
	return chat.Flatten(session.History), nil
}

// --- Mock ProfileManager ---

type MockProfileManager struct {
	mock.Mock // Implements ProfileManager
}

// Get matches ProfileManager interface
func (m *MockProfileManager) Get(ctx context.Context, userID string) (profile.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(profile.UserProfile)
	return p, args.Error(1)
}

// UpdateField matches ProfileManager interface
func (m *MockProfileManager) UpdateField(ctx context.Context, userID, key, value string) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

// UpdateProfile matches ProfileManager interface
func (m *MockProfileManager) UpdateProfile(ctx context.Context, userID, major, yearOfStudy, stressors, university string) error {
	args := m.Called(ctx, userID, major, yearOfStudy, stressors, university)
	return args.Error(0)
}

// SetDeadline matches ProfileManager interface
func (m *MockProfileManager) SetDeadline(ctx context.Context, userID, task, due string) error {
	args := m.Called(ctx, userID, task, due)
	return args.Error(0)
}

// RemoveDeadline matches ProfileManager interface
func (m *MockProfileManager) RemoveDeadline(ctx context.Context, userID, task string) (bool, error) {
	args := m.Called(ctx, userID, task)
	return args.Bool(0), args.Error(1)
}

// --- Mock LLMClient ---

type MockLLMClient struct {
	mock.Mock // Implements llm.Client
}

// Complete matches llm.Client interface
func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
