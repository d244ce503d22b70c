package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karolswdev/campuscare/internal/config"
)

func TestConfigLocateCmd_Success(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	var out bytes.Buffer

	expectedPath := "/home/user/.campuscare"
	mockProvider.On("EnsureConfigDir").Return(expectedPath, nil)
	mockProvider.On("LoadConfig").Return(&config.AppConfig{
		Dir:   expectedPath,
		Store: config.StoreConfig{Backend: config.BackendSQLite},
	}, nil)

	err := configLocateRunE(mockProvider, &out)

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Configuration directory: "+expectedPath)
	assert.Contains(t, out.String(), "- /home/user/.campuscare/config.yaml")
	assert.Contains(t, out.String(), "- /home/user/.campuscare/profiles.db (profile store, sqlite)")
	mockProvider.AssertExpectations(t)
}

func TestConfigLocateCmd_MemoryStoreHasNoFile(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	var out bytes.Buffer

	mockProvider.On("EnsureConfigDir").Return("/tmp/care", nil)
	mockProvider.On("LoadConfig").Return(&config.AppConfig{
		Dir:   "/tmp/care",
		Store: config.StoreConfig{Backend: config.BackendMemory},
	}, nil)

	err := configLocateRunE(mockProvider, &out)

	assert.NoError(t, err)
	assert.NotContains(t, out.String(), "profile store")
}

func TestConfigLocateCmd_ConfigLoadErrorIsNotFatal(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	var out bytes.Buffer

	mockProvider.On("EnsureConfigDir").Return("/tmp/care", nil)
	mockProvider.On("LoadConfig").Return((*config.AppConfig)(nil), errors.New("bad yaml"))

	err := configLocateRunE(mockProvider, &out)

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "- /tmp/care/config.yaml")
}

func TestConfigLocateCmd_ProviderError(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	var out bytes.Buffer

	expectedErr := errors.New("cannot create config dir")
	mockProvider.On("EnsureConfigDir").Return("", expectedErr)

	err := configLocateRunE(mockProvider, &out)

	assert.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), "error ensuring config directory:")
	assert.Empty(t, out.String())
	mockProvider.AssertExpectations(t)
	mockProvider.AssertNotCalled(t, "LoadConfig")
}
