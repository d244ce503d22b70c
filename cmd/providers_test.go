package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/config"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

func providerTestConfig(dir string) *config.AppConfig {
	return &config.AppConfig{
		Dir:       dir,
		LLM:       config.LLMConfig{Provider: "mock"},
		Store:     config.StoreConfig{Backend: config.BackendMemory},
		Sentiment: config.SentimentConfig{Scorer: config.ScorerVader},
		Deadlines: config.DeadlinesConfig{HorizonDays: 3},
		Server:    config.ServerConfig{Addr: ":0", SessionTTL: time.Minute},
	}
}

func TestNewProvider_MemoryStoreNoLLM(t *testing.T) {
	Log = zerolog.Nop()
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(providerTestConfig(t.TempDir()), nil)

	p, err := newProvider(cfgProvider, new(MockKeyringClient))
	require.NoError(t, err)
	defer p.Close()

	assert.NotNil(t, p.Profiles)
	assert.IsType(t, &sentiment.VaderScorer{}, p.Scorer)
	assert.Nil(t, p.LLM, "unsupported provider leaves the client unset")
	cfgProvider.AssertNotCalled(t, "GetAPIKey")
}

func TestNewProvider_OpenAIWithKey(t *testing.T) {
	Log = zerolog.Nop()
	cfg := providerTestConfig(t.TempDir())
	cfg.LLM = config.LLMConfig{Provider: "openai", OpenAI: config.OpenAIConfig{ModelName: "m", BaseURL: "http://127.0.0.1:1/v1"}}
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(cfg, nil)
	cfgProvider.On("GetAPIKey").Return("sk-test", nil)

	p, err := newProvider(cfgProvider, new(MockKeyringClient))
	require.NoError(t, err)
	defer p.Close()

	assert.NotNil(t, p.LLM)
}

func TestNewProvider_OpenAIWithoutKey(t *testing.T) {
	Log = zerolog.Nop()
	cfg := providerTestConfig(t.TempDir())
	cfg.LLM.Provider = "openai"
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(cfg, nil)
	cfgProvider.On("GetAPIKey").Return("", config.ErrAPIKeyNotFound)

	p, err := newProvider(cfgProvider, new(MockKeyringClient))
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.LLM)
}

func TestNewProvider_SQLiteStore(t *testing.T) {
	Log = zerolog.Nop()
	dir := t.TempDir()
	cfg := providerTestConfig(dir)
	cfg.Store.Backend = config.BackendSQLite
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(cfg, nil)

	p, err := newProvider(cfgProvider, new(MockKeyringClient))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Profiles.SetDeadline(ctx, "Alex", "Essay", "2026-03-02"))
	got, err := p.Profiles.Get(ctx, "Alex")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", got.Deadlines["Essay"])
	assert.FileExists(t, filepath.Join(dir, config.DefaultSQLiteFileName))
	assert.NoError(t, p.Close())
}

func TestNewProvider_HTTPScorerNeedsURL(t *testing.T) {
	Log = zerolog.Nop()
	cfg := providerTestConfig(t.TempDir())
	cfg.Sentiment = config.SentimentConfig{Scorer: config.ScorerHTTP}
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(cfg, nil)

	_, err := newProvider(cfgProvider, new(MockKeyringClient))

	require.Error(t, err)
	assert.ErrorIs(t, err, sentiment.ErrScorerURLMissing)
}

func TestNewProvider_DefaultConfigProvider(t *testing.T) {
	Log = zerolog.Nop()
	t.Setenv(config.EnvAPIKeyName, "")
	t.Setenv("CAMPUSCARE_STORE_BACKEND", config.BackendMemory)
	t.Setenv("CAMPUSCARE_LLM_PROVIDER", "mock")

	p, err := newProvider(&DefaultConfigProvider{BaseDir: t.TempDir()}, &defaultKeyringClient{})
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, config.BackendMemory, p.AppConfig.Store.Backend)
	assert.Equal(t, 3, p.AppConfig.Deadlines.HorizonDays)
}

func TestProvider_OrchestratorRunsTurn(t *testing.T) {
	Log = zerolog.Nop()
	cfgProvider := new(MockConfigProvider)
	cfgProvider.On("LoadConfig").Return(providerTestConfig(t.TempDir()), nil)

	p, err := newProvider(cfgProvider, new(MockKeyringClient))
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.Profiles.SetDeadline(ctx, "Alex", "Essay", time.Now().Format("2006-01-02")))

	llmMock := new(MockLLMClient)
	llmMock.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Essay") && strings.Contains(prompt, "User: what's my schedule?")
	})).Return("You have an essay due.", nil)
	p.LLM = llmMock

	session := chat.NewSession("Alex")
	history, err := p.Orchestrator().HandleTurn(ctx, session, "what's my schedule?")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "You have an essay due.", history[1].Content)
	llmMock.AssertExpectations(t)
}
