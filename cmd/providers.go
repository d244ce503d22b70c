package cmd

import (
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	keyring "github.com/zalando/go-keyring"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/config"
	"github.com/karolswdev/campuscare/internal/deadline"
	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/profile"
	"github.com/karolswdev/campuscare/internal/prompt"
	"github.com/karolswdev/campuscare/internal/resources"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

// --- Concrete Implementations of Shared Interfaces ---

// DefaultConfigProvider implements the ConfigProvider interface using the config package.
// BaseDir is normally empty, which resolves CAMPUSCARE_CONFIG_DIR or ~/.campuscare.
type DefaultConfigProvider struct {
	BaseDir string
}

func (p *DefaultConfigProvider) LoadConfig() (*config.AppConfig, error) {
	return config.LoadConfig(p.BaseDir)
}

func (p *DefaultConfigProvider) GetAPIKey() (string, error) {
	return config.GetAPIKey()
}

func (p *DefaultConfigProvider) CreateDefaultConfigFiles() (string, error) {
	return config.CreateDefaultConfigFiles(p.BaseDir)
}

func (p *DefaultConfigProvider) EnsureConfigDir() (string, error) {
	return config.EnsureConfigDir(p.BaseDir)
}

// defaultKeyringClient implements the KeyringClient interface using the actual keyring package.
type defaultKeyringClient struct{}

func (k *defaultKeyringClient) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

func (k *defaultKeyringClient) GetAPIKey() (string, error) {
	return config.GetAPIKey()
}

// --- Central Provider ---

// Provider serves as a central dependency injection container, aggregating the services
// the application's commands need. Close must be called to release the profile store.
type Provider struct {
	Config    ConfigProvider
	Keyring   KeyringClient
	AppConfig *config.AppConfig
	Profiles  *profile.Service
	Scorer    sentiment.Scorer
	LLM       llm.Client // nil when no provider could be initialised

	closer io.Closer
}

// GetProvider loads the configuration and builds every service from it. A missing API
// key is not fatal here; commands that need the LLM fail when they use it.
func GetProvider() (*Provider, error) {
	return newProvider(&DefaultConfigProvider{}, &defaultKeyringClient{})
}

func newProvider(cfgProvider ConfigProvider, keyringClient KeyringClient) (*Provider, error) {
	appCfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load application config: %w", err)
	}

	store, closer, err := newProfileStore(appCfg)
	if err != nil {
		return nil, err
	}

	scorer, err := newScorer(appCfg)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	provider := &Provider{
		Config:    cfgProvider,
		Keyring:   keyringClient,
		AppConfig: appCfg,
		Profiles:  profile.NewService(store),
		Scorer:    scorer,
		LLM:       newLLMClient(appCfg, cfgProvider),
		closer:    closer,
	}
	Log.Debug().Str("store", appCfg.Store.Backend).Str("scorer", appCfg.Sentiment.Scorer).Msg("Service Provider initialized successfully.")
	return provider, nil
}

// Close releases the profile store.
func (p *Provider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

func newProfileStore(cfg *config.AppConfig) (profile.Store, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		s, err := profile.NewSQLiteStore(cfg.StorePath())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite profile store: %w", err)
		}
		return s, s, nil
	case config.BackendMemory:
		Log.Warn().Msg("Using in-memory profile store; profiles are lost on exit")
		return profile.NewMemoryStore(), nil, nil
	default:
		return profile.NewJSONFileStore(cfg.StorePath()), nil, nil
	}
}

func newScorer(cfg *config.AppConfig) (sentiment.Scorer, error) {
	if cfg.Sentiment.Scorer == config.ScorerHTTP {
		s, err := sentiment.NewHTTPScorer(cfg.Sentiment.HTTPURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentiment scorer: %w", err)
		}
		return s, nil
	}
	return sentiment.NewVaderScorer(), nil
}

func newLLMClient(cfg *config.AppConfig, cfgProvider ConfigProvider) llm.Client {
	if cfg.LLM.Provider != "openai" {
		Log.Warn().Str("provider", cfg.LLM.Provider).Msg("Unsupported LLM provider specified in config. LLM client not initialized.")
		return nil
	}

	apiKey, err := cfgProvider.GetAPIKey()
	if err != nil {
		if errors.Is(err, config.ErrAPIKeyNotFound) {
			Log.Debug().Msg("No LLM API key configured. LLM client not initialized.")
		} else {
			Log.Warn().Err(err).Msg("Failed to get LLM API key. LLM client not initialized.")
		}
		return nil
	}

	openAIConfig := openai.DefaultConfig(apiKey)
	if cfg.LLM.OpenAI.BaseURL != "" {
		openAIConfig.BaseURL = cfg.LLM.OpenAI.BaseURL
	}
	client, err := llm.NewOpenAIClient(openai.NewClientWithConfig(openAIConfig), cfg.LLM.OpenAI.ModelName, cfg.LLM.Temperature)
	if err != nil {
		Log.Warn().Err(err).Msg("Failed to initialize OpenAI client. LLM operations will fail.")
		return nil
	}
	Log.Debug().Str("model", cfg.LLM.OpenAI.ModelName).Str("base_url", openAIConfig.BaseURL).Msg("LLM client initialized")
	return client
}

// Orchestrator wires the chat pipeline from the provider's services.
func (p *Provider) Orchestrator() *chat.Orchestrator {
	builder := prompt.NewBuilder(
		p.Profiles,
		deadline.NewTracker(p.Profiles, p.AppConfig.Deadlines.HorizonDays),
		resources.NewResolver(p.Profiles),
		sentiment.NewClassifier(p.Scorer),
	)
	memory := chat.MemoryOptions{
		TrackEmotion: p.AppConfig.Memory.TrackEmotion,
		Summarize:    p.AppConfig.Memory.Summarize,
	}
	return chat.NewOrchestrator(builder, p.LLM, p.Profiles, memory)
}
