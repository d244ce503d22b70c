package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/profile"
)

const (
	// DefaultConfigFileName is the standard name for the main configuration file.
	DefaultConfigFileName = "config.yaml"
	// DefaultSQLiteFileName is the store file used when store.backend is sqlite and no path is set.
	DefaultSQLiteFileName = "profiles.db"
	// DefaultConfigDirName is the standard name for the configuration directory within the user's home directory.
	DefaultConfigDirName = ".campuscare"
	// ConfigDirEnvVar is the environment variable used to override the default configuration directory path.
	ConfigDirEnvVar = "CAMPUSCARE_CONFIG_DIR"
	// EnvPrefix prefixes every environment override, e.g. CAMPUSCARE_STORE_BACKEND.
	EnvPrefix = "CAMPUSCARE"
)

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Sentiment scorers.
const (
	ScorerVader = "vader"
	ScorerHTTP  = "http"
)

// EnsureConfigDir checks if the configuration directory exists, creating it if necessary.
// It prioritizes baseDir if provided. If baseDir is empty, it checks the CAMPUSCARE_CONFIG_DIR
// environment variable, then defaults to ~/.campuscare.
// It returns the validated configuration directory path or an error if creation/validation fails.
func EnsureConfigDir(baseDir string) (string, error) {
	var configDirPath string

	if baseDir != "" {
		configDirPath = baseDir
		log.Debug().Str("path", configDirPath).Msg("Using provided base directory path")
	} else if envDir := os.Getenv(ConfigDirEnvVar); envDir != "" {
		configDirPath = envDir
		log.Debug().Str("path", configDirPath).Str("env_var", ConfigDirEnvVar).Msg("Using config directory path from environment variable")
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDirPath = filepath.Join(homeDir, DefaultConfigDirName)
		log.Debug().Str("path", configDirPath).Msg("Using default config directory path")
	}

	info, err := os.Stat(configDirPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", configDirPath).Msg("Config directory does not exist, attempting to create")
			if mkdirErr := os.MkdirAll(configDirPath, 0700); mkdirErr != nil {
				log.Error().Err(mkdirErr).Str("path", configDirPath).Msg("Failed to create config directory")
				return "", fmt.Errorf("%w: %w", ErrConfigDirCreate, mkdirErr)
			}
			return configDirPath, nil
		}
		log.Error().Err(err).Str("path", configDirPath).Msg("Failed to stat config directory path")
		return "", fmt.Errorf("%w: %w", ErrConfigDirStat, err)
	}

	if !info.IsDir() {
		log.Error().Str("path", configDirPath).Msg("Config path exists but is not a directory")
		return "", ErrConfigDirNotDir
	}
	return configDirPath, nil
}

// OpenAIConfig holds configuration specific to OpenAI-compatible providers.
type OpenAIConfig struct {
	ModelName string `mapstructure:"model_name"`
	BaseURL   string `mapstructure:"base_url"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	Provider    string       `mapstructure:"provider"` // "openai" or "mock"
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Temperature float32      `mapstructure:"temperature"`
}

// StoreConfig selects where profiles live.
type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"` // empty means a file inside the config dir
}

// SentimentConfig selects the polarity scorer.
type SentimentConfig struct {
	Scorer  string `mapstructure:"scorer"`
	HTTPURL string `mapstructure:"http_url"`
}

// DeadlinesConfig tunes the reminder window.
type DeadlinesConfig struct {
	HorizonDays int `mapstructure:"horizon_days"`
}

// MemoryConfig enables the post-turn profile updates.
type MemoryConfig struct {
	TrackEmotion bool `mapstructure:"track_emotion"`
	Summarize    bool `mapstructure:"summarize"`
}

// ServerConfig configures `care serve`.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// AppConfig holds the overall application configuration.
type AppConfig struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Store     StoreConfig     `mapstructure:"store"`
	Sentiment SentimentConfig `mapstructure:"sentiment"`
	Deadlines DeadlinesConfig `mapstructure:"deadlines"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Server    ServerConfig    `mapstructure:"server"`

	// Dir is the directory the configuration was resolved from.
	Dir string `mapstructure:"-"`
}

// StorePath returns the profile store location for the configured backend.
func (c *AppConfig) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Backend == BackendSQLite {
		return filepath.Join(c.Dir, DefaultSQLiteFileName)
	}
	return filepath.Join(c.Dir, profile.DefaultFileName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.openai.model_name", llm.DefaultModel)
	v.SetDefault("llm.openai.base_url", llm.DefaultBaseURL)
	v.SetDefault("llm.temperature", llm.DefaultTemperature)
	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.path", "")
	v.SetDefault("sentiment.scorer", ScorerVader)
	v.SetDefault("sentiment.http_url", "")
	v.SetDefault("deadlines.horizon_days", 3)
	v.SetDefault("memory.track_emotion", false)
	v.SetDefault("memory.summarize", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", "1h")
}

// LoadConfig loads the application configuration from baseDir/config.yaml (or the default
// directory), environment variables (CAMPUSCARE_*), and defaults.
func LoadConfig(baseDir string) (*AppConfig, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	configPath := filepath.Join(configDir, DefaultConfigFileName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // store.backend -> CAMPUSCARE_STORE_BACKEND

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug().Str("path", configPath).Msg("Config file not found. Using defaults and environment variables.")
		} else {
			log.Error().Err(err).Str("path", configPath).Msg("Failed to read config file")
			return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
	} else {
		log.Debug().Str("path", configPath).Msg("Read config file successfully")
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("Failed to unmarshal config file")
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	cfg.Dir = configDir

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Debug().Str("path", configPath).Interface("config", cfg).Msg("Unmarshalled config successfully")
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: store.backend %q (want json, sqlite or memory)", ErrConfigInvalid, c.Store.Backend)
	}
	switch c.Sentiment.Scorer {
	case ScorerVader:
	case ScorerHTTP:
		if c.Sentiment.HTTPURL == "" {
			return fmt.Errorf("%w: sentiment.http_url is required when sentiment.scorer is http", ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: sentiment.scorer %q (want vader or http)", ErrConfigInvalid, c.Sentiment.Scorer)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("%w: server.session_ttl must be positive", ErrConfigInvalid)
	}
	return nil
}

// --- Default File Creation ---

const defaultConfigYAML = `# User-specific configuration for CampusCare (care)
# Located at ~/.campuscare/config.yaml

llm:
  # "openai" talks to any OpenAI-compatible endpoint; the default points at Groq.
  provider: "openai"
  openai:
    model_name: "llama-3.3-70b-versatile"
    base_url: "https://api.groq.com/openai/v1"
  temperature: 0.6

store:
  # json, sqlite or memory
  backend: "json"
  # Leave empty to keep the store next to this file.
  # path: ""

sentiment:
  # vader (built in) or http
  scorer: "vader"
  # http_url: "http://localhost:5005"

deadlines:
  horizon_days: 3

# Post-turn profile updates. Both are off unless enabled here.
memory:
  track_emotion: false
  summarize: false

server:
  addr: ":8080"
  session_ttl: "1h"
`

// writeFileIfNotExists checks if a file exists. If not, it writes the provided content.
func writeFileIfNotExists(filePath string, content string, perm os.FileMode) error {
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if errWrite := os.WriteFile(filePath, []byte(content), perm); errWrite != nil {
				log.Error().Err(errWrite).Str("path", filePath).Msg("Failed to write default file content")
				return fmt.Errorf("%w: %w", ErrDefaultFileWrite, errWrite)
			}
			log.Info().Str("path", filePath).Msg("Wrote default file")
			return nil
		}
		log.Error().Err(err).Str("path", filePath).Msg("Failed to stat file path")
		return fmt.Errorf("%w: %w", ErrDefaultFileStat, err)
	}
	log.Debug().Str("path", filePath).Msg("File already exists, no action needed")
	return nil
}

// CreateDefaultConfigFiles ensures the configuration directory exists and writes a default
// config.yaml into it unless one is already there. It returns the directory used.
func CreateDefaultConfigFiles(baseDir string) (string, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to ensure config directory: %w", err)
	}
	if err := writeFileIfNotExists(filepath.Join(configDir, DefaultConfigFileName), defaultConfigYAML, 0600); err != nil {
		return "", err
	}
	return configDir, nil
}

// --- API Key Handling ---

const (
	// KeyringService is the OS keychain service the API key is stored under.
	KeyringService = "campuscare"
	// KeyringUser is the keychain account name for the API key.
	KeyringUser = "llm_api_key"
	// EnvAPIKeyName defines the environment variable name used to look up the LLM API key
	// as a fallback if it's not found in the OS keychain.
	EnvAPIKeyName = "CAMPUSCARE_LLM_API_KEY"
)

// GetAPIKey retrieves the LLM API key from the OS keychain, falling back to the
// CAMPUSCARE_LLM_API_KEY environment variable. A keychain that cannot be reached (no
// secret service on a headless box) also falls back to the environment; its error is
// returned only when the variable is empty too.
func GetAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringUser)
	if err == nil {
		log.Debug().Msg("API key retrieved successfully (from keychain)")
		return key, nil
	}

	var keychainErr error
	if !errors.Is(err, keyring.ErrNotFound) {
		log.Warn().Err(err).Str("service", KeyringService).Str("user", KeyringUser).Msg("Error reading key from keychain")
		keychainErr = fmt.Errorf("%w: %w", ErrKeyringGet, err)
	}

	log.Debug().Str("env_var", EnvAPIKeyName).Msg("API key not found in keychain, checking environment variable")
	if key = os.Getenv(EnvAPIKeyName); key != "" {
		log.Debug().Msg("API key retrieved successfully (from env var)")
		return key, nil
	}

	if keychainErr != nil {
		return "", keychainErr
	}
	return "", ErrAPIKeyNotFound
}

// SetAPIKey stores the LLM API key securely in the OS keychain/keyring.
func SetAPIKey(apiKey string) error {
	if err := keyring.Set(KeyringService, KeyringUser, apiKey); err != nil {
		log.Error().Err(err).Str("service", KeyringService).Str("user", KeyringUser).Msg("Failed to set API key in keychain")
		return fmt.Errorf("%w: %w", ErrKeyringSet, err)
	}
	log.Info().Str("service", KeyringService).Msg("API key stored successfully in keychain")
	return nil
}
