//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zalando/go-keyring"

	"github.com/karolswdev/campuscare/cmd"
	"github.com/karolswdev/campuscare/internal/config"
)

// mockLLMServer creates a mock HTTP server simulating an OpenAI-compatible chat
// completions API. It takes a handler function to define the mock response.
func mockLLMServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// setupTestEnvironment creates a temporary configuration directory with a config.yaml
// pointing at llmURL and a JSON profile store, and points CAMPUSCARE_CONFIG_DIR at it.
// The keychain is replaced by an in-memory mock and the API key comes from the
// environment. Everything is restored when the test finishes.
func setupTestEnvironment(t *testing.T, llmURL string) string {
	t.Helper()
	tempDir := t.TempDir()

	configContent := fmt.Sprintf(`
llm:
  provider: "openai"
  openai:
    model_name: "test-model"
    base_url: "%s"
  temperature: 0.6
store:
  backend: "json"
sentiment:
  scorer: "vader"
deadlines:
  horizon_days: 3
memory:
  track_emotion: true
`, llmURL)

	configPath := filepath.Join(tempDir, config.DefaultConfigFileName)
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to write temp config file: %v", err)
	}

	keyring.MockInit()
	t.Setenv(config.ConfigDirEnvVar, tempDir)
	t.Setenv(config.EnvAPIKeyName, "test-api-key")
	return tempDir
}

// executeCareCommand runs the care root command with given arguments in-process.
// It captures stdout and stderr. CAMPUSCARE_CONFIG_DIR must be set before calling
// this function (e.g., by setupTestEnvironment).
func executeCareCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	var outBuf, errBuf bytes.Buffer
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)

	execErr := rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), execErr
}
