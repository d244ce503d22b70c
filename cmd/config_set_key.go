package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/config"
)

// setKeyCmd represents the set-key command
var setKeyCmd = &cobra.Command{
	Use:   "set-key [api-key]",
	Short: "Stores the LLM API key securely in the OS keychain",
	Long: `Stores the LLM API key (Groq, OpenAI or any compatible provider) in the operating
system's keychain or keyring. The key is stored under the service 'campuscare' and
user 'llm_api_key'. On machines without a keychain set CAMPUSCARE_LLM_API_KEY instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetKeyRun(&defaultKeyringClient{}, cmd.OutOrStdout(), args[0])
	},
}

// configSetKeyRun contains the core logic for the set-key command.
// It accepts dependencies (keyring client, writer) for testability.
func configSetKeyRun(kc KeyringClient, writer io.Writer, apiKey string) error {
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	Log.Info().Msgf("Attempting to store API key in keychain for service '%s'...", config.KeyringService)
	if err := kc.Set(config.KeyringService, config.KeyringUser, apiKey); err != nil {
		Log.Error().Err(err).Msg("Failed to store API key in keychain")
		return fmt.Errorf("failed to store API key in keychain: %w", err)
	}

	fmt.Fprintln(writer, "API key stored successfully.")
	return nil
}

func init() {
	configCmd.AddCommand(setKeyCmd)
}
