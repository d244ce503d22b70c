package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/config"
)

// configShowCmd represents the show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current CampusCare configuration",
	Long: `Displays the currently loaded configuration values
from config files and environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRunE(&DefaultConfigProvider{}, &defaultKeyringClient{}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

// configShowRunE contains the core logic for the 'config show' command.
func configShowRunE(cfgProvider ConfigProvider, keyringClient KeyringClient, writer io.Writer) error {
	cfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	fmt.Fprintln(writer, "Current CampusCare Configuration:")
	fmt.Fprintf(writer, "  Config Dir:     %s\n", cfg.Dir)
	fmt.Fprintf(writer, "  LLM Provider:   %s\n", cfg.LLM.Provider)
	switch cfg.LLM.Provider {
	case "openai":
		fmt.Fprintf(writer, "    Model:        %s\n", cfg.LLM.OpenAI.ModelName)
		if cfg.LLM.OpenAI.BaseURL != "" {
			fmt.Fprintf(writer, "    Base URL:     %s\n", cfg.LLM.OpenAI.BaseURL)
		}
		fmt.Fprintf(writer, "    Temperature:  %.2f\n", cfg.LLM.Temperature)
	default:
		fmt.Fprintf(writer, "    (No specific settings shown for provider '%s')\n", cfg.LLM.Provider)
	}
	fmt.Fprintf(writer, "  Profile Store:  %s (%s)\n", cfg.Store.Backend, cfg.StorePath())
	fmt.Fprintf(writer, "  Sentiment:      %s\n", cfg.Sentiment.Scorer)
	if cfg.Sentiment.Scorer == config.ScorerHTTP {
		fmt.Fprintf(writer, "    Scorer URL:   %s\n", cfg.Sentiment.HTTPURL)
	}
	fmt.Fprintf(writer, "  Deadline Window: %d days\n", cfg.Deadlines.HorizonDays)
	fmt.Fprintf(writer, "  Memory:         track_emotion=%t summarize=%t\n", cfg.Memory.TrackEmotion, cfg.Memory.Summarize)
	fmt.Fprintf(writer, "  Server:         %s (session ttl %s)\n", cfg.Server.Addr, cfg.Server.SessionTTL)

	_, err = keyringClient.GetAPIKey()
	apiKeyStatus := "Set (use 'care config set-key' to change)"
	if err != nil {
		if errors.Is(err, config.ErrAPIKeyNotFound) {
			apiKeyStatus = "Not Set (use 'care config set-key' to set)"
		} else {
			apiKeyStatus = fmt.Sprintf("Status Unknown (error checking keychain/env: %v)", err)
		}
	}
	fmt.Fprintf(writer, "  LLM API Key:    %s\n", apiKeyStatus)

	return nil
}
