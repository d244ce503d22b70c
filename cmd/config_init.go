package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize CampusCare configuration",
	Long: `Creates the configuration directory and a default config.yaml if they don't exist.
Existing files are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRunE(&DefaultConfigProvider{}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(initCmd)
}

// configInitRunE contains the core logic for the config init command.
// It accepts dependencies for testability.
func configInitRunE(configProvider ConfigProvider, writer io.Writer) error {
	Log.Info().Msg("Initializing configuration...")
	dir, err := configProvider.CreateDefaultConfigFiles()
	if err != nil {
		Log.Error().Err(err).Msg("Failed to initialize configuration files")
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	Log.Info().Str("path", dir).Msg("Configuration initialization complete.")
	fmt.Fprintln(writer, "Configuration directory and default files ensured.")
	fmt.Fprintf(writer, "Edit %s/config.yaml to change settings.\n", dir)
	return nil
}
