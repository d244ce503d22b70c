package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/config"
)

// configLocateRunE contains the core logic for the config locate command.
// It uses dependency injection for testability.
func configLocateRunE(cfgProvider ConfigProvider, out io.Writer) error {
	configDir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("error ensuring config directory: %w", err)
	}

	fmt.Fprintf(out, "Configuration directory: %s\n", configDir)
	fmt.Fprintln(out, "Expected files:")
	fmt.Fprintf(out, "- %s\n", filepath.Join(configDir, config.DefaultConfigFileName))

	cfg, err := cfgProvider.LoadConfig()
	if err != nil {
		Log.Warn().Err(err).Msg("Could not load configuration to resolve the profile store path")
		return nil
	}
	if cfg.Store.Backend != config.BackendMemory {
		fmt.Fprintf(out, "- %s (profile store, %s)\n", cfg.StorePath(), cfg.Store.Backend)
	}
	return nil
}

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate CampusCare configuration files",
	Long: `Displays the paths to the configuration file and the profile store used by CampusCare.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configLocateRunE(&DefaultConfigProvider{}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(locateCmd)
}
