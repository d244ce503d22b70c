package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set during build time (e.g., via ldflags)
// Default is "dev" for local development.
var version = "dev"

const (
	rootUse   = "care"
	rootShort = "CampusCare - a study companion that listens"
	rootLong  = `CampusCare (care) is a mental-health study companion for students.
It blends what it knows about you (major, stressors, upcoming deadlines,
your campus support services) with a hosted LLM to give brief, empathetic replies.`
)

var (
	logLevel string
	// Log is the globally configured zerolog logger instance used throughout the cmd package.
	// It's initialized in rootCmd's PersistentPreRunE based on the --log-level flag.
	Log zerolog.Logger
)

// configureLogger sets up the global zerolog logger based on the logLevel flag.
// This is extracted to be reusable by both the package-level rootCmd and NewRootCmd.
func configureLogger(levelStr string) error {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warn().Msgf("Invalid log level '%s', defaulting to 'info'", levelStr)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	Log = log.Logger.With().Timestamp().Logger()

	Log.Debug().Msgf("Log level set to '%s'", level.String())
	return nil
}

// loadDotEnv reads a .env file from the working directory when one exists. Values already
// in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
}

// persistentPreRunLogic contains the logic for PersistentPreRunE, reusable by NewRootCmd.
func persistentPreRunLogic(cmd *cobra.Command, args []string) error {
	showVersion, _ := cmd.Flags().GetBool("version")
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		os.Exit(0)
	}
	lvl, _ := cmd.Flags().GetString("log-level")
	return configureLogger(lvl)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               rootUse,
	Short:             rootShort,
	Long:              rootLong,
	PersistentPreRunE: persistentPreRunLogic,
	SilenceUsage:      true,
}

// Execute is the main entry point for the Cobra CLI application.
// It is called directly from main.main().
func Execute() {
	loadDotEnv()
	err := rootCmd.Execute()
	if err != nil {
		// Ensure logger is initialized even if PersistentPreRunE failed early
		if Log.GetLevel() == zerolog.Disabled {
			_ = configureLogger("info")
		}
		Log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

func addPersistentFlags(c *cobra.Command, level *string) {
	c.PersistentFlags().StringVar(level, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	c.PersistentFlags().Bool("version", false, "Show application version")
	c.PersistentFlags().StringP("output", "o", "text", "Output format (text|json|yaml)")
}

// NewRootCmd creates a new instance of the root command, configured for testing or embedding.
// It mirrors the setup of the package-level rootCmd.
func NewRootCmd() *cobra.Command {
	newCmd := &cobra.Command{
		Use:               rootUse,
		Short:             rootShort,
		Long:              rootLong,
		PersistentPreRunE: persistentPreRunLogic,
		SilenceUsage:      true,
	}

	var instanceLogLevel string
	addPersistentFlags(newCmd, &instanceLogLevel)

	newCmd.AddCommand(configCmd)
	newCmd.AddCommand(chatCmd)
	newCmd.AddCommand(profileCmd)
	newCmd.AddCommand(deadlineCmd)
	newCmd.AddCommand(motivateCmd)
	newCmd.AddCommand(serveCmd)
	newCmd.AddCommand(completionCmd)

	return newCmd
}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(care completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ care completion bash > /etc/bash_completion.d/care
  # macOS:
  $ care completion bash > /usr/local/etc/bash_completion.d/care

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ care completion zsh > "${fpath[1]}/_care"

Fish:
  $ care completion fish | source

  # To load completions for each session, execute once:
  $ care completion fish > ~/.config/fish/completions/care.fish

PowerShell:
  PS> care completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(out)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell type %q", args[0])
		}
	},
}

func init() {
	addPersistentFlags(rootCmd, &logLevel)
	rootCmd.AddCommand(completionCmd)
}
