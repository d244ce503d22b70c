package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Starts the HTTP API:

  POST /profile               set up a profile
  POST /chat                  run a turn ({"session_id", "user_id", "message"})
  POST /sessions/{id}/clear   forget a session's conversation
  GET  /healthz               store health

Sessions live in memory and expire after server.session_ttl of inactivity.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = provider.AppConfig.Server.Addr
		}
		if provider.LLM == nil {
			Log.Warn().Msg("No LLM client configured; chat requests will fail until an API key is set")
		}

		srv := server.New(provider.Orchestrator(), provider.Profiles, provider.Profiles, provider.AppConfig.Server.SessionTTL)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr)")
	rootCmd.AddCommand(serveCmd)
}
