package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/config"
	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/profile"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

const (
	clearCommand  = "/clear"
	quitCommand   = "/quit"
	exitCommand   = "/exit"
	assistantName = "CampusCare"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk with CampusCare",
	Long: `Starts an interactive conversation. Type /clear to forget the conversation so far
and /quit to leave. With --message a single turn is run and the reply printed.`,
	Example: `  care chat --user alex
  care chat --user alex -m "what's my schedule?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		message, _ := cmd.Flags().GetString("message")
		outputFormat, _ := cmd.Flags().GetString("output")
		if strings.TrimSpace(userID) == "" {
			return errors.New("--user is required (run 'care profile setup' first to create one)")
		}

		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		defer provider.Close()

		runner := provider.Orchestrator()
		if message != "" {
			return chatOnceRunE(cmd.Context(), runner, userID, message, outputFormat, cmd.OutOrStdout())
		}
		return chatLoopRunE(cmd.Context(), runner, userID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	chatCmd.Flags().StringP("user", "u", "", "User id (the name given at profile setup)")
	chatCmd.Flags().StringP("message", "m", "", "Send a single message and exit")
	rootCmd.AddCommand(chatCmd)
}

// chatOnceRunE runs one turn on a fresh session.
func chatOnceRunE(ctx context.Context, runner ChatRunner, userID, message, outputFormat string, out io.Writer) error {
	session := chat.NewSession(userID)
	history, err := runner.HandleTurn(ctx, session, message)
	if err != nil {
		Log.Error().Err(err).Str("user_id", userID).Msg("Chat turn failed")
		return errors.New(userFacingError(err))
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format conversation as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintf(out, "%s: %s\n", assistantName, lastReply(history))
	return nil
}

// chatLoopRunE reads messages line by line until EOF or /quit. A failed turn is reported
// and the loop continues with the session unchanged.
func chatLoopRunE(ctx context.Context, runner ChatRunner, userID string, in io.Reader, out io.Writer) error {
	session := chat.NewSession(userID)
	fmt.Fprintf(out, "Chatting as %s. Type %s to start over, %s to leave.\n", userID, clearCommand, quitCommand)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case quitCommand, exitCommand:
			fmt.Fprintln(out, "Take care!")
			return nil
		case clearCommand:
			chat.Clear(session)
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		history, err := runner.HandleTurn(ctx, session, line)
		if err != nil {
			Log.Error().Err(err).Str("session_id", session.ID).Msg("Chat turn failed")
			fmt.Fprintln(out, userFacingError(err))
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", assistantName, lastReply(history))
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func lastReply(history []chat.DisplayMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == chat.RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// userFacingError maps a failed turn to a short message that never leaks upstream detail.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, llm.ErrLLMClientNil):
		return fmt.Sprintf("No LLM is configured. Run 'care config set-key' or set %s.", config.EnvAPIKeyName)
	case errors.Is(err, llm.ErrLLMCompletion), errors.Is(err, llm.ErrLLMEmptyResponse):
		return "The assistant is unavailable right now. Please try again."
	case errors.Is(err, sentiment.ErrRequestExecute), errors.Is(err, sentiment.ErrScorerServerError),
		errors.Is(err, sentiment.ErrResponseDecode), errors.Is(err, sentiment.ErrScoreOutOfRange):
		return "The sentiment service is unavailable right now. Please try again."
	case errors.Is(err, profile.ErrStoreRead), errors.Is(err, profile.ErrStoreDecode),
		errors.Is(err, profile.ErrStoreEncode), errors.Is(err, profile.ErrStoreWrite):
		return "Your profile could not be read or saved. Check the store settings in 'care config show'."
	default:
		return "Something went wrong. Please try again."
	}
}
