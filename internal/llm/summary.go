package llm

import (
	"context"
	"strings"
)

// ConstructSummaryPrompt wraps a rendered conversation in the summarisation instruction.
func ConstructSummaryPrompt(conversation string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant. Summarize this conversation in 1-2 sentences.\n\n")
	b.WriteString("Conversation:\n")
	b.WriteString(conversation)
	b.WriteString("\n\nSummary:")
	return b.String()
}

// Summarize asks client for a one or two sentence summary of conversation. Models often
// echo the "Summary:" cue or quote their answer; both are stripped.
func Summarize(ctx context.Context, client Client, conversation string) (string, error) {
	if client == nil {
		return "", ErrLLMClientNil
	}
	raw, err := client.Complete(ctx, ConstructSummaryPrompt(conversation))
	if err != nil {
		return "", err
	}
	summary := cleanSummary(raw)
	if summary == "" {
		return "", ErrLLMEmptyResponse
	}
	return summary, nil
}

func cleanSummary(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= len("summary:") && strings.EqualFold(s[:len("summary:")], "summary:") {
		s = strings.TrimSpace(s[len("summary:"):])
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
