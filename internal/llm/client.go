package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the hosted model used when none is configured.
	DefaultModel = "llama-3.3-70b-versatile"
	// DefaultBaseURL points at Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultTemperature is the sampling temperature used for every completion.
	DefaultTemperature float32 = 0.6
)

// Client is a text-completion collaborator: one prompt in, one completion out.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient implements Client against any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	temperature float32
}

// NewOpenAIClient creates a new OpenAI client wrapper.
// It requires a configured go-openai client and the model name to use.
func NewOpenAIClient(client *openai.Client, modelName string, temperature float32) (*OpenAIClient, error) {
	if client == nil {
		return nil, ErrLLMClientNil
	}
	if modelName == "" {
		log.Warn().Str("model", DefaultModel).Msg("modelName is empty for OpenAIClient, using default")
		modelName = DefaultModel
	}
	return &OpenAIClient{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

// Complete sends prompt as a single user message and returns the first choice's content,
// trimmed. A completion with no choices or only whitespace yields ErrLLMEmptyResponse.
func (o *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", ErrLLMClientNil
	}
	if prompt == "" {
		return "", ErrLLMPromptEmpty
	}

	req := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	log.Debug().Str("model", o.modelName).Int("prompt_bytes", len(prompt)).Msg("Sending chat completion request")
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("Chat completion API call failed")
		return "", fmt.Errorf("%w: %w", ErrLLMCompletion, err)
	}

	if len(resp.Choices) == 0 {
		log.Error().Msg("Received an empty response (no choices) from LLM")
		return "", ErrLLMEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		log.Error().Msg("Received a blank completion from LLM")
		return "", ErrLLMEmptyResponse
	}

	log.Debug().Int("completion_bytes", len(content)).Msg("Received completion")
	return content, nil
}
