package llm

import "errors"

// Sentinel errors for LLM client operations.

// ErrLLMClientNil indicates the LLM client (e.g., OpenAI client) was nil when used.
var ErrLLMClientNil = errors.New("LLM client cannot be nil")

// ErrLLMPromptEmpty indicates the prompt provided to the LLM was empty.
var ErrLLMPromptEmpty = errors.New("prompt cannot be empty")

// ErrLLMCompletion indicates an error occurred during the LLM API call (e.g., network error, API error).
// The underlying error from the LLM SDK should be wrapped.
var ErrLLMCompletion = errors.New("failed to create LLM completion")

// ErrLLMEmptyResponse indicates the LLM returned a response with no usable content (no choices,
// or only whitespace).
var ErrLLMEmptyResponse = errors.New("received an empty response from LLM")
