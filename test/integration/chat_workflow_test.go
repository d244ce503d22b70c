//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/profile"
)

// recordedPrompts collects the user content of every completion request the mock LLM sees.
type recordedPrompts struct {
	mu      sync.Mutex
	prompts []string
}

func (r *recordedPrompts) add(p string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, p)
}

func (r *recordedPrompts) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

// TestChatWorkflow tests the end-to-end flow:
// 1. config init
// 2. profile setup
// 3. deadline add / list
// 4. chat (single turns against a mock OpenAI-compatible server)
// 5. profile show, checking the emotion recorded after the turn
func TestChatWorkflow(t *testing.T) {
	recorded := &recordedPrompts{}
	mockLLM := mockLLMServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "test-model", req.Model)
		recorded.add(req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  I'm here for you.  "},
			}},
		}))
	})
	setupTestEnvironment(t, mockLLM.URL+"/v1")

	tomorrow := time.Now().AddDate(0, 0, 1).Format(profile.DateLayout)

	t.Run("config init", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "config", "init")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Configuration directory and default files ensured.")
	})

	t.Run("profile setup", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "profile", "setup",
			"--name", "Alex", "--major", "Computer Science", "--year", "2",
			"--stressors", "exams", "--university", "University of Toronto")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Profile set up for Alex. Welcome!")
	})

	t.Run("deadline add and list", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "deadline", "add", "Alex", "Stats midterm", tomorrow)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Deadline saved: Stats midterm due "+tomorrow)

		stdout, _, err = executeCareCommand(t, "deadline", "list", "Alex")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Reminder! You have upcoming deadlines: Stats midterm.")
	})

	t.Run("chat schedule question", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "chat", "--user", "Alex", "-m", "what's my schedule?")
		require.NoError(t, err)
		assert.Equal(t, "CampusCare: I'm here for you.\n", stdout)

		prompt := recorded.last()
		assert.Contains(t, prompt, "Stats midterm")
		assert.Contains(t, prompt, "Computer Science")
		assert.Contains(t, prompt, "User: what's my schedule?")
		assert.NotContains(t, prompt, "mentalhealth.utoronto.ca")
	})

	t.Run("chat distress as json", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "chat", "--user", "Alex", "-m", "I'm so lonely and heartbroken", "-o", "json")
		require.NoError(t, err)

		var history []chat.DisplayMessage
		require.NoError(t, json.Unmarshal([]byte(stdout), &history))
		require.Len(t, history, 2)
		assert.Equal(t, chat.DisplayMessage{Role: chat.RoleAssistant, Content: "I'm here for you."}, history[1])
		assert.Contains(t, recorded.last(), "https://mentalhealth.utoronto.ca/")
	})

	t.Run("profile show records emotion", func(t *testing.T) {
		stdout, _, err := executeCareCommand(t, "profile", "show", "Alex", "-o", "json")
		require.NoError(t, err)

		var p profile.UserProfile
		require.NoError(t, json.Unmarshal([]byte(stdout), &p))
		assert.Equal(t, "Alex", p.Name)
		assert.Equal(t, "University of Toronto", p.University)
		assert.Equal(t, tomorrow, p.Deadlines["Stats midterm"])
		assert.Equal(t, "sad", p.LastEmotion)
	})
}

// TestChatWorkflow_LLMFailure checks that an upstream failure surfaces as a generic
// message and leaves the profile untouched.
func TestChatWorkflow_LLMFailure(t *testing.T) {
	mockLLM := mockLLMServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"internal upstream detail","type":"server_error"}}`))
	})
	setupTestEnvironment(t, mockLLM.URL+"/v1")

	_, _, err := executeCareCommand(t, "profile", "setup", "--name", "Sam")
	require.NoError(t, err)

	_, _, err = executeCareCommand(t, "chat", "--user", "Sam", "-m", "I hate this", "-o", "text")
	require.Error(t, err)
	assert.Equal(t, "The assistant is unavailable right now. Please try again.", err.Error())

	stdout, _, err := executeCareCommand(t, "profile", "show", "Sam", "-o", "json")
	require.NoError(t, err)
	var p profile.UserProfile
	require.NoError(t, json.Unmarshal([]byte(stdout), &p))
	assert.Empty(t, p.LastEmotion)
}
