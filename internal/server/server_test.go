package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/deadline"
	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/profile"
	"github.com/karolswdev/campuscare/internal/prompt"
	"github.com/karolswdev/campuscare/internal/resources"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

// echoLLM answers with a counter so each reply is distinct.
type echoLLM struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (e *echoLLM) Complete(_ context.Context, _ string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return "", e.err
	}
	e.calls++
	return fmt.Sprintf("reply %d", e.calls), nil
}

func newTestServer(t *testing.T, client llm.Client) (*httptest.Server, *profile.Service) {
	t.Helper()
	svc := profile.NewService(profile.NewMemoryStore())
	builder := prompt.NewBuilder(svc, deadline.NewTracker(svc, 3), resources.NewResolver(svc),
		sentiment.NewClassifier(sentiment.NewVaderScorer()))
	orch := chat.NewOrchestrator(builder, client, svc, chat.MemoryOptions{})

	srv := New(orch, svc, svc, time.Hour)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func post(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, &echoLLM{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestProfileEndpoint(t *testing.T) {
	ts, svc := newTestServer(t, &echoLLM{})

	t.Run("BlankName", func(t *testing.T) {
		resp, body := post(t, ts.URL+"/profile", map[string]string{"name": "  "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Please enter a valid name.", body["status"])
		assert.Equal(t, "", body["user_id"])
	})

	t.Run("Valid", func(t *testing.T) {
		resp, body := post(t, ts.URL+"/profile", map[string]string{
			"name": "Maya", "major": "Nursing", "university": "Centennial College",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Profile set up for Maya. Welcome!", body["status"])
		assert.Equal(t, "Maya", body["user_id"])

		p, err := svc.Get(context.Background(), "Maya")
		require.NoError(t, err)
		assert.Equal(t, "Nursing", p.Major)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/profile", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestChatEndpoint_SessionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t, &echoLLM{})

	resp, body := post(t, ts.URL+"/chat", map[string]string{"user_id": "alex", "message": "Hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID, _ := body["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Len(t, body["history"], 2)

	resp, body = post(t, ts.URL+"/chat", map[string]string{"session_id": sessionID, "user_id": "alex", "message": "Again"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sessionID, body["session_id"])
	history := body["history"].([]any)
	require.Len(t, history, 4)
	last := history[3].(map[string]any)
	assert.Equal(t, "assistant", last["role"])
	assert.Equal(t, "reply 2", last["content"])

	resp, body = post(t, ts.URL+"/sessions/"+sessionID+"/clear", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{}, body["history"])

	resp, body = post(t, ts.URL+"/chat", map[string]string{"session_id": sessionID, "user_id": "alex", "message": "Fresh start"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["history"], 2, "Cleared session starts over")
}

func TestChatEndpoint_UnknownSessionStartsNew(t *testing.T) {
	ts, _ := newTestServer(t, &echoLLM{})

	resp, body := post(t, ts.URL+"/chat", map[string]string{"session_id": "does-not-exist", "user_id": "alex", "message": "Hi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "does-not-exist", body["session_id"])
}

func TestChatEndpoint_Validation(t *testing.T) {
	ts, _ := newTestServer(t, &echoLLM{})

	testCases := []struct {
		name string
		body map[string]string
	}{
		{"MissingUser", map[string]string{"message": "Hi"}},
		{"BlankMessage", map[string]string{"user_id": "alex", "message": "  "}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := post(t, ts.URL+"/chat", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestChatEndpoint_LLMFailureIsGeneric(t *testing.T) {
	upstream := fmt.Errorf("%w: %w", llm.ErrLLMCompletion, errors.New("401 invalid api key sk-secret"))
	ts, _ := newTestServer(t, &echoLLM{err: upstream})

	resp, body := post(t, ts.URL+"/chat", map[string]string{"user_id": "alex", "message": "Hi"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "The assistant is unavailable right now. Please try again.", body["error"])
	assert.NotContains(t, body["error"], "sk-secret")
}

func TestClearEndpoint_UnknownSession(t *testing.T) {
	ts, _ := newTestServer(t, &echoLLM{})

	resp, body := post(t, ts.URL+"/sessions/nope/clear", map[string]string{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", body["error"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, statusFor(llm.ErrLLMEmptyResponse))
	assert.Equal(t, http.StatusBadGateway, statusFor(fmt.Errorf("%w: timeout", sentiment.ErrRequestExecute)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(profile.ErrStoreWrite))
}

func TestSessionStore_OtherUserGetsFreshSession(t *testing.T) {
	store := NewSessionStore(time.Hour)
	first := store.acquire("", "alex")
	again := store.acquire(first.session.ID, "alex")
	assert.Same(t, first, again)

	other := store.acquire(first.session.ID, "sam")
	assert.NotEqual(t, first.session.ID, other.session.ID)
	assert.Equal(t, "sam", other.session.UserID)
	assert.Equal(t, 2, store.Len())
}
