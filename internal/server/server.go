// Package server exposes the chat orchestrator over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/campuscare/internal/chat"
	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/sentiment"
)

const maxRequestBodySize = 1 << 20

const (
	assistantUnavailable = "The assistant is unavailable right now. Please try again."
	internalError        = "Something went wrong. Please try again."
)

// Turner runs one chat turn.
type Turner interface {
	HandleTurn(ctx context.Context, session *chat.Session, message string) ([]chat.DisplayMessage, error)
}

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the HTTP routes to the chat core.
type Server struct {
	turns    Turner
	profiles chat.ProfileWriter
	health   Pinger
	sessions *SessionStore
	router   chi.Router
}

// New builds the router. health may be nil.
func New(turns Turner, profiles chat.ProfileWriter, health Pinger, sessionTTL time.Duration) *Server {
	s := &Server{
		turns:    turns,
		profiles: profiles,
		health:   health,
		sessions: NewSessionStore(sessionTTL),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/profile", s.handleProfile)
	r.Post("/chat", s.handleChat)
	r.Post("/sessions/{id}/clear", s.handleClear)

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type profileRequest struct {
	Name            string `json:"name"`
	Major           string `json:"major"`
	YearOfStudy     string `json:"year_of_study"`
	CommonStressors string `json:"common_stressors"`
	University      string `json:"university"`
}

type profileResponse struct {
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	status, userID, err := chat.SetupProfile(r.Context(), s.profiles, req.Name, req.Major, req.YearOfStudy, req.CommonStressors, req.University)
	if err != nil {
		log.Error().Err(err).Msg("Profile setup failed")
		Error(w, http.StatusInternalServerError, internalError)
		return
	}
	if userID == "" {
		JSON(w, http.StatusBadRequest, profileResponse{Status: status})
		return
	}
	JSON(w, http.StatusOK, profileResponse{Status: status, UserID: userID})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string                `json:"session_id"`
	History   []chat.DisplayMessage `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	entry := s.sessions.acquire(req.SessionID, req.UserID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	history, err := s.turns.HandleTurn(r.Context(), entry.session, req.Message)
	if err != nil {
		status := statusFor(err)
		log.Error().Err(err).Str("session_id", entry.session.ID).Int("status", status).Msg("Chat turn failed")
		if status == http.StatusBadGateway {
			Error(w, status, assistantUnavailable)
		} else {
			Error(w, status, internalError)
		}
		return
	}
	s.sessions.touch(entry)
	JSON(w, http.StatusOK, chatResponse{SessionID: entry.session.ID, History: history})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	chat.Clear(entry.session)
	s.sessions.touch(entry)
	JSON(w, http.StatusOK, chatResponse{SessionID: entry.session.ID, History: chat.Flatten(entry.session.History)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			Error(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps collaborator failures to 502 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, llm.ErrLLMCompletion),
		errors.Is(err, llm.ErrLLMEmptyResponse),
		errors.Is(err, llm.ErrLLMClientNil),
		errors.Is(err, sentiment.ErrRequestExecute),
		errors.Is(err, sentiment.ErrScorerServerError),
		errors.Is(err, sentiment.ErrResponseDecode),
		errors.Is(err, sentiment.ErrScoreOutOfRange):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
