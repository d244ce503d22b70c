package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/campuscare/internal/llm"
	"github.com/karolswdev/campuscare/internal/profile"
	"github.com/karolswdev/campuscare/internal/prompt"
)

const (
	invalidNameStatus = "Please enter a valid name."
	welcomeFormat     = "Profile set up for %s. Welcome!"
)

// PromptBuilder renders the prompt for a turn.
type PromptBuilder interface {
	Build(ctx context.Context, userID, message string, history []prompt.Turn) (prompt.Result, error)
}

// ProfileWriter is the write side of the profile service.
type ProfileWriter interface {
	UpdateField(ctx context.Context, userID, key, value string) error
	UpdateProfile(ctx context.Context, userID, major, yearOfStudy, stressors, university string) error
}

// MemoryOptions controls what a successful turn writes back to the profile. Both are off
// by default, leaving the profile untouched by chat turns.
type MemoryOptions struct {
	TrackEmotion bool
	Summarize    bool
}

// Orchestrator runs one turn at a time against a caller-owned Session.
type Orchestrator struct {
	builder  PromptBuilder
	llm      llm.Client
	profiles ProfileWriter
	memory   MemoryOptions
}

// NewOrchestrator wires an orchestrator.
func NewOrchestrator(builder PromptBuilder, client llm.Client, profiles ProfileWriter, memory MemoryOptions) *Orchestrator {
	return &Orchestrator{builder: builder, llm: client, profiles: profiles, memory: memory}
}

// HandleTurn answers message within session and returns the flattened history. On any
// failure the session is left as it was and the error is returned unchanged.
func (o *Orchestrator) HandleTurn(ctx context.Context, session *Session, message string) ([]DisplayMessage, error) {
	if o.llm == nil {
		return nil, llm.ErrLLMClientNil
	}

	built, err := o.builder.Build(ctx, session.UserID, message, session.History)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("session_id", session.ID).Str("prompt", built.Prompt).Msg("Prompt ready")

	completion, err := o.llm.Complete(ctx, built.Prompt)
	if err != nil {
		return nil, err
	}
	completion = strings.TrimSpace(completion)
	if completion == "" {
		return nil, llm.ErrLLMEmptyResponse
	}

	session.History = append(session.History, Turn{User: message, Assistant: completion})
	log.Info().Str("session_id", session.ID).Str("user_id", session.UserID).Str("sentiment", string(built.Label)).Int("turns", len(session.History)).Msg("Turn completed")

	o.remember(ctx, session, built)
	return Flatten(session.History), nil
}

// remember applies the opt-in post-turn profile updates. Failures are logged; the reply
// already reached the session.
func (o *Orchestrator) remember(ctx context.Context, session *Session, built prompt.Result) {
	if o.profiles == nil || session.UserID == "" {
		return
	}
	if o.memory.TrackEmotion && built.Label != "" {
		if err := o.profiles.UpdateField(ctx, session.UserID, profile.FieldLastEmotion, string(built.Label)); err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to record last emotion")
		}
	}
	if o.memory.Summarize {
		summary, err := llm.Summarize(ctx, o.llm, prompt.RenderHistory(session.History))
		if err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to summarize conversation")
			return
		}
		if err := o.profiles.UpdateField(ctx, session.UserID, profile.FieldLastConversation, summary); err != nil {
			log.Warn().Err(err).Str("user_id", session.UserID).Msg("Failed to record last conversation")
		}
	}
}

// SetupProfile validates name and stores the profile fields. A blank name returns the
// validation status with an empty user id and writes nothing.
func (o *Orchestrator) SetupProfile(ctx context.Context, name, major, yearOfStudy, stressors, university string) (string, string, error) {
	return SetupProfile(ctx, o.profiles, name, major, yearOfStudy, stressors, university)
}

// SetupProfile is the orchestrator-free form used by the CLI and HTTP boundary.
func SetupProfile(ctx context.Context, profiles ProfileWriter, name, major, yearOfStudy, stressors, university string) (string, string, error) {
	if strings.TrimSpace(name) == "" {
		return invalidNameStatus, "", nil
	}
	if err := profiles.UpdateField(ctx, name, profile.FieldName, name); err != nil {
		return "", "", err
	}
	if err := profiles.UpdateProfile(ctx, name, major, yearOfStudy, stressors, university); err != nil {
		return "", "", err
	}
	log.Info().Str("user_id", name).Msg("Profile set up")
	return fmt.Sprintf(welcomeFormat, name), name, nil
}
