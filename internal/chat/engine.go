// Package chat orchestrates one conversation turn end to end: session
// lookup, corpus load, retrieval, analysis, prompt assembly, completion, and
// turn logging.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/talkershq/talkers/internal/analysis"
	"github.com/talkershq/talkers/internal/completion"
	"github.com/talkershq/talkers/internal/corpus"
	"github.com/talkershq/talkers/internal/embedding"
	"github.com/talkershq/talkers/internal/prompt"
	"github.com/talkershq/talkers/internal/retrieval"
	"github.com/talkershq/talkers/internal/session"
	"github.com/talkershq/talkers/internal/types"
)

// ErrValidation marks a malformed request, rejected before any I/O.
var ErrValidation = errors.New("invalid request")

// ErrSessionNotFound re-exports the session lookup failure for the HTTP layer.
var ErrSessionNotFound = session.ErrNotFound

const historyWindow = 8

// TurnResult is the outcome of one chat turn.
type TurnResult struct {
	Response            string                   `json:"response"`
	ContextUsed         bool                     `json:"contextUsed"`
	RelevantMessages    int                      `json:"relevantMessages"`
	ConversationHistory []types.ConversationTurn `json:"conversationHistory"`
	ProcessingTime      int64                    `json:"processingTime"`
	Warning             bool                     `json:"warning,omitempty"`
}

// SessionStore is the durable session/turn store consumed by the engine.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*types.ChatSession, error)
	Touch(ctx context.Context, sessionID string) error
	Recent(ctx context.Context, sessionID string, n int) ([]types.ConversationTurn, error)
	Add(ctx context.Context, sessionID, userMessage, aiResponse string) error
}

// Completer generates the persona reply, substituting a fallback on failure.
type Completer interface {
	Generate(ctx context.Context, systemPrompt, userMessage string, repetitive bool) (text string, warning bool)
}

// Engine wires the per-turn pipeline.
type Engine struct {
	sessions  SessionStore
	cache     *session.Cache
	loader    *corpus.Loader
	embedder  embedding.Embedder
	retriever *retrieval.Retriever
	builder   *prompt.Builder
	completer Completer
}

// NewEngine returns an Engine over its collaborators.
func NewEngine(sessions SessionStore, cache *session.Cache, loader *corpus.Loader, embedder embedding.Embedder, retriever *retrieval.Retriever, builder *prompt.Builder, completer Completer) *Engine {
	return &Engine{
		sessions:  sessions,
		cache:     cache,
		loader:    loader,
		embedder:  embedder,
		retriever: retriever,
		builder:   builder,
		completer: completer,
	}
}

// HandleTurn runs one conversation turn. Embedding and retrieval failures
// degrade the turn to reduced or absent context; completion failures degrade
// to the fallback reply; only validation and unknown-session errors abort.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	started := time.Now()

	if sessionID == "" || message == "" {
		return nil, fmt.Errorf("%w: sessionId and message are required", ErrValidation)
	}

	entry, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	e.loader.EnsureLoaded(ctx, entry, entry.Session.CollectionName)

	history, err := e.sessions.Recent(ctx, sessionID, historyWindow)
	if err != nil {
		slog.Warn("failed to load conversation history, continuing without it",
			"session_id", sessionID, "error", err.Error())
		history = nil
	}

	// Embedding failure skips retrieval entirely: the turn proceeds with no
	// historical context rather than failing.
	var retrieved *retrieval.Context
	vector, err := e.embedder.EmbedQuery(ctx, message)
	if err != nil {
		slog.Warn("embedding failed, skipping retrieval for this turn",
			"session_id", sessionID, "error", err.Error())
		retrieved = &retrieval.Context{}
	} else {
		retrieved = e.retriever.Retrieve(ctx, entry.Session.CollectionName, message, vector, entry.AllMessages)
	}

	repetition := analysis.DetectRepetition(message, history)
	intent := analysis.ClassifyIntent(message)
	patterns := analysis.SummarizePatterns(retrieved.StyleSample)

	systemPrompt, err := e.builder.Build(prompt.BuildContext{
		PersonName:       entry.Session.PersonName,
		History:          history,
		VoiceExamples:    retrieved.StyleSample,
		SpecificMemories: retrieved.SpecificMemories,
		Patterns:         patterns,
		Stats:            entry.Stats,
		Intent:           intent,
		Repetition:       repetition,
		Languages:        entry.Session.DetectedLanguages,
		UserMessage:      message,
	})
	if err != nil {
		slog.Error("prompt assembly failed, using minimal prompt",
			"session_id", sessionID, "error", err.Error())
		systemPrompt = fmt.Sprintf("You are %s. Reply naturally and briefly, in character.", entry.Session.PersonName)
	}

	slog.Debug("generating reply",
		"session_id", sessionID,
		"context_size", len(retrieved.Final),
		"params", completion.Describe(repetition.IsRepetitive))

	reply, warning := e.completer.Generate(ctx, systemPrompt, message, repetition.IsRepetitive)

	// The reply is already computed; a failed write must never block or
	// alter it.
	if err := e.sessions.Add(ctx, sessionID, message, reply); err != nil {
		slog.Error("failed to log conversation turn", "session_id", sessionID, "error", err.Error())
	}
	if err := e.sessions.Touch(ctx, sessionID); err != nil {
		slog.Error("failed to update session activity", "session_id", sessionID, "error", err.Error())
	}

	return &TurnResult{
		Response:            reply,
		ContextUsed:         retrieved.Used(),
		RelevantMessages:    len(retrieved.Final),
		ConversationHistory: history,
		ProcessingTime:      time.Since(started).Milliseconds(),
		Warning:             warning,
	}, nil
}

// loadSession resolves the cache entry for sessionID, reading the durable
// row on miss. Eviction is invisible to callers beyond the reload cost.
func (e *Engine) loadSession(ctx context.Context, sessionID string) (*session.Entry, error) {
	if entry := e.cache.Get(sessionID); entry != nil {
		return entry, nil
	}

	durable, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entry := &session.Entry{Session: *durable}
	e.cache.Put(sessionID, entry)
	return entry, nil
}
