// Package corpus loads and profiles a person's full message history.
package corpus

import (
	"context"
	"log/slog"

	"github.com/talkershq/talkers/internal/session"
	"github.com/talkershq/talkers/internal/types"
	"github.com/talkershq/talkers/internal/vectorstore"
)

// DefaultPageSize is the scroll batch size used to enumerate a collection.
const DefaultPageSize = 250

// DefaultMaxPages caps the enumeration loop so a very large corpus cannot
// stall a turn. 40 pages at 250 per page covers 10k messages.
const DefaultMaxPages = 40

// Loader populates session entries with the full corpus from the vector
// store.
type Loader struct {
	store    vectorstore.Store
	pageSize int
	maxPages int
}

// NewLoader returns a Loader over the given store.
func NewLoader(store vectorstore.Store, pageSize, maxPages int) *Loader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Loader{store: store, pageSize: pageSize, maxPages: maxPages}
}

// EnsureLoaded populates entry.AllMessages and entry.Stats by scrolling the
// collection until exhaustion. The cache is populated at most once per entry
// lifetime. A mid-loop store failure keeps whatever loaded so far: the caller
// proceeds in degraded mode rather than failing the turn.
func (l *Loader) EnsureLoaded(ctx context.Context, entry *session.Entry, collection string) {
	entry.Lock()
	defer entry.Unlock()

	if entry.Loaded() {
		return
	}

	var messages []types.Message
	offset := 0
	for page := 0; page < l.maxPages; page++ {
		result, err := l.store.Scroll(ctx, collection, l.pageSize, offset)
		if err != nil {
			slog.Warn("corpus enumeration failed, continuing with partial corpus",
				"collection", collection, "loaded", len(messages), "error", err.Error())
			break
		}
		for _, point := range result.Points {
			if point.Payload.Content == "" {
				continue
			}
			messages = append(messages, point.Payload)
		}
		if result.NextOffset == nil {
			break
		}
		offset = *result.NextOffset
		if page == l.maxPages-1 {
			entry.Truncated = true
			slog.Warn("corpus enumeration hit page cap, truncating",
				"collection", collection, "loaded", len(messages))
		}
	}

	entry.AllMessages = messages
	entry.Stats = ComputeStats(messages)
	slog.Info("corpus loaded", "collection", collection, "messages", len(messages), "truncated", entry.Truncated)
}
