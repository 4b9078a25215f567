// Package retrieval ranks and merges historical message context for a turn.
package retrieval

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/talkershq/talkers/internal/types"
	"github.com/talkershq/talkers/internal/vectorstore"
)

const (
	// Semantic nearest-neighbor search: fetch wide, keep the head.
	semanticSearchLimit = 15
	semanticThreshold   = 0.5
	semanticKeep        = 8

	// Topic-anchored lexical scan over the full corpus.
	topicMinTokenLen = 3
	topicKeep        = 10

	// Style sample: a fresh random subset per turn so voice examples stay
	// varied across a long conversation.
	styleSampleSize = 50

	// Merge caps per source, applied before dedup.
	mergeSpecificCap = 5
	mergeSemanticCap = 8
	mergeStyleCap    = 15
)

// Context is the merged retrieval output for one turn.
type Context struct {
	SpecificMemories []string
	SemanticMatches  []types.RetrievalResult
	StyleSample      []string
	Final            []string
}

// Used reports whether any historical context made it into the merge.
func (c *Context) Used() bool {
	return len(c.Final) > 0
}

// Retriever produces the three candidate sets and merges them under fixed
// per-source caps.
type Retriever struct {
	store     vectorstore.Store
	threshold float64

	// shuffle is swappable for deterministic tests.
	shuffle func(n int, swap func(i, j int))
}

// NewRetriever returns a Retriever over the given vector store. A
// non-positive threshold falls back to the default cutoff.
func NewRetriever(store vectorstore.Store, threshold float64) *Retriever {
	if threshold <= 0 {
		threshold = semanticThreshold
	}
	return &Retriever{
		store:     store,
		threshold: threshold,
		shuffle:   rand.Shuffle,
	}
}

// Retrieve builds the turn context from three complementary sources:
// semantic nearest neighbors, topic-anchored specific memories, and a random
// style sample. A failure in any single source is logged and skipped; the
// merge proceeds with whatever succeeded.
func (r *Retriever) Retrieve(ctx context.Context, collection, userMessage string, embedding []float32, corpus []types.Message) *Context {
	result := &Context{}

	if len(embedding) > 0 {
		matches, err := r.store.Search(ctx, collection, embedding, semanticSearchLimit, r.threshold)
		if err != nil {
			slog.Warn("semantic search failed, continuing without semantic matches",
				"collection", collection, "error", err.Error())
		} else {
			if len(matches) > semanticKeep {
				matches = matches[:semanticKeep]
			}
			result.SemanticMatches = matches
		}
	}

	result.SpecificMemories = scanTopics(userMessage, corpus)
	result.StyleSample = r.sampleStyle(corpus)
	result.Final = merge(result.SpecificMemories, result.SemanticMatches, result.StyleSample)
	return result
}

// scanTopics surfaces verbatim-relevant memories that semantic search might
// rank below the cutoff: a recall-biased substring filter, not a ranked
// retrieval. Messages are kept in corpus order; the first matching topic wins
// per message.
func scanTopics(userMessage string, corpus []types.Message) []string {
	var topics []string
	for _, token := range strings.Fields(strings.ToLower(userMessage)) {
		if len(token) > topicMinTokenLen {
			topics = append(topics, token)
		}
	}
	if len(topics) == 0 {
		return nil
	}

	var matches []string
	for _, m := range corpus {
		content := strings.ToLower(m.Content)
		for _, topic := range topics {
			if strings.Contains(content, topic) {
				matches = append(matches, m.Content)
				break
			}
		}
		if len(matches) >= topicKeep {
			break
		}
	}
	return matches
}

// sampleStyle draws a fresh random sample each turn. Corpora at or under the
// sample size are used whole.
func (r *Retriever) sampleStyle(corpus []types.Message) []string {
	contents := make([]string, 0, len(corpus))
	for _, m := range corpus {
		contents = append(contents, m.Content)
	}
	if len(contents) <= styleSampleSize {
		return contents
	}

	r.shuffle(len(contents), func(i, j int) {
		contents[i], contents[j] = contents[j], contents[i]
	})
	return contents[:styleSampleSize]
}

// merge concatenates the sources in fixed priority order under per-source
// caps, then deduplicates by exact string equality keeping first occurrence.
// The sources carry incomparable scores (lexical containment and random
// sampling have none), so fixed priority replaces rank fusion: exact topical
// recall first, semantic relevance second, voice filler last.
func merge(specific []string, semantic []types.RetrievalResult, style []string) []string {
	capped := make([]string, 0, mergeSpecificCap+mergeSemanticCap+mergeStyleCap)
	capped = append(capped, head(specific, mergeSpecificCap)...)
	for i, match := range semantic {
		if i >= mergeSemanticCap {
			break
		}
		capped = append(capped, match.Content)
	}
	capped = append(capped, head(style, mergeStyleCap)...)

	seen := make(map[string]struct{}, len(capped))
	final := make([]string, 0, len(capped))
	for _, content := range capped {
		if _, ok := seen[content]; ok {
			continue
		}
		seen[content] = struct{}{}
		final = append(final, content)
	}
	return final
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
