// Package prompt assembles the bounded persona system prompt for a turn.
package prompt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/talkershq/talkers/internal/analysis"
	"github.com/talkershq/talkers/internal/types"
)

const (
	historyLimit        = 8
	voiceExampleLimit   = 12
	specificMemoryLimit = 8
)

// BuildContext contains all inputs for prompt assembly.
type BuildContext struct {
	PersonName       string
	History          []types.ConversationTurn
	VoiceExamples    []string
	SpecificMemories []string
	Patterns         string
	Stats            *types.StatisticalProfile
	Intent           analysis.Intent
	Repetition       analysis.RepetitionResult
	Languages        []string
	UserMessage      string
}

// Builder renders the persona system prompt.
type Builder struct {
	nowFunc func() time.Time
}

// NewBuilder creates a prompt Builder.
func NewBuilder() *Builder {
	return &Builder{nowFunc: time.Now}
}

// Build renders the system prompt with its fixed section order. The
// repetition addendum is appended only when the current message is a repeat.
func (b *Builder) Build(ctx BuildContext) (string, error) {
	if ctx.PersonName == "" {
		return "", fmt.Errorf("person name is required")
	}

	history := ctx.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	// Most recent first for the template.
	reversed := make([]types.ConversationTurn, len(history))
	for i, turn := range history {
		reversed[len(history)-1-i] = turn
	}

	now := b.nowFunc()
	data := struct {
		PersonName       string
		History          []types.ConversationTurn
		VoiceExamples    []string
		SpecificMemories []string
		Patterns         string
		Stats            *types.StatisticalProfile
		Intent           analysis.Intent
		Repetition       analysis.RepetitionResult
		Language         string
		UserMessage      string
		Date             string
		Season           string
	}{
		PersonName:       ctx.PersonName,
		History:          reversed,
		VoiceExamples:    headStrings(ctx.VoiceExamples, voiceExampleLimit),
		SpecificMemories: headStrings(ctx.SpecificMemories, specificMemoryLimit),
		Patterns:         ctx.Patterns,
		Stats:            ctx.Stats,
		Intent:           ctx.Intent,
		Repetition:       ctx.Repetition,
		Language:         primaryLanguage(ctx.Languages),
		UserMessage:      ctx.UserMessage,
		Date:             now.Format("Monday, January 2, 2006"),
		Season:           season(now),
	}

	var buf bytes.Buffer
	if err := personaTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}
	return buf.String(), nil
}

func headStrings(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func primaryLanguage(languages []string) string {
	if len(languages) == 0 {
		return "the same language the user writes in"
	}
	return languages[0]
}

func season(now time.Time) string {
	switch now.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
