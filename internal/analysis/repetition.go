// Package analysis holds the stateless per-turn conversational analyzers.
// Each one is a pure function over the current message, the recent history,
// or the style sample; none of them performs I/O.
package analysis

import (
	"strings"

	"github.com/talkershq/talkers/internal/types"
)

const repetitionWindow = 5

// RepetitionResult flags a re-asked message and carries canned phrasings the
// prompt composer can use to acknowledge the repeat.
type RepetitionResult struct {
	IsRepetitive    bool
	Acknowledgments []string
}

var repetitionAcknowledgments = []string{
	"I think you already asked me that, but happy to go over it again",
	"Didn't we just talk about this? Anyway...",
	"You really want to be sure about this one, huh",
}

// DetectRepetition compares the current message against the user messages of
// the last turns, most recent first. Exact string equality after lowercasing
// only: no fuzzy or semantic matching.
func DetectRepetition(current string, history []types.ConversationTurn) RepetitionResult {
	normalized := strings.ToLower(strings.TrimSpace(current))
	if normalized == "" {
		return RepetitionResult{}
	}

	checked := 0
	for i := len(history) - 1; i >= 0 && checked < repetitionWindow; i-- {
		checked++
		if strings.ToLower(strings.TrimSpace(history[i].UserMessage)) == normalized {
			return RepetitionResult{
				IsRepetitive:    true,
				Acknowledgments: repetitionAcknowledgments,
			}
		}
	}
	return RepetitionResult{}
}
