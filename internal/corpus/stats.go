package corpus

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/talkershq/talkers/internal/types"
)

// emojiPattern covers the common pictograph and symbol blocks plus the
// classic emoticon range.
var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}]|[\x{1F600}-\x{1F64F}]|[\x{1F680}-\x{1F6FF}]|[\x{1F900}-\x{1FAFF}]|[\x{2600}-\x{27BF}]|[\x{2B00}-\x{2BFF}]|[\x{FE00}-\x{FE0F}]`)

// ComputeStats derives the stylistic profile of a corpus. Returns nil for an
// empty corpus. Pure function: identical input yields identical output.
// Percentages are computed in floating point and rounded once at the boundary.
func ComputeStats(messages []types.Message) *types.StatisticalProfile {
	if len(messages) == 0 {
		return nil
	}

	var totalChars, totalWords int
	var veryShort, noPunctuation, withEmoji, oneWord int

	for _, m := range messages {
		content := m.Content
		length := utf8.RuneCountInString(content)
		totalChars += length
		words := strings.Fields(content)
		totalWords += len(words)

		if length <= 10 {
			veryShort++
		}
		if !hasTerminalPunctuation(content) {
			noPunctuation++
		}
		if emojiPattern.MatchString(content) {
			withEmoji++
		}
		if len(strings.Fields(strings.TrimSpace(content))) == 1 {
			oneWord++
		}
	}

	n := float64(len(messages))
	return &types.StatisticalProfile{
		AvgCharacters:        int(math.Round(float64(totalChars) / n)),
		AvgWords:             int(math.Round(float64(totalWords) / n)),
		VeryShortPercent:     roundPercent(veryShort, n),
		NoPunctuationPercent: roundPercent(noPunctuation, n),
		EmojiPercent:         roundPercent(withEmoji, n),
		OneWordPercent:       roundPercent(oneWord, n),
	}
}

func hasTerminalPunctuation(content string) bool {
	trimmed := strings.TrimRight(content, " \t")
	if trimmed == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	return last == '.' || last == '!' || last == '?'
}

func roundPercent(count int, total float64) int {
	return int(math.Round(100 * float64(count) / total))
}
