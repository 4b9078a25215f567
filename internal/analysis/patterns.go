package analysis

import (
	"fmt"
	"strings"
)

// abbreviationHabits maps detectable substrings to the habit described in
// the prompt. Matching is done over the style sample only, so the scan is
// bounded regardless of corpus size.
var abbreviationHabits = []struct {
	marker string
	habit  string
}{
	{"lol", "uses \"lol\" casually"},
	{"btw", "abbreviates \"by the way\" to \"btw\""},
	{"omg", "says \"omg\" when surprised"},
	{"idk", "writes \"idk\" instead of \"I don't know\""},
	{"tbh", "drops \"tbh\" into opinions"},
	{"brb", "uses \"brb\" when stepping away"},
	{"thx", "shortens thanks to \"thx\""},
	{"gonna", "says \"gonna\" instead of \"going to\""},
	{"wanna", "says \"wanna\" instead of \"want to\""},
	{"jaja", "laughs in Spanish (\"jaja\")"},
	{"haha", "laughs with \"haha\""},
	{"xd", "uses \"xd\" as a laugh"},
}

// SummarizePatterns scans the style sample for known abbreviation habits and
// returns a bullet list for the prompt, or empty when nothing is detected.
func SummarizePatterns(sample []string) string {
	if len(sample) == 0 {
		return ""
	}

	joined := strings.ToLower(strings.Join(sample, "\n"))
	var bullets []string
	for _, entry := range abbreviationHabits {
		if strings.Contains(joined, entry.marker) {
			bullets = append(bullets, fmt.Sprintf("- %s", entry.habit))
		}
	}
	if len(bullets) == 0 {
		return ""
	}
	return strings.Join(bullets, "\n")
}
