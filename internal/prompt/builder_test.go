package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/talkershq/talkers/internal/analysis"
	"github.com/talkershq/talkers/internal/types"
)

func fixedBuilder() *Builder {
	b := NewBuilder()
	b.nowFunc = func() time.Time {
		return time.Date(2025, time.July, 14, 12, 0, 0, 0, time.UTC)
	}
	return b
}

func baseContext() BuildContext {
	return BuildContext{
		PersonName: "Maya",
		History: []types.ConversationTurn{
			{UserMessage: "how was your day", AIResponse: "pretty good"},
			{UserMessage: "nice", AIResponse: "yeah"},
		},
		VoiceExamples:    []string{"lol ok", "omw"},
		SpecificMemories: []string{"we went to the lake in june"},
		Patterns:         "- uses \"lol\" casually",
		Stats: &types.StatisticalProfile{
			AvgCharacters:        24,
			AvgWords:             5,
			VeryShortPercent:     40,
			NoPunctuationPercent: 70,
			EmojiPercent:         15,
			OneWordPercent:       10,
		},
		Intent:      analysis.ClassifyIntent("how are you"),
		Languages:   []string{"English"},
		UserMessage: "how are you",
	}
}

func TestBuildSectionOrder(t *testing.T) {
	out, err := fixedBuilder().Build(baseContext())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	sections := []string{
		"You are Maya",
		"[RECENT CONVERSATION",
		"[HOW YOU WRITE",
		"[THINGS YOU ACTUALLY SAID",
		"[YOUR WRITING HABITS]",
		"[STYLE GUIDANCE]",
		"[TODAY]",
		"[MEMORY]",
		"[CURRENT MESSAGE]",
		"[RELATIONSHIP]",
		"[RULES]",
	}
	pos := -1
	for _, section := range sections {
		idx := strings.Index(out, section)
		if idx < 0 {
			t.Fatalf("missing section %q", section)
		}
		if idx < pos {
			t.Fatalf("section %q out of order", section)
		}
		pos = idx
	}

	if strings.Contains(out, "[NOTE]") {
		t.Fatal("repetition addendum must be absent when not repetitive")
	}
	if !strings.Contains(out, "summer") {
		t.Fatal("expected season in world context")
	}
	if !strings.Contains(out, "Reply in English") {
		t.Fatal("expected language directive")
	}
}

func TestBuildRepetitionAddendum(t *testing.T) {
	ctx := baseContext()
	ctx.Repetition = analysis.DetectRepetition("nice", ctx.History)
	if !ctx.Repetition.IsRepetitive {
		t.Fatal("fixture should be repetitive")
	}

	out, err := fixedBuilder().Build(ctx)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(out, "[NOTE]") {
		t.Fatal("expected repetition addendum")
	}
}

func TestBuildHistoryMostRecentFirstAndCapped(t *testing.T) {
	ctx := baseContext()
	ctx.History = nil
	for i := 0; i < 12; i++ {
		ctx.History = append(ctx.History, types.ConversationTurn{
			UserMessage: fmt.Sprintf("question %d", i),
			AIResponse:  fmt.Sprintf("answer %d", i),
		})
	}

	out, err := fixedBuilder().Build(ctx)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if strings.Contains(out, "question 3") {
		t.Fatal("history beyond the last 8 turns must be dropped")
	}
	latest := strings.Index(out, "question 11")
	older := strings.Index(out, "question 4")
	if latest < 0 || older < 0 {
		t.Fatal("expected kept history turns in output")
	}
	if latest > older {
		t.Fatal("history must be most recent first")
	}
}

func TestBuildCapsVoiceExamplesAndMemories(t *testing.T) {
	ctx := baseContext()
	ctx.VoiceExamples = nil
	ctx.SpecificMemories = nil
	for i := 0; i < 20; i++ {
		ctx.VoiceExamples = append(ctx.VoiceExamples, fmt.Sprintf("voice %d", i))
		ctx.SpecificMemories = append(ctx.SpecificMemories, fmt.Sprintf("memory %d", i))
	}

	out, err := fixedBuilder().Build(ctx)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if strings.Contains(out, "voice 12") {
		t.Fatal("voice examples must be capped at 12")
	}
	if strings.Contains(out, "memory 8") {
		t.Fatal("specific memories must be capped at 8")
	}
}

func TestBuildRequiresPersonName(t *testing.T) {
	ctx := baseContext()
	ctx.PersonName = ""
	if _, err := fixedBuilder().Build(ctx); err == nil {
		t.Fatal("expected error for missing person name")
	}
}
