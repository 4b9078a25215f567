package analysis

import "strings"

// Tone labels the emotional coloring of the current message.
type Tone string

const (
	ToneStressed Tone = "stressed/frustrated"
	TonePositive Tone = "positive/happy"
	ToneNeutral  Tone = "neutral"
)

// Topic labels the broad subject of the current message.
type Topic string

const (
	TopicWork    Topic = "work"
	TopicGeneral Topic = "general"
)

// Intent is the classifier output consumed by the prompt composer.
type Intent struct {
	EmotionalTone    Tone
	TopicCategory    Topic
	ResponseStrategy string
}

// Keyword vocabularies are deliberately small and lexical: classification has
// to finish in microseconds on every turn, and a deterministic table is easy
// to audit. A model-based classifier can replace this behind the same
// signature.
var (
	stressedWords = []string{"stressed", "stress", "frustrated", "annoyed", "tired", "exhausted", "angry", "upset", "worried", "anxious", "overwhelmed", "ugh"}
	positiveWords = []string{"happy", "great", "awesome", "amazing", "excited", "love", "wonderful", "fantastic", "glad", "yay"}
	workWords     = []string{"work", "job", "boss", "meeting", "project", "deadline", "office", "colleague", "shift", "interview"}
)

// ClassifyIntent assigns tone and topic from fixed keyword lists and derives
// the response strategy from the tone alone.
func ClassifyIntent(message string) Intent {
	lowered := strings.ToLower(message)

	intent := Intent{
		EmotionalTone: ToneNeutral,
		TopicCategory: TopicGeneral,
	}

	switch {
	case containsAny(lowered, stressedWords):
		intent.EmotionalTone = ToneStressed
	case containsAny(lowered, positiveWords):
		intent.EmotionalTone = TonePositive
	}

	if containsAny(lowered, workWords) {
		intent.TopicCategory = TopicWork
	}

	switch intent.EmotionalTone {
	case ToneStressed:
		intent.ResponseStrategy = "be supportive and empathetic, acknowledge the feeling before anything else"
	case TonePositive:
		intent.ResponseStrategy = "match the energy, celebrate with them"
	default:
		intent.ResponseStrategy = "respond naturally in your usual tone"
	}
	return intent
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
