// Package types holds the shared data model for the persona engine.
package types

import "time"

// Message is one historical chat line belonging to a person. Messages are
// written during import and read-only afterwards.
type Message struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
	Sender    string `json:"sender,omitempty"`
}

// VectorPoint is the persistence unit of the vector store: an embedded
// message plus its payload, addressed by a collection-unique ID.
type VectorPoint struct {
	ID      string
	Vector  []float32
	Payload Message
}

// RetrievalResult is a semantic nearest-neighbor hit. Score is a normalized
// similarity in [0,1], higher is more similar.
type RetrievalResult struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// StatisticalProfile aggregates stylistic statistics over a person's full
// corpus. All percentages are rounded to integers at the boundary.
type StatisticalProfile struct {
	AvgCharacters        int `json:"avgCharacters"`
	AvgWords             int `json:"avgWords"`
	VeryShortPercent     int `json:"veryShortPercent"`
	NoPunctuationPercent int `json:"noPunctuationPercent"`
	EmojiPercent         int `json:"emojiPercent"`
	OneWordPercent       int `json:"oneWordPercent"`
}

// ChatSession is the durable session row. The engine reads it on cache miss
// and bumps MessageCount/LastActivity after every turn.
type ChatSession struct {
	SessionID         string
	PersonName        string
	CollectionName    string
	MessageCount      int
	DetectedLanguages []string
	CreatedAt         time.Time
	LastActivity      time.Time
}

// ConversationTurn is one logged exchange: what the user said and what the
// persona answered.
type ConversationTurn struct {
	UserMessage string    `json:"userMessage"`
	AIResponse  string    `json:"aiResponse"`
	CreatedAt   time.Time `json:"createdAt"`
}
