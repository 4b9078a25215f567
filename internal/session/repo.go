// Package session manages durable session rows, logged conversation turns,
// and the per-process session cache.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/talkershq/talkers/internal/types"
)

// ErrNotFound is returned when a sessionID has no durable row.
var ErrNotFound = errors.New("session not found")

type chatSessionModel struct {
	ID                int    `gorm:"primaryKey"`
	SessionID         string `gorm:"uniqueIndex"`
	PersonName        string
	CollectionName    string
	MessageCount      int
	DetectedLanguages string
	CreatedAt         time.Time
	LastActivity      time.Time
}

func (chatSessionModel) TableName() string {
	return "chat_sessions"
}

type conversationModel struct {
	ID          int    `gorm:"primaryKey"`
	SessionID   string `gorm:"index"`
	UserMessage string
	AIResponse  string
	CreatedAt   time.Time
}

func (conversationModel) TableName() string {
	return "conversations"
}

// Repo accesses durable session and conversation data.
type Repo struct {
	db *gorm.DB
}

// NewRepo returns a Repo.
func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Get loads the durable session row for sessionID.
func (r *Repo) Get(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	var record chatSessionModel
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	session := &types.ChatSession{
		SessionID:      record.SessionID,
		PersonName:     record.PersonName,
		CollectionName: record.CollectionName,
		MessageCount:   record.MessageCount,
		CreatedAt:      record.CreatedAt,
		LastActivity:   record.LastActivity,
	}
	if record.DetectedLanguages != "" {
		session.DetectedLanguages = strings.Split(record.DetectedLanguages, ",")
	}
	return session, nil
}

// Touch bumps the message counter and activity timestamp after a turn.
func (r *Repo) Touch(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Model(&chatSessionModel{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"message_count": gorm.Expr("message_count + 1"),
			"last_activity": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to touch session %s: %w", sessionID, err)
	}
	return nil
}

// Recent returns the last n turns for a session, oldest first.
func (r *Repo) Recent(ctx context.Context, sessionID string, n int) ([]types.ConversationTurn, error) {
	var records []conversationModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(n).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query conversation history: %w", err)
	}

	results := make([]types.ConversationTurn, 0, len(records))
	for _, record := range records {
		results = append(results, types.ConversationTurn{
			UserMessage: record.UserMessage,
			AIResponse:  record.AIResponse,
			CreatedAt:   record.CreatedAt,
		})
	}

	// Oldest -> newest
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

// Add logs one completed turn.
func (r *Repo) Add(ctx context.Context, sessionID, userMessage, aiResponse string) error {
	record := conversationModel{
		SessionID:   sessionID,
		UserMessage: userMessage,
		AIResponse:  aiResponse,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert conversation turn: %w", err)
	}
	return nil
}
