package store

import (
	"time"

	"github.com/genmind-ai/backend/internal/domain"
)

type User struct {
	ID           string     `json:"user_id"`
	Name         string     `json:"name"` // stored lowercased
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number"`
	PasswordHash string     `json:"-"` // Do not expose this in JSON responses
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// UserUpdate is a partial user document for PUT updates. Nil fields are
// left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PhoneNumber  *string
	PasswordHash *string
}

type Conversation struct {
	ID        string    `json:"conversation_id"` // UUID
	UserID    string    `json:"user_id"`
	Name      string    `json:"conversation_name"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"queries"`
}

// ConversationName pairs a conversation id with its display name.
type ConversationName struct {
	ConversationID   string `json:"conversation_id"`
	ConversationName string `json:"conversation_name"`
}

// Turn is one exchange within a conversation. At least one of QueryText
// and FilePath is set; turns are immutable once appended.
type Turn struct {
	ID             string                `json:"query_id"` // UUID
	ConversationID string                `json:"-"`
	QueryText      *string               `json:"query_text"`
	FilePath       *string               `json:"file_path"`
	Response       *domain.ModelResponse `json:"response"`
	CreatedAt      time.Time             `json:"created_at"`
}
