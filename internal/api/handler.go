package api

import (
	"context"
	"time"

	"github.com/genmind-ai/backend/internal/store"
)

// ConversationService is the orchestration surface the conversation
// routes call into.
type ConversationService interface {
	StartConversation(ctx context.Context, userID string, query, filePath *string) (*store.Conversation, error)
	AddTurn(ctx context.Context, conversationID string, query, filePath *string) (*store.Turn, error)
}

// Store is the persistence surface the account and read-only
// conversation routes call into.
type Store interface {
	CreateUser(u *store.User) error
	GetUserByID(id string) (*store.User, error)
	GetUserByEmailOrPhone(email, phone string) (*store.User, error)
	GetAllUsers() ([]store.User, error)
	UpdateUser(id string, upd store.UserUpdate) error
	UpdateLastLogin(id string, t time.Time) error
	DeleteUser(id string) error
	CreateConversation(id, userID, name string) (*store.Conversation, error)
	GetConversation(id string) (*store.Conversation, error)
	GetConversationIDs(userID string) ([]string, error)
	GetConversationNames(userID string) ([]store.ConversationName, error)
}

type Handler struct {
	service   ConversationService
	store     Store
	uploadDir string
}

func NewHandler(service ConversationService, st Store, uploadDir string) *Handler {
	return &Handler{service: service, store: st, uploadDir: uploadDir}
}
