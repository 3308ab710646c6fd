package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genmind-ai/backend/internal/domain"
	"github.com/genmind-ai/backend/internal/observability"
	"github.com/genmind-ai/backend/internal/store"
)

// ConversationStore is the slice of the persistence layer the
// orchestrator needs.
type ConversationStore interface {
	GetUserByID(id string) (*store.User, error)
	CreateConversation(id, userID, name string) (*store.Conversation, error)
	GetConversation(id string) (*store.Conversation, error)
	AppendTurn(t *store.Turn) error
}

// Ingestor vectorizes one uploaded file into the index.
type Ingestor interface {
	Ingest(ctx context.Context, userID, conversationID, filePath string) (*domain.IngestionSummary, error)
}

// ContextRetriever resolves a query into the document context string.
type ContextRetriever interface {
	Context(ctx context.Context, query, userID string) (string, error)
}

// Orchestrator runs the conversation flow: ingest an attached file,
// retrieve context for the query, call the model and record the turn.
// Persistence always comes last, so a failed ingestion or model call
// leaves no partial conversation behind.
type Orchestrator struct {
	store     ConversationStore
	ingestor  Ingestor
	retriever ContextRetriever
	generator domain.Generator
	metrics   *observability.Metrics
}

func NewOrchestrator(st ConversationStore, ingestor Ingestor, retriever ContextRetriever, generator domain.Generator, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		store:     st,
		ingestor:  ingestor,
		retriever: retriever,
		generator: generator,
		metrics:   metrics,
	}
}

// StartConversation creates a conversation for the user and, when a query
// or file is supplied, runs the first turn. The turn executes before
// anything is written: if ingestion or generation fails, no conversation
// is created.
func (o *Orchestrator) StartConversation(ctx context.Context, userID string, query, filePath *string) (*store.Conversation, error) {
	if _, err := o.store.GetUserByID(userID); err != nil {
		return nil, err
	}

	conversationID := uuid.NewString()
	name := "Conversation " + time.Now().UTC().Format(time.RFC3339)

	if query == nil && filePath == nil {
		conv, err := o.store.CreateConversation(conversationID, userID, name)
		if err != nil {
			return nil, err
		}
		return conv, nil
	}

	turn, err := o.runTurn(ctx, userID, conversationID, query, filePath, "")
	if err != nil {
		o.metrics.ObserveTurn("error")
		return nil, err
	}

	conv, err := o.store.CreateConversation(conversationID, userID, name)
	if err != nil {
		o.metrics.ObserveTurn("error")
		return nil, &PersistenceError{Response: turn.Response, Err: err}
	}
	if err := o.store.AppendTurn(turn); err != nil {
		o.metrics.ObserveTurn("error")
		return nil, &PersistenceError{Response: turn.Response, Err: err}
	}

	conv.Turns = []store.Turn{*turn}
	o.metrics.ObserveTurn("ok")
	return conv, nil
}

// AddTurn appends one exchange to an existing conversation.
func (o *Orchestrator) AddTurn(ctx context.Context, conversationID string, query, filePath *string) (*store.Turn, error) {
	if query == nil && filePath == nil {
		return nil, fmt.Errorf("either a query or a file is required: %w", domain.ErrInvalidInput)
	}

	conv, err := o.store.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}

	turn, err := o.runTurn(ctx, conv.UserID, conv.ID, query, filePath, formatHistory(conv.Turns))
	if err != nil {
		o.metrics.ObserveTurn("error")
		return nil, err
	}

	if err := o.store.AppendTurn(turn); err != nil {
		o.metrics.ObserveTurn("error")
		return nil, &PersistenceError{Response: turn.Response, Err: err}
	}
	o.metrics.ObserveTurn("ok")
	return turn, nil
}

// runTurn executes the non-persistent part of a turn: optional file
// ingestion, then optional retrieval and generation. Nothing here writes
// to the conversation store. A file-only turn never invokes the model,
// so its recorded response stays nil.
func (o *Orchestrator) runTurn(ctx context.Context, userID, conversationID string, query, filePath *string, history string) (*store.Turn, error) {
	if filePath != nil {
		if _, err := o.ingestor.Ingest(ctx, userID, conversationID, *filePath); err != nil {
			return nil, err
		}
	}

	var response *domain.ModelResponse
	if query != nil {
		retrievalStart := time.Now()
		retrieved, err := o.retriever.Context(ctx, *query, userID)
		if err != nil {
			return nil, err
		}
		o.metrics.ObserveExternalCall("retrieval", time.Since(retrievalStart))

		generateStart := time.Now()
		response, err = o.generator.Respond(ctx, retrieved, *query, history)
		if err != nil {
			return nil, err
		}
		o.metrics.ObserveExternalCall("gemini_generate", time.Since(generateStart))
	}

	return &store.Turn{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		QueryText:      query,
		FilePath:       filePath,
		Response:       response,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// formatHistory renders prior turns as alternating User/Assistant lines
// for the model prompt.
func formatHistory(turns []store.Turn) string {
	var b strings.Builder
	for _, turn := range turns {
		if turn.QueryText != nil {
			b.WriteString("User: ")
			b.WriteString(*turn.QueryText)
			b.WriteString("\n")
		}
		if turn.Response != nil {
			b.WriteString("Assistant: ")
			if turn.Response.IsStructured() {
				data, err := turn.Response.MarshalJSON()
				if err == nil {
					b.Write(data)
				}
			} else {
				b.WriteString(turn.Response.Text)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
