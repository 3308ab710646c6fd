package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/genmind-ai/backend/internal/domain"
)

const (
	generativeModelName = "gemini-1.5-pro"
	embeddingModelName  = "text-embedding-004"

	basePrompt = `You are an AI assistant with access to a dynamic knowledge base, capable of retrieving relevant information from trusted sources to provide accurate, clear, and contextually appropriate responses. Your responses must be provided in a simple JSON format unless subsections are specifically requested.

Guidelines for responses:
1. For simple queries, provide a direct response in JSON format:
   {
       "response": "Your clear and concise answer here"
   }

2. Only include subsections when:
   - Explicitly requested by the user
   - The query specifically asks for multiple aspects or components
   - Complex analysis is required
   In that case respond as:
   {
       "response": { "overview": "...", "components": { ... } }
   }

Your responses must be entirely focused on the user's query, and all information provided should be 100% relevant. Avoid adding unrelated details or off-topic information. Always ensure the highest quality and accuracy in your responses by utilizing your access to external knowledge.

`
)

// Client wraps the Gemini API for embeddings and JSON-constrained
// generation.
type Client struct {
	client  *genai.Client
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey string, timeout time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, timeout: timeout}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		if err := c.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

// Embed returns a fixed-dimension vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	em := c.client.EmbeddingModel(embeddingModelName)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}

// Respond builds the system+context+query prompt and invokes the model
// with fixed generation parameters. The response MIME type is pinned to
// JSON so callers always receive a structured value.
func (c *Client) Respond(ctx context.Context, retrievedContext, userQuery, history string) (*domain.ModelResponse, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, fmt.Errorf("user query is required: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(generativeModelName)
	temperature := float32(0.3)
	topP := float32(0.95)
	topK := int32(40)
	maxTokens := int32(1024)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		TopP:             &topP,
		TopK:             &topK,
		MaxOutputTokens:  &maxTokens,
		ResponseMIMEType: "application/json",
	}

	var prompt strings.Builder
	prompt.WriteString(basePrompt)
	if retrievedContext != "" {
		prompt.WriteString(retrievedContext)
		prompt.WriteString("\n\n")
	}
	if history != "" {
		prompt.WriteString(history)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString(userQuery)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return nil, fmt.Errorf("gemini generation request failed: %w: %v", domain.ErrModel, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from model: %w", domain.ErrModel)
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}
	if raw.Len() == 0 {
		return nil, fmt.Errorf("model returned no text content: %w", domain.ErrModel)
	}

	var parsed domain.ModelResponse
	if err := json.Unmarshal([]byte(raw.String()), &parsed); err != nil {
		return nil, fmt.Errorf("model output is not parseable JSON: %w: %v", domain.ErrModel, err)
	}
	return &parsed, nil
}
