package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a language model. Anthropic, OpenAI,
// Gemini and OpenRouter implement it, and WithRetry and WithLogging wrap
// it.
type Provider interface {
	// Generate returns the model's reply. When req.Schema is set the
	// provider asks for native JSON output and checks the reply against
	// the schema before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Request is a single-turn call. Stages put their instructions and data in
// one user message. A reference document, when there is one, goes in
// System.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, turns on structured output. Expansion and scoring
	// may set it; recommendations are free text.
	Schema *Schema

	MaxTokens int

	// Temperature is 0..1; zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. The name identifies the compiled schema
// in the cache and is sent as the structured-output name, e.g.
// "taxonomy-expansion".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a finished reply. Content is the reply text as returned; for
// schema requests it has already passed validation.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
