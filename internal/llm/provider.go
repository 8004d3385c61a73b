// Package llm is a thin, provider-neutral client for chat models. Question
// generation uses it when quizzes are produced from retrieved passages
// rather than by the knowledge base's own retrieve-and-generate call.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the
	// response Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider is configured for.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks the provider for structured JSON output.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// UserPrompt builds a Request with one user message.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the model output must satisfy.
type Schema struct {
	// Name is kebab-case, e.g. "quiz-questions". It doubles as the
	// cache key for the compiled schema.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	// Content is validated JSON for schema requests, otherwise the text
	// encoded as a JSON string.
	Content json.RawMessage

	// Text is the model output as returned.
	Text string

	Usage Usage
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish turns raw provider text into a Response, validating it when the
// request carried a schema.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	resp := &Response{Text: text, Usage: usage, Model: model, StopReason: stop}
	if req.Schema == nil {
		encoded, err := json.Marshal(text)
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		resp.Content = encoded
		return resp, nil
	}

	content := json.RawMessage(text)
	if err := validateResponse(req.Schema, content); err != nil {
		if stop == "max_tokens" {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

// resolveModel maps a short alias to a provider model id; unknown names
// pass through.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
