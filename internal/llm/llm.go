package llm

import (
	"context"
	"errors"
)

// Client abstracts the generative-model collaborator. Every pipeline step that
// talks to the model sends one prompt and reads back one text completion.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation for environments without model
// credentials (dev without GEMINI_API_KEY).
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
