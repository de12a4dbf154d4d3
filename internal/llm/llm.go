package llm

import (
	"context"
	"errors"
)

// Completer sends one prompt to a model provider and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNotConfigured is returned by the placeholder client.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrTimeout marks provider errors caused by the request running out of time.
	ErrTimeout = errors.New("llm request timeout")
)

// PlaceholderClient stands in when no provider is configured; every call fails.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
