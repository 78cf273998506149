// Package llm talks to the large language model providers used to assist
// budgets and photo reports.
//
// Providers are used through Completer. Fallback chains several of them in a
// configured order.
package llm

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no provider is configured.
var ErrNoProvider = errors.New("no llm provider is configured")

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("llm provider returned empty response")

type Prompt struct {
	// System is the instruction for the model.
	System string

	// User is the request itself.
	User string

	// JSON requests the model to answer in JSON.
	JSON bool
}

// Completer completes a prompt.
type Completer interface {
	// Complete sends the prompt and returns the text of the answer.
	Complete(ctx context.Context, p Prompt) (string, error)

	// Name is the provider name used in logs and metrics.
	Name() string
}

// Describer describes images.
type Describer interface {
	// Describe sends image (of mime type) with prompt and returns the answer.
	Describe(ctx context.Context, image []byte, mime string, prompt string) (string, error)

	Name() string
}
