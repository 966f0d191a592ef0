package llm

import (
	"context"
	"errors"

	"github.com/example/praetor/internal/ports/secondary"
)

// ErrNoAPIKey is returned by Unconfigured for every call.
var ErrNoAPIKey = errors.New("no llm api key configured")

// Unconfigured stands in for a provider when no key is set, so the server
// still starts and chat calls fail as upstream errors.
type Unconfigured struct{}

var _ secondary.LLMClient = Unconfigured{}

func (Unconfigured) Chat(ctx context.Context, req secondary.ChatRequest) (string, error) {
	return "", ErrNoAPIKey
}

func (Unconfigured) ListModels(ctx context.Context) ([]string, error) {
	return nil, ErrNoAPIKey
}

func (Unconfigured) Name() string { return "unconfigured" }
